package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account kinds that drive dashboard selection.
type Role string

const (
	RoleStudent     Role = "student"
	RoleInstructor  Role = "instructor"
	RoleCoordinator Role = "coordinator"
)

// DefaultRole is assigned when registration omits a role.
const DefaultRole = RoleStudent

// Roles lists every accepted role in display order.
var Roles = []Role{RoleStudent, RoleInstructor, RoleCoordinator}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleCoordinator:
		return true
	}
	return false
}

// ParseRole maps raw input to a Role. Empty input yields DefaultRole.
func ParseRole(raw string) (Role, bool) {
	if raw == "" {
		return DefaultRole, true
	}
	r := Role(raw)
	return r, r.Valid()
}

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"size:20;not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName pins the table name used by the migrations.
func (User) TableName() string {
	return "users"
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Public strips the password hash and timestamps.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// Identity returns the fields embedded in session tokens.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

// PublicUser is the non-secret view of a User returned to clients.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// Identity is what a successful login proves about the caller.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}
