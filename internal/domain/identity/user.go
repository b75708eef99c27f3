package identity

import (
	"context"
	"time"

	"github.com/mamo-store/backend/internal/domain/shared"
)

// User represents a store customer. The phone number doubles as the identity
// key: logging in with a known phone reuses the existing record.
type User struct {
	ID       string    `gorm:"primaryKey;type:varchar(32)" json:"id"`
	Name     string    `gorm:"type:varchar(100);not null" json:"name"`
	Phone    string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"phone"`
	JoinDate time.Time `json:"joinDate"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a user keyed by phone number
func NewUser(name, phone string) (*User, error) {
	if phone == "" {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone number cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(phone) > 32 {
		return nil, shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 32 characters")
	}
	return &User{
		ID:       phone,
		Name:     name,
		Phone:    phone,
		JoinDate: time.Now(),
	}, nil
}

// UserRepository defines the persistence interface for users
type UserRepository interface {
	FindByPhone(ctx context.Context, phone string) (*User, error)
	Save(ctx context.Context, user *User) error
}
