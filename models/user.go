package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Phone     string    `json:"phone"`
	Role      string    `gorm:"type:varchar(20);not null;default:'CUSTOMER'" json:"role"`
	Addresses []Address `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}

// Address is a saved delivery address of a user.
type Address struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID       string    `gorm:"type:varchar(64);index;not null" json:"user_id"`
	Label        string    `json:"label"`
	Street       string    `gorm:"not null" json:"street"`
	City         string    `gorm:"not null" json:"city"`
	PostalCode   string    `gorm:"not null" json:"postal_code"`
	Province     string    `json:"province"`
	Instructions string    `json:"instructions"`
	IsDefault    bool      `gorm:"not null" json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Actor is whoever is calling an operation. An empty UserID is a guest.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsGuest() bool { return a.UserID == "" }

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
