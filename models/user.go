package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleMechanic UserRole = "mechanic"
)

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Name         string   `json:"name" gorm:"not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"not null;default:'customer'"`
	Phone        string   `json:"phone"`
	// Mechanic-only fields: a fixed shop location used for matching and trip
	// pricing. Customers never carry coordinates.
	ShopAddress string    `json:"shop_address,omitempty"`
	Lat         *float64  `json:"lat,omitempty"`
	Lng         *float64  `json:"lng,omitempty"`
	Services    []Service `json:"services,omitempty" gorm:"foreignKey:MechanicID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasLocation reports whether both coordinates are set. Mechanics without a
// location are skipped by the matcher and rejected by the pricing calculator.
func (u *User) HasLocation() bool {
	return u.Lat != nil && u.Lng != nil
}
