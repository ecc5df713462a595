package models

import "time"

type Service struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	MechanicID  uint      `json:"mechanic_id" gorm:"not null"`
	Mechanic    User      `json:"mechanic,omitempty" gorm:"foreignKey:MechanicID"`
	Name        string    `json:"name" gorm:"not null"`
	Price       float64   `json:"price" gorm:"not null"`
	ServiceType string    `json:"service_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
