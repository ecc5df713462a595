package models

import "time"

// RequestStatus represents all possible states of a service request
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusAccepted  RequestStatus = "accepted"
	StatusCompleted RequestStatus = "completed"
	StatusCancelled RequestStatus = "cancelled"
)

type ServiceRequest struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Reference  string `json:"reference" gorm:"uniqueIndex"`
	CustomerID uint   `json:"customer_id" gorm:"not null"`
	Customer   User   `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	// A request may bundle services from more than one mechanic; the join
	// table mirrors the many-to-many shape of the persistence schema.
	Services    []Service     `json:"services,omitempty" gorm:"many2many:service_request_services"`
	Description string        `json:"description"`
	Address     string        `json:"address" gorm:"not null"`
	RequestLat  float64       `json:"request_lat"`
	RequestLng  float64       `json:"request_lng"`
	Status      RequestStatus `json:"status" gorm:"not null;default:'pending'"`
	// Price fields are computed once at creation and never recomputed on
	// status change.
	TripDistanceKm float64                `json:"trip_distance_km"`
	TripPrice      float64                `json:"trip_price"`
	TotalPrice     float64                `json:"total_price"`
	StatusHistory  []RequestStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:RequestID"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// RequestStatusHistory tracks every status change — audit trail
type RequestStatusHistory struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	RequestID  uint          `json:"request_id" gorm:"not null"`
	FromStatus RequestStatus `json:"from_status"`
	ToStatus   RequestStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint          `json:"changed_by"` // user ID who triggered the transition
	Note       string        `json:"note"`
	CreatedAt  time.Time     `json:"created_at"`
}
