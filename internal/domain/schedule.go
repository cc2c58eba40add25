package domain

import "time"

// Schedule representa una visita agendada a una propiedad.
type Schedule struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	UserID     string    `json:"user_id"`
	Date       time.Time `json:"date"`
	Time       string    `json:"time"`
	CreatedAt  time.Time `json:"created_at"`
}
