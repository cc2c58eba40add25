package domain

import "time"

// Verification es un codigo de un solo uso para confirmar email o
// restablecer password. Se borra al consumirse.
type Verification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired indica si el codigo ya no es valido en el instante dado.
func (v Verification) Expired(now time.Time) bool {
	return v.ExpiresAt.Before(now)
}
