package dto

import "time"

// TokenRequest is presented by the identity bridge to mint actor tokens.
type TokenRequest struct {
	ActorID      string `json:"actor_id"`
	DepartmentID string `json:"department_id"`
	Role         string `json:"role"`
	ServiceKey   string `json:"service_key"`
}

// TokenResponse carries the signed JWT.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
