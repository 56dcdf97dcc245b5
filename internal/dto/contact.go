package dto

import "strings"

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Subject string `json:"subject" validate:"required,max=255"`
	Message string `json:"message" validate:"required,max=10000"`
}

func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
}

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// Normalize trims the address. Case is preserved: uniqueness is by exact
// match and the column collation decides case sensitivity.
func (r *SubscribeRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}
