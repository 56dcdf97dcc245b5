package dto

import (
	"time"

	apperrors "angelina/internal/errors"
)

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool                         `json:"success"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
