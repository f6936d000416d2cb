package models

import "time"

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status string    `json:"status" example:"healthy"`
	Time   time.Time `json:"time" example:"2025-06-12T09:00:00Z"`
}
