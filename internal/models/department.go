package models

import "time"

// Department represents a department; the name is its display value and must be unique
type Department struct {
	ID        int       `json:"id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
