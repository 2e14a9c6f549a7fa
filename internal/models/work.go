package models

import "time"

// Work is an anime title whose broadcast slots are tracked as programs.
type Work struct {
	ID           int64      `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	WebsiteURL   *string    `db:"website_url" json:"website_url,omitempty"`
	AnnictURL    *string    `db:"annict_url" json:"annict_url,omitempty"`
	WikipediaURL *string    `db:"wikipedia_url" json:"wikipedia_url,omitempty"`
	XUsername    *string    `db:"x_username" json:"x_username,omitempty"`
	CreatedAt    *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// WorkFilter describes query params for listing works.
type WorkFilter struct {
	Search   string
	Page     int
	PageSize int
}
