package models

import "time"

// TimelineEventType distinguishes work creation from update events.
type TimelineEventType string

const (
	TimelineEventCreate TimelineEventType = "create"
	TimelineEventUpdate TimelineEventType = "update"
)

// TimelineEvent is one entry in the recent-updates feed.
type TimelineEvent struct {
	ID   string            `json:"id"`
	Type TimelineEventType `json:"type"`
	Date time.Time         `json:"date"`
	Work TimelineWork      `json:"work"`
}

// TimelineWork is the work summary embedded in a timeline event.
type TimelineWork struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	WebsiteURL *string `json:"website_url,omitempty"`
}
