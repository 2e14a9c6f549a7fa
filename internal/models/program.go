package models

import "github.com/lib/pq"

// FallbackWorkName is displayed when a program's work has no resolved title.
const FallbackWorkName = "未定"

// Program represents one broadcast slot row as stored.
type Program struct {
	ID           int64   `db:"id" json:"id"`
	WorkID       int64   `db:"work_id" json:"work_id"`
	ChannelID    int64   `db:"channel_id" json:"channel_id"`
	BlockID      *int64  `db:"block_id" json:"block_id,omitempty"`
	DayOfTheWeek int     `db:"day_of_the_week" json:"day_of_the_week"`
	StartTime    string  `db:"start_time" json:"start_time"`
	EndTime      string  `db:"end_time" json:"end_time"`
	StartDate    *string `db:"start_date" json:"start_date,omitempty"`
	Color        int     `db:"color" json:"color"`
	Version      *string `db:"version" json:"version,omitempty"`
	Note         *string `db:"note" json:"note,omitempty"`
	Order        int     `db:"order" json:"order"`
	SeasonIDs    []int64 `db:"-" json:"season_ids,omitempty"`
	TagIDs       []int64 `db:"-" json:"tag_ids,omitempty"`
}

// ProgramRecord is the flattened read model consumed by the layout engine:
// one program with its channel, area and work metadata already resolved.
type ProgramRecord struct {
	ID           int64          `db:"id" json:"id"`
	WorkID       int64          `db:"work_id" json:"work_id"`
	Name         string         `db:"name" json:"name"`
	StartDate    *string        `db:"start_date" json:"start_date,omitempty"`
	StartTime    string         `db:"start_time" json:"start_time"`
	EndTime      string         `db:"end_time" json:"end_time"`
	DayOfTheWeek int            `db:"day_of_the_week" json:"day_of_the_week"`
	ChannelID    int64          `db:"channel_id" json:"channel_id"`
	ChannelName  string         `db:"channel_name" json:"channel_name"`
	ChannelOrder int            `db:"channel_order" json:"channel_order"`
	AreaID       int64          `db:"area_id" json:"area_id"`
	AreaName     string         `db:"area_name" json:"area_name"`
	AreaOrder    int            `db:"area_order" json:"area_order"`
	Color        int            `db:"color" json:"color"`
	Version      *string        `db:"version" json:"version,omitempty"`
	Note         *string        `db:"note" json:"note,omitempty"`
	Tags         pq.StringArray `db:"tags" json:"tags"`
	WebsiteURL   *string        `db:"website_url" json:"website_url,omitempty"`
	XUsername    *string        `db:"x_username" json:"x_username,omitempty"`
	WikipediaURL *string        `db:"wikipedia_url" json:"wikipedia_url,omitempty"`
	AnnictURL    *string        `db:"annict_url" json:"annict_url,omitempty"`
}

// ProgramFilter describes query params for listing schedule records.
type ProgramFilter struct {
	DayOfTheWeek int
	SeasonID     int64
	ChannelID    int64
	WorkID       int64
	IDs          []int64
}
