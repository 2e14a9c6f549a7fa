package models

// Fallback labels for rows whose channel or area relation failed to resolve.
// Programs with broken references still have to appear somewhere in the grid.
const (
	FallbackChannelName = "不明なチャンネル"
	FallbackAreaName    = "不明なエリア"
)

// Area is a geographic broadcast region grouping channels.
type Area struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Order int    `db:"order" json:"order"`
}

// Channel is a broadcast channel belonging to exactly one area.
type Channel struct {
	ID     int64  `db:"id" json:"id"`
	AreaID int64  `db:"area_id" json:"area_id"`
	Name   string `db:"name" json:"name"`
	Order  int    `db:"order" json:"order"`

	AreaName  *string `db:"area_name" json:"area_name,omitempty"`
	AreaOrder *int    `db:"area_order" json:"area_order,omitempty"`
}
