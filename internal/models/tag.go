package models

// Tag is a display annotation attached to programs (e.g. 字, 新, 終).
type Tag struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Order int    `db:"order" json:"order"`
}
