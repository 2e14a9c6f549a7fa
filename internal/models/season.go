package models

import "fmt"

// Season is a cour (year + starting month) programs are assigned to.
type Season struct {
	ID     int64  `db:"id" json:"id"`
	Year   int    `db:"year" json:"year"`
	Month  int    `db:"month" json:"month"`
	Active bool   `db:"active" json:"active"`
	Name   string `db:"-" json:"name"`
}

// DisplayName renders the season label shown in the season selector.
func (s Season) DisplayName() string {
	return fmt.Sprintf("%d年%d月", s.Year, s.Month)
}
