package model

import (
	"time"
)

type Goal struct {
	ID          int64     `db:"id" json:"id" msgpack:"id"`
	UserID      string    `db:"user_id" json:"user_id" msgpack:"user_id"`
	ChannelID   string    `db:"channel_id" json:"channel_id" msgpack:"channel_id"`
	Description string    `db:"description" json:"description" msgpack:"description"`
	DueDate     time.Time `db:"due_date" json:"due_date" msgpack:"due_date"`
	CreatedAt   time.Time `db:"created_at" json:"created_at" msgpack:"created_at"`
}

// Overdue reports whether the due date is strictly before now.
func (g *Goal) Overdue(now time.Time) bool {
	return g.DueDate.Before(now)
}
