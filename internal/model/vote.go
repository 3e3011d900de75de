package model

import (
	"fmt"
	"time"
)

// Vote references a goal by ID only. The goal may no longer exist.
type Vote struct {
	UserID    string    `db:"user_id" json:"user_id" msgpack:"user_id"`
	GoalID    int64     `db:"goal_id" json:"goal_id" msgpack:"goal_id"`
	Vote      bool      `db:"vote" json:"vote" msgpack:"vote"`
	CreatedAt time.Time `db:"created_at" json:"created_at" msgpack:"created_at"`
}

type Tally struct {
	For     int
	Against int
}

// Passed requires a strict majority of cast votes. Ties do not pass.
func (t Tally) Passed() bool {
	return t.For > t.Against
}

func (t Tally) String() string {
	return fmt.Sprintf("For: %d, Against: %d", t.For, t.Against)
}

// TallyVotes partitions votes by choice.
func TallyVotes(votes []*Vote) Tally {
	var t Tally
	for _, v := range votes {
		if v.Vote {
			t.For++
		} else {
			t.Against++
		}
	}
	return t
}
