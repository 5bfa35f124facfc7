package model

import (
	"encoding/json"
	"time"
)

const DateLayout = "2006-01-02"

// TimestampLayout always writes three fractional digits, like a browser's
// Date.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	DueDate     *string   `json:"dueDate,omitempty"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	return json.Marshal(struct {
		plain
		CreatedAt string `json:"createdAt"`
		UpdatedAt string `json:"updatedAt"`
	}{
		plain:     plain(t),
		CreatedAt: t.CreatedAt.UTC().Format(TimestampLayout),
		UpdatedAt: t.UpdatedAt.UTC().Format(TimestampLayout),
	})
}

// HasDescription reports whether the task carries a non-empty description.
func (t Task) HasDescription() bool {
	return t.Description != nil && *t.Description != ""
}

func (t Task) HasDueDate() bool {
	return t.DueDate != nil && *t.DueDate != ""
}
