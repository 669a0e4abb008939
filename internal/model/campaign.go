package model

import (
	"time"

	"github.com/lib/pq"
)

const (
	ChannelWhatsapp = "whatsapp"
	ChannelEmail    = "email"
)

// Pacing bounds applied when a campaign row stores zeroes.
const (
	DefaultIntervalMinSeconds = 30
	DefaultIntervalMaxSeconds = 90
)

type Campaign struct {
	ID                 int            `db:"id" json:"id"`
	UserID             int            `db:"user_id" json:"user_id"`
	Name               string         `db:"name" json:"name"`
	Status             string         `db:"status" json:"status"`
	Channels           pq.StringArray `db:"channels" json:"channels"`
	ListName           string         `db:"list_name" json:"list_name"`
	Message            string         `db:"message" json:"message"`
	IntervalMinSeconds int            `db:"interval_min_seconds" json:"interval_min_seconds"`
	IntervalMaxSeconds int            `db:"interval_max_seconds" json:"interval_max_seconds"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          *time.Time     `db:"updated_at" json:"updated_at,omitempty"`
}

// PacingBounds returns the inter-recipient delay range in seconds,
// falling back to the defaults when the row has no explicit bounds.
func (c *Campaign) PacingBounds() (min, max int) {
	min, max = c.IntervalMinSeconds, c.IntervalMaxSeconds
	if min <= 0 {
		min = DefaultIntervalMinSeconds
	}
	if max <= 0 {
		max = DefaultIntervalMaxSeconds
	}
	if max < min {
		max = min
	}
	return min, max
}
