package session

import (
	"context"
	"time"

	"github.com/yanqian/weatherwise/internal/domain/weather"
)

// Trigger names the widget that changed the inputs.
type Trigger string

const (
	TriggerMap      Trigger = "map"
	TriggerSearch   Trigger = "search"
	TriggerDate     Trigger = "date"
	TriggerCalendar Trigger = "calendar"
	TriggerProfile  Trigger = "profile"
)

// State is the dashboard's transient selection plus the last landed analysis.
type State struct {
	ID              string            `json:"id"`
	Location        *weather.Location `json:"location,omitempty"`
	Date            *time.Time        `json:"date,omitempty"`
	Profile         weather.Profile   `json:"profile"`
	Trigger         Trigger           `json:"trigger,omitempty"`
	Metrics         *weather.Metrics  `json:"metrics,omitempty"`
	Loading         bool              `json:"loading"`
	ShowSuggestions bool              `json:"showSuggestions"`
	Revision        int64             `json:"revision"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// Ready reports whether both location and date are selected.
func (s State) Ready() bool {
	return s.Location != nil && s.Date != nil
}

// Update is a partial change of the inputs. Nil fields are left untouched.
type Update struct {
	Location *weather.Location
	Date     *time.Time
	Profile  *weather.Profile
	Trigger  Trigger
}

// Store keeps session state between requests.
type Store interface {
	Get(ctx context.Context, id string) (State, bool, error)
	Save(ctx context.Context, state State, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Config tunes the simulated load timing.
type Config struct {
	LoadDelay       time.Duration
	SuggestionDelay time.Duration
	TTL             time.Duration
}
