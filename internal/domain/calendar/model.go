package calendar

import "github.com/yanqian/weatherwise/internal/domain/weather"

// Risk levels assigned to calendar days.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Request selects the month to chart. Month is 1-12.
type Request struct {
	Year     int               `json:"year"`
	Month    int               `json:"month"`
	Location *weather.Location `json:"location,omitempty"`
	Profile  string            `json:"profile"`
}

// Details are the simulated conditions shown for a selected day.
type Details struct {
	Temperature   int `json:"temperature"`
	Precipitation int `json:"precipitation"`
	Wind          int `json:"wind"`
	Humidity      int `json:"humidity"`
}

// Day is one cell of the risk calendar.
type Day struct {
	Day     int     `json:"day"`
	Date    string  `json:"date"`
	Risk    int     `json:"risk"`
	Level   string  `json:"level"`
	Details Details `json:"details"`
}

// Summary counts days per risk level.
type Summary struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Calendar is a full month of simulated risk.
type Calendar struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	MonthName    string          `json:"monthName"`
	FirstWeekday int             `json:"firstWeekday"`
	Profile      weather.Profile `json:"profile"`
	Days         []Day           `json:"days"`
	Summary      Summary         `json:"summary"`
}
