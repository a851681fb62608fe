package advisor

import (
	"time"

	"github.com/yanqian/weatherwise/internal/domain/weather"
	"github.com/yanqian/weatherwise/pkg/util"
)

// Category groups advisory items.
type Category string

const (
	CategoryClothing    Category = "clothing"
	CategoryActivity    Category = "activity"
	CategoryPreparation Category = "preparation"
	CategoryWarning     Category = "warning"
	CategoryOpportunity Category = "opportunity"
)

// Priority orders advisory items for display.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank maps a priority onto its sort weight (high=3, medium=2, low=1).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Item is one rule-triggered advisory.
type Item struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// Context carries the date-relative facts some rules depend on.
type Context struct {
	IsToday    bool `json:"isToday"`
	IsTomorrow bool `json:"isTomorrow"`
}

// NewContext derives the context of date relative to now.
func NewContext(date, now time.Time) Context {
	return Context{
		IsToday:    util.SameDay(now, date),
		IsTomorrow: util.SameDay(now.AddDate(0, 0, 1), date),
	}
}

// Input bundles everything a rule predicate may look at.
type Input struct {
	Metrics weather.Metrics
	Profile weather.Profile
	Context Context
}

// Detailed is the bucketed insight variant.
type Detailed struct {
	Warnings        []Item      `json:"warnings"`
	Recommendations []Item      `json:"recommendations"`
	Insights        []Item      `json:"insights"`
	KeyMetrics      []KeyMetric `json:"keyMetrics"`
}

// EmptyDetailed returns Detailed with non-nil buckets so it encodes as empty arrays.
func EmptyDetailed() Detailed {
	return Detailed{
		Warnings:        []Item{},
		Recommendations: []Item{},
		Insights:        []Item{},
		KeyMetrics:      []KeyMetric{},
	}
}

// KeyMetric is a profile specific headline score.
type KeyMetric struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}
