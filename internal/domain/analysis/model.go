package analysis

import (
	"github.com/yanqian/weatherwise/internal/domain/advisor"
	"github.com/yanqian/weatherwise/internal/domain/weather"
)

// Request describes one dashboard analysis.
type Request struct {
	Location *weather.Location `json:"location"`
	Date     string            `json:"date"`
	Profile  string            `json:"profile"`
}

// Response carries the synthesized metrics and everything derived from them.
// Ready is false when location or date is missing; the rest is then empty.
type Response struct {
	Ready       bool              `json:"ready"`
	Location    *weather.Location `json:"location,omitempty"`
	Date        string            `json:"date,omitempty"`
	Season      string            `json:"season,omitempty"`
	Profile     weather.Profile   `json:"profile"`
	Metrics     *weather.Metrics  `json:"metrics,omitempty"`
	RiskLabel   string            `json:"riskLabel,omitempty"`
	Context     advisor.Context   `json:"context"`
	Suggestions []advisor.Item    `json:"suggestions"`
	Insights    advisor.Detailed  `json:"insights"`
}

// Variant selects how advisories are shaped.
type Variant string

const (
	VariantSuggestions Variant = "suggestions"
	VariantDetailed    Variant = "detailed"
)

// AdviseRequest derives advisories from metrics the caller already holds.
type AdviseRequest struct {
	Metrics *weather.Metrics `json:"metrics"`
	Profile string           `json:"profile"`
	Context advisor.Context  `json:"context"`
	Variant Variant          `json:"variant"`
}

// AdviseResponse holds either the compact list or the bucketed insights.
type AdviseResponse struct {
	Variant     Variant           `json:"variant"`
	Suggestions []advisor.Item    `json:"suggestions,omitempty"`
	Insights    *advisor.Detailed `json:"insights,omitempty"`
}

// ElaborateRequest asks for long form text about one advisory item.
type ElaborateRequest struct {
	Subject  string            `json:"subject"`
	Metrics  *weather.Metrics  `json:"metrics"`
	Location *weather.Location `json:"location"`
	Date     string            `json:"date"`
}

// ChatRequest is one chat message with the dashboard context attached.
type ChatRequest struct {
	Message  string            `json:"message"`
	Profile  string            `json:"profile"`
	Metrics  *weather.Metrics  `json:"metrics"`
	Location *weather.Location `json:"location"`
	Date     string            `json:"date"`
}

// ChatResponse is the assistant reply plus follow-up prompts.
type ChatResponse struct {
	Reply            advisor.Reply `json:"reply"`
	SuggestedQueries []string      `json:"suggestedQueries"`
}
