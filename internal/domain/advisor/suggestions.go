package advisor

import (
	"fmt"
	"sort"

	"github.com/yanqian/weatherwise/internal/domain/weather"
)

// MaxSuggestions caps the compact suggestion variant.
const MaxSuggestions = 6

// Rule emits one advisory item when its predicate holds.
type Rule struct {
	ID   string
	When func(in Input) bool
	Emit func(in Input) Item
}

func profileIs(p weather.Profile) func(Input) bool {
	return func(in Input) bool { return in.Profile == p }
}

func wetAbove60(in Input) bool   { return in.Metrics.Wet > 60 }
func heatAbove65(in Input) bool  { return in.Metrics.Heat > 65 }
func coldAbove50(in Input) bool  { return in.Metrics.Cold > 50 }
func windyAbove55(in Input) bool { return in.Metrics.Windy > 55 }
func comfortAbove75(in Input) bool {
	return in.Metrics.Comfort > 75
}

func all(preds ...func(Input) bool) func(Input) bool {
	return func(in Input) bool {
		for _, p := range preds {
			if !p(in) {
				return false
			}
		}
		return true
	}
}

func fixed(item Item) func(Input) Item {
	return func(Input) Item { return item }
}

// SuggestionRules is evaluated top to bottom. Every firing rule contributes its item.
var SuggestionRules = []Rule{
	{
		ID:   "umbrella",
		When: wetAbove60,
		Emit: func(in Input) Item {
			title := "Plan for rainy conditions"
			if in.Context.IsToday {
				title = "Take an umbrella before going out"
			}
			desc := fmt.Sprintf("%d%% chance of precipitation expected", in.Metrics.Wet)
			if in.Context.IsTomorrow {
				desc = "Tomorrow: " + desc
			}
			return Item{ID: "umbrella", Category: CategoryPreparation, Priority: PriorityHigh, Title: title, Description: desc}
		},
	},
	{
		ID:   "indoor-activities",
		When: all(wetAbove60, profileIs(weather.ProfileFamily)),
		Emit: fixed(Item{ID: "indoor-activities", Category: CategoryActivity, Priority: PriorityMedium,
			Title: "Plan indoor family activities", Description: "Museums, malls, or indoor play areas recommended"}),
	},
	{
		ID:   "delay-irrigation",
		When: all(wetAbove60, profileIs(weather.ProfileFarmer)),
		Emit: fixed(Item{ID: "delay-irrigation", Category: CategoryOpportunity, Priority: PriorityHigh,
			Title: "Delay irrigation systems", Description: "Natural rainfall expected - save water costs"}),
	},
	{
		ID:   "venue-backup",
		When: all(wetAbove60, profileIs(weather.ProfilePlanner)),
		Emit: fixed(Item{ID: "venue-backup", Category: CategoryWarning, Priority: PriorityHigh,
			Title: "Secure covered venue backup", Description: "High rain risk - confirm indoor alternatives"}),
	},
	{
		ID:   "sunscreen",
		When: heatAbove65,
		Emit: fixed(Item{ID: "sunscreen", Category: CategoryPreparation, Priority: PriorityHigh,
			Title: "Use sunscreen and stay hydrated", Description: "Strong UV expected - SPF 30+ recommended"}),
	},
	{
		ID:   "heat-safety",
		When: all(heatAbove65, profileIs(weather.ProfileFamily)),
		Emit: fixed(Item{ID: "heat-safety", Category: CategoryWarning, Priority: PriorityHigh,
			Title: "Extra care for children and elderly", Description: "Frequent water breaks and shade essential"}),
	},
	{
		ID:   "early-start",
		When: all(heatAbove65, profileIs(weather.ProfileAdventurer)),
		Emit: fixed(Item{ID: "early-start", Category: CategoryActivity, Priority: PriorityMedium,
			Title: "Start outdoor activities early", Description: "Beat the heat - plan for dawn to 10 AM"}),
	},
	{
		ID:   "bundle-up",
		When: coldAbove50,
		Emit: fixed(Item{ID: "bundle-up", Category: CategoryClothing, Priority: PriorityHigh,
			Title: "Bundle up - cold winds likely", Description: "Layer clothing and protect extremities"}),
	},
	{
		ID:   "protect-crops",
		When: all(coldAbove50, profileIs(weather.ProfileFarmer)),
		Emit: fixed(Item{ID: "protect-crops", Category: CategoryWarning, Priority: PriorityHigh,
			Title: "Protect sensitive crops", Description: "Cover plants or move to greenhouse"}),
	},
	{
		ID:   "secure-items",
		When: windyAbove55,
		Emit: fixed(Item{ID: "secure-items", Category: CategoryPreparation, Priority: PriorityMedium,
			Title: "Secure outdoor items", Description: "Strong winds expected - bring in loose objects"}),
	},
	{
		ID:   "avoid-decorations",
		When: all(windyAbove55, profileIs(weather.ProfilePlanner)),
		Emit: fixed(Item{ID: "avoid-decorations", Category: CategoryWarning, Priority: PriorityHigh,
			Title: "Avoid lightweight decorations", Description: "Wind may damage balloons, banners, tents"}),
	},
	{
		ID:   "outdoor-fun",
		When: all(comfortAbove75, profileIs(weather.ProfileFamily)),
		Emit: fixed(Item{ID: "outdoor-fun", Category: CategoryOpportunity, Priority: PriorityMedium,
			Title: "Perfect day for outdoor family time", Description: "Parks, picnics, and playground activities ideal"}),
	},
	{
		ID:   "adventure-time",
		When: all(comfortAbove75, profileIs(weather.ProfileAdventurer)),
		Emit: fixed(Item{ID: "adventure-time", Category: CategoryOpportunity, Priority: PriorityHigh,
			Title: "Excellent conditions for hiking", Description: "Great visibility and comfortable temperatures"}),
	},
	{
		ID:   "outdoor-event",
		When: all(comfortAbove75, profileIs(weather.ProfilePlanner)),
		Emit: fixed(Item{ID: "outdoor-event", Category: CategoryOpportunity, Priority: PriorityHigh,
			Title: "Ideal for outdoor events", Description: "Low weather risk - perfect for ceremonies"}),
	},
	{
		ID:   "cycling-weather",
		When: comfortAbove75,
		Emit: fixed(Item{ID: "cycling-weather", Category: CategoryActivity, Priority: PriorityLow,
			Title: "Good day for cycling", Description: "Low rain risk and moderate wind conditions"}),
	},
	{
		ID:   "avoid-laundry",
		When: func(in Input) bool { return in.Metrics.Wet > 40 && in.Metrics.Heat > 40 },
		Emit: fixed(Item{ID: "avoid-laundry", Category: CategoryPreparation, Priority: PriorityLow,
			Title: "Avoid washing clothes tonight", Description: "High overnight humidity - slow drying expected"}),
	},
	{
		ID:   "photography",
		When: func(in Input) bool { return in.Metrics.Comfort > 60 && in.Metrics.Wet < 30 },
		Emit: fixed(Item{ID: "photography", Category: CategoryOpportunity, Priority: PriorityLow,
			Title: "Great lighting for photography", Description: "Clear skies and good visibility expected"}),
	},
}

// Evaluate runs rules in declaration order and returns every emitted item, sorted by priority.
func Evaluate(rules []Rule, in Input) []Item {
	items := make([]Item, 0, len(rules))
	for _, r := range rules {
		if r.When(in) {
			items = append(items, r.Emit(in))
		}
	}
	SortByPriority(items)
	return items
}

// SortByPriority orders items high to low, keeping declaration order among equals.
func SortByPriority(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority.Rank() > items[j].Priority.Rank()
	})
}

// Suggestions derives the compact card list. A nil metrics value yields no suggestions.
func Suggestions(m *weather.Metrics, profile weather.Profile, ctx Context) []Item {
	if m == nil {
		return nil
	}
	items := Evaluate(SuggestionRules, Input{Metrics: *m, Profile: profile, Context: ctx})
	if len(items) > MaxSuggestions {
		items = items[:MaxSuggestions]
	}
	return items
}
