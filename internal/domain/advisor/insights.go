package advisor

import (
	"math"

	"github.com/yanqian/weatherwise/internal/domain/weather"
)

func warning(id, title, desc string) Item {
	return Item{ID: id, Category: CategoryWarning, Priority: PriorityHigh, Title: title, Description: desc}
}

func recommend(id string, c Category, title, desc string) Item {
	return Item{ID: id, Category: c, Priority: PriorityMedium, Title: title, Description: desc}
}

func positive(id, title, desc string) Item {
	return Item{ID: id, Category: CategoryOpportunity, Priority: PriorityLow, Title: title, Description: desc}
}

func when(pred func(Input) bool, item Item) Rule {
	return Rule{ID: item.ID, When: pred, Emit: fixed(item)}
}

// InsightRules holds the detailed, per profile rule sets.
var InsightRules = map[weather.Profile][]Rule{
	weather.ProfileFamily: {
		when(func(in Input) bool { return in.Metrics.Cold > 70 },
			warning("family-cold", "Very cold conditions expected", "Pack warm clothing for children")),
		when(func(in Input) bool { return in.Metrics.Heat > 70 },
			warning("family-heat", "High heat probability", "Plan indoor activities during peak hours")),
		when(func(in Input) bool { return in.Metrics.Wet > 60 },
			recommend("family-rain", CategoryPreparation, "Bring rain gear", "Plan backup indoor activities")),
		when(func(in Input) bool { return in.Metrics.Comfort > 70 },
			positive("family-outdoors", "Great conditions for family outdoor activities", "Picnics and park visits recommended")),
	},
	weather.ProfileFarmer: {
		when(func(in Input) bool { return in.Metrics.Wet > 80 },
			warning("farmer-flood", "High precipitation risk", "Delay planting or harvesting operations")),
		when(func(in Input) bool { return in.Metrics.Wet < 20 && in.Metrics.Heat > 60 },
			warning("farmer-drought", "Dry and hot conditions", "Increase irrigation planning")),
		when(func(in Input) bool { return in.Metrics.Wet >= 30 && in.Metrics.Wet <= 60 },
			positive("farmer-moisture", "Moderate moisture levels", "Good for crop growth")),
		when(func(in Input) bool { return in.Metrics.Cold > 70 },
			warning("farmer-frost", "Frost risk", "Protect sensitive crops")),
	},
	weather.ProfilePlanner: {
		when(func(in Input) bool { return in.Metrics.Wet > 50 },
			warning("planner-rain", "Rain probability high", "Consider covered venues or tent rentals")),
		when(func(in Input) bool { return in.Metrics.Windy > 60 },
			warning("planner-wind", "High wind probability", "Secure decorations and outdoor setups")),
		when(func(in Input) bool { return in.Metrics.Comfort > 80 },
			positive("planner-outdoors", "Excellent conditions for outdoor events", "Gatherings can stay outside")),
		when(func(in Input) bool { return in.Metrics.Heat > 75 },
			recommend("planner-heat", CategoryPreparation, "Provide shade and cooling stations", "Plan extra hydration for guests")),
	},
	weather.ProfileAdventurer: {
		when(func(in Input) bool { return in.Metrics.Windy > 70 },
			warning("adventurer-wind", "High wind conditions", "Check equipment and route safety")),
		when(func(in Input) bool { return in.Metrics.Wet > 70 },
			recommend("adventurer-rain", CategoryPreparation, "Waterproof gear essential", "Consider alternative routes")),
		when(func(in Input) bool { return in.Metrics.Comfort > 60 && in.Metrics.Windy < 50 },
			positive("adventurer-outdoors", "Good conditions for outdoor adventures", "Hiking and trail routes look favourable")),
		when(func(in Input) bool { return in.Metrics.Cold > 60 },
			recommend("adventurer-cold", CategoryClothing, "Cold weather gear required", "Check for altitude effects")),
	},
}

var challengingConditions = when(func(in Input) bool { return in.Metrics.Comfort < 40 },
	warning("general-challenging", "Overall challenging weather conditions expected", "Keep plans flexible"))

// Insights derives the detailed variant for profile. Nothing is produced without
// metrics or without a selected profile.
func Insights(m *weather.Metrics, profile weather.Profile) Detailed {
	rules, ok := InsightRules[profile]
	if m == nil || !ok {
		return EmptyDetailed()
	}
	rules = append(append([]Rule(nil), rules...), challengingConditions)
	items := Evaluate(rules, Input{Metrics: *m, Profile: profile})

	out := EmptyDetailed()
	if km := KeyMetrics(*m, profile); km != nil {
		out.KeyMetrics = km
	}
	for _, item := range items {
		switch item.Category {
		case CategoryWarning:
			out.Warnings = append(out.Warnings, item)
		case CategoryOpportunity:
			out.Insights = append(out.Insights, item)
		default:
			out.Recommendations = append(out.Recommendations, item)
		}
	}
	return out
}

// KeyMetrics returns the two headline scores shown for a profile.
func KeyMetrics(m weather.Metrics, profile weather.Profile) []KeyMetric {
	switch profile {
	case weather.ProfileFamily:
		return []KeyMetric{
			{Label: "Safety Score", Value: max(0, 100-max(m.Heat, m.Cold))},
			{Label: "Comfort Level", Value: m.Comfort},
		}
	case weather.ProfileFarmer:
		return []KeyMetric{
			{Label: "Crop Conditions", Value: min(100, 100-m.Wet+30)},
			{Label: "Growing Score", Value: max(0, 100-m.Cold)},
		}
	case weather.ProfilePlanner:
		return []KeyMetric{
			{Label: "Event Viability", Value: max(0, 100-max(m.Wet, m.Windy))},
			{Label: "Outdoor Rating", Value: m.Comfort},
		}
	case weather.ProfileAdventurer:
		score := math.Max(0, float64(m.Comfort)-float64(m.Windy)*0.3)
		return []KeyMetric{
			{Label: "Adventure Score", Value: int(math.Round(score))},
			{Label: "Visibility", Value: max(0, 100-m.Wet)},
		}
	default:
		return nil
	}
}
