package weather

import "strings"

// Location is a selected point on the globe.
type Location struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

// Profile is the user intent tag that reweights metrics and advisory rules.
type Profile string

const (
	ProfileNone       Profile = ""
	ProfileFamily     Profile = "family"
	ProfileFarmer     Profile = "farmer"
	ProfilePlanner    Profile = "planner"
	ProfileAdventurer Profile = "adventurer"
)

// Profiles lists the enumerated profiles in display order.
var Profiles = []Profile{ProfileFamily, ProfileFarmer, ProfilePlanner, ProfileAdventurer}

// ParseProfile maps free text onto a known profile. Unknown values fall back to ProfileNone.
func ParseProfile(raw string) Profile {
	p := Profile(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Profiles {
		if p == known {
			return p
		}
	}
	return ProfileNone
}

// DisplayName is the human label used by reports and insights.
func (p Profile) DisplayName() string {
	switch p {
	case ProfileFamily:
		return "Family"
	case ProfileFarmer:
		return "Farmer"
	case ProfilePlanner:
		return "Event Planner"
	case ProfileAdventurer:
		return "Adventurer"
	default:
		return "General"
	}
}

// Metrics is the complete set of bounded percentage scores for one analysis.
type Metrics struct {
	Heat    int `json:"heat"`
	Wet     int `json:"wet"`
	Windy   int `json:"windy"`
	Cold    int `json:"cold"`
	Comfort int `json:"comfort"`
}

// Multipliers scale the four base scores for a profile.
type Multipliers struct {
	Heat  float64 `yaml:"heat" json:"heat"`
	Wet   float64 `yaml:"wet" json:"wet"`
	Windy float64 `yaml:"windy" json:"windy"`
	Cold  float64 `yaml:"cold" json:"cold"`
}

// ComfortWeights are the per-metric penalties subtracted from 100. They sum to 1.
type ComfortWeights struct {
	Hot   float64 `yaml:"hot" json:"hot"`
	Wet   float64 `yaml:"wet" json:"wet"`
	Windy float64 `yaml:"windy" json:"windy"`
	Cold  float64 `yaml:"cold" json:"cold"`
}

// Sum returns the total weight.
func (w ComfortWeights) Sum() float64 {
	return w.Hot + w.Wet + w.Windy + w.Cold
}

func (w ComfortWeights) normalized() ComfortWeights {
	sum := w.Sum()
	if sum <= 0 {
		return w
	}
	return ComfortWeights{Hot: w.Hot / sum, Wet: w.Wet / sum, Windy: w.Windy / sum, Cold: w.Cold / sum}
}

// ProfileTuning pairs the multiplier and comfort weight entries of one profile.
type ProfileTuning struct {
	Multipliers Multipliers    `yaml:"multipliers" json:"multipliers"`
	Weights     ComfortWeights `yaml:"weights" json:"weights"`
}

// Tuning is the explicit profile table used by the synthesizer.
type Tuning struct {
	Default  ComfortWeights            `yaml:"default" json:"default"`
	Profiles map[Profile]ProfileTuning `yaml:"profiles" json:"profiles"`
}

var identity = Multipliers{Heat: 1, Wet: 1, Windy: 1, Cold: 1}

// DefaultTuning returns the stock table. Weight quadruples are normalized to sum to 1.
func DefaultTuning() Tuning {
	return Tuning{
		Default: ComfortWeights{Hot: 0.3, Wet: 0.2, Windy: 0.2, Cold: 0.3},
		Profiles: map[Profile]ProfileTuning{
			ProfileFamily: {
				Multipliers: Multipliers{Heat: 1.2, Wet: 1, Windy: 1.1, Cold: 1.2},
				Weights:     ComfortWeights{Hot: 0.4, Wet: 0.2, Windy: 0.2, Cold: 0.4}.normalized(),
			},
			ProfileFarmer: {
				Multipliers: Multipliers{Heat: 1.1, Wet: 1.3, Windy: 1, Cold: 1.1},
				Weights:     ComfortWeights{Hot: 0.3, Wet: 0.4, Windy: 0.1, Cold: 0.3}.normalized(),
			},
			ProfilePlanner: {
				Multipliers: Multipliers{Heat: 1, Wet: 1.4, Windy: 1.3, Cold: 1},
				Weights:     ComfortWeights{Hot: 0.2, Wet: 0.4, Windy: 0.3, Cold: 0.2}.normalized(),
			},
			ProfileAdventurer: {
				Multipliers: Multipliers{Heat: 0.9, Wet: 1.1, Windy: 1.2, Cold: 0.9},
				Weights:     ComfortWeights{Hot: 0.2, Wet: 0.3, Windy: 0.3, Cold: 0.2},
			},
		},
	}
}

// For resolves the multipliers and weights for p, falling back to identity and defaults.
func (t Tuning) For(p Profile) ProfileTuning {
	if entry, ok := t.Profiles[p]; ok {
		return entry
	}
	return ProfileTuning{Multipliers: identity, Weights: t.Default}
}

// RiskLabel grades a comfort index for the gauge caption.
func RiskLabel(comfort int) string {
	switch {
	case comfort >= 70:
		return "Low Risk"
	case comfort >= 40:
		return "Moderate Risk"
	default:
		return "High Risk"
	}
}

// Season names the meteorological season of a zero-based month (northern hemisphere).
func Season(month int) string {
	switch {
	case month >= 2 && month <= 4:
		return "Spring"
	case month >= 5 && month <= 7:
		return "Summer"
	case month >= 8 && month <= 10:
		return "Autumn"
	default:
		return "Winter"
	}
}
