package weather

import (
	"math"
	"time"
)

// Jitter spans per base score.
const (
	heatJitter  = 20
	wetJitter   = 25
	windyJitter = 20
	coldJitter  = 15
)

// Synthesizer turns (location, date, profile) into simulated risk metrics.
type Synthesizer struct {
	tuning Tuning
	jitter Jitter
}

// NewSynthesizer wires a synthesizer. A nil jitter behaves like ZeroJitter.
func NewSynthesizer(tuning Tuning, jitter Jitter) *Synthesizer {
	if jitter == nil {
		jitter = ZeroJitter{}
	}
	if tuning.Profiles == nil {
		tuning = DefaultTuning()
	}
	return &Synthesizer{tuning: tuning, jitter: jitter}
}

// Synthesize produces a complete Metrics value. Every field is within [0,100].
func (s *Synthesizer) Synthesize(loc Location, date time.Time, profile Profile) Metrics {
	month := float64(int(date.Month()) - 1)
	lat := math.Abs(loc.Lat)

	seasonal := math.Sin(month / 12 * 2 * math.Pi)
	latFactor := lat / 90

	heat := clamp(30 + seasonal*40 + (90-lat)*0.5 + s.jitter.Next(heatJitter))
	wet := clamp(25 + math.Sin((month+3)/12*2*math.Pi)*30 + s.jitter.Next(wetJitter))
	windy := clamp(20 + latFactor*30 + s.jitter.Next(windyJitter))
	cold := clamp(10 + (1-seasonal)*35 + latFactor*25 + s.jitter.Next(coldJitter))

	entry := s.tuning.For(profile)
	heat = clamp(heat * entry.Multipliers.Heat)
	wet = clamp(wet * entry.Multipliers.Wet)
	windy = clamp(windy * entry.Multipliers.Windy)
	cold = clamp(cold * entry.Multipliers.Cold)

	return Metrics{
		Heat:    round(heat),
		Wet:     round(wet),
		Windy:   round(windy),
		Cold:    round(cold),
		Comfort: round(comfort(heat, wet, windy, cold, entry.Weights)),
	}
}

// ComfortIndex computes round(100 - weighted sum) clamped to [0,100].
func ComfortIndex(heat, wet, windy, cold float64, w ComfortWeights) int {
	return round(comfort(clamp(heat), clamp(wet), clamp(windy), clamp(cold), w))
}

func comfort(heat, wet, windy, cold float64, w ComfortWeights) float64 {
	return clamp(100 - (heat*w.Hot + wet*w.Wet + windy*w.Windy + cold*w.Cold))
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func round(v float64) int {
	return int(math.Round(v))
}
