package calendar

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/yanqian/weatherwise/internal/domain/weather"
	apperrors "github.com/yanqian/weatherwise/pkg/errors"
	"github.com/yanqian/weatherwise/pkg/util"
)

// Service builds monthly risk calendars.
type Service interface {
	Build(ctx context.Context, req Request) (Calendar, error)
}

type service struct {
	jitter weather.Jitter
	logger *slog.Logger
}

// NewService wires up the calendar domain. A nil jitter yields the baseline risk only.
func NewService(jitter weather.Jitter, logger *slog.Logger) Service {
	if jitter == nil {
		jitter = weather.ZeroJitter{}
	}
	return &service{jitter: jitter, logger: logger.With("component", "calendar.service")}
}

func (s *service) Build(_ context.Context, req Request) (Calendar, error) {
	if req.Month < 1 || req.Month > 12 {
		return Calendar{}, apperrors.Wrap(apperrors.CodeInvalidInput, "month must be between 1 and 12", nil)
	}
	if req.Year < 1 || req.Year > 9999 {
		return Calendar{}, apperrors.Wrap(apperrors.CodeInvalidInput, "year must be between 1 and 9999", nil)
	}
	cal := Build(req, s.jitter)
	s.logger.Debug("risk calendar built", "year", cal.Year, "month", cal.Month, "high_days", cal.Summary.High)
	return cal, nil
}

// Build charts every day of the requested month. The request must already be valid.
func Build(req Request, jitter weather.Jitter) Calendar {
	profile := weather.ParseProfile(req.Profile)
	first := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	seasonal := math.Sin(float64(req.Month-1)/12*2*math.Pi) * 0.3

	cal := Calendar{
		Year:         req.Year,
		Month:        req.Month,
		MonthName:    first.Month().String(),
		FirstWeekday: int(first.Weekday()),
		Profile:      profile,
		Days:         make([]Day, 0, daysInMonth),
	}
	for day := 1; day <= daysInMonth; day++ {
		risk := jitter.Next(1)
		if req.Location != nil {
			risk += math.Abs(req.Location.Lat) / 90 * 0.2
		}
		risk += profileAdjustment(profile, day)
		risk = math.Max(0, math.Min(1, risk+seasonal))

		level := Level(risk)
		switch level {
		case LevelHigh:
			cal.Summary.High++
		case LevelMedium:
			cal.Summary.Medium++
		default:
			cal.Summary.Low++
		}

		cal.Days = append(cal.Days, Day{
			Day:   day,
			Date:  first.AddDate(0, 0, day-1).Format(util.DateLayout),
			Risk:  int(math.Round(risk * 100)),
			Level: level,
			Details: Details{
				Temperature:   int(math.Round(20 + jitter.Next(20) + seasonal*10)),
				Precipitation: int(math.Round(risk * 80)),
				Wind:          int(math.Round(10 + jitter.Next(30))),
				Humidity:      int(math.Round(40 + jitter.Next(40))),
			},
		})
	}
	return cal
}

// Level buckets a 0..1 risk value.
func Level(risk float64) string {
	switch {
	case risk > 0.7:
		return LevelHigh
	case risk > 0.4:
		return LevelMedium
	default:
		return LevelLow
	}
}

func profileAdjustment(p weather.Profile, day int) float64 {
	switch p {
	case weather.ProfileFarmer:
		return math.Sin(float64(day)/30*math.Pi) * 0.2
	case weather.ProfilePlanner:
		return 0.1
	case weather.ProfileFamily:
		return 0.05
	case weather.ProfileAdventurer:
		return -0.1
	default:
		return 0
	}
}
