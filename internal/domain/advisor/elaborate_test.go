package advisor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weatherwise/internal/domain/weather"
)

func elaborationInput(m weather.Metrics) ElaborationInput {
	date := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	return ElaborationInput{
		Metrics:  &m,
		Location: &weather.Location{Lat: 48.85, Lng: 2.35, Label: "Paris"},
		Date:     &date,
	}
}

func TestElaborateTopics(t *testing.T) {
	in := elaborationInput(weather.Metrics{Heat: 70, Wet: 72, Windy: 20, Cold: 10, Comfort: 40})

	cases := map[string]string{
		"Take an umbrella before going out": TopicRain,
		"Plan for rainy conditions":         TopicRain,
		"Use sunscreen and stay hydrated":   TopicUV,
		"Strong UV expected":                TopicUV,
		"Bundle up - cold winds likely":     TopicCold,
		"Plan indoor family activities":     TopicIndoor,
		"Great lighting for photography":    TopicGeneric,
	}
	for title, topic := range cases {
		got := Elaborate(`Tell me more about: "`+title+`"`, in)
		require.Equal(t, topic, got.Topic, title)
	}
}

func TestElaborateRainInterpolatesMetrics(t *testing.T) {
	in := elaborationInput(weather.Metrics{Wet: 72})

	got := Elaborate(`Tell me more about: "Take an umbrella before going out"`, in)

	require.Equal(t, TopicRain, got.Topic)
	require.Contains(t, got.Text, "Paris")
	require.Contains(t, got.Text, "72%")
	require.Contains(t, got.Text, "July 1, 2024")
}

func TestElaborateGenericListsEveryMetric(t *testing.T) {
	in := elaborationInput(weather.Metrics{Heat: 11, Wet: 22, Windy: 33, Cold: 44, Comfort: 55})

	got := Elaborate("Great lighting for photography", in)

	require.Equal(t, TopicGeneric, got.Topic)
	require.Contains(t, got.Text, "Detailed Analysis: Great lighting for photography")
	for _, want := range []string{"11%", "22%", "33%", "44%", "55%"} {
		require.Contains(t, got.Text, want)
	}
}

func TestElaborateWithoutContext(t *testing.T) {
	in := elaborationInput(weather.Metrics{Wet: 72})
	in.Location = nil

	got := Elaborate(`Tell me more about: "Take an umbrella before going out"`, in)

	require.Equal(t, Elaboration{Topic: TopicFallback, Text: FallbackMessage}, got)
}

func TestElaborationTopicOrder(t *testing.T) {
	names := make([]string, 0, len(ElaborationTopics))
	for _, topic := range ElaborationTopics {
		names = append(names, topic.Name)
	}
	require.Equal(t, []string{TopicRain, TopicUV, TopicCold, TopicIndoor}, names)
}

func TestSubject(t *testing.T) {
	require.Equal(t, "Secure outdoor items", Subject(`Tell me more about: "Secure outdoor items"`))
	require.Equal(t, "Secure outdoor items", Subject("Secure outdoor items"))
}

func TestSubjectWithNonASCIILead(t *testing.T) {
	cases := map[string]string{
		"invalid utf8":      strings.Repeat("\xff", 30),
		"lowercase grows":   strings.Repeat("Ⱥ", 30),
		"lowercase shrinks": strings.Repeat("İ", 10),
		"mixed case ascii":  "please, ",
	}
	for name, lead := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, "umbrella", Subject(lead+"Tell me more about: umbrella"))
			require.NotPanics(t, func() {
				Elaborate(lead+"tell me more about: umbrella", elaborationInput(weather.Metrics{Wet: 72, Comfort: 80}))
			})
		})
	}
}

func TestPlaceNameFallsBackToCoordinates(t *testing.T) {
	require.Equal(t, "1.29, 103.85", placeName(weather.Location{Lat: 1.2903, Lng: 103.8519}))
}
