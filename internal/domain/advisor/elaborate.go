package advisor

import (
	"fmt"
	"strings"
	"time"

	"github.com/yanqian/weatherwise/internal/domain/weather"
	"github.com/yanqian/weatherwise/pkg/util"
)

// ElaborationPrefix is the chat phrasing used when a suggestion card asks for detail.
const ElaborationPrefix = "tell me more about:"

// Topic names returned alongside elaboration text.
const (
	TopicRain     = "rain"
	TopicUV       = "uv"
	TopicCold     = "cold"
	TopicIndoor   = "indoor"
	TopicGeneric  = "generic"
	TopicFallback = "fallback"
)

// FallbackMessage is returned when there is no analysis to elaborate on.
const FallbackMessage = "Select a location and date above so I can explain this recommendation against your weather analysis."

// ElaborationInput is the analysis context an elaboration is rendered against.
type ElaborationInput struct {
	Metrics  *weather.Metrics
	Location *weather.Location
	Date     *time.Time
}

func (in ElaborationInput) complete() bool {
	return in.Metrics != nil && in.Location != nil && in.Date != nil
}

// Elaboration is the long form text for one advisory item.
type Elaboration struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}

type templateData struct {
	subject string
	place   string
	date    string
	m       weather.Metrics
}

// ElaborationTopic is one keyword bucket. Keywords are matched case-insensitively.
type ElaborationTopic struct {
	Name     string
	Keywords []string
	render   func(d templateData) string
}

func (t ElaborationTopic) matches(subject string) bool {
	for _, kw := range t.Keywords {
		if strings.Contains(subject, kw) {
			return true
		}
	}
	return false
}

// ElaborationTopics is evaluated top to bottom; the first match wins.
var ElaborationTopics = []ElaborationTopic{
	{Name: TopicRain, Keywords: []string{"umbrella", "rainy"}, render: renderRain},
	{Name: TopicUV, Keywords: []string{"sunscreen", "uv"}, render: renderUV},
	{Name: TopicCold, Keywords: []string{"bundle up", "cold"}, render: renderCold},
	{Name: TopicIndoor, Keywords: []string{"indoor", "family"}, render: renderIndoor},
}

// Subject extracts the item title from a "Tell me more about: ..." request.
func Subject(source string) string {
	subject := source
	if idx := indexPrefix(source); idx >= 0 {
		subject = source[idx+len(ElaborationPrefix):]
	}
	return strings.Trim(strings.TrimSpace(subject), `"'`)
}

// indexPrefix finds ElaborationPrefix case-insensitively by byte offset in source.
// Lowercasing the whole string first is not safe: it changes byte lengths for
// invalid UTF-8 and for some non-ASCII letters.
func indexPrefix(source string) int {
	n := len(ElaborationPrefix)
	for i := 0; i+n <= len(source); i++ {
		if asciiFoldEqual(source[i:i+n], ElaborationPrefix) {
			return i
		}
	}
	return -1
}

// asciiFoldEqual compares s with the lowercase ASCII string lower, folding only A-Z.
func asciiFoldEqual(s, lower string) bool {
	for i := 0; i < len(lower); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != lower[i] {
			return false
		}
	}
	return true
}

// Elaborate returns the canned long form text for the item named in source.
func Elaborate(source string, in ElaborationInput) Elaboration {
	subject := Subject(source)
	if subject == "" || !in.complete() {
		return Elaboration{Topic: TopicFallback, Text: FallbackMessage}
	}
	data := templateData{
		subject: subject,
		place:   placeName(*in.Location),
		date:    util.LongDate(*in.Date),
		m:       *in.Metrics,
	}
	lowered := strings.ToLower(subject)
	for _, topic := range ElaborationTopics {
		if topic.matches(lowered) {
			return Elaboration{Topic: topic.Name, Text: topic.render(data)}
		}
	}
	return Elaboration{Topic: TopicGeneric, Text: renderGeneric(data)}
}

func placeName(loc weather.Location) string {
	if strings.TrimSpace(loc.Label) != "" {
		return loc.Label
	}
	return fmt.Sprintf("%.2f, %.2f", loc.Lat, loc.Lng)
}

func renderRain(d templateData) string {
	return fmt.Sprintf(`**Umbrella Recommendation for %s**

There's a %d%% probability of significant rainfall on %s.

**Why this matters:**
- This precipitation level typically produces 15-25mm of rainfall
- Peak rain hours usually fall between 2-6 PM
- Expect cloud cover of 70-85%%

**Specific Recommendations:**
- Carry a compact umbrella rated for gusts up to 35 km/h
- Consider waterproof footwear if walking outdoors
- Allow an extra 15-20 minutes for commute delays
- Keep important items in waterproof bags`, d.place, d.m.Wet, d.date)
}

func renderUV(d templateData) string {
	return fmt.Sprintf(`**UV Protection Advisory for %s**

Solar exposure is elevated on %s with a %d%% probability of intense heat.

**UV Analysis:**
- Expected UV Index: 8-11 (Very High to Extreme)
- Clear sky probability: %d%%
- Peak UV hours: 10 AM - 4 PM

**Protection Protocol:**
- SPF 30+ sunscreen, reapplied every 2 hours
- UVA/UVB protective clothing
- Seek shade during peak hours
- Hydrate frequently (2-3 liters)`, d.place, d.date, d.m.Heat, 100-d.m.Wet)
}

func renderCold(d templateData) string {
	humidity := "Moderate"
	if d.m.Wet > 50 {
		humidity = "High - increases perceived cold"
	}
	return fmt.Sprintf(`**Cold Weather Protection for %s**

There's a %d%% probability of significant cold conditions on %s.

**Temperature Analysis:**
- Expected low: 3-8°C below seasonal average
- Wind chill: an additional 5-10°C reduction
- Humidity: %s

**Layering Strategy:**
- Base layer: moisture-wicking thermal wear
- Insulation: wool or synthetic fill jacket
- Outer shell: wind and water resistant
- Extremities: insulated gloves, warm hat, thermal socks`, d.place, d.m.Cold, d.date, humidity)
}

func renderIndoor(d templateData) string {
	return fmt.Sprintf(`**Indoor Family Activity Recommendations**

Conditions in %s on %s are challenging outdoors (Comfort Index: %d%%).

**Why Indoor Activities:**
- Rain probability: %d%%
- Temperature stress: %d%% risk
- Wind conditions: %d%% likelihood of strong gusts

**Family-Friendly Options:**
- Museums with interactive exhibits
- Indoor play centers with climate control
- Community centers with activities
- Home activities: cooking, crafts, board games`,
		d.place, d.date, d.m.Comfort, d.m.Wet, max(d.m.Heat, d.m.Cold), d.m.Windy)
}

func renderGeneric(d templateData) string {
	return fmt.Sprintf(`**Detailed Analysis: %s**

Weather risk profile for %s on %s:

- Heat Risk: %d%%
- Precipitation Risk: %d%%
- Wind Risk: %d%%
- Cold Risk: %d%%

**Overall Comfort Assessment:** %d%%`,
		d.subject, d.place, d.date, d.m.Heat, d.m.Wet, d.m.Windy, d.m.Cold, d.m.Comfort)
}
