package advisor

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/weatherwise/internal/domain/weather"
	"github.com/yanqian/weatherwise/pkg/util"
)

// Reply topics that are not elaborations.
const (
	TopicProfile = "profile"
	TopicKeyword = "keyword"
	TopicGeneral = "general"
)

var genericReplies = []string{
	"I work from two decades of historical weather probabilities. Select a location, date, and profile above for detailed weather intelligence!",
	"I provide historical weather probability analysis. Choose your parameters above for personalized insights and actionable recommendations!",
	"Set your location and date above, then ask me specific questions about planning and preparation!",
}

type keywordReply struct {
	keywords []string
	text     string
}

var keywordReplies = []keywordReply{
	{
		keywords: []string{"weather", "rain", "temperature"},
		text:     "I can provide detailed weather probability analysis. Please select a location and date above for personalized insights, or choose a user profile for tailored recommendations!",
	},
	{
		keywords: []string{"farm", "crop", "agriculture"},
		text:     "For agricultural planning I look at precipitation patterns and temperature trends. Select the Farmer profile and choose your location and date for specific crop recommendations!",
	},
	{
		keywords: []string{"event", "wedding", "party"},
		text:     "For event planning I examine precipitation risk, wind patterns, and comfort. Switch to the Event Planner profile for venue recommendations and backup planning strategies!",
	},
	{
		keywords: []string{"adventure", "hiking", "outdoor"},
		text:     "For outdoor adventures I assess visibility, wind conditions, and safety factors. Select the Adventurer profile for route planning and gear recommendations!",
	},
}

// ChatInput is one user message plus the current analysis context.
type ChatInput struct {
	Message string
	Profile weather.Profile
	ElaborationInput
}

// Reply is the assistant's answer to a chat message.
type Reply struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}

// Responder produces canned chat replies.
type Responder struct {
	mu   sync.Mutex
	pick func(n int) int
}

// NewResponder builds a responder. A nil pick draws generic replies at random.
func NewResponder(pick func(n int) int) *Responder {
	if pick == nil {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		pick = rnd.Intn
	}
	return &Responder{pick: pick}
}

// Reply answers a chat message.
func (r *Responder) Reply(in ChatInput) Reply {
	lowered := strings.ToLower(in.Message)
	if strings.Contains(lowered, ElaborationPrefix) {
		if e := Elaborate(in.Message, in.ElaborationInput); e.Topic != TopicFallback {
			return Reply{Topic: e.Topic, Text: e.Text}
		}
	}

	if in.complete() {
		if text, ok := profileReply(in); ok {
			return Reply{Topic: TopicProfile, Text: text}
		}
	}

	for _, kr := range keywordReplies {
		for _, kw := range kr.keywords {
			if strings.Contains(lowered, kw) {
				return Reply{Topic: TopicKeyword, Text: kr.text}
			}
		}
	}

	r.mu.Lock()
	idx := r.pick(len(genericReplies))
	r.mu.Unlock()
	if idx < 0 || idx >= len(genericReplies) {
		idx = 0
	}
	return Reply{Topic: TopicGeneral, Text: genericReplies[idx]}
}

func profileReply(in ChatInput) (string, bool) {
	m := *in.Metrics
	place := placeName(*in.Location)
	date := util.LongDate(*in.Date)

	switch in.Profile {
	case weather.ProfileFarmer:
		switch {
		case m.Wet > 70:
			return fmt.Sprintf("For farming in %s on %s there is a %d%% rainfall probability. Delay planting by 7-14 days if possible, install drainage, and favour greenhouse crops such as lettuce and herbs. This pattern typically lasts 3-5 days.", place, date, m.Wet), true
		case m.Heat > 70:
			return fmt.Sprintf("For farming in %s on %s there is a %d%% extreme heat probability. Switch to heat-tolerant varieties like okra and peppers, increase irrigation by 40%%, and plant in the early morning or late evening. Provide extra shade for livestock.", place, date, m.Heat), true
		default:
			return fmt.Sprintf("Excellent farming conditions in %s on %s (Comfort Index: %d%%). Tomatoes, cucumbers and leafy greens are in demand, field work and harvesting are ideal, and soil moisture suits cultivation.", place, date, m.Comfort), true
		}
	case weather.ProfileFamily:
		if m.Cold > 60 || m.Heat > 60 {
			risk, gear := fmt.Sprintf("Heat: %d", m.Heat), "sun hats, SPF 50+ sunscreen, cooling towels"
			if m.Cold > 60 {
				risk, gear = fmt.Sprintf("Cold: %d", m.Cold), "winter coats, gloves, warm boots"
			}
			return fmt.Sprintf("Family safety alert for %s on %s: extreme temperature risk (%s%%). Plan indoor activities, pack %s, keep extra water and a first aid kit, and consider rescheduling to %s.",
				place, date, risk, gear, util.ShortDate(in.Date.AddDate(0, 0, 7))), true
		}
		return fmt.Sprintf("Perfect family weather in %s on %s with a %d%% comfort rating. Parks, picnics, outdoor sports and family photos are all on the table.", place, date, m.Comfort), true
	case weather.ProfilePlanner:
		if m.Wet > 60 || m.Windy > 60 {
			kind, value, timing := "wind", m.Windy, "late afternoon is typically calmer"
			if m.Wet > 60 {
				kind, value, timing = "precipitation", m.Wet, "morning slots carry less rain risk"
			}
			return fmt.Sprintf("Event planning advisory for %s on %s: %s risk (%d%%). Book covered or indoor backup venues, rent heavy-duty tents and weighted signage, and send guests updates 24-48 hours ahead; %s. Consider rescheduling to %s.",
				place, date, kind, value, timing, util.ShortDate(in.Date.AddDate(0, 0, 3))), true
		}
		return fmt.Sprintf("Outstanding event conditions in %s on %s with a %d%% optimal rating. Garden parties, outdoor catering and lightweight decorations are safe.", place, date, m.Comfort), true
	case weather.ProfileAdventurer:
		if m.Windy > 70 {
			return fmt.Sprintf("Adventure alert for %s on %s: %d%% high wind probability. Prefer sheltered activities and valley trails over exposed peaks, secure loose gear, carry emergency shelter, and expect calmer conditions 4-6 days later.", place, date, m.Windy), true
		}
		return fmt.Sprintf("Epic adventure conditions in %s on %s with a %d%% adventure rating. Hiking, climbing, kayaking and multi-day trips all look good.", place, date, m.Comfort), true
	}
	return "", false
}

// SuggestedQueries lists starter prompts for the assistant.
func SuggestedQueries(profile weather.Profile, place string, hasContext bool) []string {
	if !hasContext {
		return generalQueries()
	}
	switch profile {
	case weather.ProfileFarmer:
		return []string{
			fmt.Sprintf("What crops should I plant in %s?", place),
			"Is this good weather for harvesting?",
			"What are the best market opportunities right now?",
			"Should I delay planting due to weather risks?",
			"What protective measures should I take?",
		}
	case weather.ProfilePlanner:
		return []string{
			"Is it safe to plan an outdoor event?",
			"What backup plans should I prepare?",
			"Should I book indoor venues instead?",
			"What equipment do I need for this weather?",
			"When would be better dates for my event?",
		}
	case weather.ProfileFamily:
		return []string{
			"Is this weather safe for children?",
			"What indoor activities do you recommend?",
			"Should we reschedule our family outing?",
			"What safety precautions should we take?",
			"Are there better dates for family activities?",
		}
	case weather.ProfileAdventurer:
		return []string{
			"Is this weather good for hiking?",
			"What gear should I pack for these conditions?",
			"Are there safer routes I should consider?",
			"Should I postpone my adventure trip?",
			"What are the visibility conditions?",
		}
	}
	return generalQueries()
}

func generalQueries() []string {
	return []string{
		"How accurate is your weather analysis?",
		"What data sources do you use?",
		"How can I get personalized recommendations?",
		"Can you help me plan around weather risks?",
		"What profiles do you support?",
	}
}
