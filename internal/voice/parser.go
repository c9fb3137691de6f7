package voice

import (
	"regexp"
	"strings"
	"time"
)

// serviceKeywords maps a catalog category to the phrases that select it.
// Categories are checked in this fixed order so that a transcript mentioning
// several phrases resolves deterministically.
var serviceCategories = []string{"wash", "dry", "iron", "dryclean", "special"}

var serviceKeywords = map[string][]string{
	"wash":     {"wash", "washing", "laundry", "clean", "fold", "wash and fold"},
	"dry":      {"dry", "drying", "tumble dry", "dry only"},
	"iron":     {"iron", "ironing", "press", "pressing", "wash and iron"},
	"dryclean": {"dry clean", "dry cleaning", "dryclean", "delicate"},
	"special":  {"special", "special care", "luxury", "delicate care", "silk", "cashmere"},
}

var (
	bookPattern         = regexp.MustCompile(`(?i)\b(book|schedule|order|need|want|get|make|set up|arrange)\b`)
	cancelPattern       = regexp.MustCompile(`(?i)\b(cancel|remove|delete|stop|undo)\b`)
	listServicesPattern = regexp.MustCompile(`(?i)\b(what|which|list|show|tell me|services|options|offer|available)\b.*\b(service|offer|have|available|do you)\b`)
	statusPattern       = regexp.MustCompile(`(?i)\b(status|where|track|check|my booking|my order)\b`)
	expressPattern      = regexp.MustCompile(`(?i)\b(express|urgent|fast|quick|same day|same-day|rush)\b`)
)

// Parser extracts booking commands from transcripts. Now is injectable so
// that relative dates ("tomorrow", "next Friday") resolve deterministically
// in tests; it defaults to time.Now.
type Parser struct {
	Now func() time.Time
}

// NewParser returns a parser using the wall clock.
func NewParser() *Parser {
	return &Parser{Now: time.Now}
}

// Parse classifies the transcript and, for booking intents, extracts the
// service hint, pickup date, pickup time, and express flag. It never returns
// an error: unrecognized text yields IntentNone with zero confidence.
func (p *Parser) Parse(transcript string) Command {
	text := strings.ToLower(strings.TrimSpace(transcript))

	cmd := Command{Original: transcript}
	cmd.Intent = detectIntent(text)

	switch cmd.Intent {
	case IntentBook:
		cmd.Service = extractService(text)
		cmd.Date = p.extractDate(text)
		cmd.Time = extractTime(text)
		cmd.Express = expressPattern.MatchString(text)
		cmd.Confidence = confidence(cmd)
	case IntentListServices, IntentCancel, IntentStatus:
		cmd.Confidence = 0.9
	}
	return cmd
}

// detectIntent applies the intent rules in priority order. The question
// pattern runs first so "what services do you offer" is not misread as a
// booking; the service-keyword fallback runs last.
func detectIntent(text string) Intent {
	if listServicesPattern.MatchString(text) {
		return IntentListServices
	}
	if cancelPattern.MatchString(text) {
		return IntentCancel
	}
	if statusPattern.MatchString(text) {
		return IntentStatus
	}
	if bookPattern.MatchString(text) {
		return IntentBook
	}
	// No verb matched: any service keyword still implies a booking.
	for _, category := range serviceCategories {
		for _, keyword := range serviceKeywords[category] {
			if strings.Contains(text, keyword) {
				return IntentBook
			}
		}
	}
	return IntentNone
}

// extractService picks the category of the longest matching keyword, so
// "dry cleaning" resolves to dryclean rather than to the shorter "dry" or
// "clean" matches. Ties break on category order.
func extractService(text string) string {
	best := ""
	bestLen := 0
	for _, category := range serviceCategories {
		for _, keyword := range serviceKeywords[category] {
			if strings.Contains(text, keyword) && len(keyword) > bestLen {
				best = category
				bestLen = len(keyword)
			}
		}
	}
	return best
}

// confidence weights the extracted fields: a fully resolved booking command
// scores 1.0.
func confidence(cmd Command) float64 {
	score := 0.0
	if cmd.Intent == IntentBook {
		score += 0.3
	}
	if cmd.Service != "" {
		score += 0.25
	}
	if cmd.Date != "" {
		score += 0.25
	}
	if cmd.Time != "" {
		score += 0.2
	}
	return score
}
