package extract

import (
	"strings"
	"time"

	"github.com/buildply/intake/internal/order"
)

// urgencyKeywords maps urgency levels to trigger phrases, matched
// case-insensitively as substrings of the input text.
var urgencyKeywords = []struct {
	level    order.Urgency
	keywords []string
}{
	{order.UrgencyHigh, []string{"urgent", "urgently", "asap", "immediately", "today", "tomorrow", "critical", "emergency"}},
	{order.UrgencyMedium, []string{"soon", "needed", "required", "priority"}},
	{order.UrgencyLow, []string{"eventually", "when possible"}},
}

// Deadline proximity thresholds.
const (
	highUrgencyDays   = 7
	mediumUrgencyDays = 30
)

// InferUrgency computes a fallback urgency from the input text and an
// optional parsed deadline.
//
// Default precedence is keyword match over deadline proximity. That
// ordering is a known deficiency (a stated deadline three days out
// should arguably beat a mild "needed") but it is the documented
// behavior; deadlineFirst flips it for callers who want proximity to
// win. With neither signal the answer is low.
func InferUrgency(text string, deadline *string, now time.Time, deadlineFirst bool) order.Urgency {
	if deadlineFirst {
		if u, ok := urgencyFromDeadline(deadline, now); ok {
			return u
		}
		if u, ok := urgencyFromKeywords(text); ok {
			return u
		}
		return order.UrgencyLow
	}

	if u, ok := urgencyFromKeywords(text); ok {
		return u
	}
	if u, ok := urgencyFromDeadline(deadline, now); ok {
		return u
	}
	return order.UrgencyLow
}

func urgencyFromKeywords(text string) (order.Urgency, bool) {
	lower := strings.ToLower(text)
	for _, entry := range urgencyKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.level, true
			}
		}
	}
	return "", false
}

func urgencyFromDeadline(deadline *string, now time.Time) (order.Urgency, bool) {
	if deadline == nil {
		return "", false
	}
	d, ok := parseISODate(*deadline)
	if !ok {
		return "", false
	}

	daysUntil := int(d.Sub(now).Hours() / 24)
	switch {
	case daysUntil < highUrgencyDays:
		return order.UrgencyHigh, true
	case daysUntil < mediumUrgencyDays:
		return order.UrgencyMedium, true
	default:
		return order.UrgencyLow, true
	}
}
