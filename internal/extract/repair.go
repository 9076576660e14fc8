package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/buildply/intake/internal/order"
)

// Repair normalizes a parsed payload into a conformant Order. It never
// rejects: missing keys become null, keys outside the schema are
// dropped, type mismatches are coerced or nulled, and empty or literal
// "null" strings become null. Repair is idempotent - feeding its output
// back through produces the same record.
//
// text is the original request, used for urgency and relative-date
// fallbacks when the payload carries an invalid value.
func Repair(fields map[string]any, text string, now time.Time, deadlineFirst bool) order.Order {
	var o order.Order

	o.MaterialName = repairString(fields["material_name"])
	o.Unit = repairString(fields["unit"])
	o.ProjectName = repairString(fields["project_name"])
	o.Location = repairString(fields["location"])
	o.Quantity = repairQuantity(fields["quantity"])
	o.Deadline = repairDeadline(fields["deadline"], text, now)

	// Urgency last: the proximity fallback needs the repaired deadline.
	if s, ok := fields["urgency"].(string); ok {
		if u, valid := order.ParseUrgency(s); valid {
			o.Urgency = u
		}
	}
	if o.Urgency == "" {
		o.Urgency = InferUrgency(text, o.Deadline, now, deadlineFirst)
	}

	return o
}

// repairString coerces a value into a non-empty string or nil.
// Non-string scalars are stringified rather than dropped.
func repairString(v any) *string {
	var s string
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s = val
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(val)
	default:
		// Objects and arrays in a string field are noise, not data.
		return nil
	}

	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil
	}
	return &s
}

// repairQuantity coerces a value into a number or nil. String digits
// are accepted since models occasionally quote quantities.
func repairQuantity(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case string:
		val = strings.TrimSpace(val)
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}

// repairDeadline keeps a valid ISO date, falls back to parsing a
// relative date phrase from the original text, and otherwise nulls.
func repairDeadline(v any, text string, now time.Time) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil
	}

	if d, ok := parseISODate(s); ok {
		formatted := d.Format(isoDate)
		return &formatted
	}
	return ParseRelativeDate(text, now)
}

// Conformant reports whether a repaired order would survive Repair
// unchanged; mainly a helper for tests asserting idempotence.
func Conformant(o order.Order) error {
	if _, ok := order.ParseUrgency(string(o.Urgency)); !ok {
		return fmt.Errorf("invalid urgency %q", o.Urgency)
	}
	if o.Deadline != nil {
		if _, ok := parseISODate(*o.Deadline); !ok {
			return fmt.Errorf("invalid deadline %q", *o.Deadline)
		}
	}
	return nil
}
