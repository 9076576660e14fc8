// Package order provides the shared order record types.
// This package has no dependencies on other intake packages to avoid import cycles.
package order

// Urgency indicates how quickly an order needs to be fulfilled.
type Urgency string

const (
	// UrgencyHigh indicates the order is needed within days.
	UrgencyHigh Urgency = "high"
	// UrgencyMedium indicates the order is needed within weeks.
	UrgencyMedium Urgency = "medium"
	// UrgencyLow indicates no particular time pressure.
	UrgencyLow Urgency = "low"
)

// ParseUrgency converts a string to an Urgency.
// Returns false if the string is not a recognized urgency level.
func ParseUrgency(s string) (Urgency, bool) {
	switch Urgency(s) {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return Urgency(s), true
	default:
		return "", false
	}
}

// FieldNames is the closed set of keys an order record may carry.
// Repair drops anything outside this set and nulls anything missing from it.
var FieldNames = []string{
	"material_name",
	"quantity",
	"unit",
	"project_name",
	"location",
	"urgency",
	"deadline",
}

// Order is a material order extracted from a free-text request.
// Every field except Urgency is nullable: absent information stays nil
// rather than being guessed. All seven keys are always serialized, so
// the JSON shape is fixed regardless of how sparse the input was.
type Order struct {
	MaterialName *string  `json:"material_name"`
	Quantity     *float64 `json:"quantity"`
	Unit         *string  `json:"unit"`
	ProjectName  *string  `json:"project_name"`
	Location     *string  `json:"location"`
	Urgency      Urgency  `json:"urgency"`
	Deadline     *string  `json:"deadline"` // ISO date (YYYY-MM-DD)
}

// Fallback returns the terminal record used when extraction gives up:
// every field null except urgency, which keeps its conservative default.
func Fallback() Order {
	return Order{Urgency: UrgencyLow}
}

// Result pairs an extracted Order with the input it came from.
// A failed extraction is tagged via Error; the Order itself never
// carries an error marker, so its seven-key shape stays intact.
type Result struct {
	Order
	InputText string `json:"input_text"`
	Error     string `json:"error,omitempty"`

	// Attempts counts LLM invocations made for this input.
	// Not persisted; used for logging and tests.
	Attempts int `json:"-"`
}

// Failed reports whether extraction exhausted its retries for this input.
func (r Result) Failed() bool {
	return r.Error != ""
}

// String helpers for building nullable fields.

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 { return &f }
