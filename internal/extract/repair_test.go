package extract

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/buildply/intake/internal/order"
)

var repairNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func TestRepair_FillsMissingKeysWithNull(t *testing.T) {
	o := Repair(map[string]any{"material_name": "steel bars"}, "Need steel bars", repairNow, false)

	if o.MaterialName == nil || *o.MaterialName != "steel bars" {
		t.Errorf("MaterialName = %v", o.MaterialName)
	}
	if o.Quantity != nil || o.Unit != nil || o.ProjectName != nil || o.Location != nil || o.Deadline != nil {
		t.Errorf("missing fields should be null: %+v", o)
	}
	if o.Urgency != order.UrgencyLow {
		t.Errorf("Urgency = %q, want low", o.Urgency)
	}
}

func TestRepair_DropsExtraKeys(t *testing.T) {
	o := Repair(map[string]any{
		"material_name": "cement",
		"urgency":       "low",
		"confidence":    0.9,
		"notes":         "model added this",
	}, "need cement", repairNow, false)

	b, err := json.Marshal(o)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(m) != len(order.FieldNames) {
		t.Fatalf("expected exactly %d keys, got %d: %s", len(order.FieldNames), len(m), b)
	}
	for _, f := range order.FieldNames {
		if _, ok := m[f]; !ok {
			t.Errorf("missing key %q", f)
		}
	}
}

func TestRepair_NormalizesEmptyAndLiteralNull(t *testing.T) {
	o := Repair(map[string]any{
		"material_name": "",
		"unit":          "null",
		"project_name":  "   ",
		"location":      "Mumbai-West",
		"urgency":       "low",
	}, "some text", repairNow, false)

	if o.MaterialName != nil {
		t.Errorf("empty string should become null, got %v", *o.MaterialName)
	}
	if o.Unit != nil {
		t.Errorf("literal \"null\" should become null, got %v", *o.Unit)
	}
	if o.ProjectName != nil {
		t.Errorf("whitespace-only string should become null, got %v", *o.ProjectName)
	}
	if o.Location == nil || *o.Location != "Mumbai-West" {
		t.Errorf("Location = %v", o.Location)
	}
}

func TestRepair_Quantity(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *float64
	}{
		{"number preserved", 200.0, order.Float64Ptr(200)},
		{"decimal preserved exactly", 2.5, order.Float64Ptr(2.5)},
		{"numeric string coerced", "350", order.Float64Ptr(350)},
		{"decimal string coerced", "2.5", order.Float64Ptr(2.5)},
		{"non-numeric string nulled", "a few", nil},
		{"boolean nulled", true, nil},
		{"null stays null", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Repair(map[string]any{"quantity": tt.value, "urgency": "low"}, "x", repairNow, false)
			if tt.want == nil {
				if o.Quantity != nil {
					t.Errorf("Quantity = %v, want null", *o.Quantity)
				}
				return
			}
			if o.Quantity == nil || *o.Quantity != *tt.want {
				t.Errorf("Quantity = %v, want %v", o.Quantity, *tt.want)
			}
		})
	}
}

func TestRepair_InvalidUrgencyUsesHeuristic(t *testing.T) {
	t.Run("keyword rescues invalid enum", func(t *testing.T) {
		o := Repair(map[string]any{"urgency": "CRITICAL!!"}, "need this urgently", repairNow, false)
		if o.Urgency != order.UrgencyHigh {
			t.Errorf("Urgency = %q, want high", o.Urgency)
		}
	})

	t.Run("deadline proximity when no keyword", func(t *testing.T) {
		o := Repair(map[string]any{
			"urgency":  "whenever",
			"deadline": "2026-08-04",
		}, "deliver the gravel", repairNow, false)
		if o.Urgency != order.UrgencyHigh {
			t.Errorf("Urgency = %q, want high for deadline 3 days out", o.Urgency)
		}
	})

	t.Run("valid enum untouched", func(t *testing.T) {
		o := Repair(map[string]any{"urgency": "medium"}, "need this urgently", repairNow, false)
		if o.Urgency != order.UrgencyMedium {
			t.Errorf("Urgency = %q, want medium (model value kept)", o.Urgency)
		}
	})
}

func TestRepair_Deadline(t *testing.T) {
	t.Run("valid ISO date kept", func(t *testing.T) {
		o := Repair(map[string]any{"deadline": "2026-09-15", "urgency": "low"}, "x", repairNow, false)
		if o.Deadline == nil || *o.Deadline != "2026-09-15" {
			t.Errorf("Deadline = %v", o.Deadline)
		}
	})

	t.Run("invalid date falls back to relative phrase", func(t *testing.T) {
		o := Repair(map[string]any{"deadline": "next week sometime", "urgency": "low"},
			"need it in 7 days", repairNow, false)
		if o.Deadline == nil || *o.Deadline != "2026-08-08" {
			t.Errorf("Deadline = %v, want 2026-08-08", o.Deadline)
		}
	})

	t.Run("invalid date with no phrase nulled", func(t *testing.T) {
		o := Repair(map[string]any{"deadline": "soonish", "urgency": "low"}, "need it", repairNow, false)
		if o.Deadline != nil {
			t.Errorf("Deadline = %v, want null", *o.Deadline)
		}
	})

	t.Run("non-string deadline nulled", func(t *testing.T) {
		o := Repair(map[string]any{"deadline": 20260915.0, "urgency": "low"}, "x", repairNow, false)
		if o.Deadline != nil {
			t.Errorf("Deadline = %v, want null", *o.Deadline)
		}
	})
}

func TestRepair_StringifiesScalarsInStringFields(t *testing.T) {
	o := Repair(map[string]any{
		"material_name": 42.0,
		"location":      true,
		"unit":          map[string]any{"nested": "object"},
		"urgency":       "low",
	}, "x", repairNow, false)

	if o.MaterialName == nil || *o.MaterialName != "42" {
		t.Errorf("MaterialName = %v, want \"42\"", o.MaterialName)
	}
	if o.Location == nil || *o.Location != "true" {
		t.Errorf("Location = %v, want \"true\"", o.Location)
	}
	if o.Unit != nil {
		t.Errorf("nested object should be nulled, got %v", *o.Unit)
	}
}

func TestRepair_Idempotent(t *testing.T) {
	inputs := []map[string]any{
		{"material_name": "cement", "quantity": "500", "urgency": "CRITICAL", "deadline": "bad", "extra": 1},
		{"material_name": "", "unit": "null"},
		{},
		{"quantity": 2.5, "urgency": "high", "deadline": "2026-12-01"},
	}

	for i, fields := range inputs {
		first := Repair(fields, "need it in 7 days urgently", repairNow, false)

		// Round-trip the repaired record back into a field map.
		b, err := json.Marshal(first)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		var roundTrip map[string]any
		if err := json.Unmarshal(b, &roundTrip); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		second := Repair(roundTrip, "need it in 7 days urgently", repairNow, false)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("input %d: repair not idempotent:\nfirst:  %+v\nsecond: %+v", i, first, second)
		}
		if err := Conformant(second); err != nil {
			t.Errorf("input %d: repaired record not conformant: %v", i, err)
		}
	}
}
