package logschema

import "testing"

func TestValidate(t *testing.T) {
	err := Validate("round", map[string]interface{}{
		"logs":   "",
		"orders": []interface{}{},
		"state":  map[string]interface{}{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = Validate("round_state", map[string]interface{}{
		"t": 100,
	})
	if err == nil {
		t.Fatalf("expected error for missing fields")
	}
	if err := Validate("unknown_event", nil); err != nil {
		t.Fatalf("unknown events are not validated: %v", err)
	}
}

func TestKnownEvents(t *testing.T) {
	names := Known()
	if len(names) == 0 {
		t.Fatalf("expected non-empty schema list")
	}
	found := false
	for _, n := range names {
		if n == "round_state" {
			found = true
		}
	}
	if !found {
		t.Fatalf("round_state not found in schemas")
	}
}
