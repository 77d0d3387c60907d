package logger

import "testing"

func TestSanitizePayloadMasksPinFields(t *testing.T) {
	payload := map[string]any{
		"firstName":      "Ada",
		"transactionPin": "1234",
		"nested": map[string]any{
			"pin": "9999",
		},
	}

	sanitized, ok := SanitizePayload(payload).(map[string]any)
	if !ok {
		t.Fatalf("expected map result, got %T", SanitizePayload(payload))
	}
	if sanitized["transactionPin"] != "******" {
		t.Fatalf("expected transactionPin masked, got %v", sanitized["transactionPin"])
	}
	if sanitized["firstName"] != "Ada" {
		t.Fatalf("expected firstName untouched, got %v", sanitized["firstName"])
	}
	nested, ok := sanitized["nested"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map, got %T", sanitized["nested"])
	}
	if nested["pin"] != "******" {
		t.Fatalf("expected nested pin masked, got %v", nested["pin"])
	}
}

func TestSanitizePayloadHandlesUnmarshalablePayload(t *testing.T) {
	if got := SanitizePayload(make(chan int)); got != "<unavailable>" {
		t.Fatalf("expected <unavailable>, got %v", got)
	}
}
