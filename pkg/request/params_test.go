package request

import (
	"encoding/json"
	"testing"
)

func TestFloatAcceptsNumbersAndStrings(t *testing.T) {
	var body struct {
		CurrentTime Float `json:"currentTime"`
		Duration    Float `json:"duration"`
		Missing     Float `json:"missing"`
	}
	if err := json.Unmarshal([]byte(`{"currentTime":"12.5","duration":300,"missing":null}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.CurrentTime != 12.5 || body.Duration != 300 || body.Missing != 0 {
		t.Fatalf("got %+v", body)
	}

	if err := json.Unmarshal([]byte(`{"currentTime":"abc"}`), &body); err == nil {
		t.Fatal("expected error for non-numeric string")
	}
}

func TestBoolAcceptsStrings(t *testing.T) {
	var body struct {
		Done Bool `json:"done"`
	}
	if err := json.Unmarshal([]byte(`{"done":"true"}`), &body); err != nil || !bool(body.Done) {
		t.Fatalf("got %v, %v", body.Done, err)
	}
	if err := json.Unmarshal([]byte(`{"done":false}`), &body); err != nil || bool(body.Done) {
		t.Fatalf("got %v, %v", body.Done, err)
	}
}
