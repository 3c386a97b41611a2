package extract

import (
	"testing"
)

func TestExtractJSON_PlainObject(t *testing.T) {
	input := `{"application": ["Go"]}`
	result, err := extractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_PlainArray(t *testing.T) {
	input := `["Go", "Rust"]`
	result, err := extractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_WithThinkTags(t *testing.T) {
	input := `<think>
Scanning the statement for technology names...
</think>
{"application": ["Django"]}`

	expected := `{"application": ["Django"]}`
	result, err := extractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExtractJSON_WithSurroundingProse(t *testing.T) {
	input := `Here is the JSON you asked for:
{"application": ["NextJS"]}
Let me know if you need anything else.`

	expected := `{"application": ["NextJS"]}`
	result, err := extractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != expected {
		t.Errorf("expected %q, got %q", expected, result)
	}
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	input := `{"application": ["C++ {templates}"]}`
	result, err := extractJSON(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != input {
		t.Errorf("expected %q, got %q", input, result)
	}
}

func TestExtractJSON_BareString(t *testing.T) {
	result, err := extractJSON(`"Go"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != `"Go"` {
		t.Errorf("expected bare string passthrough, got %q", result)
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	if _, err := extractJSON(`not json at all {`); err == nil {
		t.Error("expected error for input without valid JSON")
	}
}
