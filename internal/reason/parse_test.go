package reason

import "testing"

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"leading whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
		{"unterminated fence", "```json\n{\"a\": 1}", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.input); got != tt.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	obj, ok := extractJSONObject(`Here is the result: {"steps": []} hope that helps`)
	if !ok {
		t.Fatal("extractJSONObject should find the object")
	}
	if obj != `{"steps": []}` {
		t.Errorf("extracted %q", obj)
	}

	if _, ok := extractJSONObject("no braces here"); ok {
		t.Error("extractJSONObject should fail without braces")
	}
	if _, ok := extractJSONObject("} backwards {"); ok {
		t.Error("extractJSONObject should fail on reversed braces")
	}
}

func TestClamp01(t *testing.T) {
	if clamp01(-0.5) != 0 {
		t.Error("negative scores clamp to 0")
	}
	if clamp01(1.5) != 1 {
		t.Error("scores above 1 clamp to 1")
	}
	if clamp01(0.75) != 0.75 {
		t.Error("in-range scores pass through")
	}
}
