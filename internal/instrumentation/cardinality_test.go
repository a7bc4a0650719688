package instrumentation

import "testing"

func TestLocationLabel(t *testing.T) {
	tests := map[string]string{
		"virtual":      "virtual",
		"in-person":    "in-person",
		"hybrid":       "hybrid",
		"":             "virtual",
		"the moon":     "unknown",
		"VIRTUAL":      "unknown",
		"<script>":     "unknown",
		"conference-1": "unknown",
	}
	for in, want := range tests {
		if got := LocationLabel(in); got != want {
			t.Errorf("LocationLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAttendeeBucket(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{-1, "0"}, {0, "0"}, {1, "1"}, {2, "2-3"}, {3, "2-3"}, {4, "4-7"}, {7, "4-7"}, {8, "8+"}, {100, "8+"},
	}
	for _, tt := range tests {
		if got := AttendeeBucket(tt.n); got != tt.want {
			t.Errorf("AttendeeBucket(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
