package vision

import (
	"image"
	"testing"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name    string
		mode    MatchMode
		command string
		class   string
		want    bool
	}{
		{"phrase_contains_class", MatchContains, "find the cup please", "cup", true},
		{"case_insensitive", MatchContains, "Cup", "cup", true},
		{"match_at_start", MatchContains, "cup", "cup", true},
		{"no_match", MatchContains, "find the dog", "cup", false},
		{"empty_command", MatchContains, "", "cup", false},
		{"empty_class", MatchContains, "cup", "", false},
		{"legacy_start_not_matched", MatchLegacy, "cup", "cup", false},
		{"legacy_inside_matched", MatchLegacy, "a cup", "cup", true},
		{"legacy_case_sensitive", MatchLegacy, "a Cup", "cup", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.mode, tt.command, tt.class); got != tt.want {
				t.Errorf("Matches(%q, %q, %q) = %v, want %v", tt.mode, tt.command, tt.class, got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	dets := []Detection{
		{Class: "cup", Confidence: 0.9, Box: image.Rect(0, 0, 10, 10)},
		{Class: "person", Confidence: 0.8, Box: image.Rect(5, 5, 50, 50)},
		{Class: "cup", Confidence: 0.6, Box: image.Rect(60, 60, 70, 70)},
	}

	t.Run("armed", func(t *testing.T) {
		got := Filter(dets, true, "find the cup please", MatchContains)
		if len(got) != 2 {
			t.Fatalf("got %d detections, want 2", len(got))
		}
		for _, d := range got {
			if d.Class != "cup" {
				t.Errorf("unexpected class %q", d.Class)
			}
		}
	})

	t.Run("not_armed", func(t *testing.T) {
		if got := Filter(dets, false, "cup person", MatchContains); len(got) != 0 {
			t.Fatalf("got %d detections while not armed, want 0", len(got))
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		a := Filter(dets, true, "person and cup", MatchContains)
		b := Filter(dets, true, "person and cup", MatchContains)
		if len(a) != 3 || len(a) != len(b) {
			t.Fatalf("got %d and %d detections, want 3", len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("detection %d differs between runs", i)
			}
		}
	})
}

func TestParseMatchMode(t *testing.T) {
	for in, want := range map[string]MatchMode{"": MatchContains, "contains": MatchContains, "legacy": MatchLegacy} {
		got, err := ParseMatchMode(in)
		if err != nil {
			t.Fatalf("ParseMatchMode(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseMatchMode(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseMatchMode("fuzzy"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestDetectionLabel(t *testing.T) {
	d := Detection{Class: "cup", Confidence: 0.876}
	if got := d.Label(); got != "cup 0.88" {
		t.Errorf("Label() = %q, want %q", got, "cup 0.88")
	}
}
