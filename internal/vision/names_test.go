package vision

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseNames(t *testing.T) {
	names, err := ParseNames(strings.NewReader("person\nbicycle\r\ntraffic light\n\n"))
	if err != nil {
		t.Fatalf("ParseNames: %v", err)
	}
	want := []string{"person", "bicycle", "traffic light"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("name %d: got %q, want %q", i, names[i], want[i])
		}
	}
}

func TestParseNames_Empty(t *testing.T) {
	if _, err := ParseNames(strings.NewReader("\n\n")); err == nil {
		t.Fatal("expected error for empty list")
	}
}

func TestLoadNames_Missing(t *testing.T) {
	if _, err := LoadNames(filepath.Join(t.TempDir(), "nope.names")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadNames_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coco.names")
	if err := os.WriteFile(path, []byte("cup\nfork\n"), 0644); err != nil {
		t.Fatal(err)
	}
	names, err := LoadNames(path)
	if err != nil {
		t.Fatalf("LoadNames: %v", err)
	}
	if len(names) != 2 || names[0] != "cup" || names[1] != "fork" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestCOCONames(t *testing.T) {
	names := COCONames()
	if len(names) != 80 {
		t.Fatalf("got %d COCO names, want 80", len(names))
	}
	if names[0] != "person" || names[41] != "cup" {
		t.Errorf("unexpected order: names[0]=%q names[41]=%q", names[0], names[41])
	}
}

func TestParseNamesYAML(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []string
		wantErr bool
	}{
		{"list", "path: ../datasets\nnames: [person, bicycle, cup]\n", []string{"person", "bicycle", "cup"}, false},
		{"map", "names:\n  0: person\n  2: cup\n  1: bicycle\n", []string{"person", "bicycle", "cup"}, false},
		{"map_with_gap", "names:\n  0: person\n  2: cup\n", nil, true},
		{"missing", "nc: 3\n", nil, true},
		{"empty_list", "names: []\n", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNamesYAML([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseNamesYAML: %v", err)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
