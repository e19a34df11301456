package i18n

import "testing"

func TestLanguagesHaveSameKeys(t *testing.T) {
	for key := range translations[EN] {
		if _, ok := translations[RU][key]; !ok {
			t.Errorf("ru: missing %q", key)
		}
	}
	for key := range translations[RU] {
		if _, ok := translations[EN][key]; !ok {
			t.Errorf("en: missing %q", key)
		}
	}
}

func TestT(t *testing.T) {
	defer SetLanguage(GetLanguage())

	SetLanguage(EN)
	if got := Tf("recognised_text", "cup"); got != "Recognised text: cup" {
		t.Errorf("Tf = %q", got)
	}
	if got := Tf("button_caption", 3); got != "Record for 3 seconds" {
		t.Errorf("Tf = %q", got)
	}
	if got := T("no_such_key"); got != "no_such_key" {
		t.Errorf("missing key = %q", got)
	}

	SetLanguage(RU)
	if got := T("tray_quit"); got != "Выход" {
		t.Errorf("ru tray_quit = %q", got)
	}
}

func TestParse(t *testing.T) {
	tests := map[string]Language{"ru": RU, " RU ": RU, "en": EN, "": EN, "de": EN}
	for in, want := range tests {
		if got := Parse(in); got != want {
			t.Errorf("Parse(%q) = %q, want %q", in, got, want)
		}
	}
}
