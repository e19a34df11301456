package config

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("defaults not written: %v", err)
	}

	if got := c.UI().Button.Rectangle(); got != image.Rect(10, 10, 1270, 710) {
		t.Errorf("button = %v", got)
	}
	if got := c.UI().ButtonCaptionAt.Point(); got != image.Pt(40, 60) {
		t.Errorf("button caption = %v", got)
	}
	a := c.Audio()
	if a.SampleRate != 44100 || a.Channels != 2 || a.Duration() != 3*time.Second {
		t.Errorf("audio = %+v", a)
	}
	if a.RawFile != "output.wav" || a.PCMFile != "outputNew.wav" {
		t.Errorf("audio files = %q, %q", a.RawFile, a.PCMFile)
	}
	if cam := c.Camera(); cam.Width != 1280 || cam.Height != 720 {
		t.Errorf("camera = %+v", cam)
	}
	if s := c.Speech(); s.Engine != "google" || s.Language != "en-US" {
		t.Errorf("speech = %+v", s)
	}
	if c.Detector().MatchMode != "contains" {
		t.Errorf("match mode = %q", c.Detector().MatchMode)
	}
	if c.NotificationsEnabled() {
		t.Error("notifications should be off by default")
	}

	// Повторная загрузка читает записанный файл
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Hotkey().String() != "ctrl+shift+r" {
		t.Errorf("hotkey = %q", again.Hotkey().String())
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	data := `{"detector": {"model_id": "yolov4-tiny", "match_mode": "legacy"}, "camera": {"device": 1, "width": 640, "height": 480}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d := c.Detector(); d.ModelID != "yolov4-tiny" || d.MatchMode != "legacy" {
		t.Errorf("detector = %+v", d)
	}
	if cam := c.Camera(); cam.Device != 1 || cam.Width != 640 {
		t.Errorf("camera = %+v", cam)
	}
	// Не указанное остаётся по умолчанию
	if c.Audio().SampleRate != 44100 {
		t.Errorf("sample rate = %d", c.Audio().SampleRate)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"broken json", `{`, "некорректный"},
		{"bad engine", `{"speech": {"engine": "siri"}}`, "siri"},
		{"whisper without model", `{"speech": {"engine": "whisper"}}`, "нужна модель"},
		{"inverted button", `{"ui": {"button": {"x_start": 100, "y_start": 0, "x_end": 10, "y_end": 10}}}`, "кнопки"},
		{"zero duration", `{"audio": {"duration_seconds": 0}}`, "длительность"},
		{"threshold", `{"detector": {"model_id": "yolov8n", "score_threshold": 2}}`, "порог"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			os.WriteFile(path, []byte(tt.data), 0644)

			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestHotkeyString(t *testing.T) {
	h := HotkeyConfig{Modifiers: []Modifier{ModCtrl, ModAlt}, Key: "f5"}
	if got := h.String(); got != "ctrl+alt+f5" {
		t.Errorf("String = %q", got)
	}
	if got := (HotkeyConfig{Key: "space"}).String(); got != "space" {
		t.Errorf("String = %q", got)
	}
}
