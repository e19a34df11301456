package session

import (
	"context"
	"errors"
	"image"
	"io"
	"testing"

	"glimpse/internal/vision"
)

type fakeFrame struct {
	closed *int
}

func (f fakeFrame) Image() (*image.RGBA, error) { return image.NewRGBA(image.Rect(0, 0, 64, 48)), nil }
func (f fakeFrame) Size() image.Point { return image.Pt(64, 48) }
func (f fakeFrame) Close() error {
	*f.closed++
	return nil
}

type fakeSource struct {
	frames       int
	framesClosed int
	closed       int
}

func (s *fakeSource) Read() (vision.Frame, error) {
	if s.frames == 0 {
		return nil, io.EOF
	}
	s.frames--
	return fakeFrame{closed: &s.framesClosed}, nil
}

func (s *fakeSource) Close() error {
	s.closed++
	return nil
}

type fakeDetector struct {
	dets   []vision.Detection
	err    error
	closed int
}

func (d *fakeDetector) Detect(vision.Frame) ([]vision.Detection, error) { return d.dets, d.err }
func (d *fakeDetector) Name() string { return "fake" }
func (d *fakeDetector) Close() error {
	d.closed++
	return nil
}

type fakeVoice struct {
	phrase string
	calls  int
}

func (v *fakeVoice) Capture(context.Context) string {
	v.calls++
	return v.phrase
}

type fakeDisplay struct {
	queue  [][]Event
	shown  int
	closed int
}

func (d *fakeDisplay) Events() []Event {
	if len(d.queue) == 0 {
		return nil
	}
	evs := d.queue[0]
	d.queue = d.queue[1:]
	return evs
}

func (d *fakeDisplay) Show(*image.RGBA) error {
	d.shown++
	return nil
}

func (d *fakeDisplay) Close() error {
	d.closed++
	return nil
}

type fakeObserver struct {
	recordings int
	states     []bool
}

func (o *fakeObserver) Recording() { o.recordings++ }
func (o *fakeObserver) StateChanged(armed bool, _ string) { o.states = append(o.states, armed) }

func testConfig() Config {
	return Config{
		Button:        image.Rect(10, 10, 1270, 710),
		ButtonCaption: "Record for 3 seconds",
		ButtonAt:      image.Pt(40, 60),
		CommandFormat: "Recognised text: %s",
		CommandAt:     image.Pt(40, 100),
		Match:         vision.MatchContains,
	}
}

func newTestSession(frames int, phrase string) (*Session, *fakeSource, *fakeDetector, *fakeVoice) {
	src := &fakeSource{frames: frames}
	det := &fakeDetector{}
	v := &fakeVoice{phrase: phrase}
	return New(testConfig(), src, det, v), src, det, v
}

func TestClickInsideWhileIdle(t *testing.T) {
	s, _, _, v := newTestSession(0, "find the cup please")
	obs := &fakeObserver{}
	s.SetObserver(obs)

	s.Click(context.Background(), image.Pt(100, 100))

	if !s.Armed() {
		t.Error("not armed after inside click")
	}
	if s.Command() != "find the cup please" {
		t.Errorf("command = %q", s.Command())
	}
	if v.calls != 1 {
		t.Errorf("capture cycles = %d, want 1", v.calls)
	}
	if obs.recordings != 1 || len(obs.states) != 1 || !obs.states[0] {
		t.Errorf("observer = %+v", obs)
	}
}

func TestClickBoundsInclusive(t *testing.T) {
	for _, pt := range []image.Point{{10, 10}, {1270, 710}, {10, 710}, {1270, 10}} {
		s, _, _, v := newTestSession(0, "cup")
		s.Click(context.Background(), pt)
		if !s.Armed() || v.calls != 1 {
			t.Errorf("click at %v: armed=%v captures=%d", pt, s.Armed(), v.calls)
		}
	}
}

func TestClickOutsideWhileArmed(t *testing.T) {
	s, _, _, v := newTestSession(0, "cup")
	s.Click(context.Background(), image.Pt(100, 100))

	s.Click(context.Background(), image.Pt(5, 5))

	if s.Armed() {
		t.Error("still armed after outside click")
	}
	if v.calls != 1 {
		t.Errorf("capture cycles = %d, want 1", v.calls)
	}
}

func TestClickOutsideWhileIdle(t *testing.T) {
	s, _, _, v := newTestSession(0, "cup")
	obs := &fakeObserver{}
	s.SetObserver(obs)

	s.Click(context.Background(), image.Pt(1271, 300))

	if s.Armed() || s.Command() != "" || v.calls != 0 {
		t.Errorf("state changed: armed=%v command=%q captures=%d", s.Armed(), s.Command(), v.calls)
	}
	if len(obs.states) != 0 {
		t.Errorf("observer notified: %v", obs.states)
	}
}

func TestFailedCaptureStillArms(t *testing.T) {
	s, _, _, _ := newTestSession(0, "")
	s.Click(context.Background(), image.Pt(100, 100))

	if !s.Armed() || s.Command() != "" {
		t.Errorf("armed=%v command=%q, want armed with empty command", s.Armed(), s.Command())
	}
}

func TestHighlights(t *testing.T) {
	cup := vision.Detection{Class: "cup", Confidence: 0.9, Box: image.Rect(0, 0, 10, 10)}
	person := vision.Detection{Class: "person", Confidence: 0.8, Box: image.Rect(0, 0, 10, 10)}
	dets := []vision.Detection{cup, person}

	s, _, _, _ := newTestSession(0, "find the cup please")
	if got := s.Highlights(dets); len(got) != 0 {
		t.Errorf("idle: got %v, want nothing", got)
	}

	s.Click(context.Background(), image.Pt(100, 100))
	got := s.Highlights(dets)
	if len(got) != 1 || got[0].Class != "cup" {
		t.Errorf("armed: got %v, want cup", got)
	}
}

func TestRunEndOfStreamReleasesOnce(t *testing.T) {
	s, src, det, _ := newTestSession(3, "cup")
	display := &fakeDisplay{}

	if err := s.Run(context.Background(), display); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if display.shown != 3 {
		t.Errorf("shown %d frames, want 3", display.shown)
	}
	if src.framesClosed != 3 {
		t.Errorf("closed %d frames, want 3", src.framesClosed)
	}
	if src.closed != 1 || det.closed != 1 || display.closed != 1 {
		t.Errorf("released source=%d detector=%d display=%d, want 1 each", src.closed, det.closed, display.closed)
	}
}

func TestRunEvents(t *testing.T) {
	s, src, _, v := newTestSession(10, "cup")
	display := &fakeDisplay{queue: [][]Event{
		{{Kind: EventClick, Point: image.Pt(100, 100)}},
		{{Kind: EventRecord}},
		{{Kind: EventQuit}},
	}}

	if err := s.Run(context.Background(), display); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if v.calls != 2 {
		t.Errorf("capture cycles = %d, want 2", v.calls)
	}
	if display.shown != 2 {
		t.Errorf("shown %d frames before quit, want 2", display.shown)
	}
	if src.closed != 1 || display.closed != 1 {
		t.Errorf("released source=%d display=%d", src.closed, display.closed)
	}
}

func TestRunDetectorErrorKeepsGoing(t *testing.T) {
	s, _, det, _ := newTestSession(2, "cup")
	det.err = errors.New("bad blob")
	display := &fakeDisplay{}

	if err := s.Run(context.Background(), display); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if display.shown != 2 {
		t.Errorf("shown %d frames, want 2", display.shown)
	}
}

type brokenDisplay struct{ fakeDisplay }

func (d *brokenDisplay) Show(*image.RGBA) error { return errors.New("window gone") }

func TestRunShowError(t *testing.T) {
	s, src, _, _ := newTestSession(5, "cup")
	d := &brokenDisplay{}

	if err := s.Run(context.Background(), d); err == nil {
		t.Fatal("expected error")
	}
	if src.closed != 1 || d.closed != 1 {
		t.Errorf("released source=%d display=%d", src.closed, d.closed)
	}
}
