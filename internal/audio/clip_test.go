package audio

import (
	"math"
	"testing"
	"time"
)

func TestClipDuration(t *testing.T) {
	c := &Clip{SampleRate: 44100, Channels: 2, Samples: make([]float32, 44100*2*3)}
	if got := c.Duration(); got != 3*time.Second {
		t.Errorf("Duration = %v, want 3s", got)
	}
	if got := (&Clip{}).Duration(); got != 0 {
		t.Errorf("empty Duration = %v", got)
	}
}

func TestMono(t *testing.T) {
	p := &PCM{SampleRate: 16000, Channels: 2, Samples: []int16{100, 300, -200, -400, 7, 8}}
	got := p.Mono()
	want := []int16{200, -300, 7}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mono[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	single := &PCM{Channels: 1, Samples: []int16{1, 2}}
	if len(single.Mono()) != 2 {
		t.Error("mono clip should be returned as is")
	}
}

func TestBytes16(t *testing.T) {
	got := Bytes16([]int16{1, -1, 0x1234})
	want := []byte{0x01, 0x00, 0xff, 0xff, 0x34, 0x12}
	if string(got) != string(want) {
		t.Errorf("Bytes16 = %x, want %x", got, want)
	}
}

func TestFloat32(t *testing.T) {
	got := Float32([]int16{0, -32768, 16384})
	want := []float32{0, -1, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Float32[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResample16(t *testing.T) {
	tests := []struct {
		name    string
		in      []int16
		src     int
		dst     int
		wantLen int
	}{
		{"same rate", []int16{1, 2, 3}, 16000, 16000, 3},
		{"down 44100 to 16000", make([]int16, 44100), 44100, 16000, 16000},
		{"up 8000 to 16000", make([]int16, 800), 8000, 16000, 1600},
		{"empty", nil, 44100, 16000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resample16(tt.in, tt.src, tt.dst)
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
		})
	}

	up := Resample16([]int16{0, 100}, 1, 2)
	if len(up) != 4 || up[0] != 0 || up[1] != 50 || up[2] != 100 {
		t.Errorf("interpolation = %v, want [0 50 100 100]", up)
	}
}

func TestDownmix(t *testing.T) {
	got := Downmix([]float32{0.2, 0.4, -1, 1, 0.5, 0.5}, 2)
	want := []float32{0.3, 0, 0.5}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	mono := []float32{0.1, 0.2}
	if got := Downmix(mono, 1); len(got) != 2 || got[1] != 0.2 {
		t.Errorf("mono = %v, want unchanged", got)
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		name    string
		samples []float32
		want    float32
	}{
		{"silence", make([]float32, 512), 0},
		{"empty", nil, 0},
		{"quiet", []float32{0.1, -0.1, 0.1, -0.1}, 0.3},
		{"clipped", []float32{1, -1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Level(tt.samples)
			if math.Abs(float64(got-tt.want)) > 1e-4 {
				t.Errorf("Level = %v, want %v", got, tt.want)
			}
		})
	}

	// Учитываются только последние 1024 сэмпла
	loud := append(make([]float32, 1024), make([]float32, 1024)...)
	for i := 1024; i < len(loud); i++ {
		loud[i] = 0.2
	}
	if got := Level(loud); math.Abs(float64(got-0.6)) > 1e-4 {
		t.Errorf("Level(tail) = %v, want 0.6", got)
	}
}
