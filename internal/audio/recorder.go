// Package audio предоставляет запись аудио с микрофона и работу с WAV файлами.
package audio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	// SampleRate - частота дискретизации по умолчанию.
	SampleRate = 44100
	// Channels - количество каналов по умолчанию (stereo).
	Channels = 2
	// FramesPerBuffer - размер буфера в кадрах.
	FramesPerBuffer = 1024

	// recentSamples - сколько последних моно-сэмплов хранится для индикатора.
	recentSamples = 4096
)

// ErrBusy возвращается, если запись уже идёт.
var ErrBusy = errors.New("запись уже идёт")

// Format описывает формат записи.
type Format struct {
	SampleRate int
	Channels   int
}

// Recorder записывает аудио с микрофона фиксированными отрезками.
type Recorder struct {
	mu        sync.Mutex
	format    Format
	recording bool
	recent    []float32
}

// New инициализирует PortAudio и создаёт Recorder.
func New(format Format) (*Recorder, error) {
	if format.SampleRate <= 0 {
		format.SampleRate = SampleRate
	}
	if format.Channels <= 0 {
		format.Channels = Channels
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("ошибка инициализации PortAudio: %w", err)
	}

	return &Recorder{format: format}, nil
}

// Record синхронно записывает отрезок длительностью d.
// Блокирует вызывающую горутину до окончания записи.
func (r *Recorder) Record(ctx context.Context, d time.Duration) (*Clip, error) {
	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return nil, ErrBusy
	}
	r.recording = true
	r.recent = r.recent[:0]
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.recording = false
		r.mu.Unlock()
	}()

	ch := r.format.Channels
	total := int(d.Seconds()*float64(r.format.SampleRate)) * ch
	buffer := make([]float32, FramesPerBuffer*ch)

	stream, err := portaudio.OpenDefaultStream(
		ch,                            // input channels
		0,                             // output channels
		float64(r.format.SampleRate), // sample rate
		FramesPerBuffer,               // frames per buffer
		buffer,
	)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть поток: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("не удалось начать запись: %w", err)
	}
	defer stream.Stop()

	samples := make([]float32, 0, total+len(buffer))
	for len(samples) < total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stream.Read(); err != nil {
			// Переполнение входного буфера не критично - часть сэмплов потеряна
			if errors.Is(err, portaudio.InputOverflowed) {
				log.Printf("Переполнение буфера записи")
			} else {
				return nil, fmt.Errorf("ошибка чтения потока: %w", err)
			}
		}
		samples = append(samples, buffer...)
		r.keepRecent(Downmix(buffer, ch))
	}

	return &Clip{
		SampleRate: r.format.SampleRate,
		Channels:   ch,
		Samples:    samples[:total],
	}, nil
}

func (r *Recorder) keepRecent(mono []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recent = append(r.recent, mono...)
	if n := len(r.recent); n > recentSamples {
		r.recent = append(r.recent[:0], r.recent[n-recentSamples:]...)
	}
}

// GetSamples возвращает копию последних записанных моно-сэмплов.
func (r *Recorder) GetSamples() []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float32, len(r.recent))
	copy(out, r.recent)
	return out
}

// IsRecording возвращает true если идёт запись.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Close освобождает ресурсы PortAudio.
func (r *Recorder) Close() {
	portaudio.Terminate()
}
