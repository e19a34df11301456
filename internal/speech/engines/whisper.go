package engines

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"glimpse/internal/audio"
	"glimpse/internal/speech"
)

// WhisperRecognizer реализует Recognizer через whisper.cpp.
type WhisperRecognizer struct {
	mu    sync.Mutex
	model whisper.Model
}

// NewWhisperFromFile создаёт WhisperRecognizer из файла модели.
func NewWhisperFromFile(modelPath string) (*WhisperRecognizer, error) {
	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, err
	}

	return &WhisperRecognizer{model: model}, nil
}

// Name возвращает название движка.
func (w *WhisperRecognizer) Name() string {
	return "whisper"
}

// Transcribe сводит клип в моно 16 kHz и прогоняет через модель.
func (w *WhisperRecognizer) Transcribe(ctx context.Context, clip *audio.PCM, lang string) (speech.Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.model == nil {
		return speech.Result{}, fmt.Errorf("распознаватель закрыт")
	}
	if err := ctx.Err(); err != nil {
		return speech.Result{}, err
	}

	wctx, err := w.model.NewContext()
	if err != nil {
		return speech.Result{}, err
	}

	wctx.SetTranslate(false)
	if l := speech.BaseLanguage(lang); l != "" {
		if err := wctx.SetLanguage(l); err != nil {
			return speech.Result{}, fmt.Errorf("язык %q не поддерживается: %w", l, err)
		}
	}

	samples := audio.Float32(monoSamples(clip))
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return speech.Result{}, err
	}

	var text strings.Builder
	for {
		segment, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return speech.Result{}, err
		}
		text.WriteString(segment.Text)
	}

	return speech.TextResult(text.String()), nil
}

// Close освобождает ресурсы.
func (w *WhisperRecognizer) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.model != nil {
		w.model.Close()
		w.model = nil
	}
}
