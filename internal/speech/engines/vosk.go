package engines

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"

	"glimpse/internal/audio"
	"glimpse/internal/speech"
)

// VoskRecognizer реализует Recognizer через Vosk.
type VoskRecognizer struct {
	mu         sync.Mutex
	model      *vosk.VoskModel
	recognizer *vosk.VoskRecognizer
}

type voskResult struct {
	Text string `json:"text"`
}

// NewVosk создаёт VoskRecognizer из директории модели.
func NewVosk(modelPath string) (*VoskRecognizer, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("модель Vosk не найдена: %s", modelPath)
	}

	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки модели Vosk: %w", err)
	}

	rec, err := vosk.NewRecognizer(model, localRate)
	if err != nil {
		model.Free()
		return nil, err
	}

	return &VoskRecognizer{model: model, recognizer: rec}, nil
}

// Name возвращает название движка.
func (v *VoskRecognizer) Name() string {
	return "vosk"
}

// Transcribe распознаёт клип. Язык задаётся моделью, lang не используется.
func (v *VoskRecognizer) Transcribe(ctx context.Context, clip *audio.PCM, _ string) (speech.Result, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.recognizer == nil {
		return speech.Result{}, fmt.Errorf("распознаватель закрыт")
	}
	if err := ctx.Err(); err != nil {
		return speech.Result{}, err
	}

	v.recognizer.AcceptWaveform(audio.Bytes16(monoSamples(clip)))
	raw := v.recognizer.FinalResult()
	v.recognizer.Reset()

	return parseVoskResult(raw)
}

func parseVoskResult(raw string) (speech.Result, error) {
	var r voskResult
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return speech.Result{}, fmt.Errorf("некорректный ответ Vosk: %w", err)
	}
	return speech.TextResult(r.Text), nil
}

// Close освобождает ресурсы.
func (v *VoskRecognizer) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.recognizer != nil {
		v.recognizer.Free()
		v.recognizer = nil
	}
	if v.model != nil {
		v.model.Free()
		v.model = nil
	}
}
