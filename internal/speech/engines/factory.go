// Package engines собирает движки распознавания речи и выбирает нужный по настройкам.
package engines

import (
	"context"
	"fmt"
	"sync"

	"glimpse/internal/audio"
	"glimpse/internal/models"
	"glimpse/internal/speech"
)

// localRate - частота, с которой работают локальные движки.
const localRate = 16000

// monoSamples сводит клип в моно 16 kHz для локальных движков.
func monoSamples(clip *audio.PCM) []int16 {
	return audio.Resample16(clip.Mono(), clip.SampleRate, localRate)
}

// Factory создаёт распознаватель по настройкам и владеет текущим.
type Factory struct {
	manager *models.Manager
	current speech.Recognizer
	mu      sync.RWMutex
}

// NewFactory создаёт фабрику распознавателей.
func NewFactory(manager *models.Manager) *Factory {
	return &Factory{manager: manager}
}

// Create создаёт распознаватель для указанных настроек.
func (f *Factory) Create(ctx context.Context, cfg speech.Config) (speech.Recognizer, error) {
	if cfg.Engine == speech.EngineGoogle {
		return speech.NewGoogle(ctx, cfg.CredentialsFile)
	}

	modelPath, err := f.localModel(cfg)
	if err != nil {
		return nil, err
	}

	var rec speech.Recognizer
	switch cfg.Engine {
	case speech.EngineWhisper:
		rec, err = NewWhisperFromFile(modelPath)
	case speech.EngineVosk:
		rec, err = NewVosk(modelPath)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка создания распознавателя: %w", err)
	}

	return rec, nil
}

// localModel находит скачанную модель для локального движка.
func (f *Factory) localModel(cfg speech.Config) (string, error) {
	var want models.Engine
	switch cfg.Engine {
	case speech.EngineWhisper:
		want = models.EngineWhisper
	case speech.EngineVosk:
		want = models.EngineVosk
	default:
		return "", fmt.Errorf("неизвестный движок: %s", cfg.Engine)
	}

	info, ok := models.GetModel(cfg.ModelID)
	if !ok {
		return "", fmt.Errorf("модель не найдена: %s", cfg.ModelID)
	}
	if info.Engine != want {
		return "", fmt.Errorf("модель %s не подходит для движка %s", cfg.ModelID, cfg.Engine)
	}
	if !f.manager.IsDownloaded(info) {
		return "", fmt.Errorf("модель не скачана: %s", info.Name)
	}

	return f.manager.GetPath(info, models.RoleModel), nil
}

// Load создаёт распознаватель и устанавливает его как текущий.
func (f *Factory) Load(ctx context.Context, cfg speech.Config) error {
	rec, err := f.Create(ctx, cfg)
	if err != nil {
		return err
	}

	f.mu.Lock()
	old := f.current
	f.current = rec
	f.mu.Unlock()

	if old != nil {
		old.Close()
	}

	return nil
}

// Current возвращает текущий распознаватель (thread-safe).
func (f *Factory) Current() speech.Recognizer {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Close закрывает текущий распознаватель.
func (f *Factory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current != nil {
		f.current.Close()
		f.current = nil
	}
}
