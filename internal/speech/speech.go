// Package speech предоставляет абстракцию для движков распознавания речи.
package speech

import (
	"context"
	"strings"

	"glimpse/internal/audio"
)

// Engine тип движка распознавания.
type Engine string

const (
	// EngineGoogle - облачный Google Speech-to-Text.
	EngineGoogle Engine = "google"
	// EngineWhisper - whisper.cpp движок.
	EngineWhisper Engine = "whisper"
	// EngineVosk - Vosk движок.
	EngineVosk Engine = "vosk"
)

// Result - исход распознавания.
// Understood=false означает, что речь не разобрана; это не ошибка.
type Result struct {
	Text       string
	Understood bool
}

// Recognizer - интерфейс для движков распознавания речи.
type Recognizer interface {
	// Transcribe распознаёт речь из 16-битного PCM.
	// lang - языковой тег вида "en-US".
	// Ошибка возвращается только при сбое запроса или движка.
	Transcribe(ctx context.Context, clip *audio.PCM, lang string) (Result, error)

	// Close освобождает ресурсы движка.
	Close()

	// Name возвращает название движка (для логирования).
	Name() string
}

// Config содержит настройки для создания распознавателя.
type Config struct {
	// Engine - тип движка (google, whisper, vosk).
	Engine Engine

	// ModelID - ID локальной модели из реестра (whisper, vosk).
	ModelID string

	// CredentialsFile - JSON ключ сервисного аккаунта Google.
	// Пустая строка - Application Default Credentials.
	CredentialsFile string
}

// BaseLanguage возвращает основной язык тега: "en-US" -> "en".
func BaseLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return strings.ToLower(tag)
}

// TextResult превращает текст движка в Result.
func TextResult(text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}
	}
	return Result{Text: text, Understood: true}
}
