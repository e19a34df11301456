// Package voice превращает нажатие кнопки в текстовую команду:
// запись, сохранение WAV, перекодирование в PCM16 и распознавание.
package voice

import (
	"context"
	"log"
	"time"

	"glimpse/internal/audio"
	"glimpse/internal/speech"
)

// Recorder записывает отрезок фиксированной длительности.
type Recorder interface {
	Record(ctx context.Context, d time.Duration) (*audio.Clip, error)
}

// Config - параметры одного цикла записи.
type Config struct {
	Duration time.Duration
	RawPath  string // Запись как есть (32-битный PCM)
	PCMPath  string // Перекодированная запись (16-битный PCM)
	Language string
}

// Command выполняет цикл записи и распознавания.
type Command struct {
	cfg      Config
	recorder Recorder
	engine   speech.Recognizer

	onTranscribe func()
}

// New создаёт Command.
func New(cfg Config, recorder Recorder, engine speech.Recognizer) *Command {
	return &Command{cfg: cfg, recorder: recorder, engine: engine}
}

// OnTranscribe задаёт функцию, вызываемую после записи перед запросом к
// движку распознавания.
func (c *Command) OnTranscribe(fn func()) {
	c.onTranscribe = fn
}

// Capture записывает и распознаёт команду. Блокирует вызывающую горутину
// на время записи и запроса к движку. При любой неудаче возвращает ""
// и пишет причину в лог.
func (c *Command) Capture(ctx context.Context) string {
	log.Printf("Запись аудио на %v...", c.cfg.Duration)

	clip, err := c.recorder.Record(ctx, c.cfg.Duration)
	if err != nil {
		log.Printf("Ошибка записи: %v", err)
		return ""
	}

	if err := audio.WriteWAV(c.cfg.RawPath, clip); err != nil {
		log.Printf("Ошибка сохранения записи: %v", err)
		return ""
	}
	if err := audio.ConvertPCM16(c.cfg.RawPath, c.cfg.PCMPath); err != nil {
		log.Printf("Ошибка перекодирования записи: %v", err)
		return ""
	}
	pcm, err := audio.LoadPCM16(c.cfg.PCMPath)
	if err != nil {
		log.Printf("Ошибка чтения записи: %v", err)
		return ""
	}

	if c.onTranscribe != nil {
		c.onTranscribe()
	}
	res, err := c.engine.Transcribe(ctx, pcm, c.cfg.Language)
	if err != nil {
		log.Printf("Ошибка запроса к сервису распознавания (%s): %v", c.engine.Name(), err)
		return ""
	}
	if !res.Understood {
		log.Printf("Речь не распознана")
		return ""
	}

	log.Printf("Распознанный текст: %s", res.Text)
	return res.Text
}
