// Package session связывает камеру, детектор, голосовую команду и окно
// в один цикл: кадр -> детекция -> фильтр по команде -> отрисовка -> показ.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"sync"

	"glimpse/internal/overlay"
	"glimpse/internal/vision"
)

// Source отдаёт кадры; io.EOF означает конец потока.
type Source interface {
	Read() (vision.Frame, error)
	Close() error
}

// Voice записывает и распознаёт команду. "" - команда не получена.
type Voice interface {
	Capture(ctx context.Context) string
}

// Observer получает уведомления о смене состояния (трей, уведомления).
// Методы вызываются из горутины цикла и не должны блокировать.
type Observer interface {
	Recording()
	StateChanged(armed bool, command string)
}

// EventKind тип события окна.
type EventKind int

const (
	// EventClick - нажатие левой кнопки мыши в точке Point.
	EventClick EventKind = iota
	// EventQuit - клавиша q или закрытие окна.
	EventQuit
	// EventRecord - горячая клавиша или пункт трея; равносилен клику по кнопке.
	EventRecord
)

// Event событие, доставленное в цикл.
type Event struct {
	Kind  EventKind
	Point image.Point
}

// Display показывает кадры и отдаёт накопленные события.
type Display interface {
	// Events возвращает события с прошлого вызова, не блокируя.
	Events() []Event
	Show(img *image.RGBA) error
	Close() error
}

// Config - неизменяемые параметры сессии.
type Config struct {
	// Button - кнопка записи, границы включены.
	Button        image.Rectangle
	ButtonCaption string
	ButtonAt      image.Point

	// CommandFormat - формат строки с командой, например "Recognised text: %s".
	CommandFormat string
	CommandAt     image.Point

	Match vision.MatchMode
}

// Session владеет состоянием armed/command. Все методы, кроме Close,
// вызываются из одной горутины.
type Session struct {
	cfg      Config
	source   Source
	detector vision.Detector
	voice    Voice
	observer Observer
	display  Display

	armed   bool
	command string

	closeOnce sync.Once
	closeErr  error
}

// New создаёт сессию. Источник и детектор переходят во владение сессии.
func New(cfg Config, source Source, detector vision.Detector, voice Voice) *Session {
	return &Session{
		cfg:      cfg,
		source:   source,
		detector: detector,
		voice:    voice,
	}
}

// SetObserver устанавливает наблюдателя. Вызывать до Run.
func (s *Session) SetObserver(o Observer) {
	s.observer = o
}

// Armed возвращает true, если фильтр по команде включён.
func (s *Session) Armed() bool { return s.armed }

// Command возвращает последнюю распознанную команду.
func (s *Session) Command() string { return s.command }

// inButton проверяет попадание с включёнными границами.
func (s *Session) inButton(pt image.Point) bool {
	b := s.cfg.Button
	return b.Min.X <= pt.X && pt.X <= b.Max.X && b.Min.Y <= pt.Y && pt.Y <= b.Max.Y
}

// Click обрабатывает нажатие мыши. Клик по кнопке блокирует вызывающего
// на время записи и распознавания.
func (s *Session) Click(ctx context.Context, pt image.Point) {
	if !s.inButton(pt) {
		log.Printf("Клик вне кнопки (%d, %d)", pt.X, pt.Y)
		if s.armed {
			s.armed = false
			s.notifyState()
		}
		return
	}

	log.Printf("Клик по кнопке (%d, %d)", pt.X, pt.Y)
	s.record(ctx)
}

func (s *Session) record(ctx context.Context) {
	if s.observer != nil {
		s.observer.Recording()
	}
	s.command = s.voice.Capture(ctx)
	s.armed = true
	s.notifyState()
}

func (s *Session) notifyState() {
	if s.observer != nil {
		s.observer.StateChanged(s.armed, s.command)
	}
}

// Highlights оставляет детекции, которые нужно нарисовать.
func (s *Session) Highlights(dets []vision.Detection) []vision.Detection {
	return vision.Filter(dets, s.armed, s.command, s.cfg.Match)
}

// Step читает кадр, запускает детектор и рисует сцену.
// Возвращает io.EOF, когда источник закончился.
func (s *Session) Step() (*image.RGBA, error) {
	frame, err := s.source.Read()
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	dets, err := s.detector.Detect(frame)
	if err != nil {
		log.Printf("Ошибка детекции (%s): %v", s.detector.Name(), err)
		dets = nil
	}

	img, err := frame.Image()
	if err != nil {
		return nil, err
	}

	err = overlay.Draw(img, overlay.Scene{
		Highlights:    s.Highlights(dets),
		Button:        s.cfg.Button,
		ButtonCaption: s.cfg.ButtonCaption,
		ButtonAt:      s.cfg.ButtonAt,
		Command:       fmt.Sprintf(s.cfg.CommandFormat, s.command),
		CommandAt:     s.cfg.CommandAt,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка отрисовки: %w", err)
	}

	return img, nil
}

// Run крутит цикл до выхода, конца потока или ошибки и освобождает
// источник, детектор и окно.
func (s *Session) Run(ctx context.Context, display Display) error {
	s.display = display
	defer s.Close()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		for _, ev := range display.Events() {
			switch ev.Kind {
			case EventQuit:
				log.Printf("Выход по запросу пользователя")
				return nil
			case EventClick:
				s.Click(ctx, ev.Point)
			case EventRecord:
				log.Printf("Запись по горячей клавише")
				s.record(ctx)
			}
		}

		img, err := s.Step()
		if errors.Is(err, io.EOF) {
			log.Printf("Видеопоток закончился")
			return nil
		}
		if err != nil {
			return err
		}

		if err := display.Show(img); err != nil {
			return err
		}
	}
}

// Close освобождает ресурсы ровно один раз.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if err := s.source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("камера: %w", err))
		}
		if err := s.detector.Close(); err != nil {
			errs = append(errs, fmt.Errorf("детектор: %w", err))
		}
		if s.display != nil {
			if err := s.display.Close(); err != nil {
				errs = append(errs, fmt.Errorf("окно: %w", err))
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
