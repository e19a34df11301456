// Package hotkey предоставляет глобальную горячую клавишу записи.
package hotkey

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.design/x/hotkey"

	"glimpse/internal/config"
)

// debounceInterval защищает от key repeat.
const debounceInterval = 300 * time.Millisecond

// Handler слушает горячую клавишу и вызывает onPress на каждое нажатие.
// onPress вызывается из горутины обработчика.
type Handler struct {
	mu      sync.Mutex
	hk      *hotkey.Hotkey
	onPress func()
	current config.HotkeyConfig
	stopCh  chan struct{}
}

// New создаёт обработчик горячей клавиши.
func New(onPress func()) *Handler {
	return &Handler{onPress: onPress}
}

// Register регистрирует горячую клавишу.
func (h *Handler) Register(cfg config.HotkeyConfig) error {
	key, ok := keyMap[config.Key(strings.ToLower(string(cfg.Key)))]
	if !ok {
		return fmt.Errorf("неизвестная клавиша: %s", cfg.Key)
	}

	mods := make([]hotkey.Modifier, 0, len(cfg.Modifiers))
	for _, m := range cfg.Modifiers {
		mod, ok := modifierMap[m]
		if !ok {
			return fmt.Errorf("неизвестный модификатор: %s", m)
		}
		mods = append(mods, mod)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.hk != nil {
		return fmt.Errorf("горячая клавиша уже зарегистрирована: %s", h.current.String())
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("ошибка регистрации %s: %w", cfg.String(), err)
	}

	h.hk = hk
	h.current = cfg
	h.stopCh = make(chan struct{})

	log.Printf("Горячая клавиша зарегистрирована: %s", cfg.String())
	go h.listen(hk, h.stopCh)
	return nil
}

func (h *Handler) listen(hk *hotkey.Hotkey, stopCh chan struct{}) {
	var lastKeydown time.Time

	for {
		select {
		case <-stopCh:
			return
		case _, ok := <-hk.Keydown():
			if !ok {
				return
			}
			now := time.Now()
			if now.Sub(lastKeydown) < debounceInterval {
				continue
			}
			lastKeydown = now
			if h.onPress != nil {
				h.onPress()
			}
		case _, ok := <-hk.Keyup():
			if !ok {
				return
			}
		}
	}
}

// Unregister отменяет регистрацию горячей клавиши.
func (h *Handler) Unregister() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopCh != nil {
		close(h.stopCh)
		h.stopCh = nil
	}

	if h.hk == nil {
		return nil
	}

	hk := h.hk
	h.hk = nil

	// Unregister может зависнуть на некоторых X11 серверах
	done := make(chan error, 1)
	go func() { done <- hk.Unregister() }()
	select {
	case err := <-done:
		return err
	case <-time.After(500 * time.Millisecond):
		log.Printf("Таймаут отмены горячей клавиши")
		return nil
	}
}

// keyMap определяет поддерживаемые клавиши.
var keyMap = map[config.Key]hotkey.Key{
	"space":  hotkey.KeySpace,
	"return": hotkey.KeyReturn,
	"a":      hotkey.KeyA,
	"b":      hotkey.KeyB,
	"c":      hotkey.KeyC,
	"d":      hotkey.KeyD,
	"e":      hotkey.KeyE,
	"f":      hotkey.KeyF,
	"g":      hotkey.KeyG,
	"h":      hotkey.KeyH,
	"i":      hotkey.KeyI,
	"j":      hotkey.KeyJ,
	"k":      hotkey.KeyK,
	"l":      hotkey.KeyL,
	"m":      hotkey.KeyM,
	"n":      hotkey.KeyN,
	"o":      hotkey.KeyO,
	"p":      hotkey.KeyP,
	"q":      hotkey.KeyQ,
	"r":      hotkey.KeyR,
	"s":      hotkey.KeyS,
	"t":      hotkey.KeyT,
	"u":      hotkey.KeyU,
	"v":      hotkey.KeyV,
	"w":      hotkey.KeyW,
	"x":      hotkey.KeyX,
	"y":      hotkey.KeyY,
	"z":      hotkey.KeyZ,
	"f1":     hotkey.KeyF1,
	"f2":     hotkey.KeyF2,
	"f3":     hotkey.KeyF3,
	"f4":     hotkey.KeyF4,
	"f5":     hotkey.KeyF5,
	"f6":     hotkey.KeyF6,
	"f7":     hotkey.KeyF7,
	"f8":     hotkey.KeyF8,
	"f9":     hotkey.KeyF9,
	"f10":    hotkey.KeyF10,
	"f11":    hotkey.KeyF11,
	"f12":    hotkey.KeyF12,
}
