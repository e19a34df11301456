// Package i18n provides UI strings in English and Russian.
package i18n

import (
	"fmt"
	"strings"
	"sync"
)

// Language represents a UI language.
type Language string

const (
	EN Language = "en"
	RU Language = "ru"
)

var (
	mu      sync.RWMutex
	current = EN
)

var translations = map[Language]map[string]string{
	EN: {
		"app_name":    "Glimpse",
		"app_tooltip": "Glimpse - say what to look for",

		// Main window. Captions are drawn over the video with a fixed font.
		"window_title":    "Frame",
		"button_caption":  "Record for %d seconds",
		"recognised_text": "Recognised text: %s",

		// Tray menu
		"tray_ready":       "Ready",
		"tray_armed":       "Looking for: %s",
		"tray_recording":   "Recording...",
		"tray_record":      "Record",
		"tray_record_hint": "Record a voice command",
		"tray_quit":        "Quit",
		"tray_quit_hint":   "Close application",

		// Notifications
		"notify_recording":      "Recording...",
		"notify_recording_hint": "Say what to look for",
		"notify_done":           "Looking for",
		"notify_empty":          "Could not recognize",
		"notify_empty_hint":     "Click the button and try again",

		// Startup window
		"startup_title":    "Starting Glimpse",
		"startup_detector": "Loading detector",
		"startup_speech":   "Connecting speech engine",
		"startup_camera":   "Opening camera",
		"startup_audio":    "Opening microphone",

		// Recording indicator
		"indicator_title":             "Glimpse - recording",
		"indicator_recording":         "Listening...",
		"indicator_transcribing":      "Recognising speech",
		"indicator_transcribing_hint": "The frame resumes when done",

		// Errors
		"error_startup": "Glimpse could not start",
		"error_hotkey":  "Could not register hotkey",
	},

	RU: {
		"app_name":    "Glimpse",
		"app_tooltip": "Glimpse - скажите, что искать",

		"window_title":    "Кадр",
		"button_caption":  "Запись %d секунды",
		"recognised_text": "Распознано: %s",

		"tray_ready":       "Готов к работе",
		"tray_armed":       "Ищу: %s",
		"tray_recording":   "Запись...",
		"tray_record":      "Записать",
		"tray_record_hint": "Записать голосовую команду",
		"tray_quit":        "Выход",
		"tray_quit_hint":   "Закрыть приложение",

		"notify_recording":      "Запись...",
		"notify_recording_hint": "Скажите, что искать",
		"notify_done":           "Ищу",
		"notify_empty":          "Не удалось распознать",
		"notify_empty_hint":     "Нажмите кнопку и попробуйте ещё раз",

		"startup_title":    "Запуск Glimpse",
		"startup_detector": "Загрузка детектора",
		"startup_speech":   "Подключение распознавания речи",
		"startup_camera":   "Открытие камеры",
		"startup_audio":    "Открытие микрофона",

		"indicator_title":             "Glimpse - запись",
		"indicator_recording":         "Слушаю...",
		"indicator_transcribing":      "Распознаю речь",
		"indicator_transcribing_hint": "Кадр обновится после распознавания",

		"error_startup": "Не удалось запустить Glimpse",
		"error_hotkey":  "Не удалось зарегистрировать горячую клавишу",
	},
}

// T returns the translation for the given key, or the key itself.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if s, ok := translations[current][key]; ok {
		return s
	}
	return key
}

// Tf formats the translation for key with args.
func Tf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}

// Parse returns the language for a config value; unknown values map to English.
func Parse(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case RU:
		return RU
	default:
		return EN
	}
}

// SetLanguage sets the current UI language.
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	current = lang
}

// GetLanguage returns the current UI language.
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}
