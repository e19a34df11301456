// Package notify предоставляет системные уведомления.
package notify

import (
	"github.com/gen2brain/beeep"

	"glimpse/internal/i18n"
)

// maxLen - длина текста уведомления до обрезки.
const maxLen = 100

// Notifier отправляет системные уведомления.
type Notifier struct {
	enabled bool
	send    func(title, message string) error
}

// New создаёт новый Notifier.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled, send: func(title, message string) error {
		return beeep.Notify(title, message, "")
	}}
}

// Recording показывает уведомление о начале записи.
func (n *Notifier) Recording() {
	n.notify(i18n.T("notify_recording"), i18n.T("notify_recording_hint"))
}

// Command показывает распознанную команду или сообщение о неудаче.
func (n *Notifier) Command(text string) {
	if text == "" {
		n.notify(i18n.T("notify_empty"), i18n.T("notify_empty_hint"))
		return
	}
	if r := []rune(text); len(r) > maxLen {
		text = string(r[:maxLen]) + "..."
	}
	n.notify(i18n.T("notify_done"), text)
}

func (n *Notifier) notify(title, message string) {
	if !n.enabled {
		return
	}
	// Ошибки уведомлений не критичны
	_ = n.send(i18n.T("app_name")+": "+title, message)
}
