// Package dialog показывает системные диалоги.
package dialog

import (
	"log"

	"github.com/ncruces/zenity"
)

// ShowError показывает модальный диалог с ошибкой и ждёт его закрытия.
// Если диалог недоступен (нет дисплея), ошибка только пишется в лог.
func ShowError(title, message string) {
	err := zenity.Error(message,
		zenity.Title(title),
		zenity.ErrorIcon,
	)
	if err != nil {
		log.Printf("Не удалось показать диалог: %v", err)
	}
}
