package vision

import (
	"fmt"
	"strings"
)

// MatchMode определяет, как имя класса сопоставляется с командой.
type MatchMode string

const (
	// MatchContains - имя класса без учёта регистра входит в команду.
	MatchContains MatchMode = "contains"
	// MatchLegacy повторяет проверку старого варианта на Darknet:
	// с учётом регистра и только если вхождение начинается не с позиции 0.
	MatchLegacy MatchMode = "legacy"
)

// ParseMatchMode разбирает режим сопоставления из конфигурации.
// Пустая строка означает MatchContains.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case "", MatchContains:
		return MatchContains, nil
	case MatchLegacy:
		return MatchLegacy, nil
	default:
		return "", fmt.Errorf("неизвестный режим сопоставления: %q", s)
	}
}

// Matches проверяет, упомянут ли класс в команде.
func Matches(mode MatchMode, command, class string) bool {
	if class == "" {
		return false
	}
	switch mode {
	case MatchLegacy:
		return strings.Index(command, class) > 0
	default:
		return strings.Contains(strings.ToLower(command), strings.ToLower(class))
	}
}

// Filter оставляет детекции, которые нужно подсветить.
// Пока кнопка не нажата (armed == false), не подсвечивается ничего.
func Filter(dets []Detection, armed bool, command string, mode MatchMode) []Detection {
	if !armed {
		return nil
	}
	var out []Detection
	for _, d := range dets {
		if Matches(mode, command, d.Class) {
			out = append(out, d)
		}
	}
	return out
}
