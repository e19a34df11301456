//go:build ignore

// Генерация иконок трея.
// Запуск: go run scripts/generate_icons.go
package main

import (
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

func main() {
	dir := "embedded"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("Не удалось создать директорию %s: %v", dir, err)
	}

	icons := []struct {
		name  string
		color color.RGBA
	}{
		{"icon_idle.png", color.RGBA{128, 128, 128, 255}},
		{"icon_armed.png", color.RGBA{50, 170, 80, 255}},
		{"icon_recording.png", color.RGBA{220, 50, 50, 255}},
	}

	for _, icon := range icons {
		path := filepath.Join(dir, icon.name)
		if err := generateIcon(path, icon.color); err != nil {
			log.Fatalf("Ошибка генерации %s: %v", icon.name, err)
		}
		log.Printf("Создан: %s", path)
	}
}

// generateIcon рисует «глаз»: кольцо и зрачок.
func generateIcon(path string, c color.RGBA) error {
	const size = 64

	dc := gg.NewContext(size, size)
	dc.SetColor(c)
	dc.SetLineWidth(6)
	dc.DrawCircle(size/2, size/2, 24)
	dc.Stroke()
	dc.DrawCircle(size/2, size/2, 10)
	dc.Fill()

	return dc.SavePNG(path)
}
