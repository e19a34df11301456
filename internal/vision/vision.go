// Package vision содержит общие типы детекции объектов и фильтр по голосовой команде.
//
// Пакет не зависит от OpenCV: разбор выходов нейросетей, NMS и загрузка
// имён классов работают на обычных срезах и тестируются без cgo.
package vision

import (
	"fmt"
	"image"
)

// Frame - кадр, полученный от источника видео.
// Конкретный тип определяется источником (см. internal/camera).
type Frame interface {
	// Image возвращает копию кадра в виде RGBA изображения.
	Image() (*image.RGBA, error)

	// Size возвращает размер кадра в пикселях.
	Size() image.Point

	// Close освобождает ресурсы кадра.
	Close() error
}

// Detection - один объект, найденный детектором на кадре.
type Detection struct {
	Class      string          // Имя класса: "cup", "person"
	Confidence float64         // Уверенность 0-1
	Box        image.Rectangle // Рамка в пикселях кадра
}

// Label возвращает подпись рамки: имя класса и уверенность.
func (d Detection) Label() string {
	return fmt.Sprintf("%s %.2f", d.Class, d.Confidence)
}

// Detector - интерфейс для бэкендов детекции объектов.
type Detector interface {
	// Detect находит объекты на кадре.
	// Порядок результатов не гарантируется.
	Detect(frame Frame) ([]Detection, error)

	// Close освобождает ресурсы модели.
	Close() error

	// Name возвращает название бэкенда (для логирования).
	Name() string
}
