// Package camera читает кадры с веб-камеры через OpenCV.
package camera

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"log"
	"sync"

	"gocv.io/x/gocv"

	"glimpse/internal/vision"
)

// Camera - открытое устройство захвата.
type Camera struct {
	mu   sync.Mutex
	cap  *gocv.VideoCapture
	once sync.Once
}

// Open открывает устройство и запрашивает разрешение width x height.
// Устройство может выбрать другое разрешение.
func Open(device, width, height int) (*Camera, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть камеру %d: %w", device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("камера %d недоступна", device)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(height))

	got := image.Pt(int(vc.Get(gocv.VideoCaptureFrameWidth)), int(vc.Get(gocv.VideoCaptureFrameHeight)))
	if got != image.Pt(width, height) {
		log.Printf("Камера выбрала разрешение %dx%d вместо %dx%d", got.X, got.Y, width, height)
	}

	return &Camera{cap: vc}, nil
}

// Read возвращает следующий кадр или io.EOF, если поток закончился.
func (c *Camera) Read() (vision.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cap == nil {
		return nil, io.EOF
	}

	mat := gocv.NewMat()
	if ok := c.cap.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, io.EOF
	}

	return &Frame{mat: mat}, nil
}

// Close освобождает устройство. Повторные вызовы ничего не делают.
func (c *Camera) Close() error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		err = c.cap.Close()
		c.cap = nil
	})
	return err
}

// Frame - кадр в памяти OpenCV (BGR).
type Frame struct {
	mat gocv.Mat
}

// Mat возвращает кадр для DNN. Владельцем остаётся Frame.
func (f *Frame) Mat() gocv.Mat {
	return f.mat
}

// Size возвращает размер кадра.
func (f *Frame) Size() image.Point {
	return image.Pt(f.mat.Cols(), f.mat.Rows())
}

// Image копирует кадр в RGBA.
func (f *Frame) Image() (*image.RGBA, error) {
	img, err := f.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("ошибка конвертации кадра: %w", err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}

	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

// Close освобождает память кадра.
func (f *Frame) Close() error {
	return f.mat.Close()
}
