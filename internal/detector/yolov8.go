package detector

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"glimpse/internal/vision"
)

const (
	yolov8Input = 640
	// Выход YOLOv8: [1, 4+классы, якоря]
	yolov8Dims = 3
)

// yolov8 - YOLOv8 в формате ONNX.
type yolov8 struct {
	mu    sync.Mutex
	net   gocv.Net
	names []string
	opts  vision.DecodeOptions
}

func newYOLOv8(desc Descriptor) (*yolov8, error) {
	names, err := loadNames(desc.NamesPath)
	if err != nil {
		return nil, err
	}

	net, err := newNet(gocv.ReadNetFromONNX(desc.ModelPath), desc.ModelPath)
	if err != nil {
		return nil, err
	}

	opts := vision.DecodeOptions{ScoreThreshold: 0.25, NMSThreshold: 0.45}
	if desc.ScoreThreshold > 0 {
		opts.ScoreThreshold = desc.ScoreThreshold
	}
	if desc.NMSThreshold > 0 {
		opts.NMSThreshold = desc.NMSThreshold
	}

	return &yolov8{net: net, names: names, opts: opts}, nil
}

func (d *yolov8) Name() string { return string(BackendYOLOv8) }

func (d *yolov8) Detect(frame vision.Frame) ([]vision.Detection, error) {
	mat, err := asMat(frame)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(yolov8Input, yolov8Input),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	size := out.Size()
	if len(size) != yolov8Dims || size[1] < 5 {
		return nil, fmt.Errorf("неожиданная форма выхода YOLOv8: %v", size)
	}

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения выхода YOLOv8: %w", err)
	}

	geo := vision.Geometry{Frame: frame.Size(), Input: image.Pt(yolov8Input, yolov8Input)}
	return vision.DecodeYOLOv8(data, size[2], d.names, geo, d.opts)
}

func (d *yolov8) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
