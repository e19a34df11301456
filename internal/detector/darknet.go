package detector

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"glimpse/internal/vision"
)

const darknetInput = 416

// darknet - YOLOv4-tiny в формате Darknet.
type darknet struct {
	mu      sync.Mutex
	net     gocv.Net
	outputs []string
	names   []string
	opts    vision.DecodeOptions
}

func newDarknet(desc Descriptor) (*darknet, error) {
	names, err := loadNames(desc.NamesPath)
	if err != nil {
		return nil, err
	}

	net, err := newNet(gocv.ReadNetFromDarknet(desc.ConfigPath, desc.ModelPath), desc.ModelPath)
	if err != nil {
		return nil, err
	}

	var outputs []string
	for _, id := range net.GetUnconnectedOutLayers() {
		layer := net.GetLayer(id)
		outputs = append(outputs, layer.GetName())
		layer.Close()
	}
	if len(outputs) == 0 {
		net.Close()
		return nil, fmt.Errorf("в %s нет выходных слоёв", desc.ConfigPath)
	}

	// Слой Region в OpenCV отдаёт оценки классов, уже умноженные на objectness
	opts := vision.DecodeOptions{ScoreThreshold: 0.5, NMSThreshold: 0.45, ScaledScores: true}
	if desc.ScoreThreshold > 0 {
		opts.ScoreThreshold = desc.ScoreThreshold
	}
	if desc.NMSThreshold > 0 {
		opts.NMSThreshold = desc.NMSThreshold
	}

	return &darknet{net: net, outputs: outputs, names: names, opts: opts}, nil
}

func (d *darknet) Name() string { return string(BackendDarknet) }

func (d *darknet) Detect(frame vision.Frame) ([]vision.Detection, error) {
	mat, err := asMat(frame)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(darknetInput, darknetInput),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	outs := d.net.ForwardLayers(d.outputs)
	defer func() {
		for i := range outs {
			outs[i].Close()
		}
	}()

	// Каждый выход: строки cx, cy, w, h, objectness, score_0..
	layers := make([][]float32, 0, len(outs))
	classes := 0
	for _, out := range outs {
		if out.Cols() < 6 {
			return nil, fmt.Errorf("неожиданная ширина выхода Darknet: %d", out.Cols())
		}
		data, err := out.DataPtrFloat32()
		if err != nil {
			return nil, fmt.Errorf("ошибка чтения выхода Darknet: %w", err)
		}
		classes = out.Cols() - 5
		layers = append(layers, data)
	}

	geo := vision.Geometry{Frame: frame.Size()}
	return vision.DecodeDarknet(layers, classes, d.names, geo, d.opts)
}

func (d *darknet) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
