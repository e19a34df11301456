// Package detector запускает модели YOLO через модуль DNN OpenCV.
package detector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"glimpse/internal/vision"
)

// Backend тип модели детекции.
type Backend string

const (
	// BackendYOLOv8 - YOLOv8, экспортированная в ONNX.
	BackendYOLOv8 Backend = "yolov8"
	// BackendDarknet - Darknet YOLOv4-tiny (.weights + .cfg).
	BackendDarknet Backend = "darknet"
)

// Descriptor описывает файлы и пороги модели.
type Descriptor struct {
	Backend Backend

	// ModelPath - .onnx или .weights.
	ModelPath string
	// ConfigPath - топология .cfg (только Darknet).
	ConfigPath string
	// NamesPath - coco.names или data.yaml. Пустой - встроенный список COCO.
	NamesPath string

	// Нулевые значения заменяются порогами по умолчанию для backend.
	ScoreThreshold float32
	NMSThreshold   float32
}

// matFrame - кадр, который можно отдать в DNN без копирования.
type matFrame interface {
	Mat() gocv.Mat
}

// Load создаёт детектор по описанию.
func Load(desc Descriptor) (vision.Detector, error) {
	if err := requireFile(desc.ModelPath); err != nil {
		return nil, err
	}

	switch desc.Backend {
	case BackendYOLOv8:
		return newYOLOv8(desc)
	case BackendDarknet:
		if err := requireFile(desc.ConfigPath); err != nil {
			return nil, err
		}
		return newDarknet(desc)
	default:
		return nil, fmt.Errorf("неизвестный тип детектора: %q", desc.Backend)
	}
}

func requireFile(path string) error {
	if path == "" {
		return fmt.Errorf("не указан файл модели")
	}
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("файл модели недоступен: %w", err)
	}
	if st.IsDir() || st.Size() == 0 {
		return fmt.Errorf("файл модели пуст или является директорией: %s", path)
	}
	return nil
}

// loadNames выбирает источник имён классов по расширению файла.
func loadNames(path string) ([]string, error) {
	switch {
	case path == "":
		return vision.COCONames(), nil
	case isYAML(path):
		return vision.LoadNamesYAML(path)
	default:
		return vision.LoadNames(path)
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func asMat(frame vision.Frame) (gocv.Mat, error) {
	f, ok := frame.(matFrame)
	if !ok {
		return gocv.Mat{}, fmt.Errorf("кадр %T не поддерживается детектором", frame)
	}
	return f.Mat(), nil
}

func newNet(net gocv.Net, what string) (gocv.Net, error) {
	if net.Empty() {
		net.Close()
		return net, fmt.Errorf("не удалось загрузить %s", what)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)
	return net, nil
}
