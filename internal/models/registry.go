// Package models управляет моделями детекции и распознавания речи.
package models

// Engine тип движка, которому принадлежит модель.
type Engine string

const (
	EngineYOLOv8  Engine = "yolov8"
	EngineDarknet Engine = "darknet"
	EngineWhisper Engine = "whisper"
	EngineVosk    Engine = "vosk"
)

// Role назначение файла в составе модели.
type Role string

const (
	RoleModel  Role = "model"  // веса: .onnx, .weights, ggml .bin, директория Vosk
	RoleConfig Role = "config" // топология Darknet (.cfg)
	RoleNames  Role = "names"  // имена классов (coco.names, data.yaml)
)

// Asset один файл модели.
type Asset struct {
	Role     Role
	Filename string // Имя файла/директории: "yolov4-tiny.weights"
	URL      string // Пустой URL - файл кладётся вручную
	Size     int64  // Размер в байтах (для прогресса)
	IsZip    bool   // Нужно ли распаковывать
}

// ModelInfo информация о модели.
type ModelInfo struct {
	ID     string // Уникальный идентификатор: "yolov4-tiny"
	Engine Engine
	Name   string // Отображаемое имя
	Assets []Asset
}

// Asset возвращает файл модели с указанной ролью.
func (m ModelInfo) Asset(role Role) (Asset, bool) {
	for _, a := range m.Assets {
		if a.Role == role {
			return a, true
		}
	}
	return Asset{}, false
}

// Registry все известные модели.
var Registry = []ModelInfo{
	// Детекторы
	{
		ID:     "yolov8n",
		Engine: EngineYOLOv8,
		Name:   "YOLOv8n (ONNX)",
		Assets: []Asset{
			// Экспорт: yolo export model=yolov8n.pt format=onnx
			{Role: RoleModel, Filename: "yolov8n.onnx", Size: 12 * 1024 * 1024},
		},
	},
	{
		ID:     "yolov4-tiny",
		Engine: EngineDarknet,
		Name:   "YOLOv4-tiny (Darknet)",
		Assets: []Asset{
			{
				Role:     RoleModel,
				Filename: "yolov4-tiny.weights",
				URL:      "https://github.com/AlexeyAB/darknet/releases/download/darknet_yolo_v4_pre/yolov4-tiny.weights",
				Size:     23 * 1024 * 1024,
			},
			{
				Role:     RoleConfig,
				Filename: "yolov4-tiny.cfg",
				URL:      "https://raw.githubusercontent.com/AlexeyAB/darknet/master/cfg/yolov4-tiny.cfg",
				Size:     3 * 1024,
			},
			{
				Role:     RoleNames,
				Filename: "coco.names",
				URL:      "https://raw.githubusercontent.com/AlexeyAB/darknet/master/data/coco.names",
				Size:     1024,
			},
		},
	},
	// Whisper
	{
		ID:     "whisper-tiny-en",
		Engine: EngineWhisper,
		Name:   "Whisper Tiny (en)",
		Assets: []Asset{{
			Role:     RoleModel,
			Filename: "ggml-tiny.en.bin",
			URL:      "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-tiny.en.bin",
			Size:     75 * 1024 * 1024,
		}},
	},
	{
		ID:     "whisper-base-en",
		Engine: EngineWhisper,
		Name:   "Whisper Base (en)",
		Assets: []Asset{{
			Role:     RoleModel,
			Filename: "ggml-base.en.bin",
			URL:      "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-base.en.bin",
			Size:     142 * 1024 * 1024,
		}},
	},
	// Vosk
	{
		ID:     "vosk-en-small",
		Engine: EngineVosk,
		Name:   "Vosk English Small",
		Assets: []Asset{{
			Role:     RoleModel,
			Filename: "vosk-model-small-en-us-0.15",
			URL:      "https://alphacephei.com/vosk/models/vosk-model-small-en-us-0.15.zip",
			Size:     40 * 1024 * 1024,
			IsZip:    true,
		}},
	},
	{
		ID:     "vosk-ru-small",
		Engine: EngineVosk,
		Name:   "Vosk Russian Small",
		Assets: []Asset{{
			Role:     RoleModel,
			Filename: "vosk-model-small-ru-0.22",
			URL:      "https://alphacephei.com/vosk/models/vosk-model-small-ru-0.22.zip",
			Size:     45 * 1024 * 1024,
			IsZip:    true,
		}},
	},
}

// GetModel возвращает модель по ID.
func GetModel(id string) (ModelInfo, bool) {
	for _, m := range Registry {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// GetModelsByEngine возвращает модели для указанного движка.
func GetModelsByEngine(engine Engine) []ModelInfo {
	var result []ModelInfo
	for _, m := range Registry {
		if m.Engine == engine {
			result = append(result, m)
		}
	}
	return result
}
