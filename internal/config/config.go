// Package config предоставляет конфигурацию приложения из файла config.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileName - имя файла конфигурации рядом с бинарником.
const FileName = "config.json"

// Modifier представляет модификатор клавиши.
type Modifier string

const (
	ModCtrl  Modifier = "ctrl"
	ModShift Modifier = "shift"
	ModAlt   Modifier = "alt"
	ModSuper Modifier = "super" // Win/Cmd
)

// Key представляет клавишу: "space", "return", "a".."z", "f1".."f12".
type Key string

// HotkeyConfig хранит настройки горячей клавиши.
type HotkeyConfig struct {
	Enabled   bool       `json:"enabled"`
	Modifiers []Modifier `json:"modifiers"`
	Key       Key        `json:"key"`
}

// String возвращает строковое представление горячей клавиши.
func (h HotkeyConfig) String() string {
	parts := make([]string, 0, len(h.Modifiers)+1)
	for _, m := range h.Modifiers {
		parts = append(parts, string(m))
	}
	parts = append(parts, string(h.Key))
	return strings.Join(parts, "+")
}

// Rect - прямоугольник с включёнными границами.
type Rect struct {
	XStart int `json:"x_start"`
	YStart int `json:"y_start"`
	XEnd   int `json:"x_end"`
	YEnd   int `json:"y_end"`
}

// Rectangle возвращает прямоугольник в координатах image.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.XStart, r.YStart, r.XEnd, r.YEnd)
}

// Point - точка на кадре.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Point возвращает точку в координатах image.
func (p Point) Point() image.Point {
	return image.Pt(p.X, p.Y)
}

// CameraConfig - источник кадров.
type CameraConfig struct {
	Device int `json:"device"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AudioConfig - параметры записи голосовой команды.
type AudioConfig struct {
	SampleRate      int     `json:"sample_rate"`
	Channels        int     `json:"channels"`
	DurationSeconds float64 `json:"duration_seconds"`
	RawFile         string  `json:"raw_file"`
	PCMFile         string  `json:"pcm_file"`
}

// Duration возвращает длительность записи.
func (a AudioConfig) Duration() time.Duration {
	return time.Duration(a.DurationSeconds * float64(time.Second))
}

// DetectorConfig - модель детекции и пороги.
type DetectorConfig struct {
	ModelID        string  `json:"model_id"`
	ScoreThreshold float32 `json:"score_threshold,omitempty"`
	NMSThreshold   float32 `json:"nms_threshold,omitempty"`
	MatchMode      string  `json:"match_mode"`
}

// SpeechConfig - движок распознавания речи.
type SpeechConfig struct {
	Engine          string `json:"engine"`
	Language        string `json:"language"`
	ModelID         string `json:"model_id,omitempty"`
	CredentialsFile string `json:"credentials_file,omitempty"`
}

// UIConfig - геометрия кнопки и подписей.
type UIConfig struct {
	Button           Rect  `json:"button"`
	ButtonCaptionAt  Point `json:"button_caption_at"`
	CommandCaptionAt Point `json:"command_caption_at"`
}

// configData структура для сериализации.
type configData struct {
	Camera        CameraConfig   `json:"camera"`
	Audio         AudioConfig    `json:"audio"`
	Detector      DetectorConfig `json:"detector"`
	Speech        SpeechConfig   `json:"speech"`
	UI            UIConfig       `json:"ui"`
	UILanguage    string         `json:"ui_language"`
	Notifications bool           `json:"notifications"`
	Tray          bool           `json:"tray"`
	Hotkey        HotkeyConfig   `json:"hotkey"`
}

func defaults() configData {
	return configData{
		Camera: CameraConfig{Device: 0, Width: 1280, Height: 720},
		Audio: AudioConfig{
			SampleRate:      44100,
			Channels:        2,
			DurationSeconds: 3,
			RawFile:         "output.wav",
			PCMFile:         "outputNew.wav",
		},
		Detector: DetectorConfig{
			ModelID:   "yolov8n",
			MatchMode: "contains",
		},
		Speech: SpeechConfig{
			Engine:   "google",
			Language: "en-US",
		},
		UI: UIConfig{
			Button:           Rect{XStart: 10, YStart: 10, XEnd: 1270, YEnd: 710},
			ButtonCaptionAt:  Point{X: 40, Y: 60},
			CommandCaptionAt: Point{X: 40, Y: 100},
		},
		UILanguage: "en",
		Tray:       true,
		Hotkey: HotkeyConfig{
			Enabled:   true,
			Modifiers: []Modifier{ModCtrl, ModShift},
			Key:       "r",
		},
	}
}

// Config хранит настройки приложения. После загрузки не меняется.
type Config struct {
	mu   sync.RWMutex
	data configData
	path string
}

// New загружает config.json рядом с бинарником.
// Если файла нет, он создаётся с настройками по умолчанию.
func New() (*Config, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("не удалось определить путь к бинарнику: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, fmt.Errorf("не удалось разрешить симлинки: %w", err)
	}

	return Load(filepath.Join(filepath.Dir(execPath), FileName))
}

// Load читает конфигурацию из path. Отсутствующие поля берутся по умолчанию.
func Load(path string) (*Config, error) {
	c := &Config{data: defaults(), path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := c.save(); err != nil {
			return nil, err
		}
		return c, nil
	case err != nil:
		return nil, fmt.Errorf("не удалось прочитать %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &c.data); err != nil {
		return nil, fmt.Errorf("некорректный %s: %w", path, err)
	}
	if err := c.data.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// save записывает текущие настройки в файл.
func (c *Config) save() error {
	data, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("не удалось сохранить %s: %w", c.path, err)
	}
	return nil
}

func (d configData) validate() error {
	var errs []error

	if d.Camera.Width <= 0 || d.Camera.Height <= 0 {
		errs = append(errs, fmt.Errorf("camera: некорректное разрешение %dx%d", d.Camera.Width, d.Camera.Height))
	}
	if d.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio: некорректная частота %d", d.Audio.SampleRate))
	}
	if d.Audio.Channels <= 0 {
		errs = append(errs, fmt.Errorf("audio: некорректное число каналов %d", d.Audio.Channels))
	}
	if d.Audio.DurationSeconds <= 0 {
		errs = append(errs, fmt.Errorf("audio: некорректная длительность %v", d.Audio.DurationSeconds))
	}
	if d.Audio.RawFile == "" || d.Audio.PCMFile == "" {
		errs = append(errs, errors.New("audio: не заданы имена файлов"))
	}
	if d.Detector.ModelID == "" {
		errs = append(errs, errors.New("detector: не задана модель"))
	}
	if t := d.Detector.ScoreThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("detector: порог %v вне [0, 1]", t))
	}
	if t := d.Detector.NMSThreshold; t < 0 || t > 1 {
		errs = append(errs, fmt.Errorf("detector: порог NMS %v вне [0, 1]", t))
	}
	switch d.Speech.Engine {
	case "google":
	case "whisper", "vosk":
		if d.Speech.ModelID == "" {
			errs = append(errs, fmt.Errorf("speech: для движка %s нужна модель", d.Speech.Engine))
		}
	default:
		errs = append(errs, fmt.Errorf("speech: неизвестный движок %q", d.Speech.Engine))
	}
	if b := d.UI.Button; b.XEnd < b.XStart || b.YEnd < b.YStart {
		errs = append(errs, errors.New("ui: у кнопки конец раньше начала"))
	}
	if d.Hotkey.Enabled && d.Hotkey.Key == "" {
		errs = append(errs, errors.New("hotkey: не задана клавиша"))
	}

	return errors.Join(errs...)
}

// Path возвращает путь к файлу конфигурации.
func (c *Config) Path() string {
	return c.path
}

// Camera возвращает настройки камеры.
func (c *Config) Camera() CameraConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Camera
}

// Audio возвращает настройки записи.
func (c *Config) Audio() AudioConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Audio
}

// Detector возвращает настройки детектора.
func (c *Config) Detector() DetectorConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Detector
}

// Speech возвращает настройки распознавания речи.
func (c *Config) Speech() SpeechConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Speech
}

// UI возвращает геометрию интерфейса.
func (c *Config) UI() UIConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.UI
}

// UILanguage возвращает язык интерфейса.
func (c *Config) UILanguage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.UILanguage
}

// NotificationsEnabled возвращает true если уведомления включены.
func (c *Config) NotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Notifications
}

// TrayEnabled возвращает true если нужна иконка в трее.
func (c *Config) TrayEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Tray
}

// Hotkey возвращает горячую клавишу.
func (c *Config) Hotkey() HotkeyConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Hotkey
}
