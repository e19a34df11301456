package models

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrManualAsset - файл нельзя скачать автоматически.
var ErrManualAsset = errors.New("файл нужно положить вручную")

// Progress информация о прогрессе загрузки.
type Progress struct {
	ModelID    string
	Filename   string
	Downloaded int64
	Total      int64
	Done       bool
}

// Manager управляет файлами моделей на диске.
type Manager struct {
	modelsDir string
	client    *http.Client
	mu        sync.Mutex
}

// NewManager создаёт менеджер моделей.
// Модели хранятся в директории models/ рядом с бинарником.
func NewManager() (*Manager, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("не удалось определить путь к бинарнику: %w", err)
	}

	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, fmt.Errorf("не удалось разрешить симлинки: %w", err)
	}

	return NewManagerAt(filepath.Join(filepath.Dir(execPath), "models"))
}

// NewManagerAt создаёт менеджер с моделями в dir.
func NewManagerAt(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию моделей: %w", err)
	}
	return &Manager{modelsDir: dir, client: http.DefaultClient}, nil
}

// ModelsDir возвращает путь к директории моделей.
func (m *Manager) ModelsDir() string {
	return m.modelsDir
}

// GetPath возвращает путь к файлу модели с указанной ролью.
// Пустая строка, если у модели нет такого файла.
func (m *Manager) GetPath(info ModelInfo, role Role) string {
	a, ok := info.Asset(role)
	if !ok {
		return ""
	}
	return m.assetPath(info, a)
}

func (m *Manager) assetPath(info ModelInfo, a Asset) string {
	return filepath.Join(m.modelsDir, string(info.Engine), a.Filename)
}

// IsDownloaded проверяет, что все файлы модели на месте.
func (m *Manager) IsDownloaded(info ModelInfo) bool {
	if len(info.Assets) == 0 {
		return false
	}
	for _, a := range info.Assets {
		if !m.hasAsset(info, a) {
			return false
		}
	}
	return true
}

// Missing возвращает пути отсутствующих файлов модели.
func (m *Manager) Missing(info ModelInfo) []string {
	var missing []string
	for _, a := range info.Assets {
		if !m.hasAsset(info, a) {
			missing = append(missing, m.assetPath(info, a))
		}
	}
	return missing
}

func (m *Manager) hasAsset(info ModelInfo, a Asset) bool {
	stat, err := os.Stat(m.assetPath(info, a))
	if err != nil {
		return false
	}
	// Распакованный архив - директория
	if a.IsZip {
		return stat.IsDir()
	}
	return !stat.IsDir() && stat.Size() > 0
}

// Download скачивает недостающие файлы модели.
// progress канал получает обновления о прогрессе (можно nil).
func (m *Manager) Download(ctx context.Context, info ModelInfo, progress chan<- Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir := filepath.Join(m.modelsDir, string(info.Engine))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию %s: %w", dir, err)
	}

	for _, a := range info.Assets {
		if m.hasAsset(info, a) {
			continue
		}
		if a.URL == "" {
			return fmt.Errorf("%s: %w", m.assetPath(info, a), ErrManualAsset)
		}

		var err error
		if a.IsZip {
			err = m.downloadAndUnzip(ctx, info, a, progress)
		} else {
			err = m.downloadFile(ctx, info, a, progress)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", a.Filename, err)
		}
	}

	if progress != nil {
		progress <- Progress{ModelID: info.ID, Done: true}
	}
	return nil
}

func (m *Manager) downloadFile(ctx context.Context, info ModelInfo, a Asset, progress chan<- Progress) error {
	destPath := m.assetPath(info, a)
	tmpPath := destPath + ".tmp"
	defer os.Remove(tmpPath)

	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	if err := m.fetch(ctx, info, a, file, progress); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, destPath)
}

func (m *Manager) downloadAndUnzip(ctx context.Context, info ModelInfo, a Asset, progress chan<- Progress) error {
	tmpZip, err := os.CreateTemp("", "model-*.zip")
	if err != nil {
		return err
	}
	tmpPath := tmpZip.Name()
	defer os.Remove(tmpPath)

	if err := m.fetch(ctx, info, a, tmpZip, progress); err != nil {
		tmpZip.Close()
		return err
	}
	tmpZip.Close()

	// Архив содержит директорию модели верхнего уровня
	if err := unzip(tmpPath, filepath.Dir(m.assetPath(info, a))); err != nil {
		return fmt.Errorf("ошибка распаковки: %w", err)
	}
	return nil
}

// fetch скачивает a.URL в w, сообщая о прогрессе.
func (m *Manager) fetch(ctx context.Context, info ModelInfo, a Asset, w io.Writer, progress chan<- Progress) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return err
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка скачивания: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP ошибка: %s", resp.Status)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = a.Size
	}

	var downloaded int64
	buf := make([]byte, 32*1024)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			downloaded += int64(n)

			if progress != nil {
				select {
				case progress <- Progress{ModelID: info.ID, Filename: a.Filename, Downloaded: downloaded, Total: total}:
				default:
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func unzip(src, destDir string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	root := filepath.Clean(destDir) + string(os.PathSeparator)
	for _, f := range r.File {
		fpath := filepath.Join(destDir, f.Name)
		if !strings.HasPrefix(fpath, root) {
			return fmt.Errorf("недопустимый путь в архиве: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, 0755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
			return err
		}

		outFile, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
		if err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			outFile.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()

		if err != nil {
			return err
		}
	}

	return nil
}

// Delete удаляет файлы модели.
func (m *Manager) Delete(info ModelInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range info.Assets {
		if err := os.RemoveAll(m.assetPath(info, a)); err != nil {
			return err
		}
	}
	return nil
}
