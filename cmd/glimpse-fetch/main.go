// glimpse-fetch управляет файлами моделей в директории models/ рядом с
// бинарником.
//
//	glimpse-fetch get [model...]   скачать модели (по умолчанию из config.json)
//	glimpse-fetch list             показать известные модели
//	glimpse-fetch remove model...  удалить файлы моделей
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"glimpse/internal/config"
	"glimpse/internal/models"
	"glimpse/internal/speech"
)

func main() {
	log.SetFlags(log.Ltime)

	app := &cli.App{
		Name:  "glimpse-fetch",
		Usage: "скачать модели детекции и распознавания речи",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "скачать модели; без аргументов - детектор и модель речи из config.json",
				ArgsUsage: "[model...]",
				Action:    getCommand,
			},
			{
				Name:   "list",
				Usage:  "показать известные модели (* - скачана)",
				Action: listCommand,
			},
			{
				Name:      "remove",
				Usage:     "удалить файлы моделей",
				ArgsUsage: "<model...>",
				Action:    removeCommand,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Printf("Ошибка: %v", err)
		stop()
		os.Exit(1)
	}
}

func getCommand(c *cli.Context) error {
	manager, err := models.NewManager()
	if err != nil {
		return err
	}

	ids := c.Args().Slice()
	if len(ids) == 0 {
		cfg, err := config.New()
		if err != nil {
			return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
		}
		ids = configuredModels(cfg)
	}

	var errs []error
	for _, id := range ids {
		if err := fetch(c.Context, manager, id); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

func listCommand(c *cli.Context) error {
	manager, err := models.NewManager()
	if err != nil {
		return err
	}

	engines := []models.Engine{models.EngineYOLOv8, models.EngineDarknet, models.EngineWhisper, models.EngineVosk}
	for _, engine := range engines {
		for _, info := range models.GetModelsByEngine(engine) {
			mark := " "
			if manager.IsDownloaded(info) {
				mark = "*"
			}
			fmt.Fprintf(c.App.Writer, "%s %-16s %-8s %s\n", mark, info.ID, info.Engine, info.Name)
		}
	}
	return nil
}

func removeCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("не указаны модели")
	}
	manager, err := models.NewManager()
	if err != nil {
		return err
	}

	for _, id := range c.Args().Slice() {
		info, ok := models.GetModel(id)
		if !ok {
			return fmt.Errorf("%s: неизвестная модель", id)
		}
		if err := manager.Delete(info); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		log.Printf("%s удалена", info.Name)
	}
	return nil
}

func configuredModels(cfg *config.Config) []string {
	ids := []string{cfg.Detector().ModelID}
	if sc := cfg.Speech(); speech.Engine(sc.Engine) != speech.EngineGoogle && sc.ModelID != "" {
		ids = append(ids, sc.ModelID)
	}
	return ids
}

func fetch(ctx context.Context, manager *models.Manager, id string) error {
	info, ok := models.GetModel(id)
	if !ok {
		return errors.New("неизвестная модель")
	}
	if manager.IsDownloaded(info) {
		log.Printf("%s уже скачана", info.Name)
		return nil
	}

	log.Printf("Скачивание %s в %s", info.Name, manager.ModelsDir())

	progress := make(chan models.Progress, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		report(progress)
	}()

	err := manager.Download(ctx, info, progress)
	close(progress)
	<-done

	if errors.Is(err, models.ErrManualAsset) && info.Engine == models.EngineYOLOv8 {
		log.Printf("Экспортируйте модель: yolo export model=%s.pt format=onnx", info.ID)
	}
	return err
}

// report пишет в лог каждые 10% загрузки файла.
func report(progress <-chan models.Progress) {
	lastFile, lastStep := "", int64(-1)
	for p := range progress {
		if p.Done {
			log.Printf("%s готова", p.ModelID)
			continue
		}
		if p.Filename != lastFile {
			lastFile, lastStep = p.Filename, -1
		}
		if p.Total <= 0 {
			continue
		}
		if step := p.Downloaded * 10 / p.Total; step != lastStep {
			lastStep = step
			log.Printf("  %s: %d%%", p.Filename, step*10)
		}
	}
}
