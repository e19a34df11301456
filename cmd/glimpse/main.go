// Glimpse - окно с видео с веб-камеры, в котором подсвечиваются объекты,
// названные голосом.
//
// Нажмите на кнопку в окне (или Ctrl+Shift+R) и скажите, что искать.
// Детекция через YOLOv8 (ONNX) или YOLOv4-tiny (Darknet), речь через
// Google Speech-to-Text, Whisper или Vosk.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	gioapp "gioui.org/app"

	"glimpse/internal/app"
	"glimpse/internal/dialog"
	"glimpse/internal/i18n"
)

// Version устанавливается при сборке через -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Printf("Glimpse %s запускается...", Version)

	go run()

	// Окнам нужен главный поток
	gioapp.Main()
}

func run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx)
	if err != nil {
		log.Printf("Ошибка инициализации: %v", err)
		dialog.ShowError(i18n.T("error_startup"), err.Error())
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		log.Printf("Ошибка: %v", err)
		os.Exit(1)
	}
	os.Exit(0)
}
