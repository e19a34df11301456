// Package app собирает приложение: конфигурацию, модели, устройства,
// окно, трей и горячую клавишу вокруг сессии детекции.
package app

import (
	"context"
	"fmt"
	"image"
	"log"
	"strings"
	"sync"

	"glimpse/internal/audio"
	"glimpse/internal/camera"
	"glimpse/internal/config"
	"glimpse/internal/detector"
	"glimpse/internal/hotkey"
	"glimpse/internal/i18n"
	"glimpse/internal/models"
	"glimpse/internal/notify"
	"glimpse/internal/session"
	"glimpse/internal/speech"
	"glimpse/internal/speech/engines"
	"glimpse/internal/startup"
	"glimpse/internal/tray"
	"glimpse/internal/ui"
	"glimpse/internal/vision"
	"glimpse/internal/voice"
	"glimpse/internal/waveform"
)

// App представляет главное приложение.
type App struct {
	config        *config.Config
	modelManager  *models.Manager
	speechFactory *engines.Factory
	recorder      *audio.Recorder
	camera        *camera.Camera
	detector      vision.Detector
	notifier      *notify.Notifier
	indicator     *waveform.Window
	tray          *tray.Tray
	hotkey        *hotkey.Handler
	window        *ui.Window
	session       *session.Session

	closeOnce sync.Once
}

// New загружает конфигурацию и модели и открывает устройства.
// Любая ошибка здесь фатальна для запуска.
func New(ctx context.Context) (_ *App, err error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	log.Printf("Конфигурация: %s", cfg.Path())
	i18n.SetLanguage(i18n.Parse(cfg.UILanguage()))

	match, err := vision.ParseMatchMode(cfg.Detector().MatchMode)
	if err != nil {
		return nil, err
	}
	if match == vision.MatchLegacy {
		log.Printf("Внимание: режим сравнения legacy учитывает регистр и не находит класс в начале команды")
	}

	modelManager, err := models.NewManager()
	if err != nil {
		return nil, err
	}

	a := &App{
		config:       cfg,
		modelManager: modelManager,
		notifier:     notify.New(cfg.NotificationsEnabled()),
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	win := startup.New(i18n.T("startup_title"))
	win.Show()
	defer win.Hide()

	win.Step(i18n.T("startup_detector"))
	desc, err := detectorDescriptor(cfg.Detector(), modelManager)
	if err != nil {
		return nil, err
	}
	if a.detector, err = detector.Load(desc); err != nil {
		return nil, fmt.Errorf("ошибка загрузки детектора: %w", err)
	}
	log.Printf("Детектор %s загружен: %s", a.detector.Name(), desc.ModelPath)

	win.Step(i18n.T("startup_speech"))
	sc := cfg.Speech()
	a.speechFactory = engines.NewFactory(modelManager)
	err = a.speechFactory.Load(ctx, speech.Config{
		Engine:          speech.Engine(sc.Engine),
		ModelID:         sc.ModelID,
		CredentialsFile: sc.CredentialsFile,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Распознавание речи: %s (%s)", sc.Engine, sc.Language)

	win.Step(i18n.T("startup_audio"))
	ac := cfg.Audio()
	if a.recorder, err = audio.New(audio.Format{SampleRate: ac.SampleRate, Channels: ac.Channels}); err != nil {
		return nil, err
	}

	win.Step(i18n.T("startup_camera"))
	cc := cfg.Camera()
	if a.camera, err = camera.Open(cc.Device, cc.Width, cc.Height); err != nil {
		return nil, err
	}

	command := voice.New(voice.Config{
		Duration: ac.Duration(),
		RawPath:  ac.RawFile,
		PCMPath:  ac.PCMFile,
		Language: sc.Language,
	}, a.recorder, a.speechFactory.Current())
	a.indicator = waveform.New(a.recorder, waveform.DefaultConfig(ac.Duration()))
	command.OnTranscribe(func() {
		a.indicator.SetState(waveform.StateTranscribing)
	})

	uc := cfg.UI()
	a.session = session.New(session.Config{
		Button:        uc.Button.Rectangle(),
		ButtonCaption: i18n.Tf("button_caption", int(ac.Duration().Seconds())),
		ButtonAt:      uc.ButtonCaptionAt.Point(),
		CommandFormat: i18n.T("recognised_text"),
		CommandAt:     uc.CommandCaptionAt.Point(),
		Match:         match,
	}, a.camera, a.detector, command)
	a.session.SetObserver(a)

	a.window = ui.New(i18n.T("window_title"), image.Pt(cc.Width, cc.Height))
	a.hotkey = hotkey.New(a.requestRecord)
	if cfg.TrayEnabled() {
		a.tray = tray.New(tray.Callbacks{
			OnRecord: a.requestRecord,
			OnQuit: func() {
				a.window.Trigger(session.Event{Kind: session.EventQuit})
			},
		})
	}

	return a, nil
}

// detectorDescriptor находит файлы модели детектора в реестре.
func detectorDescriptor(dc config.DetectorConfig, m *models.Manager) (detector.Descriptor, error) {
	info, ok := models.GetModel(dc.ModelID)
	if !ok {
		return detector.Descriptor{}, fmt.Errorf("неизвестная модель детектора: %s", dc.ModelID)
	}

	var backend detector.Backend
	switch info.Engine {
	case models.EngineYOLOv8:
		backend = detector.BackendYOLOv8
	case models.EngineDarknet:
		backend = detector.BackendDarknet
	default:
		return detector.Descriptor{}, fmt.Errorf("модель %s не является детектором", dc.ModelID)
	}

	if missing := m.Missing(info); len(missing) > 0 {
		return detector.Descriptor{}, fmt.Errorf("нет файлов модели %s: %s (запустите glimpse-fetch %s)",
			info.ID, strings.Join(missing, ", "), info.ID)
	}

	return detector.Descriptor{
		Backend:        backend,
		ModelPath:      m.GetPath(info, models.RoleModel),
		ConfigPath:     m.GetPath(info, models.RoleConfig),
		NamesPath:      m.GetPath(info, models.RoleNames),
		ScoreThreshold: dc.ScoreThreshold,
		NMSThreshold:   dc.NMSThreshold,
	}, nil
}

// Run показывает окно и крутит сессию до выхода.
func (a *App) Run(ctx context.Context) error {
	a.window.Start()

	if a.tray != nil {
		go a.tray.Run()
	}

	if hk := a.config.Hotkey(); hk.Enabled {
		if err := a.hotkey.Register(hk); err != nil {
			log.Printf("%s: %v", i18n.T("error_hotkey"), err)
		}
	}

	log.Printf("Приложение запущено. Нажмите на кнопку в окне и скажите, что искать.")
	err := a.session.Run(ctx, a.window)
	a.Close()
	return err
}

// requestRecord передаёт запрос записи в цикл сессии.
func (a *App) requestRecord() {
	a.window.Trigger(session.Event{Kind: session.EventRecord})
}

// Recording вызывается сессией перед записью.
func (a *App) Recording() {
	a.indicator.Show()
	if a.tray != nil {
		a.tray.SetState(tray.StateRecording, "")
	}
	a.notifier.Recording()
}

// StateChanged вызывается сессией после смены состояния.
func (a *App) StateChanged(armed bool, command string) {
	a.indicator.Hide()
	if a.tray != nil {
		state := tray.StateIdle
		if armed {
			state = tray.StateArmed
		}
		a.tray.SetState(state, command)
	}
	if armed {
		a.notifier.Command(command)
	}
}

// Close освобождает ресурсы приложения.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.hotkey != nil {
			a.hotkey.Unregister()
		}
		if a.tray != nil {
			a.tray.Quit()
		}
		if a.indicator != nil {
			a.indicator.Hide()
		}

		// Сессия владеет камерой, детектором и окном
		if a.session != nil {
			if err := a.session.Close(); err != nil {
				log.Printf("Ошибка освобождения ресурсов: %v", err)
			}
		} else {
			if a.camera != nil {
				a.camera.Close()
			}
			if a.detector != nil {
				a.detector.Close()
			}
		}

		if a.speechFactory != nil {
			a.speechFactory.Close()
		}
		if a.recorder != nil {
			a.recorder.Close()
		}
	})
}
