package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"vision-classifier/config"
	telegram "vision-classifier/internal/api"
	"vision-classifier/internal/api/web"
	app "vision-classifier/internal/application"
	"vision-classifier/internal/container"
	"vision-classifier/internal/domain/entity"
	"vision-classifier/internal/infrastructure/clock"
	"vision-classifier/internal/infrastructure/storage"
	"vision-classifier/internal/infrastructure/vision"
	"vision-classifier/internal/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	// Размеры текстуры выбираются один раз по платформе
	streamOpts, err := cfg.StreamOptions()
	if err != nil {
		log.Error("failed to resolve stream options", "platform", cfg.Platform, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Собираем сервисы приложения
	appContainer := container.New(
		storage.NewMemoryScreenRepository(),
		vision.NewGoCVCamera(cfg.CameraDevice, entity.ParsePermission(cfg.CameraPermission)),
		vision.NewGoCVLoader(cfg.ModelDir, cfg.LabelsPath, cfg.TopK),
		clock.NewRefreshClock(cfg.RefreshRate),
		vision.NewGoCVOverlay(),
		app.SessionConfig{
			Model:            cfg.Model,
			Stream:           streamOpts,
			SamplingInterval: cfg.SamplingInterval,
		},
	)

	screen, err := appContainer.ScreenService.Open(ctx)
	if err != nil {
		log.Error("failed to open screen", "error", err)
		os.Exit(1)
	}
	log.Info("screen opened", "screen", screen.ID, "platform", cfg.Platform)

	var wg sync.WaitGroup

	if cfg.HTTPAddr != "" {
		srv := web.NewServer(cfg.HTTPAddr, appContainer.ScreenService, appContainer.SessionService, screen.ID)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Run(ctx); err != nil {
				log.Error("web server error", "error", err)
			}
		}()
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer.ScreenService, appContainer.SessionService, screen.ID)
		if err != nil {
			log.Error("failed to create bot", "error", err)
			os.Exit(1)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := bot.Run(ctx); err != nil {
				log.Error("bot error", "error", err)
			}
		}()
	}

	go logViews(ctx, appContainer.ScreenService, screen.ID)

	err = appContainer.SessionService.Run(ctx, screen.ID)
	switch {
	case errors.Is(err, entity.ErrPermissionDenied):
		// Экран продолжает показывать отказ до завершения процесса
		<-ctx.Done()
	case err != nil:
		log.Error("session error", "error", err)
		<-ctx.Done()
	}

	stop()
	wg.Wait()
	log.Info("stopped")
}

// logViews пишет каждое изменение экрана в лог.
func logViews(ctx context.Context, screens *app.ScreenService, screenID string) {
	views, cancel := screens.Subscribe(screenID)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case v := <-views:
			log.Info("screen updated", "state", v.State, "message", v.Message, "labels", v.Labels)
		}
	}
}
