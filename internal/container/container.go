package container

import (
	app "vision-classifier/internal/application"
	"vision-classifier/internal/domain/port"
)

type Container struct {
	ScreenService  *app.ScreenService
	SessionService *app.SessionService
}

func New(
	screenRepo port.ScreenRepository,
	camera port.Camera,
	loader port.ClassifierLoader,
	clock port.DisplayClock,
	overlay port.OverlayRenderer,
	cfg app.SessionConfig,
) *Container {
	screenService := app.NewScreenService(screenRepo)
	sessionService := app.NewSessionService(screenService, camera, loader, clock, overlay, cfg)

	return &Container{
		ScreenService:  screenService,
		SessionService: sessionService,
	}
}
