// Package web отдаёт экран классификации по HTTP и WebSocket.
package web

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"vision-classifier/internal/domain/entity"
	"vision-classifier/internal/log"
)

// ViewSource источник представлений экрана
type ViewSource interface {
	View(ctx context.Context, id string) (entity.ScreenView, error)
	Subscribe(id string) (<-chan entity.ScreenView, func())
}

// Snapshotter источник кадра с подписями
type Snapshotter interface {
	Snapshot(ctx context.Context, screenID string) ([]byte, error)
}

// Server дашборд одного экрана
type Server struct {
	app       *fiber.App
	addr      string
	screens   ViewSource
	snapshots Snapshotter
	screenID  string
}

// NewServer создаёт сервер для экрана screenID
func NewServer(addr string, screens ViewSource, snapshots Snapshotter, screenID string) *Server {
	s := &Server{
		addr:      addr,
		screens:   screens,
		snapshots: snapshots,
		screenID:  screenID,
	}

	app := fiber.New(fiber.Config{
		AppName:               "Vision Classifier",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/view", s.handleView)
	api.Get("/preview.jpg", s.handlePreview)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/view", websocket.New(s.handleViewWS))

	s.app = app
	return s
}

// App возвращает fiber-приложение
func (s *Server) App() *fiber.App {
	return s.app
}

// Run слушает addr до отмены контекста
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if err := s.app.Shutdown(); err != nil {
			log.Warn("web server shutdown failed", "error", err)
		}
	}()

	log.Info("web dashboard listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// handleView возвращает текущее представление экрана
func (s *Server) handleView(c *fiber.Ctx) error {
	view, err := s.screens.View(c.UserContext(), s.screenID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(view)
}

// handlePreview отдаёт кадр превью с подписями
func (s *Server) handlePreview(c *fiber.Ctx) error {
	data, err := s.snapshots.Snapshot(c.UserContext(), s.screenID)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, entity.ErrNoPreview) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(data)
}

// handleViewWS присылает представление экрана при каждом изменении
func (s *Server) handleViewWS(c *websocket.Conn) {
	views, cancel := s.screens.Subscribe(s.screenID)
	defer cancel()

	if view, err := s.screens.View(context.Background(), s.screenID); err == nil {
		if err := c.WriteJSON(view); err != nil {
			return
		}
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case view := <-views:
			if err := c.WriteJSON(view); err != nil {
				return
			}
		}
	}
}
