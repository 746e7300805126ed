package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "vision-classifier/internal/application"
	"vision-classifier/internal/domain/entity"
	"vision-classifier/internal/log"
)

const (
	msgStart = `👋 Привет! Я показываю, что видит камера.

📋 Команды:
/labels — текущие метки
/snapshot — кадр с подписями
/status — состояние камеры и модели
/help — справка`

	msgHelp = `ℹ️ Камера снимает постоянно, раз в 60 кадров кадр уходит в классификатор.

📋 Команды:
/labels — текущие метки
/snapshot — кадр с подписями
/status — состояние камеры и модели`

	msgWaiting        = "⏳ Ожидание доступа к камере..."
	msgNoLabels       = "🔍 Пока ничего не распознано."
	msgNoPreview      = "📷 Превью недоступно."
	msgUnknownCommand = "❓ Неизвестная команда. Используйте /help для справки."
	msgError          = "⚠️ Не удалось получить состояние экрана."
)

// ScreenViewer источник представления экрана
type ScreenViewer interface {
	View(ctx context.Context, id string) (entity.ScreenView, error)
}

// Snapshotter источник кадра с подписями
type Snapshotter interface {
	Snapshot(ctx context.Context, screenID string) ([]byte, error)
}

// Bot показывает экран классификации в Telegram
type Bot struct {
	api       *tgbotapi.BotAPI
	screens   ScreenViewer
	snapshots Snapshotter
	screenID  string
}

// NewBot создаёт нового бота для экрана screenID
func NewBot(token string, screens *app.ScreenService, sessions *app.SessionService, screenID string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info("telegram bot authorized", "account", api.Self.UserName)

	return &Bot{
		api:       api,
		screens:   screens,
		snapshots: sessions,
		screenID:  screenID,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
		return
	}

	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "labels", "status":
		view, err := b.screens.View(ctx, b.screenID)
		if err != nil {
			log.Error("failed to get screen view", "error", err)
			b.sendMessage(msg.Chat.ID, msgError)
			return
		}
		if msg.Command() == "status" {
			b.sendMessage(msg.Chat.ID, formatStatus(view))
			return
		}
		b.sendMessage(msg.Chat.ID, formatView(view))

	case "snapshot":
		b.handleSnapshot(ctx, msg)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handleSnapshot отправляет кадр превью с подписями
func (b *Bot) handleSnapshot(ctx context.Context, msg *tgbotapi.Message) {
	data, err := b.snapshots.Snapshot(ctx, b.screenID)
	if err != nil {
		if !errors.Is(err, entity.ErrNoPreview) {
			log.Error("failed to take snapshot", "error", err)
		}
		view, verr := b.screens.View(ctx, b.screenID)
		if verr == nil && view.Message != "" {
			b.sendMessage(msg.Chat.ID, formatView(view))
			return
		}
		b.sendMessage(msg.Chat.ID, msgNoPreview)
		return
	}

	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "snapshot.jpg", Bytes: data})
	if _, err := b.api.Send(photo); err != nil {
		log.Error("failed to send photo", "error", err)
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Error("failed to send message", "error", err)
	}
}

// formatView повторяет то, что видно на экране: сообщение или список меток.
func formatView(view entity.ScreenView) string {
	switch {
	case view.Message != "":
		return view.Message
	case !view.ShowPreview:
		return msgWaiting
	case len(view.Labels) == 0:
		return msgNoLabels
	default:
		return strings.Join(view.Labels, "\n")
	}
}

func formatStatus(view entity.ScreenView) string {
	return fmt.Sprintf("screen: %s\nstate: %s\npreview: %t\nlabels: %d",
		view.ScreenID, view.State, view.ShowPreview, len(view.Labels))
}
