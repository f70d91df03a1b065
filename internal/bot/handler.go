package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/exfador/starvell-monitor/internal/models"
	"github.com/exfador/starvell-monitor/internal/store"
)

type Handler struct {
	Bot   *Bot
	store store.Store
}

func NewHandler(bot *Bot, store store.Store) *Handler {
	return &Handler{
		Bot:   bot,
		store: store,
	}
}

func (h *Handler) HandleUpdate(update tgbotapi.Update) error {
	if update.Message == nil || !update.Message.IsCommand() {
		return nil
	}

	var err error
	switch update.Message.Command() {
	case "start":
		err = h.handleStart(update.Message)
	case "toggle":
		err = h.handleToggle(update.Message)
	case "status":
		err = h.handleStatus(update.Message)
	case "help":
		err = h.handleHelp(update.Message)
	default:
		err = h.handleUnknown(update.Message)
	}

	if err != nil {
		reply := tgbotapi.NewMessage(update.Message.Chat.ID, fmt.Sprintf("Error: %v", err))
		_, _ = h.Bot.API.Send(reply)
	}

	return err
}

func (h *Handler) handleStart(message *tgbotapi.Message) error {
	if err := h.store.EnsureUser(message.Chat.ID); err != nil {
		return err
	}
	if err := h.store.SetAuthorized(message.Chat.ID, true); err != nil {
		return err
	}

	text := `Starvell monitor is now watching for you.

Available commands:
/toggle <auth|chat|orders|bump> - Toggle a notification kind
/status - Show current notification settings
/help - Show this help message`

	reply := tgbotapi.NewMessage(message.Chat.ID, text)
	_, err := h.Bot.API.Send(reply)
	return err
}

func (h *Handler) handleToggle(message *tgbotapi.Message) error {
	arg := strings.TrimSpace(message.CommandArguments())
	kind := models.Kind(arg)
	switch kind {
	case models.KindAuth, models.KindChat, models.KindOrders, models.KindBump:
	default:
		return fmt.Errorf("usage: /toggle <auth|chat|orders|bump>")
	}

	enabled, err := h.store.ToggleNotify(message.Chat.ID, kind)
	if err != nil {
		return err
	}

	state := "off"
	if enabled {
		state = "on"
	}
	reply := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("%s notifications are now %s", kind, state))
	_, err = h.Bot.API.Send(reply)
	return err
}

func (h *Handler) handleStatus(message *tgbotapi.Message) error {
	user, exists := h.store.GetUser(message.Chat.ID)
	if !exists {
		reply := tgbotapi.NewMessage(message.Chat.ID, "Not subscribed yet. Use /start first.")
		_, err := h.Bot.API.Send(reply)
		return err
	}

	var text strings.Builder
	text.WriteString("Notification settings:\n\n")
	for _, row := range []struct {
		kind    models.Kind
		enabled bool
	}{
		{models.KindAuth, user.NotifyAuth},
		{models.KindChat, user.NotifyChat},
		{models.KindOrders, user.NotifyOrders},
		{models.KindBump, user.NotifyBump},
	} {
		status := "🟢 on"
		if !row.enabled {
			status = "🔴 off"
		}
		text.WriteString(fmt.Sprintf("%s: %s\n", row.kind, status))
	}

	reply := tgbotapi.NewMessage(message.Chat.ID, text.String())
	_, err := h.Bot.API.Send(reply)
	return err
}

func (h *Handler) handleHelp(message *tgbotapi.Message) error {
	return h.handleStart(message)
}

func (h *Handler) handleUnknown(message *tgbotapi.Message) error {
	reply := tgbotapi.NewMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	_, err := h.Bot.API.Send(reply)
	return err
}
