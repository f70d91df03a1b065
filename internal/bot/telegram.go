package bot

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/exfador/starvell-monitor/internal/models"
	"github.com/exfador/starvell-monitor/internal/store"
)

type Bot struct {
	API *tgbotapi.BotAPI
}

func New(token string) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %v", err)
	}

	return &Bot{
		API: bot,
	}, nil
}

// Dispatcher fans a rendered notification out to every opted-in recipient.
// Delivery is best-effort per recipient: one failed send is logged and does
// not block the rest.
type Dispatcher struct {
	bot   *Bot
	store store.Store
}

func NewDispatcher(bot *Bot, store store.Store) *Dispatcher {
	return &Dispatcher{
		bot:   bot,
		store: store,
	}
}

// Broadcast delivers msg to every recipient opted into kind. It returns an
// error only when the recipient list itself cannot be read.
func (d *Dispatcher) Broadcast(kind models.Kind, msg models.Rendered) error {
	recipients, err := d.store.Recipients(kind)
	if err != nil {
		return fmt.Errorf("failed to get %s recipients: %v", kind, err)
	}
	for _, chatID := range recipients {
		if err := d.send(chatID, msg); err != nil {
			log.Printf("Error sending %s notification to %d: %v", kind, chatID, err)
		}
	}
	return nil
}

func (d *Dispatcher) send(chatID int64, msg models.Rendered) error {
	markup := inlineMarkup(msg.Buttons)

	var sent tgbotapi.Message
	var err error
	if msg.PhotoURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(msg.PhotoURL))
		photo.Caption = msg.Text
		photo.ParseMode = tgbotapi.ModeHTML
		if markup != nil {
			photo.ReplyMarkup = markup
		}
		sent, err = d.bot.API.Send(photo)
	} else {
		text := tgbotapi.NewMessage(chatID, msg.Text)
		text.ParseMode = tgbotapi.ModeHTML
		text.DisableWebPagePreview = true
		if markup != nil {
			text.ReplyMarkup = markup
		}
		sent, err = d.bot.API.Send(text)
	}
	if err != nil {
		return fmt.Errorf("failed to send message: %v", err)
	}

	if msg.Pin {
		pin := tgbotapi.PinChatMessageConfig{
			ChatID:              chatID,
			MessageID:           sent.MessageID,
			DisableNotification: true,
		}
		// Pinning needs admin rights in the target chat; a refusal is not
		// worth failing the delivery over.
		if _, err := d.bot.API.Request(pin); err != nil {
			log.Printf("Error pinning message in %d: %v", chatID, err)
		}
	}
	return nil
}

func inlineMarkup(buttons [][]models.Button) *tgbotapi.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var line []tgbotapi.InlineKeyboardButton
		for _, b := range row {
			if b.Label == "" || b.URL == "" {
				continue
			}
			line = append(line, tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL))
		}
		if len(line) > 0 {
			rows = append(rows, line)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}
