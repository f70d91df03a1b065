package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/exfador/starvell-monitor/internal/gist"
	"github.com/exfador/starvell-monitor/internal/models"
	"github.com/exfador/starvell-monitor/internal/starvell"
)

const baseURL = "https://starvell.com"

// FormatMinorRub renders a price given in minor currency units.
func FormatMinorRub(v int64) string {
	return fmt.Sprintf("%.2f ₽", float64(v)/100)
}

func (d *Dispatcher) NotifyAuth(ok bool, acct *starvell.Account) error {
	if !ok || acct == nil {
		return d.Broadcast(models.KindAuth, models.Rendered{
			Text: "❌ Авторизация не удалась: сессия недействительна, обновите cookie.",
		})
	}

	text := fmt.Sprintf(
		"✅ Авторизация успешна\n\nАккаунт: <b>%s</b> (id %s)\nБаланс: %s\nВ холде: %s\nРейтинг: %.1f",
		html.EscapeString(acct.Username), acct.ID,
		FormatMinorRub(acct.Balance.Rub), FormatMinorRub(acct.HoldAmount), acct.Rating,
	)
	msg := models.Rendered{Text: text}
	if !acct.ID.Empty() {
		msg.Buttons = [][]models.Button{{
			{Label: "Профиль", URL: fmt.Sprintf("%s/users/%s", baseURL, acct.ID)},
		}}
	}
	return d.Broadcast(models.KindAuth, msg)
}

func (d *Dispatcher) NotifyChat(username, text string, chatID starvell.ID) error {
	rendered := models.Rendered{
		Text: fmt.Sprintf("📩 Новое сообщение от <b>%s</b>:\n%s",
			html.EscapeString(username), html.EscapeString(text)),
		Buttons: [][]models.Button{{
			{Label: "Открыть чат", URL: fmt.Sprintf("%s/chat/%s", baseURL, chatID)},
		}},
	}
	return d.Broadcast(models.KindChat, rendered)
}

func (d *Dispatcher) NotifyNewOrder(o starvell.Order) error {
	text := fmt.Sprintf(
		"🛒 Новый заказ <b>%s</b>\n\nПокупатель: %s\nИгра: %s / %s\nКоличество: %d\nСумма: %s",
		o.ID, html.EscapeString(o.Buyer()),
		html.EscapeString(o.GameName()), html.EscapeString(o.CategoryName()),
		quantityOrOne(o.Quantity), FormatMinorRub(o.Price()),
	)
	return d.Broadcast(models.KindOrders, models.Rendered{
		Text:    text,
		Buttons: orderButtons(o.ID),
	})
}

func (d *Dispatcher) NotifyOrderCompleted(o starvell.Order) error {
	text := fmt.Sprintf(
		"✅ Заказ <b>%s</b> завершён\n\nПокупатель: %s\nИгра: %s / %s\nСумма: %s",
		o.ID, html.EscapeString(o.Buyer()),
		html.EscapeString(o.GameName()), html.EscapeString(o.CategoryName()),
		FormatMinorRub(o.Price()),
	)
	return d.Broadcast(models.KindOrders, models.Rendered{
		Text:    text,
		Buttons: orderButtons(o.ID),
	})
}

func (d *Dispatcher) NotifyBump(lot starvell.Lot) error {
	title := lot.Title
	if title == "" {
		title = lot.URL
	}
	if title == "" {
		title = "Lot"
	}
	msg := models.Rendered{
		Text: fmt.Sprintf("📈 Лот поднят: <b>%s</b>", html.EscapeString(title)),
	}
	if lot.URL != "" {
		msg.Buttons = [][]models.Button{{{Label: "Открыть лот", URL: lot.URL}}}
	}
	return d.Broadcast(models.KindBump, msg)
}

func (d *Dispatcher) NotifyDigest(desc *gist.Descriptor) error {
	text := strings.TrimSpace(desc.Text)

	var buttons [][]models.Button
	for _, row := range desc.Keyboard {
		var line []models.Button
		for _, b := range row {
			label, url := strings.TrimSpace(b.Text), strings.TrimSpace(b.URL)
			if label != "" && url != "" {
				line = append(line, models.Button{Label: label, URL: url})
			}
		}
		if len(line) > 0 {
			buttons = append(buttons, line)
		}
	}
	if len(buttons) == 0 && text != "" {
		text, buttons = ExtractInlineButtons(text)
	}

	return d.Broadcast(models.KindDigest, models.Rendered{
		Text:     text,
		PhotoURL: strings.TrimSpace(desc.Photo),
		Buttons:  buttons,
		Pin:      desc.Pin,
	})
}

// ExtractInlineButtons pulls `[label|url]` lines out of freeform digest text
// and turns them into one-button rows. Matched lines are stripped from the
// returned text; anything malformed is left in place.
func ExtractInlineButtons(raw string) (string, [][]models.Button) {
	var kept []string
	var rows [][]models.Button
	for _, line := range strings.Split(raw, "\n") {
		s := strings.TrimSpace(line)
		if !strings.HasPrefix(s, "[") || !strings.Contains(s, "|") {
			kept = append(kept, line)
			continue
		}
		inner := strings.TrimPrefix(s, "[")
		inner = strings.TrimSuffix(inner, "]")
		inner = strings.TrimSuffix(inner, "|")
		parts := strings.SplitN(inner, "|", 2)
		if len(parts) != 2 {
			kept = append(kept, line)
			continue
		}
		label, url := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if label == "" || url == "" {
			kept = append(kept, line)
			continue
		}
		lower := strings.ToLower(url)
		if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
			url = "https://" + url
		}
		rows = append(rows, []models.Button{{Label: label, URL: url}})
	}
	return strings.TrimSpace(strings.Join(kept, "\n")), rows
}

func orderButtons(orderID starvell.ID) [][]models.Button {
	return [][]models.Button{{
		{Label: "Открыть заказ", URL: fmt.Sprintf("%s/order/%s", baseURL, orderID)},
	}}
}

func quantityOrOne(q int) int {
	if q <= 0 {
		return 1
	}
	return q
}
