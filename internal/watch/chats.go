package watch

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/exfador/starvell-monitor/internal/starvell"
)

const (
	snippetLimit = 500

	// Message window sizes: wider when a cursor exists because the gap since
	// the last notified message is unbounded.
	windowWithCursor    = 50
	windowWithoutCursor = 20
)

// ChatWatcher polls the chat list and notifies for messages that are novel,
// non-automatic and not self-authored. The per-chat cursor in the ledger
// records the last message id already notified.
type ChatWatcher struct {
	Source ChatSource
	Ledger Ledger
	Notify Notifier

	// Debug turns on per-cycle detail logging.
	Debug bool

	// self is the acting account id, refreshed from every chat-list payload.
	self starvell.ID
}

type pendingMessage struct {
	id   string
	text string
}

// Check runs one poll cycle. A failure on one chat degrades to skipping that
// chat for this cycle; only a failed chat-list fetch fails the whole cycle.
func (w *ChatWatcher) Check(ctx context.Context, creds starvell.Credentials) error {
	page, err := w.Source.FetchChats(ctx, creds)
	if err != nil {
		return fmt.Errorf("fetch chats: %v", err)
	}
	if !page.Self.Empty() {
		w.self = page.Self
	}
	if w.Debug {
		log.Printf("chat cycle: %d chats, acting account %q", len(page.Chats), w.self)
	}

	for _, chat := range page.Chats {
		w.checkChat(ctx, creds, chat)
	}
	return nil
}

func (w *ChatWatcher) checkChat(ctx context.Context, creds starvell.Credentials, chat starvell.Chat) {
	if chat.ID.Empty() || chat.LastMessage == nil {
		return
	}
	last := chat.LastMessage
	if last.ID.Empty() || last.Metadata.IsAuto {
		return
	}
	chatID := chat.ID.String()

	stored, ok, err := w.Ledger.GetChatCursor(chatID)
	if err != nil {
		log.Printf("chat %s: cursor read failed: %v", chatID, err)
		return
	}
	if !ok {
		// First sight: adopt the current last message as the cursor without
		// notifying, so pre-existing history never produces a storm.
		if err := w.Ledger.SetChatCursor(chatID, last.ID.String()); err != nil {
			log.Printf("chat %s: LEDGER WRITE FAILED, first-sight cursor not recorded: %v", chatID, err)
		}
		return
	}

	username := chat.Counterpart(w.self)

	limit := chat.UnreadCount
	if stored != "" {
		if limit < windowWithCursor {
			limit = windowWithCursor
		}
	} else if limit < windowWithoutCursor {
		limit = windowWithoutCursor
	}

	var pending []pendingMessage
	lastAuthor := last.Sender()

	messages, err := w.Source.FetchChatMessages(ctx, creds, chat.ID, limit)
	if err != nil {
		log.Printf("chat %s: message window fetch failed, falling back to summary: %v", chatID, err)
		// Coarse fallback: notify from the chat summary, unless the summary
		// message is already notified or looks self-authored. Authorship from
		// the summary alone is best-effort and can misattribute.
		if stored != last.ID.String() && (w.self.Empty() || lastAuthor.Empty() || lastAuthor != w.self) {
			if content := strings.TrimSpace(last.Content); content != "" {
				pending = append(pending, pendingMessage{id: last.ID.String(), text: content})
			}
		}
	} else {
		pending, lastAuthor = w.collectFresh(messages, stored, *last)
	}

	// The window can legitimately filter down to nothing (all auto or self)
	// while the summary still points past the cursor; deliver the summary
	// once in that case so the counterpart's message is not silently lost.
	if len(pending) == 0 && stored != last.ID.String() && (w.self.Empty() || lastAuthor != w.self) {
		if content := strings.TrimSpace(last.Content); content != "" {
			pending = append(pending, pendingMessage{id: last.ID.String(), text: content})
		}
	}

	if w.Debug && len(pending) > 0 {
		log.Printf("chat %s: %d fresh messages past cursor %q (window limit %d)", chatID, len(pending), stored, limit)
	}

	for _, msg := range pending {
		if msg.id == stored {
			continue
		}
		snippet := truncate(strings.TrimSpace(msg.text), snippetLimit)
		if snippet == "" {
			continue
		}
		if err := w.Notify.NotifyChat(username, snippet, chat.ID); err != nil {
			log.Printf("chat %s: notify failed for message %s: %v", chatID, msg.id, err)
			continue
		}
		// Cursor advances only after a successful dispatch: a crash mid-batch
		// re-notifies the tail instead of losing it.
		if err := w.Ledger.SetChatCursor(chatID, msg.id); err != nil {
			log.Printf("chat %s: LEDGER WRITE FAILED after notifying %s, duplicates expected: %v", chatID, msg.id, err)
		}
	}
}

// collectFresh scans the window newest-to-oldest, stops at the stored cursor,
// drops automatic, self-authored and empty messages, and returns the rest in
// chronological order together with the best-known author of the last message.
func (w *ChatWatcher) collectFresh(messages []starvell.Message, stored string, last starvell.Message) ([]pendingMessage, starvell.ID) {
	lastAuthor := last.Sender()
	lastFromSelf := false

	var fresh []pendingMessage
	for _, m := range messages {
		if m.ID.Empty() {
			continue
		}
		if m.ID.String() == stored {
			break
		}
		if m.Metadata.IsAuto {
			continue
		}
		author := m.Sender()
		if m.ID == last.ID && !author.Empty() {
			lastAuthor = author
		}
		if !author.Empty() && !w.self.Empty() && author == w.self {
			if m.ID == last.ID {
				lastFromSelf = true
			}
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		fresh = append(fresh, pendingMessage{id: m.ID.String(), text: m.Content})
	}

	for i, j := 0, len(fresh)-1; i < j; i, j = i+1, j-1 {
		fresh[i], fresh[j] = fresh[j], fresh[i]
	}
	if lastFromSelf {
		lastAuthor = w.self
	}
	return fresh, lastAuthor
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
