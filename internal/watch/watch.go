// Package watch holds the watcher/ledger core: the per-poll decisions about
// which chats, orders, bumps and digests are genuinely new, with the persisted
// ledger as the single idempotency authority. A notification is always
// dispatched before its cursor or flag advances, so a crash between the two
// yields at most a duplicate on restart, never a lost notification.
package watch

import (
	"context"
	"log"
	"time"

	"github.com/exfador/starvell-monitor/internal/gist"
	"github.com/exfador/starvell-monitor/internal/starvell"
)

// Ledger is the slice of the store the watchers depend on.
type Ledger interface {
	GetChatCursor(chatID string) (string, bool, error)
	SetChatCursor(chatID, messageID string) error
	IsOrderNotified(orderID string) (bool, error)
	MarkOrderNotified(orderID string) error
	GetOrderStatus(orderID string) (string, bool, error)
	SetOrderStatus(orderID, status string) error
	IsDigestSent(key string) (bool, error)
	MarkDigestSent(key string) error
}

type ChatSource interface {
	FetchChats(ctx context.Context, creds starvell.Credentials) (*starvell.ChatsPage, error)
	FetchChatMessages(ctx context.Context, creds starvell.Credentials, chatID starvell.ID, limit int) ([]starvell.Message, error)
}

type OrderSource interface {
	FetchSells(ctx context.Context, creds starvell.Credentials) ([]starvell.Order, error)
}

type SessionSource interface {
	FetchSession(ctx context.Context, creds starvell.Credentials) (*starvell.Session, error)
}

type Inventory interface {
	FetchLots(ctx context.Context, creds starvell.Credentials, userID starvell.ID) ([]starvell.Lot, error)
	FetchOfferDetail(ctx context.Context, creds starvell.Credentials, lotID int64) (*starvell.Offer, error)
}

type Bumper interface {
	BumpCategories(ctx context.Context, creds starvell.Credentials, gameID int64, categoryIDs []int64, referer string) (map[int64]bool, error)
}

type DigestSource interface {
	FetchDescriptor(ctx context.Context) (*gist.Descriptor, error)
	FetchOwnerComments(ctx context.Context, max int) ([]gist.Comment, error)
}

// Notifier is the dispatcher as seen from the watchers: already-decided
// payloads go in, fan-out happens elsewhere.
type Notifier interface {
	NotifyAuth(ok bool, acct *starvell.Account) error
	NotifyChat(username, text string, chatID starvell.ID) error
	NotifyNewOrder(o starvell.Order) error
	NotifyOrderCompleted(o starvell.Order) error
	NotifyBump(lot starvell.Lot) error
	NotifyDigest(desc *gist.Descriptor) error
}

// Loop runs fn every interval until ctx is cancelled. An error from one cycle
// is logged and the loop keeps its schedule; nothing here is fatal.
func Loop(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	log.Printf("%s worker started with %s interval", name, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("%s worker shutting down...", name)
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				log.Printf("%s cycle failed: %v", name, err)
			}
		}
	}
}
