package store

import "github.com/exfador/starvell-monitor/internal/models"

// Store is the persisted ledger plus the subscriber registry. Ledger
// operations are idempotent and safe to call concurrently from the watcher
// loops; a cursor only ever advances, a notified flag only ever flips to true.
type Store interface {
	Close() error

	// Chat cursors: last message id already notified, per chat.
	GetChatCursor(chatID string) (string, bool, error)
	SetChatCursor(chatID, messageID string) error

	// Order ledger: one-way notified-as-new flag plus last observed status.
	IsOrderNotified(orderID string) (bool, error)
	MarkOrderNotified(orderID string) error
	GetOrderStatus(orderID string) (string, bool, error)
	SetOrderStatus(orderID, status string) error

	// Digest dedup keys, set once.
	IsDigestSent(key string) (bool, error)
	MarkDigestSent(key string) error

	// Subscribers.
	EnsureUser(chatID int64) error
	GetUser(chatID int64) (*models.User, bool)
	SetAuthorized(chatID int64, authorized bool) error
	ToggleNotify(chatID int64, kind models.Kind) (bool, error)
	Recipients(kind models.Kind) ([]int64, error)
}
