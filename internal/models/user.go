package models

// User is a Telegram user subscribed to the bot, with per-kind opt-in flags.
type User struct {
	ChatID       int64
	Authorized   bool
	NotifyAuth   bool
	NotifyChat   bool
	NotifyOrders bool
	NotifyBump   bool
}
