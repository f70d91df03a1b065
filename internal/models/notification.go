package models

// Kind selects which opt-in flag gates delivery of a notification.
type Kind string

const (
	KindAuth   Kind = "auth"
	KindChat   Kind = "chat"
	KindOrders Kind = "orders"
	KindBump   Kind = "bump"
	// KindDigest has no per-user toggle: operator digests go to every
	// authorized user.
	KindDigest Kind = "digest"
)

type Button struct {
	Label string
	URL   string
}

// Rendered is a fully decided notification payload handed to the dispatcher:
// text (HTML), an optional photo, an optional inline button grid, and an
// optional pin request.
type Rendered struct {
	Text     string
	PhotoURL string
	Buttons  [][]Button
	Pin      bool
}
