package starvell

// Typed views of the upstream response payloads. Optional upstream fields are
// modeled as pointers or zero values; nothing here panics on a missing key.

const (
	OrderCreated   = "CREATED"
	OrderCompleted = "COMPLETED"
	OrderRefund    = "REFUND"
)

type Participant struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
}

type MessageMeta struct {
	IsAuto bool `json:"isAuto"`
}

type Message struct {
	ID       ID           `json:"id"`
	ChatID   ID           `json:"chatId"`
	AuthorID ID           `json:"authorId"`
	Author   *Participant `json:"author"`
	Content  string       `json:"content"`
	Metadata MessageMeta  `json:"metadata"`
}

// Sender resolves the author id, preferring the flat authorId field over the
// nested author object.
func (m Message) Sender() ID {
	if !m.AuthorID.Empty() {
		return m.AuthorID
	}
	if m.Author != nil {
		return m.Author.ID
	}
	return ""
}

type Chat struct {
	ID           ID            `json:"id"`
	Participants []Participant `json:"participants"`
	UnreadCount  int           `json:"unreadMessageCount"`
	LastMessage  *Message      `json:"lastMessage"`
}

// Counterpart returns the display name of the other side of the chat: the
// first non-self participant with a username, else the first participant,
// else "Unknown".
func (c Chat) Counterpart(self ID) string {
	for _, p := range c.Participants {
		if !self.Empty() && p.ID == self {
			continue
		}
		if p.Username != "" {
			return p.Username
		}
	}
	if len(c.Participants) > 0 && c.Participants[0].Username != "" {
		return c.Participants[0].Username
	}
	return "Unknown"
}

// ChatsPage is the chat list together with the acting account id the upstream
// includes in the same payload.
type ChatsPage struct {
	Chats []Chat
	Self  ID
}

type Named struct {
	Name string `json:"name"`
}

type OrderOffer struct {
	Game     Named `json:"game"`
	Category Named `json:"category"`
}

type Order struct {
	ID         ID           `json:"id"`
	Status     string       `json:"status"`
	Quantity   int          `json:"quantity"`
	TotalPrice int64        `json:"totalPrice"`
	BasePrice  int64        `json:"basePrice"`
	User       *Participant `json:"user"`
	Offer      OrderOffer   `json:"offerDetails"`
}

// Price returns the order total in minor currency units, falling back to the
// base price when the total is absent.
func (o Order) Price() int64 {
	if o.TotalPrice != 0 {
		return o.TotalPrice
	}
	return o.BasePrice
}

func (o Order) Buyer() string {
	if o.User != nil {
		if o.User.Username != "" {
			return o.User.Username
		}
		if !o.User.ID.Empty() {
			return o.User.ID.String()
		}
	}
	return "-"
}

func (o Order) GameName() string {
	if o.Offer.Game.Name != "" {
		return o.Offer.Game.Name
	}
	return "-"
}

func (o Order) CategoryName() string {
	if o.Offer.Category.Name != "" {
		return o.Offer.Category.Name
	}
	return "-"
}

// Lot is one of the account's own listings as returned by the listing search.
type Lot struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type OfferRef struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

// Offer is the detail view of a listing, carrying its game/category mapping.
// The ids appear under two different keys depending on the endpoint revision.
type Offer struct {
	ID         int64    `json:"id"`
	GameID     int64    `json:"gameId"`
	CategoryID int64    `json:"categoryId"`
	Game       OfferRef `json:"game"`
	Category   OfferRef `json:"category"`
}

func (o Offer) ResolvedGameID() int64 {
	if o.GameID != 0 {
		return o.GameID
	}
	return o.Game.ID
}

func (o Offer) ResolvedCategoryID() int64 {
	if o.Category.ID != 0 {
		return o.Category.ID
	}
	return o.CategoryID
}

type Balance struct {
	Rub int64 `json:"rubBalance"`
}

// Account is the acting identity returned by the auth probe.
type Account struct {
	ID         ID      `json:"id"`
	Username   string  `json:"username"`
	Rating     float64 `json:"rating"`
	HoldAmount int64   `json:"holdedAmount"`
	Balance    Balance `json:"balance"`
}

// Session is the auth probe result: whether the session cookie is still
// valid, who we act as, and the secondary sid token some endpoints want.
type Session struct {
	Authorized bool     `json:"authorized"`
	User       *Account `json:"user"`
	SID        string   `json:"sid"`
}
