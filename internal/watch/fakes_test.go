package watch

import (
	"context"
	"fmt"

	"github.com/exfador/starvell-monitor/internal/gist"
	"github.com/exfador/starvell-monitor/internal/starvell"
)

type fakeLedger struct {
	cursors        map[string]string
	ordersNotified map[string]bool
	orderStatus    map[string]string
	digests        map[string]bool

	cursorWrites []string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		cursors:        make(map[string]string),
		ordersNotified: make(map[string]bool),
		orderStatus:    make(map[string]string),
		digests:        make(map[string]bool),
	}
}

func (l *fakeLedger) GetChatCursor(chatID string) (string, bool, error) {
	cursor, ok := l.cursors[chatID]
	return cursor, ok, nil
}

func (l *fakeLedger) SetChatCursor(chatID, messageID string) error {
	l.cursors[chatID] = messageID
	l.cursorWrites = append(l.cursorWrites, chatID+"="+messageID)
	return nil
}

func (l *fakeLedger) IsOrderNotified(orderID string) (bool, error) {
	return l.ordersNotified[orderID], nil
}

func (l *fakeLedger) MarkOrderNotified(orderID string) error {
	l.ordersNotified[orderID] = true
	return nil
}

func (l *fakeLedger) GetOrderStatus(orderID string) (string, bool, error) {
	status, ok := l.orderStatus[orderID]
	return status, ok, nil
}

func (l *fakeLedger) SetOrderStatus(orderID, status string) error {
	l.orderStatus[orderID] = status
	return nil
}

func (l *fakeLedger) IsDigestSent(key string) (bool, error) {
	return l.digests[key], nil
}

func (l *fakeLedger) MarkDigestSent(key string) error {
	l.digests[key] = true
	return nil
}

type fakeNotifier struct {
	chats     []string
	newOrders []string
	completed []string
	bumps     []int64
	digests   []string

	chatErr      error
	completedErr error
	digestErr    error
}

func (n *fakeNotifier) NotifyAuth(ok bool, acct *starvell.Account) error { return nil }

func (n *fakeNotifier) NotifyChat(username, text string, chatID starvell.ID) error {
	if n.chatErr != nil {
		return n.chatErr
	}
	n.chats = append(n.chats, fmt.Sprintf("%s|%s|%s", username, text, chatID))
	return nil
}

func (n *fakeNotifier) NotifyNewOrder(o starvell.Order) error {
	n.newOrders = append(n.newOrders, o.ID.String())
	return nil
}

func (n *fakeNotifier) NotifyOrderCompleted(o starvell.Order) error {
	if n.completedErr != nil {
		return n.completedErr
	}
	n.completed = append(n.completed, o.ID.String())
	return nil
}

func (n *fakeNotifier) NotifyBump(lot starvell.Lot) error {
	n.bumps = append(n.bumps, lot.ID)
	return nil
}

func (n *fakeNotifier) NotifyDigest(desc *gist.Descriptor) error {
	if n.digestErr != nil {
		return n.digestErr
	}
	n.digests = append(n.digests, desc.Text)
	return nil
}

type fakeChatSource struct {
	page        *starvell.ChatsPage
	messages    map[string][]starvell.Message
	messagesErr error

	lastLimit int
}

func (s *fakeChatSource) FetchChats(ctx context.Context, creds starvell.Credentials) (*starvell.ChatsPage, error) {
	return s.page, nil
}

func (s *fakeChatSource) FetchChatMessages(ctx context.Context, creds starvell.Credentials, chatID starvell.ID, limit int) ([]starvell.Message, error) {
	s.lastLimit = limit
	if s.messagesErr != nil {
		return nil, s.messagesErr
	}
	return s.messages[chatID.String()], nil
}

type fakeOrderSource struct {
	orders []starvell.Order
	err    error
}

func (s *fakeOrderSource) FetchSells(ctx context.Context, creds starvell.Credentials) ([]starvell.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.orders, nil
}

type fakeSessionSource struct {
	sess *starvell.Session
	err  error
}

func (s *fakeSessionSource) FetchSession(ctx context.Context, creds starvell.Credentials) (*starvell.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.sess, nil
}

type fakeInventory struct {
	lots   []starvell.Lot
	offers map[int64]*starvell.Offer
}

func (s *fakeInventory) FetchLots(ctx context.Context, creds starvell.Credentials, userID starvell.ID) ([]starvell.Lot, error) {
	return s.lots, nil
}

func (s *fakeInventory) FetchOfferDetail(ctx context.Context, creds starvell.Credentials, lotID int64) (*starvell.Offer, error) {
	offer, ok := s.offers[lotID]
	if !ok {
		return nil, fmt.Errorf("offer %d: missing payload", lotID)
	}
	return offer, nil
}

type bumpCall struct {
	gameID      int64
	categoryIDs []int64
	referer     string
}

type fakeBumper struct {
	calls   []bumpCall
	results map[int64]map[int64]bool
}

func (b *fakeBumper) BumpCategories(ctx context.Context, creds starvell.Credentials, gameID int64, categoryIDs []int64, referer string) (map[int64]bool, error) {
	b.calls = append(b.calls, bumpCall{gameID: gameID, categoryIDs: categoryIDs, referer: referer})
	result, ok := b.results[gameID]
	if !ok {
		return nil, fmt.Errorf("no bump result configured for game %d", gameID)
	}
	return result, nil
}

type fakeDigestSource struct {
	desc     *gist.Descriptor
	descErr  error
	comments []gist.Comment
}

func (s *fakeDigestSource) FetchDescriptor(ctx context.Context) (*gist.Descriptor, error) {
	if s.descErr != nil {
		return nil, s.descErr
	}
	return s.desc, nil
}

func (s *fakeDigestSource) FetchOwnerComments(ctx context.Context, max int) ([]gist.Comment, error) {
	return s.comments, nil
}

func message(id, author, content string, auto bool) starvell.Message {
	return starvell.Message{
		ID:       starvell.ID(id),
		AuthorID: starvell.ID(author),
		Content:  content,
		Metadata: starvell.MessageMeta{IsAuto: auto},
	}
}
