package watch

import (
	"context"
	"testing"

	"github.com/exfador/starvell-monitor/internal/starvell"
)

func authorizedSession() *starvell.Session {
	return &starvell.Session{
		Authorized: true,
		User:       &starvell.Account{ID: "42", Username: "seller"},
		SID:        "sid-token",
	}
}

func TestBumpSchedulerBatchesPerGameAndAttributesResults(t *testing.T) {
	inventory := &fakeInventory{
		lots: []starvell.Lot{
			{ID: 1, Title: "Lot in cat 3", URL: "https://starvell.com/offer/1"},
			{ID: 2, Title: "Lot in cat 7", URL: "https://starvell.com/offer/2"},
		},
		offers: map[int64]*starvell.Offer{
			1: {
				ID:       1,
				GameID:   10,
				Game:     starvell.OfferRef{Slug: "brawl-stars"},
				Category: starvell.OfferRef{ID: 3, Slug: "gems"},
			},
			2: {ID: 2, GameID: 10, CategoryID: 7},
		},
	}
	bumper := &fakeBumper{results: map[int64]map[int64]bool{
		10: {3: true, 7: false},
	}}
	notifier := &fakeNotifier{}
	s := &BumpScheduler{
		Session:   &fakeSessionSource{sess: authorizedSession()},
		Inventory: inventory,
		Bumper:    bumper,
		Notify:    notifier,
	}

	if err := s.Check(context.Background(), starvell.Credentials{Session: "cookie"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bumper.calls) != 1 {
		t.Fatalf("expected one batched request, got %d", len(bumper.calls))
	}
	call := bumper.calls[0]
	if call.gameID != 10 {
		t.Fatalf("game mismatch: got %d", call.gameID)
	}
	if len(call.categoryIDs) != 2 || call.categoryIDs[0] != 3 || call.categoryIDs[1] != 7 {
		t.Fatalf("categories mismatch: got %v", call.categoryIDs)
	}
	if call.referer != "https://starvell.com/brawl-stars/gems" {
		t.Fatalf("referer mismatch: got %q", call.referer)
	}

	if len(notifier.bumps) != 1 || notifier.bumps[0] != 1 {
		t.Fatalf("only the lot in the succeeded category must be notified, got %v", notifier.bumps)
	}
}

func TestBumpSchedulerEmptyInventorySkipsSilently(t *testing.T) {
	bumper := &fakeBumper{results: map[int64]map[int64]bool{}}
	s := &BumpScheduler{
		Session:   &fakeSessionSource{sess: authorizedSession()},
		Inventory: &fakeInventory{},
		Bumper:    bumper,
		Notify:    &fakeNotifier{},
	}

	if err := s.Check(context.Background(), starvell.Credentials{}); err != nil {
		t.Fatalf("empty inventory must not be an error: %v", err)
	}
	if len(bumper.calls) != 0 {
		t.Fatalf("no bump request expected, got %v", bumper.calls)
	}
}

func TestBumpSchedulerUnauthorizedSessionSkipsCycle(t *testing.T) {
	bumper := &fakeBumper{}
	s := &BumpScheduler{
		Session:   &fakeSessionSource{sess: &starvell.Session{Authorized: false}},
		Inventory: &fakeInventory{lots: []starvell.Lot{{ID: 1}}},
		Bumper:    bumper,
		Notify:    &fakeNotifier{},
	}

	if err := s.Check(context.Background(), starvell.Credentials{}); err != nil {
		t.Fatalf("unauthorized session must skip, not fail: %v", err)
	}
	if len(bumper.calls) != 0 {
		t.Fatalf("no bump request expected, got %v", bumper.calls)
	}
}

func TestBumpSchedulerSkipsLotsWithFailedDetail(t *testing.T) {
	inventory := &fakeInventory{
		lots: []starvell.Lot{
			{ID: 1, Title: "resolvable"},
			{ID: 2, Title: "detail missing"},
		},
		offers: map[int64]*starvell.Offer{
			1: {ID: 1, GameID: 10, CategoryID: 3},
		},
	}
	bumper := &fakeBumper{results: map[int64]map[int64]bool{10: {3: true}}}
	notifier := &fakeNotifier{}
	s := &BumpScheduler{
		Session:   &fakeSessionSource{sess: authorizedSession()},
		Inventory: inventory,
		Bumper:    bumper,
		Notify:    notifier,
	}

	if err := s.Check(context.Background(), starvell.Credentials{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bumper.calls) != 1 || len(bumper.calls[0].categoryIDs) != 1 {
		t.Fatalf("only the resolvable lot must map: %v", bumper.calls)
	}
	if len(notifier.bumps) != 1 || notifier.bumps[0] != 1 {
		t.Fatalf("bump attribution mismatch: %v", notifier.bumps)
	}
}
