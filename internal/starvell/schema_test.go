package starvell

import (
	"encoding/json"
	"testing"
)

func TestIDAcceptsStringsAndNumbers(t *testing.T) {
	var payload struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
		D ID `json:"d"`
	}
	raw := `{"a": "abc-123", "b": 42, "c": null, "d": true}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.A != "abc-123" {
		t.Fatalf("string id mismatch: %q", payload.A)
	}
	if payload.B != "42" {
		t.Fatalf("numeric id mismatch: %q", payload.B)
	}
	if !payload.C.Empty() {
		t.Fatalf("null id must be absent, got %q", payload.C)
	}
	if !payload.D.Empty() {
		t.Fatalf("boolean id must be absent, got %q", payload.D)
	}
}

func TestMessageSenderPrefersFlatAuthorID(t *testing.T) {
	var m Message
	raw := `{"id": "m1", "authorId": 7, "author": {"id": 9}, "content": "hi"}`
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Sender() != "7" {
		t.Fatalf("sender mismatch: %q", m.Sender())
	}

	var nested Message
	raw = `{"id": "m2", "author": {"id": "9"}, "content": "hi"}`
	if err := json.Unmarshal([]byte(raw), &nested); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nested.Sender() != "9" {
		t.Fatalf("nested sender mismatch: %q", nested.Sender())
	}
}

func TestOrderPriceFallsBackToBasePrice(t *testing.T) {
	o := Order{TotalPrice: 15000, BasePrice: 12000}
	if o.Price() != 15000 {
		t.Fatalf("total price must win: %d", o.Price())
	}
	o = Order{BasePrice: 12000}
	if o.Price() != 12000 {
		t.Fatalf("base price fallback mismatch: %d", o.Price())
	}
}

func TestOfferResolvesIDsFromEitherKey(t *testing.T) {
	flat := Offer{GameID: 10, CategoryID: 3}
	if flat.ResolvedGameID() != 10 || flat.ResolvedCategoryID() != 3 {
		t.Fatalf("flat resolution mismatch: %d/%d", flat.ResolvedGameID(), flat.ResolvedCategoryID())
	}
	nested := Offer{Game: OfferRef{ID: 11}, Category: OfferRef{ID: 4}}
	if nested.ResolvedGameID() != 11 || nested.ResolvedCategoryID() != 4 {
		t.Fatalf("nested resolution mismatch: %d/%d", nested.ResolvedGameID(), nested.ResolvedCategoryID())
	}
	both := Offer{CategoryID: 3, Category: OfferRef{ID: 4}}
	if both.ResolvedCategoryID() != 4 {
		t.Fatalf("nested category id must win: %d", both.ResolvedCategoryID())
	}
}

func TestChatCounterpartExcludesSelf(t *testing.T) {
	chat := Chat{Participants: []Participant{
		{ID: "100", Username: "me"},
		{ID: "200", Username: "buyer"},
	}}
	if got := chat.Counterpart("100"); got != "buyer" {
		t.Fatalf("counterpart mismatch: %q", got)
	}
	if got := chat.Counterpart(""); got != "me" {
		t.Fatalf("unknown self must take first named participant: %q", got)
	}
	empty := Chat{}
	if got := empty.Counterpart("100"); got != "Unknown" {
		t.Fatalf("empty participants must render Unknown: %q", got)
	}
}
