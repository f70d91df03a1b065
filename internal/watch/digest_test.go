package watch

import (
	"context"
	"errors"
	"testing"

	"github.com/exfador/starvell-monitor/internal/gist"
)

func TestDigestPollerDescriptorDedupByKey(t *testing.T) {
	ledger := newFakeLedger()
	notifier := &fakeNotifier{}
	source := &fakeDigestSource{
		desc: &gist.Descriptor{Tag: "v1", Text: "maintenance tonight", Key: "d:v1"},
	}
	p := &DigestPoller{Source: source, Ledger: ledger, Notify: notifier}

	for i := 0; i < 3; i++ {
		if err := p.Check(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(notifier.digests) != 1 || notifier.digests[0] != "maintenance tonight" {
		t.Fatalf("expected exactly one descriptor dispatch, got %v", notifier.digests)
	}
	if !ledger.digests["d:v1"] {
		t.Fatalf("dedup key must be recorded")
	}
}

func TestDigestPollerNewRevisionDispatchesAgain(t *testing.T) {
	ledger := newFakeLedger()
	notifier := &fakeNotifier{}
	source := &fakeDigestSource{
		desc: &gist.Descriptor{Tag: "v1", Text: "first", Key: "d:v1"},
	}
	p := &DigestPoller{Source: source, Ledger: ledger, Notify: notifier}

	if err := p.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	source.desc = &gist.Descriptor{Tag: "v2", Text: "second", Key: "d:v2"}
	if err := p.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(notifier.digests) != 2 || notifier.digests[1] != "second" {
		t.Fatalf("new revision must dispatch, got %v", notifier.digests)
	}
}

func TestDigestPollerCommentsDedupById(t *testing.T) {
	ledger := newFakeLedger()
	notifier := &fakeNotifier{}
	source := &fakeDigestSource{
		descErr: errors.New("descriptor unavailable"),
		comments: []gist.Comment{
			{ID: 1, Body: "note one", Key: "n:1"},
			{ID: 2, Body: "note two", Key: "n:2"},
		},
	}
	p := &DigestPoller{Source: source, Ledger: ledger, Notify: notifier}

	for i := 0; i < 2; i++ {
		if err := p.Check(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(notifier.digests) != 2 {
		t.Fatalf("expected both notes exactly once, got %v", notifier.digests)
	}
	if notifier.digests[0] != "note one" || notifier.digests[1] != "note two" {
		t.Fatalf("note order mismatch: %v", notifier.digests)
	}
}

func TestDigestPollerFailedDispatchLeavesKeyUnsent(t *testing.T) {
	ledger := newFakeLedger()
	notifier := &fakeNotifier{digestErr: errors.New("telegram down")}
	source := &fakeDigestSource{
		desc: &gist.Descriptor{Tag: "v1", Text: "retry me", Key: "d:v1"},
	}
	p := &DigestPoller{Source: source, Ledger: ledger, Notify: notifier}

	if err := p.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.digests["d:v1"] {
		t.Fatalf("dedup key must not be set after a failed dispatch")
	}

	notifier.digestErr = nil
	if err := p.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.digests) != 1 || notifier.digests[0] != "retry me" {
		t.Fatalf("descriptor must be re-dispatched after transient failure, got %v", notifier.digests)
	}
	if !ledger.digests["d:v1"] {
		t.Fatalf("dedup key must be set after a successful dispatch")
	}
}
