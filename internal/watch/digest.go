package watch

import (
	"context"
	"log"

	"github.com/exfador/starvell-monitor/internal/gist"
)

const maxOwnerComments = 50

// DigestPoller watches the operator broadcast document and its comment feed.
// Its dedup keys are recomputable from upstream content, so ledger writes
// here are best-effort: a lost write costs one duplicate broadcast at worst.
type DigestPoller struct {
	Source DigestSource
	Ledger Ledger
	Notify Notifier

	// Debug turns on per-cycle detail logging.
	Debug bool
}

func (p *DigestPoller) Check(ctx context.Context) error {
	p.checkDescriptor(ctx)
	p.checkComments(ctx)
	return nil
}

func (p *DigestPoller) checkDescriptor(ctx context.Context) {
	desc, err := p.Source.FetchDescriptor(ctx)
	if err != nil {
		log.Printf("digest: descriptor fetch failed: %v", err)
		return
	}

	if p.Debug {
		log.Printf("digest cycle: descriptor key %s", desc.Key)
	}

	sent, err := p.Ledger.IsDigestSent(desc.Key)
	if err != nil {
		log.Printf("digest: dedup read failed for %s, sending anyway: %v", desc.Key, err)
	}
	if sent {
		return
	}
	if err := p.Notify.NotifyDigest(desc); err != nil {
		log.Printf("digest: notify failed for %s: %v", desc.Key, err)
		return
	}
	if err := p.Ledger.MarkDigestSent(desc.Key); err != nil {
		log.Printf("digest: dedup write failed for %s: %v", desc.Key, err)
	}
}

func (p *DigestPoller) checkComments(ctx context.Context) {
	comments, err := p.Source.FetchOwnerComments(ctx, maxOwnerComments)
	if err != nil {
		log.Printf("digest: comment fetch failed: %v", err)
		return
	}

	for _, comment := range comments {
		sent, err := p.Ledger.IsDigestSent(comment.Key)
		if err != nil {
			log.Printf("digest: dedup read failed for %s, sending anyway: %v", comment.Key, err)
		}
		if sent {
			continue
		}
		if err := p.Notify.NotifyDigest(&gist.Descriptor{Text: comment.Body}); err != nil {
			log.Printf("digest: notify failed for %s: %v", comment.Key, err)
			continue
		}
		if err := p.Ledger.MarkDigestSent(comment.Key); err != nil {
			log.Printf("digest: dedup write failed for %s: %v", comment.Key, err)
		}
	}
}
