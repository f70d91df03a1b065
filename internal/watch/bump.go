package watch

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/exfador/starvell-monitor/internal/starvell"
)

const starvellBaseURL = "https://starvell.com"

// BumpScheduler periodically re-resolves the account's listings into a
// game→categories map and issues one batched visibility bump per game,
// attributing per-category results back to the individual listings.
type BumpScheduler struct {
	Session   SessionSource
	Inventory Inventory
	Bumper    Bumper
	Notify    Notifier

	// Debug turns on per-cycle detail logging.
	Debug bool
}

// inventoryMap is the per-cycle view of the account's listings.
type inventoryMap struct {
	categoriesByGame map[int64][]int64
	lotsByCategory   map[int64][]starvell.Lot

	// referer is derived from the first game/category slug pair seen and
	// reused for every bump request of the cycle.
	referer string
}

func (s *BumpScheduler) Check(ctx context.Context, creds starvell.Credentials) error {
	sess, err := s.Session.FetchSession(ctx, creds)
	if err != nil {
		return fmt.Errorf("auth probe: %v", err)
	}
	if !sess.Authorized || sess.User == nil {
		log.Printf("bump: session not authorized, skipping cycle")
		return nil
	}
	if sess.SID != "" {
		creds.SID = sess.SID
	}

	inv, err := s.Resolve(ctx, creds, sess.User.ID)
	if err != nil {
		return err
	}
	if len(inv.categoriesByGame) == 0 {
		// Nothing listed right now; not an error.
		return nil
	}
	if s.Debug {
		log.Printf("bump cycle: %d listings across %d games, referer %q", inv.Listings(), inv.Games(), inv.referer)
	}

	games := make([]int64, 0, len(inv.categoriesByGame))
	for gameID := range inv.categoriesByGame {
		games = append(games, gameID)
	}
	sort.Slice(games, func(i, j int) bool { return games[i] < games[j] })

	for _, gameID := range games {
		categories := inv.categoriesByGame[gameID]
		results, err := s.Bumper.BumpCategories(ctx, creds, gameID, categories, inv.referer)
		if err != nil {
			log.Printf("bump: game %d request failed: %v", gameID, err)
			continue
		}

		succeeded := make([]int64, 0, len(results))
		for categoryID, ok := range results {
			if ok {
				succeeded = append(succeeded, categoryID)
			}
		}
		sort.Slice(succeeded, func(i, j int) bool { return succeeded[i] < succeeded[j] })

		for _, categoryID := range succeeded {
			for _, lot := range inv.lotsByCategory[categoryID] {
				if err := s.Notify.NotifyBump(lot); err != nil {
					log.Printf("bump: notify failed for lot %d: %v", lot.ID, err)
				}
			}
		}
	}
	return nil
}

// Resolve rebuilds the game/category mapping from the live listing inventory.
// A listing whose detail fetch fails is skipped for this cycle.
func (s *BumpScheduler) Resolve(ctx context.Context, creds starvell.Credentials, userID starvell.ID) (*inventoryMap, error) {
	lots, err := s.Inventory.FetchLots(ctx, creds, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch lots: %v", err)
	}

	inv := &inventoryMap{
		categoriesByGame: make(map[int64][]int64),
		lotsByCategory:   make(map[int64][]starvell.Lot),
	}
	seen := make(map[int64]map[int64]bool)

	for _, lot := range lots {
		if lot.ID == 0 {
			continue
		}
		offer, err := s.Inventory.FetchOfferDetail(ctx, creds, lot.ID)
		if err != nil {
			log.Printf("bump: offer detail failed for lot %d: %v", lot.ID, err)
			continue
		}
		gameID := offer.ResolvedGameID()
		categoryID := offer.ResolvedCategoryID()
		if gameID == 0 || categoryID == 0 {
			continue
		}

		if inv.referer == "" && offer.Game.Slug != "" && offer.Category.Slug != "" {
			inv.referer = fmt.Sprintf("%s/%s/%s", starvellBaseURL, offer.Game.Slug, offer.Category.Slug)
		}

		if seen[gameID] == nil {
			seen[gameID] = make(map[int64]bool)
		}
		if !seen[gameID][categoryID] {
			seen[gameID][categoryID] = true
			inv.categoriesByGame[gameID] = append(inv.categoriesByGame[gameID], categoryID)
		}
		inv.lotsByCategory[categoryID] = append(inv.lotsByCategory[categoryID], lot)
	}

	for _, categories := range inv.categoriesByGame {
		sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	}
	return inv, nil
}

// Listings reports how many listings resolved into the mapping; bootstrap
// logs it once at startup.
func (inv *inventoryMap) Listings() int {
	n := 0
	for _, lots := range inv.lotsByCategory {
		n += len(lots)
	}
	return n
}

// Games reports how many games have at least one bumpable category.
func (inv *inventoryMap) Games() int {
	return len(inv.categoriesByGame)
}
