package dining

import (
	"context"
	"log"
	"time"

	"whattheygot/internal/http-api/repository"
)

// SyncConfig holds menu sync configuration
type SyncConfig struct {
	FeedURL   string
	APIKey    string
	DaysAhead int
	Interval  time.Duration
}

// SyncService pulls menus from the provider feed and loads them into the
// menu table. Inserts skip rows that already exist, so re-runs are safe.
type SyncService struct {
	config   SyncConfig
	client   *Client
	menuRepo repository.MenuItemRepository
}

func NewSyncService(config SyncConfig, menuRepo repository.MenuItemRepository) *SyncService {
	return &SyncService{
		config:   config,
		client:   NewClient(config.FeedURL, config.APIKey),
		menuRepo: menuRepo,
	}
}

// RunSync fetches and loads menus for today through DaysAhead days out.
// A failed day is logged and skipped; the rest of the range still loads.
func (s *SyncService) RunSync(ctx context.Context) error {
	today := time.Now().Truncate(24 * time.Hour)

	for offset := 0; offset <= s.config.DaysAhead; offset++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		day := today.AddDate(0, 0, offset)
		menu, err := s.client.GetDayMenu(ctx, day)
		if err != nil {
			log.Printf("[Sync] Failed to fetch %s: %v", day.Format("2006-01-02"), err)
			continue
		}

		items := menu.Flatten()
		if len(items) == 0 {
			log.Printf("[Sync] No items for %s", day.Format("2006-01-02"))
			continue
		}

		created, err := s.menuRepo.BulkCreate(items)
		if err != nil {
			log.Printf("[Sync] Failed to load %s: %v", day.Format("2006-01-02"), err)
			continue
		}
		log.Printf("[Sync] %s: %d new items, %d already present",
			day.Format("2006-01-02"), created, len(items)-int(created))
	}

	return nil
}

// StartPoller re-syncs on the configured interval until the context is
// cancelled. Blocks.
func (s *SyncService) StartPoller(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.RunSync(ctx); err != nil {
				log.Printf("[Sync] Poll error: %v", err)
			}
		}
	}
}
