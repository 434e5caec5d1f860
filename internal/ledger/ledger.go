package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mbdiagne/comptoir/internal/domain/models"
)

// InventoryFetcher defines the remote operation the ledger needs.
type InventoryFetcher interface {
	GetAll(ctx context.Context) ([]models.StockRecord, error)
}

// StockLedger is the terminal's cached view of per-location inventory. It is
// read-mostly: every mutation happens server-side and is only observed through
// Refresh, which replaces the snapshot wholesale. The view is eventually
// consistent, never guaranteed current.
type StockLedger struct {
	inventory InventoryFetcher
	logger    *zap.Logger

	mu            sync.RWMutex
	records       []models.StockRecord
	totals        map[string]int
	byProduct     map[string][]models.StockRecord
	lastRefreshed time.Time
}

// New builds an empty ledger. Call Refresh to populate it.
func New(inventory InventoryFetcher, logger *zap.Logger) *StockLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockLedger{
		inventory: inventory,
		logger:    logger,
		totals:    make(map[string]int),
		byProduct: make(map[string][]models.StockRecord),
	}
}

// Refresh fetches the full stock list and replaces the cached snapshot. It
// never merges; a refresh fully supersedes prior data.
func (l *StockLedger) Refresh(ctx context.Context) error {
	records, err := l.inventory.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("refresh stock ledger: %w", err)
	}

	l.Replace(records)
	l.logger.Debug("stock ledger refreshed", zap.Int("records", len(records)))
	return nil
}

// Replace swaps in a new snapshot directly. Refresh uses it; tests seed
// through it.
func (l *StockLedger) Replace(records []models.StockRecord) {
	totals := make(map[string]int, len(records))
	byProduct := make(map[string][]models.StockRecord, len(records))

	for _, r := range records {
		byProduct[r.ProductID] = append(byProduct[r.ProductID], r)
		if r.Quantity > 0 {
			totals[r.ProductID] += r.Quantity
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = records
	l.totals = totals
	l.byProduct = byProduct
	l.lastRefreshed = time.Now()
}

// TotalStock sums the positive quantities for a product across all locations.
// Unknown products yield 0.
func (l *StockLedger) TotalStock(productID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totals[productID]
}

// Locations returns the per-location records for a product.
func (l *StockLedger) Locations(productID string) []models.StockRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	records := l.byProduct[productID]
	out := make([]models.StockRecord, len(records))
	copy(out, records)
	return out
}

// Snapshot returns a copy of every cached record.
func (l *StockLedger) Snapshot() []models.StockRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.StockRecord, len(l.records))
	copy(out, l.records)
	return out
}

// LastRefreshed reports when the current snapshot was taken. Zero when the
// ledger has never been refreshed.
func (l *StockLedger) LastRefreshed() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastRefreshed
}
