// Package workers runs the background overdue sweep. Fine generation is
// authoritative here, on the server's schedule, not in any client.
package workers

import (
	"context"
	"time"

	"github.com/elibrary/backend/app"
	"github.com/elibrary/backend/db"
	"github.com/elibrary/backend/models"

	"go.uber.org/zap"
)

const defaultSweepInterval = 1 * time.Hour

// OverdueNotifier scans open borrows past their deadline and upserts the
// pending fine for each: days late times the per-day amount. The sweep is
// idempotent per transaction, so rerunning only refreshes the numbers.
type OverdueNotifier struct {
	repo       *db.Repo
	log        *zap.Logger
	finePerDay int64
	interval   time.Duration
	stop       chan struct{}
}

func NewOverdueNotifier(a *app.App) *OverdueNotifier {
	return &OverdueNotifier{
		repo:       db.NewRepo(a.DB),
		log:        a.Log,
		finePerDay: a.Config.FinePerDay,
		interval:   defaultSweepInterval,
		stop:       make(chan struct{}),
	}
}

func (n *OverdueNotifier) Start() {
	go func() {
		n.Sweep(context.Background(), time.Now().UTC())
		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n.Sweep(context.Background(), time.Now().UTC())
			case <-n.stop:
				return
			}
		}
	}()
}

func (n *OverdueNotifier) Stop() { close(n.stop) }

// Sweep runs one pass as of the given instant.
func (n *OverdueNotifier) Sweep(ctx context.Context, asOf time.Time) {
	trxs, err := n.repo.ListOverdueBorrows(ctx, asOf)
	if err != nil {
		n.log.Error("overdue sweep failed", zap.Error(err))
		return
	}
	for i := range trxs {
		trx := &trxs[i]
		days := int(asOf.Sub(trx.LoanMaximum).Hours() / 24)
		if days < 1 {
			days = 1
		}
		fine := models.NewOverdueFine(trx, days, n.finePerDay)
		if _, err := n.repo.UpsertOverdueFine(ctx, fine); err != nil {
			n.log.Error("fine upsert failed",
				zap.Error(err), zap.Uint("transaction_id", trx.ID))
			continue
		}
	}
	if len(trxs) > 0 {
		n.log.Info("overdue sweep finished", zap.Int("overdue", len(trxs)))
	}
}
