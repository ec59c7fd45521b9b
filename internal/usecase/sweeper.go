package usecase

import (
	"context"
	"time"

	"commerce-payments/internal/data/repository"

	"go.uber.org/zap"
)

// Sweeper periodically expires overdue pending rows so transactions and
// payments nobody touches do not stay stale in storage. The request-time lazy
// sweep remains authoritative; this is the safety net behind it.
type Sweeper struct {
	repo     *repository.Repository
	interval time.Duration
	log      *zap.Logger
}

func NewSweeper(repo *repository.Repository, interval time.Duration, log *zap.Logger) *Sweeper {
	return &Sweeper{
		repo:     repo,
		interval: interval,
		log:      log.With(zap.String("service", "sweeper")),
	}
}

// Run blocks until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info("Expiration sweeper started", zap.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Expiration sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	payments, err := s.repo.Payment.ExpireAllOverdue(ctx)
	if err != nil {
		s.log.Error("Sweep failed for payments", zap.Error(err))
	}

	transactions, err := s.repo.Transaction.ExpireAllOverdue(ctx)
	if err != nil {
		s.log.Error("Sweep failed for transactions", zap.Error(err))
	}

	if payments > 0 || transactions > 0 {
		s.log.Info("Expired overdue rows",
			zap.Int64("payments", payments),
			zap.Int64("transactions", transactions),
		)
	}
}
