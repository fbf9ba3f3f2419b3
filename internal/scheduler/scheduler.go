package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ClaimSentinel/internal/endpoint"
	"ClaimSentinel/internal/engine"
	"ClaimSentinel/internal/model"
	"ClaimSentinel/internal/notifier"
)

// Scheduler drives one full pass over all accounts at a fixed wall-clock
// interval. Cron fires every interval regardless of whether the previous
// pass has finished; a slow pass may overlap the next one, which the
// endpoint pool's swap-only ordering tolerates.
type Scheduler struct {
	Cron     *cron.Cron
	Accounts []model.Account
	Pool     *endpoint.Pool
	Engine   *engine.Engine
	Notifier *notifier.Telegram // nil when disabled
	Ctx      context.Context
	log      *zap.SugaredLogger
}

// NewScheduler creates a scheduler over the configured accounts.
func NewScheduler(ctx context.Context, accounts []model.Account, pool *endpoint.Pool, eng *engine.Engine, tg *notifier.Telegram, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(),
		Accounts: accounts,
		Pool:     pool,
		Engine:   eng,
		Notifier: tg,
		Ctx:      ctx,
		log:      log,
	}
}

// Register schedules the cycle at the given interval in minutes.
func (s *Scheduler) Register(intervalMinutes int) error {
	spec := fmt.Sprintf("@every %dm", intervalMinutes)
	if _, err := s.Cron.AddFunc(spec, s.RunCycle); err != nil {
		return fmt.Errorf("register cycle task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info("scheduler stopped")
}

// RunCycle runs one pass: accounts in configured order, increase decision
// before claim decision, one account finishing before the next begins. The
// pool is reshuffled once per account so an account's back-to-back
// operations still spread across nodes between cycles.
func (s *Scheduler) RunCycle() {
	start := time.Now()
	s.log.Infof("cycle starting, %d accounts", len(s.Accounts))

	for _, acct := range s.Accounts {
		if s.Ctx.Err() != nil {
			s.log.Warn("cycle interrupted by shutdown")
			return
		}
		s.Pool.Shuffle()
		s.Engine.RunAccount(s.Ctx, acct)
	}

	elapsed := time.Since(start)
	s.log.Infof("cycle finished in %s", elapsed.Round(time.Millisecond))
	if s.Notifier != nil {
		if err := s.Notifier.SendWithRetry(s.Ctx, notifier.FormatCycleSummary(len(s.Accounts), elapsed), 3); err != nil {
			s.log.Errorf("send cycle summary: %v", err)
		}
	}
}
