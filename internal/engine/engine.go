// Package engine makes the two per-account economic decisions each cycle:
// whether to buy a higher claim limit, and whether to claim what has
// accumulated.
package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/eoscanada/eos-go/ecc"
	"go.uber.org/zap"

	"ClaimSentinel/internal/abi"
	"ClaimSentinel/internal/endpoint"
	"ClaimSentinel/internal/limits"
	"ClaimSentinel/internal/metrics"
	"ClaimSentinel/internal/model"
	"ClaimSentinel/internal/notifier"
	"ClaimSentinel/internal/recorder"
	"ClaimSentinel/internal/txn"
)

// Reader fetches on-chain state through the endpoint pool's current order.
type Reader interface {
	LimitRows(ctx context.Context, order []string, account string) []model.LimitRow
	Balance(ctx context.Context, order []string, account string) float64
}

// Collector fetches the off-chain accumulated amount.
type Collector interface {
	FetchCollected(ctx context.Context, account string) float64
}

// Submitter signs and pushes a set of actions.
type Submitter interface {
	Submit(ctx context.Context, account string, keys []*ecc.PrivateKey, actions []txn.Action) (string, error)
}

// Config holds the economic knobs and chain naming the engine needs.
type Config struct {
	MinClaim       float64
	MaxWaste       float64
	MaxLimit       float64
	DelayMin       float64 // seconds
	DelayMax       float64 // seconds
	GameContract   string
	TokenContract  string
	ServiceAccount string
	IncreaseMemo   string
	Symbol         abi.Symbol
}

// Engine runs the decision procedures. One account's two decisions run to
// completion before the next account begins; nothing here is concurrent.
type Engine struct {
	cfg       Config
	pool      *endpoint.Pool
	reader    Reader
	collector Collector
	submitter Submitter
	rec       recorder.Recorder
	tg        *notifier.Telegram // nil when notifications are disabled
	log       *zap.SugaredLogger

	sleep func(time.Duration)
	now   func() time.Time
}

// New wires up an engine.
func New(cfg Config, pool *endpoint.Pool, reader Reader, collector Collector, submitter Submitter, rec recorder.Recorder, tg *notifier.Telegram, log *zap.SugaredLogger) *Engine {
	return &Engine{
		cfg:       cfg,
		pool:      pool,
		reader:    reader,
		collector: collector,
		submitter: submitter,
		rec:       rec,
		tg:        tg,
		log:       log,
		sleep:     time.Sleep,
		now:       time.Now,
	}
}

// RunAccount runs the increase decision, then the claim decision. Each
// decision re-fetches state independently; a just-submitted increase is not
// threaded into the claim decision, the next cycle corrects it.
func (e *Engine) RunAccount(ctx context.Context, acct model.Account) {
	e.DecideIncrease(ctx, acct)
	e.DecideClaim(ctx, acct)
}

// limitState resolves the account's claim-limit state. The second return is
// false when every endpoint failed; an account with no table row gets the
// never-extended default.
func (e *Engine) limitState(ctx context.Context, account string) (model.LimitState, bool) {
	rows := e.reader.LimitRows(ctx, e.pool.Order(), account)
	if rows == nil {
		return model.LimitState{}, false
	}
	if len(rows) == 0 {
		return model.DefaultLimitState(), true
	}
	return model.LimitState{Limit: rows[0].Limit, ExtendedAt: rows[0].ExtendedAt}, true
}

// DecideIncrease raises the claim limit when the accumulated amount has
// outgrown it and the account can afford the cost.
func (e *Engine) DecideIncrease(ctx context.Context, acct model.Account) {
	ev := &model.DecisionEvent{Account: acct.Name, Kind: model.DecisionIncrease}

	state, ok := e.limitState(ctx, acct.Name)
	if !ok {
		e.finish(ev, model.OutcomeNoData, "limit state unavailable")
		return
	}
	collected := e.collector.FetchCollected(ctx, acct.Name)
	ev.Collected = collected
	if math.IsNaN(collected) {
		e.finish(ev, model.OutcomeNoData, "collected amount unavailable")
		return
	}

	current := limits.Effective(state.Limit, state.ExtendedAt, e.now())
	ev.CurrentLimit = current
	if current > collected {
		e.finish(ev, model.OutcomeSkipped, fmt.Sprintf("limit %.0f already covers collected %.0f", current, collected))
		return
	}

	target := math.Min(e.cfg.MaxLimit, collected)
	ev.TargetLimit = target
	cost, err := limits.IncreaseCost(target)
	if err != nil {
		e.finish(ev, model.OutcomeSkipped, fmt.Sprintf("target %.0f out of range: %v", target, err))
		return
	}
	ev.Cost = cost

	balance := e.reader.Balance(ctx, e.pool.Order(), acct.Name)
	if math.IsNaN(balance) {
		e.finish(ev, model.OutcomeNoData, "balance unavailable")
		return
	}
	if balance < cost {
		e.finish(ev, model.OutcomeInsufficientFunds, fmt.Sprintf("balance %.4f below cost %.4f", balance, cost))
		return
	}

	e.jitter(ctx)

	quantity := abi.NewAsset(cost, e.cfg.Symbol)
	action, err := txn.NewTransfer(e.cfg.TokenContract, acct.Name, e.cfg.ServiceAccount, quantity, e.cfg.IncreaseMemo)
	if err != nil {
		e.finish(ev, model.OutcomeSubmitFailed, fmt.Sprintf("build transfer: %v", err))
		return
	}
	e.submit(ctx, acct, ev, action, fmt.Sprintf("increase to %.0f for %s", target, quantity))
}

// DecideClaim claims the accumulated amount when enough has built up and not
// too much of it would be forfeited.
func (e *Engine) DecideClaim(ctx context.Context, acct model.Account) {
	ev := &model.DecisionEvent{Account: acct.Name, Kind: model.DecisionClaim}

	state, ok := e.limitState(ctx, acct.Name)
	if !ok {
		e.finish(ev, model.OutcomeNoData, "limit state unavailable")
		return
	}
	collected := e.collector.FetchCollected(ctx, acct.Name)
	ev.Collected = collected
	if math.IsNaN(collected) {
		e.finish(ev, model.OutcomeNoData, "collected amount unavailable")
		return
	}

	if collected < e.cfg.MinClaim {
		e.finish(ev, model.OutcomeBelowMinClaim, fmt.Sprintf("collected %.0f below minimum %.0f", collected, e.cfg.MinClaim))
		return
	}

	current := limits.Effective(state.Limit, state.ExtendedAt, e.now())
	ev.CurrentLimit = current
	waste := math.Max(0, collected-current)
	ev.Waste = waste
	if waste > e.cfg.MaxWaste {
		e.finish(ev, model.OutcomeWasteTooHigh, fmt.Sprintf("waste %.0f exceeds tolerance %.0f, claiming later", waste, e.cfg.MaxWaste))
		return
	}

	e.jitter(ctx)

	action, err := txn.NewClaim(e.cfg.GameContract, acct.Name)
	if err != nil {
		e.finish(ev, model.OutcomeSubmitFailed, fmt.Sprintf("build claim: %v", err))
		return
	}
	e.submit(ctx, acct, ev, action, fmt.Sprintf("claim %.0f (waste %.0f)", collected, waste))
}

// submit fires the action and records the outcome. Submission failure is
// logged and swallowed; it never unwinds past this decision.
func (e *Engine) submit(ctx context.Context, acct model.Account, ev *model.DecisionEvent, action txn.Action, what string) {
	txID, err := e.submitter.Submit(ctx, acct.Name, acct.Keys(), []txn.Action{action})
	if err != nil {
		e.finish(ev, model.OutcomeSubmitFailed, err.Error())
		return
	}
	if txID == "" {
		e.finish(ev, model.OutcomeDryRun, what)
		return
	}
	ev.TxID = txID
	e.finish(ev, model.OutcomeSubmitted, what)
}

// jitter sleeps a random delay within the configured bounds, rounded to two
// decimals, so submissions from multiple bots do not land in lockstep.
func (e *Engine) jitter(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	span := e.cfg.DelayMax - e.cfg.DelayMin
	seconds := e.cfg.DelayMin + rand.Float64()*span
	seconds = math.Round(seconds*100) / 100
	e.log.Debugf("jitter delay %.2fs", seconds)
	e.sleep(time.Duration(seconds * float64(time.Second)))
}

func (e *Engine) finish(ev *model.DecisionEvent, outcome model.Outcome, note string) {
	ev.Outcome = outcome
	ev.Note = note
	metrics.Decisions.WithLabelValues(string(ev.Kind), string(outcome)).Inc()

	switch outcome {
	case model.OutcomeSubmitted:
		e.log.Infof("[%s] %s submitted: %s (tx %s)", ev.Account, ev.Kind, note, ev.TxID)
	case model.OutcomeDryRun:
		e.log.Infof("[%s] %s dry run: %s", ev.Account, ev.Kind, note)
	case model.OutcomeSubmitFailed:
		e.log.Errorf("[%s] %s submission failed: %s", ev.Account, ev.Kind, note)
	case model.OutcomeNoData:
		e.log.Warnf("[%s] %s aborted: %s", ev.Account, ev.Kind, note)
	default:
		e.log.Infof("[%s] %s: %s", ev.Account, ev.Kind, note)
	}

	if err := e.rec.RecordDecision(ev); err != nil {
		e.log.Errorf("record decision: %v", err)
	}
	if e.tg != nil && (outcome == model.OutcomeSubmitted || outcome == model.OutcomeSubmitFailed) {
		if err := e.tg.SendWithRetry(context.Background(), notifier.FormatDecision(ev), 3); err != nil {
			e.log.Errorf("send notification: %v", err)
		}
	}
}
