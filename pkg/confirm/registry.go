package confirm

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/kase1111-hash/RRA-Module-sub002/pkg/pricecommit"
	"github.com/shopspring/decimal"
)

// ExpiryFunc is invoked, outside the registry lock, for every
// transaction the cleanup sweep transitions to Expired.
type ExpiryFunc func(Snapshot)

// Config configures a Registry. The zero value of any field falls back
// to the documented default.
type Config struct {
	// MinTimeout and MaxTimeout clamp the caller-requested confirmation
	// window. Defaults: 1s and 24h.
	MinTimeout time.Duration
	MaxTimeout time.Duration
	// RequiredConfirmations is 1 or 2. Default: 1.
	RequiredConfirmations int
	// MaxPerWindow and Window bound transaction creation per buyer.
	// Defaults: 10 per minute.
	MaxPerWindow int
	Window       time.Duration
	// Rates and Thresholds drive safeguard-level bucketing.
	Rates      RateTable
	Thresholds Thresholds
	// SweepInterval is the period of the cleanup sweeper. Default: 30s.
	SweepInterval time.Duration
	// Retention is how long terminal entries stay visible before the
	// sweep prunes them. Default: 1h.
	Retention time.Duration

	Logger   slog.Logger
	Rand     io.Reader
	Now      func() time.Time
	OnExpire ExpiryFunc
}

func (c *Config) applyDefaults() error {
	if c.MinTimeout < 0 || c.MaxTimeout < 0 || c.RequiredConfirmations < 0 ||
		c.MaxPerWindow < 0 || c.Window < 0 || c.SweepInterval < 0 || c.Retention < 0 {
		return fmt.Errorf("%w: negative duration or count", ErrInvalidConfig)
	}
	if c.MinTimeout == 0 {
		c.MinTimeout = time.Second
	}
	if c.MaxTimeout == 0 {
		c.MaxTimeout = 24 * time.Hour
	}
	if c.MinTimeout > c.MaxTimeout {
		return fmt.Errorf("%w: minimum timeout above maximum", ErrInvalidConfig)
	}
	switch c.RequiredConfirmations {
	case 0:
		c.RequiredConfirmations = 1
	case 1, 2:
	default:
		return fmt.Errorf("%w: required confirmations must be 1 or 2", ErrInvalidConfig)
	}
	if c.MaxPerWindow == 0 {
		c.MaxPerWindow = 10
	}
	if c.Window == 0 {
		c.Window = time.Minute
	}
	if c.Rates == nil {
		c.Rates = DefaultRateTable()
	}
	if c.Thresholds.Critical.IsZero() {
		c.Thresholds = DefaultThresholds()
	}
	if c.SweepInterval == 0 {
		c.SweepInterval = 30 * time.Second
	}
	if c.Retention == 0 {
		c.Retention = time.Hour
	}
	if c.Logger == nil {
		c.Logger = slog.Disabled
	}
	if c.Rand == nil {
		c.Rand = rand.Reader
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return nil
}

// CreateRequest carries the parameters of a new pending transaction.
type CreateRequest struct {
	Buyer       string
	Seller      string
	AgreedPrice decimal.Decimal
	FloorPrice  decimal.Decimal
	TargetPrice decimal.Decimal
	Currency    string
	Timeout     time.Duration
}

// Registry owns the in-flight transactions of one tenant. Registries
// are instantiable values; multiple independent ones can coexist.
// All methods are safe for concurrent use.
type Registry struct {
	mu           sync.Mutex
	cfg          Config
	engine       *pricecommit.Engine
	log          slog.Logger
	transactions map[string]*pendingTransaction
	limiter      *slidingWindow

	quit     chan struct{}
	stopOnce sync.Once
}

// NewRegistry validates the configuration and returns an empty registry.
func NewRegistry(cfg Config) (*Registry, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &Registry{
		cfg:          cfg,
		engine:       pricecommit.NewWithSources(cfg.Rand, cfg.Now),
		log:          cfg.Logger,
		transactions: make(map[string]*pendingTransaction),
		limiter:      newSlidingWindow(cfg.MaxPerWindow, cfg.Window),
		quit:         make(chan struct{}),
	}, nil
}

// SafeguardLevel returns the tier a price would be bucketed into under
// the registry's rate table and thresholds.
func (r *Registry) SafeguardLevel(amount decimal.Decimal, currency string) Level {
	return r.cfg.Thresholds.levelFor(r.cfg.Rates, amount, currency)
}

// Create registers a new pending transaction and returns its snapshot.
// The agreed price is sealed into a price commitment at creation; the
// requested timeout is clamped to the configured bounds.
func (r *Registry) Create(req CreateRequest) (Snapshot, error) {
	if req.Buyer == "" || req.Seller == "" || req.Currency == "" {
		return Snapshot{}, fmt.Errorf("%w: missing party or currency", ErrInvalidParameters)
	}
	if req.FloorPrice.IsNegative() || req.AgreedPrice.IsNegative() {
		return Snapshot{}, fmt.Errorf("%w: negative price", ErrInvalidParameters)
	}
	if req.FloorPrice.GreaterThan(req.TargetPrice) {
		return Snapshot{}, fmt.Errorf("%w: floor price above target price", ErrInvalidParameters)
	}
	if req.AgreedPrice.LessThan(req.FloorPrice) || req.AgreedPrice.GreaterThan(req.TargetPrice) {
		return Snapshot{}, fmt.Errorf("%w: agreed price outside [floor, target]", ErrInvalidParameters)
	}

	timeout := req.Timeout
	if timeout < r.cfg.MinTimeout {
		timeout = r.cfg.MinTimeout
	}
	if timeout > r.cfg.MaxTimeout {
		timeout = r.cfg.MaxTimeout
	}

	now := r.cfg.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.limiter.allow(req.Buyer, now) {
		return Snapshot{}, ErrRateLimited
	}

	price, err := r.engine.Create(req.AgreedPrice, req.Currency)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	id, err := newID(r.cfg.Rand)
	if err != nil {
		return Snapshot{}, err
	}

	tx := &pendingTransaction{
		id:        id,
		buyer:     req.Buyer,
		seller:    req.Seller,
		price:     price,
		floor:     req.FloorPrice,
		target:    req.TargetPrice,
		level:     r.cfg.Thresholds.levelFor(r.cfg.Rates, req.AgreedPrice, req.Currency),
		required:  r.cfg.RequiredConfirmations,
		createdAt: now,
		expiresAt: now.Add(timeout),
		status:    StatusPendingConfirmation,
	}
	r.transactions[id] = tx
	r.log.Debugf("registry: created transaction %s (level %s, expires %s)",
		id, tx.level, tx.expiresAt.Format(time.RFC3339))
	return tx.snapshot(), nil
}

// Confirm validates the confirmation input against the transaction's
// safeguard level and advances the confirmation counter. The
// transaction becomes Confirmed once the counter reaches the required
// count. Confirming past the expiry transitions the entry to Expired
// and fails.
func (r *Registry) Confirm(id, input string) (Snapshot, error) {
	r.mu.Lock()
	tx, ok := r.transactions[id]
	if !ok {
		r.mu.Unlock()
		return Snapshot{}, ErrNotFound
	}
	if tx.status != StatusPendingConfirmation {
		snap := tx.snapshot()
		r.mu.Unlock()
		return snap, fmt.Errorf("%w: status is %s", ErrWrongState, snap.Status)
	}
	now := r.cfg.Now()
	if now.After(tx.expiresAt) {
		tx.status = StatusExpired
		tx.doneAt = now
		snap := tx.snapshot()
		r.mu.Unlock()
		r.notifyExpired(snap)
		return snap, fmt.Errorf("%w: transaction expired", ErrWrongState)
	}
	if err := validateConfirmationInput(tx.level, tx.price.Amount(), input); err != nil {
		snap := tx.snapshot()
		r.mu.Unlock()
		return snap, err
	}
	tx.confirmations++
	if tx.confirmations >= tx.required {
		tx.status = StatusConfirmed
	}
	snap := tx.snapshot()
	r.mu.Unlock()

	r.log.Debugf("registry: transaction %s confirmed %d/%d", id, snap.Confirmations, snap.RequiredConfirmations)
	return snap, nil
}

// Cancel aborts a transaction. Only allowed from PendingConfirmation.
func (r *Registry) Cancel(id string) (Snapshot, error) {
	return r.transition(id, StatusCancelled, "", StatusPendingConfirmation)
}

// MarkExecuted records that the downstream execution completed. Only
// allowed from Confirmed.
func (r *Registry) MarkExecuted(id string) (Snapshot, error) {
	return r.transition(id, StatusExecuted, "", StatusConfirmed)
}

// MarkFailed records a downstream execution error. Allowed from any
// non-terminal state.
func (r *Registry) MarkFailed(id, reason string) (Snapshot, error) {
	return r.transition(id, StatusFailed, reason, StatusPendingConfirmation, StatusConfirmed)
}

func (r *Registry) transition(id string, to Status, reason string, from ...Status) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.transactions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	allowed := false
	for _, s := range from {
		if tx.status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return tx.snapshot(), fmt.Errorf("%w: status is %s", ErrWrongState, tx.status)
	}
	tx.status = to
	tx.failReason = reason
	tx.doneAt = r.cfg.Now()
	r.log.Debugf("registry: transaction %s → %s", id, to)
	return tx.snapshot(), nil
}

// CleanupExpired transitions every pending entry past its expiry to
// Expired, prunes terminal entries older than the retention period,
// and returns the number of entries expired in this sweep. Expiry
// notifications run after the lock is released.
func (r *Registry) CleanupExpired() int {
	now := r.cfg.Now()

	r.mu.Lock()
	var expired []Snapshot
	for id, tx := range r.transactions {
		if tx.status == StatusPendingConfirmation && now.After(tx.expiresAt) {
			tx.status = StatusExpired
			tx.doneAt = now
			expired = append(expired, tx.snapshot())
		}
		if tx.status.Terminal() && !tx.doneAt.IsZero() && now.Sub(tx.doneAt) > r.cfg.Retention {
			delete(r.transactions, id)
		}
	}
	r.limiter.gc(now)
	r.mu.Unlock()

	for _, snap := range expired {
		r.notifyExpired(snap)
	}
	return len(expired)
}

func (r *Registry) notifyExpired(snap Snapshot) {
	r.log.Infof("registry: transaction %s expired", snap.ID)
	if r.cfg.OnExpire != nil {
		r.cfg.OnExpire(snap)
	}
}

// Snapshot returns a read-only copy of one transaction's state.
func (r *Registry) Snapshot(id string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.transactions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return tx.snapshot(), nil
}

// Snapshots returns read-only copies of every registered transaction.
func (r *Registry) Snapshots() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Snapshot, 0, len(r.transactions))
	for _, tx := range r.transactions {
		out = append(out, tx.snapshot())
	}
	return out
}

// Run drives the periodic cleanup sweep until ctx is cancelled or Stop
// is called. Its only suspension point is the ticker; the stop signal
// is observed at the next wake.
func (r *Registry) Run(ctx context.Context) {
	r.log.Infof("registry: sweeper started")
	t := time.NewTicker(r.cfg.SweepInterval)
	defer t.Stop()
	defer r.log.Infof("registry: sweeper stopped")
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.quit:
			return
		case <-t.C:
			if n := r.CleanupExpired(); n > 0 {
				r.log.Debugf("registry: sweep expired %d transactions", n)
			}
		}
	}
}

// Stop signals the sweeper to exit. Safe to call more than once.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.quit) })
}

func newID(random io.Reader) (string, error) {
	var buf [16]byte
	if _, err := io.ReadFull(random, buf[:]); err != nil {
		return "", fmt.Errorf("confirm: id generation: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}
