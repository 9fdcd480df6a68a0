// Package dashboard orchestrates the signed-in user's financial records: it
// loads each record kind from the store, accepts validated submissions,
// keeps the per-kind caches consistent, and exposes render-ready views.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"endurowallet/internal/core"
	"endurowallet/internal/identity"
	"endurowallet/internal/store"
)

// ErrNoUser is returned when a submit arrives with no signed-in identity.
var ErrNoUser = errors.New("no signed-in user")

// LoadState is the per-kind cache state.
type LoadState string

const (
	StateUnloaded   LoadState = "unloaded"
	StateLoading    LoadState = "loading"
	StateReady      LoadState = "ready"
	StateLoadFailed LoadState = "load_failed"
)

// EventPublisher is notified after every successful append, for asynchronous
// mirroring. A nil publisher disables notifications.
type EventPublisher interface {
	PublishRecordCreated(ctx context.Context, userID string, kind core.Kind, recordID string) error
}

// KindView is a snapshot of one record kind's cache for the view layer.
type KindView[T core.Record] struct {
	State   LoadState
	Records []T
	Err     error
}

type kindState[T core.Record] struct {
	state   LoadState
	records []T
	err     error
}

func (s *kindState[T]) reset() {
	s.state = StateUnloaded
	s.records = nil
	s.err = nil
}

func (s *kindState[T]) view() KindView[T] {
	records := make([]T, len(s.records))
	copy(records, s.records)
	return KindView[T]{State: s.state, Records: records, Err: s.err}
}

// Controller is the dashboard state machine. All cached record state is
// guarded by mu; the generation counter invalidates in-flight completions
// whenever identity changes, so a stale load or append can never write into
// a cleared cache.
type Controller struct {
	client *store.Client
	events EventPublisher

	mu     sync.Mutex
	gen    uint64
	userID string

	income       kindState[core.Income]
	transactions kindState[core.Transaction]
	savers       kindState[core.SaverGoal]

	// Per-kind submit locks: a second submit for the same kind queues
	// behind the first instead of racing the cache merge.
	incomeSubmit      sync.Mutex
	transactionSubmit sync.Mutex
	saverSubmit       sync.Mutex

	unsubscribe func()
}

// New creates a controller bound to the identity gate. Loads start as soon
// as the gate reports a user; sign-out clears every cache.
func New(client *store.Client, gate identity.Gate, events EventPublisher) *Controller {
	c := &Controller{client: client, events: events}
	c.income.reset()
	c.transactions.reset()
	c.savers.reset()
	if gate != nil {
		c.unsubscribe = gate.Subscribe(c.HandleIdentityChange)
		if userID, ok := gate.CurrentUserID(); ok {
			c.HandleIdentityChange(userID, true)
		}
	}
	return c
}

// Close detaches the controller from the identity gate.
func (c *Controller) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// HandleIdentityChange resets all per-kind state for the new identity and,
// when a user is present, kicks off loading of every kind. No financial
// data survives an identity change in memory.
func (c *Controller) HandleIdentityChange(userID string, ok bool) {
	c.mu.Lock()
	c.gen++
	c.userID = ""
	c.income.reset()
	c.transactions.reset()
	c.savers.reset()
	if !ok {
		c.mu.Unlock()
		return
	}
	c.userID = userID
	c.mu.Unlock()

	go c.LoadAll(context.Background())
}

// LoadAll loads every record kind concurrently and returns when all three
// settle. Each kind fails independently: one LoadFailed does not disturb
// the others. There is no automatic retry.
func (c *Controller) LoadAll(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loadKind(ctx, c, &c.income, core.KindIncome, c.client.ListIncome)
		return nil
	})
	g.Go(func() error {
		loadKind(ctx, c, &c.transactions, core.KindTransactions, c.client.ListTransactions)
		return nil
	})
	g.Go(func() error {
		loadKind(ctx, c, &c.savers, core.KindSavers, c.client.ListSavers)
		return nil
	})
	_ = g.Wait()
}

func loadKind[T core.Record](ctx context.Context, c *Controller, ks *kindState[T], kind core.Kind, list func(context.Context, string) ([]T, error)) {
	c.mu.Lock()
	gen := c.gen
	userID := c.userID
	if userID == "" {
		c.mu.Unlock()
		return
	}
	ks.state = StateLoading
	ks.records = nil
	ks.err = nil
	c.mu.Unlock()

	records, err := list(ctx, userID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		// Identity changed while the call was in flight; drop the result.
		slog.DebugContext(ctx, "Discarding stale load", "kind", kind)
		return
	}
	if err != nil {
		slog.ErrorContext(ctx, "Record load failed", "kind", kind, "error", err)
		ks.state = StateLoadFailed
		ks.err = err
		return
	}
	ks.state = StateReady
	ks.records = records
}

// SubmitIncome validates raw income input and, when valid, appends it to
// the store and merges the created record into the cache.
func (c *Controller) SubmitIncome(ctx context.Context, in core.IncomeInput) (core.Income, error) {
	candidate, err := core.ValidateIncome(in)
	if err != nil {
		return core.Income{}, err
	}
	return submitRecord(ctx, c, &c.income, &c.incomeSubmit, core.KindIncome, candidate, c.client.AppendIncome)
}

// SubmitTransaction validates and appends a spending transaction.
func (c *Controller) SubmitTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	candidate, err := core.ValidateTransaction(in)
	if err != nil {
		return core.Transaction{}, err
	}
	return submitRecord(ctx, c, &c.transactions, &c.transactionSubmit, core.KindTransactions, candidate, c.client.AppendTransaction)
}

// SubmitSaver validates and appends a saver goal.
func (c *Controller) SubmitSaver(ctx context.Context, in core.SaverInput) (core.SaverGoal, error) {
	candidate, err := core.ValidateSaver(in)
	if err != nil {
		return core.SaverGoal{}, err
	}
	return submitRecord(ctx, c, &c.savers, &c.saverSubmit, core.KindSavers, candidate, c.client.AppendSaver)
}

// submitRecord runs the validated candidate through the store and performs
// the optimistic merge: the created record joins the Ready cache without a
// re-fetch. On store failure the cache is left untouched.
func submitRecord[T core.Record](ctx context.Context, c *Controller, ks *kindState[T], submitMu *sync.Mutex, kind core.Kind, candidate T, appendFn func(context.Context, string, T) (T, error)) (T, error) {
	var zero T

	submitMu.Lock()
	defer submitMu.Unlock()

	c.mu.Lock()
	gen := c.gen
	userID := c.userID
	c.mu.Unlock()
	if userID == "" {
		return zero, ErrNoUser
	}

	created, err := appendFn(ctx, userID, candidate)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	if c.gen == gen && ks.state == StateReady {
		ks.records = append(ks.records, created)
	}
	c.mu.Unlock()

	if c.events != nil {
		if err := c.events.PublishRecordCreated(ctx, userID, kind, created.RecordID()); err != nil {
			// Mirroring is best-effort; the record is already stored.
			slog.WarnContext(ctx, "Record event publish failed",
				"kind", kind, "record_id", created.RecordID(), "error", err)
		}
	}

	return created, nil
}

// Income returns the income cache snapshot.
func (c *Controller) Income() KindView[core.Income] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.income.view()
}

// Transactions returns the transactions cache snapshot.
func (c *Controller) Transactions() KindView[core.Transaction] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transactions.view()
}

// Savers returns the saver goals cache snapshot.
func (c *Controller) Savers() KindView[core.SaverGoal] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.savers.view()
}

// Generation returns the identity generation, usable as a cache key
// component: it changes whenever the caches are cleared.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}
