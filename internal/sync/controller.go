// Package sync owns the local snapshot cache and the refresh cadence
// against the remote ledger store. Consistency is heuristic: mutations are
// fire-and-forget, every mutation schedules a reconciling re-fetch after a
// fixed settle delay, and a background poll catches changes made by other
// clients. There is no locking, no versioning, and no sequence guard; the
// last snapshot observed by polling wins.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/McPreacher/MissionTeamMoney/internal/core"
	"github.com/McPreacher/MissionTeamMoney/internal/ledger"
)

// Config holds controller timing knobs.
type Config struct {
	// PollInterval is the unconditional background refresh cadence
	// (default: 30s).
	PollInterval time.Duration

	// SettleDelay is how long to wait after a mutation before the
	// reconciling re-fetch, giving the store time to become consistent
	// (default: 1500ms). This is a deliberate heuristic, not a guarantee.
	SettleDelay time.Duration
}

// DefaultConfig returns the standard polling cadence.
func DefaultConfig() Config {
	return Config{
		PollInterval: 30 * time.Second,
		SettleDelay:  1500 * time.Millisecond,
	}
}

// Controller pulls snapshots from the ledger store and submits mutations.
type Controller struct {
	reader ledger.SnapshotReader
	writer ledger.MutationWriter
	config Config

	// onChange fires after a refresh whose snapshot differs structurally
	// from the cached one. The equality check only avoids redundant
	// re-renders; it is not a correctness requirement.
	onChange func([]core.LedgerEntry)

	mu        sync.Mutex
	snapshot  []core.LedgerEntry
	fetchedAt time.Time

	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a controller. onChange may be nil.
func New(reader ledger.SnapshotReader, writer ledger.MutationWriter, config Config, onChange func([]core.LedgerEntry)) *Controller {
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	if config.SettleDelay <= 0 {
		config.SettleDelay = DefaultConfig().SettleDelay
	}
	return &Controller{
		reader:   reader,
		writer:   writer,
		config:   config,
		onChange: onChange,
	}
}

// Snapshot returns the cached ledger and when it was last fetched. The
// cache is only ever replaced wholesale by Refresh, never patched.
func (c *Controller) Snapshot() ([]core.LedgerEntry, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]core.LedgerEntry, len(c.snapshot))
	copy(out, c.snapshot)
	return out, c.fetchedAt
}

// Refresh pulls the full snapshot. On failure the stale cache is retained
// and the error returned; callers on the poll path log and swallow it. A
// late response can overwrite a fresher one: in-flight fetches are not
// sequenced.
func (c *Controller) Refresh(ctx context.Context) error {
	entries, err := c.reader.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetch ledger snapshot: %w", err)
	}

	c.mu.Lock()
	changed := !entriesEqual(c.snapshot, entries)
	c.snapshot = entries
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	if changed {
		slog.DebugContext(ctx, "Ledger snapshot changed", "entries", len(entries))
		if c.onChange != nil {
			c.onChange(entries)
		}
	}
	return nil
}

// Submit hands one mutation to the store and schedules the reconciling
// refresh after the settle delay. The refresh runs regardless of whether
// the write succeeded, so a failed mutation surfaces as stale data until
// the next poll rather than as a hung pending state.
func (c *Controller) Submit(ctx context.Context, m ledger.Mutation) error {
	m = m.Normalize()

	err := c.writer.Apply(ctx, m)
	if err != nil {
		slog.ErrorContext(ctx, "Mutation submit failed",
			"action", m.Action, "name", m.Name, "group", m.Group, "error", err)
	}

	time.AfterFunc(c.config.SettleDelay, func() {
		rctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if rerr := c.Refresh(rctx); rerr != nil {
			slog.Error("Reconcile refresh failed", "error", rerr)
		}
	})

	return err
}

// Start begins the background poll loop. Returns an error if already running.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("sync controller is already running")
	}
	c.running = true
	c.stopCh = make(chan struct{})
	c.doneCh = make(chan struct{})
	c.mu.Unlock()

	// Prime the cache so the first render is not empty.
	if err := c.Refresh(ctx); err != nil {
		slog.WarnContext(ctx, "Initial ledger refresh failed", "error", err)
	}

	go c.runLoop(ctx)

	slog.InfoContext(ctx, "Sync controller started",
		"poll_interval", c.config.PollInterval,
		"settle_delay", c.config.SettleDelay)
	return nil
}

// Stop gracefully stops the poll loop and waits for completion.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	close(c.stopCh)

	select {
	case <-c.doneCh:
		slog.InfoContext(ctx, "Sync controller stopped gracefully")
	case <-ctx.Done():
		slog.WarnContext(ctx, "Sync controller stop timed out")
		return ctx.Err()
	}

	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	return nil
}

func (c *Controller) runLoop(ctx context.Context) {
	defer close(c.doneCh)

	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rctx, cancel := context.WithTimeout(ctx, 15*time.Second)
			if err := c.Refresh(rctx); err != nil {
				// Stale cache retained; the next tick tries again.
				slog.Error("Background refresh failed", "error", err)
			}
			cancel()
		case <-c.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// entriesEqual is a full structural comparison of two snapshots.
func entriesEqual(a, b []core.LedgerEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID ||
			a[i].Name != b[i].Name ||
			a[i].Role != b[i].Role ||
			a[i].Group != b[i].Group ||
			a[i].Comment != b[i].Comment ||
			!a[i].Amount.Equal(b[i].Amount) ||
			!a[i].Date.Equal(b[i].Date) {
			return false
		}
	}
	return true
}
