package moderation

import (
	"context"
	"time"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const (
	// DefaultSweepInterval is how often the sweeper looks for expired actions.
	DefaultSweepInterval = 45 * time.Second

	// DefaultSweepBatchSize caps how many expired actions one cycle handles.
	DefaultSweepBatchSize = 500

	// DefaultSweepConcurrency caps how many guilds one cycle handles at once.
	DefaultSweepConcurrency = 4
)

// Lease grants exclusive use of a resource for a limited time.
type Lease interface {
	Acquire(ctx context.Context, ttl time.Duration) (bool, error)
}

// SweeperOptions tune the expiry sweeper. Zero values use the defaults.
type SweeperOptions struct {
	Interval    time.Duration
	BatchSize   int
	Concurrency int
	// Lease, when set, lets only one process sweep per interval.
	// Sweeping stays correct without it since deactivation only matches active rows.
	Lease Lease
}

// Sweeper lifts moderation actions whose expiry has passed.
type Sweeper struct {
	engine      *Engine
	interval    time.Duration
	batchSize   int
	concurrency int
	lease       Lease
	logger      *zap.Logger
}

// NewSweeper creates a sweeper that uses the engine's stores and platform client.
func NewSweeper(engine *Engine, opts SweeperOptions, logger *zap.Logger) *Sweeper {
	if opts.Interval <= 0 {
		opts.Interval = DefaultSweepInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultSweepBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultSweepConcurrency
	}

	return &Sweeper{
		engine:      engine,
		interval:    opts.Interval,
		batchSize:   opts.BatchSize,
		concurrency: opts.Concurrency,
		lease:       opts.Lease,
		logger:      logger.Named("sweeper"),
	}
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Expiry sweeper started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Expiry sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs a single cycle and returns how many actions it deactivated.
func (s *Sweeper) Sweep(ctx context.Context) int {
	if s.lease != nil {
		acquired, err := s.lease.Acquire(ctx, s.interval)
		if err != nil {
			s.logger.Warn("Failed to acquire sweeper lease, sweeping anyway", zap.Error(err))
		} else if !acquired {
			s.logger.Debug("Another process holds the sweeper lease")
			return 0
		}
	}

	due, err := s.engine.actions.ListDue(ctx, s.engine.now(), s.batchSize)
	if err != nil {
		s.logger.Error("Failed to list expired actions", zap.Error(err))
		return 0
	}
	if len(due) == 0 {
		return 0
	}

	byGuild := make(map[uint64][]*types.Action)
	for _, action := range due {
		byGuild[action.GuildID] = append(byGuild[action.GuildID], action)
	}

	p := pool.NewWithResults[int]().WithMaxGoroutines(s.concurrency)
	for _, actions := range byGuild {
		p.Go(func() int {
			return s.sweepGuild(ctx, actions)
		})
	}

	var total int
	for _, n := range p.Wait() {
		total += n
	}

	s.logger.Info("Lifted expired actions",
		zap.Int("due", len(due)),
		zap.Int("deactivated", total),
		zap.Int("guilds", len(byGuild)))

	return total
}

// sweepGuild handles the expired actions of one guild. The mute role is resolved
// at most once per cycle. A failed platform call never keeps an action active, but
// a failed mute role lookup does, so the next cycle retries it.
func (s *Sweeper) sweepGuild(ctx context.Context, actions []*types.Action) int {
	muteRoles := make(map[uint64]*uint64, 1)

	var deactivated int
	for _, action := range actions {
		if action.Kind == enum.ActionKindMute || action.Kind == enum.ActionKindBan {
			if err := s.engine.reverse(ctx, action, muteRoles, "Expired"); err != nil {
				s.logger.Warn("Keeping expired action active until its effect can be lifted",
					zap.String("actionID", action.ID),
					zap.Uint64("guildID", action.GuildID),
					zap.Error(err))
				continue
			}
		}

		ok, err := s.engine.actions.Deactivate(ctx, action.ID)
		if err != nil {
			s.logger.Error("Failed to deactivate expired action",
				zap.String("actionID", action.ID),
				zap.Uint64("guildID", action.GuildID),
				zap.Error(err))
			continue
		}
		if ok {
			deactivated++
		}
	}

	return deactivated
}
