package moderation_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/robalyx/reaper/internal/database/types"
	"github.com/robalyx/reaper/internal/database/types/enum"
	"github.com/robalyx/reaper/internal/moderation"
	"go.uber.org/zap"
)

var errUnavailable = errors.New("service unavailable")

const botUserID uint64 = 999

// recorder keeps the order of external calls across fakes.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeActions struct {
	mu         sync.Mutex
	actions    map[string]*types.Action
	createErr  error
	listDueErr error
	rec        *recorder
}

func newFakeActions(rec *recorder) *fakeActions {
	return &fakeActions{actions: make(map[string]*types.Action), rec: rec}
}

func (f *fakeActions) seed(actions ...*types.Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range actions {
		clone := *a
		f.actions[a.ID] = &clone
	}
}

func (f *fakeActions) snapshot(id string) *types.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.actions[id]
	if !ok {
		return nil
	}
	clone := *a
	return &clone
}

func (f *fakeActions) byKind(kind enum.ActionKind) []*types.Action {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Action
	for _, a := range f.actions {
		if a.Kind == kind {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out
}

func (f *fakeActions) Create(_ context.Context, action *types.Action) error {
	f.rec.add("persist:" + action.Kind.String())
	if f.createErr != nil {
		return f.createErr
	}
	f.seed(action)
	return nil
}

func (f *fakeActions) Get(_ context.Context, id string) (*types.Action, error) {
	if a := f.snapshot(id); a != nil {
		return a, nil
	}
	return nil, types.ErrActionNotFound
}

func (f *fakeActions) CountActiveStrikes(_ context.Context, guildID, userID uint64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int
	for _, a := range f.actions {
		if a.GuildID == guildID && a.UserID == userID && a.Kind == enum.ActionKindStrike && a.Active {
			count++
		}
	}
	return count, nil
}

func (f *fakeActions) ListDue(_ context.Context, now time.Time, limit int) ([]*types.Action, error) {
	if f.listDueErr != nil {
		return nil, f.listDueErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var due []*types.Action
	for _, a := range f.actions {
		if a.IsDue(now) {
			clone := *a
			due = append(due, &clone)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].Expiry.Before(*due[j].Expiry) })
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (f *fakeActions) Deactivate(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.actions[id]
	if !ok || !a.Active {
		return false, nil
	}
	a.Active = false
	return true, nil
}

func (f *fakeActions) DeactivateActive(
	_ context.Context, guildID, userID uint64, kind enum.ActionKind,
) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, a := range f.actions {
		if a.GuildID == guildID && a.UserID == userID && a.Kind == kind && a.Active {
			a.Active = false
			ids = append(ids, a.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeActions) UpdateReason(_ context.Context, id, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.actions[id]
	if !ok {
		return types.ErrActionNotFound
	}
	a.Reason = reason
	return nil
}

func (f *fakeActions) UpdateExpiry(_ context.Context, id string, expiry *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.actions[id]
	if !ok {
		return types.ErrActionNotFound
	}
	a.Expiry = expiry
	return nil
}

func (f *fakeActions) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.actions[id]; !ok {
		return types.ErrActionNotFound
	}
	delete(f.actions, id)
	return nil
}

func (f *fakeActions) LatestByModerator(_ context.Context, guildID, moderatorID uint64) (*types.Action, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *types.Action
	for _, a := range f.actions {
		if a.GuildID != guildID || a.ModeratorID != moderatorID {
			continue
		}
		if latest == nil || a.CreatedAt.After(latest.CreatedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, types.ErrActionNotFound
	}
	clone := *latest
	return &clone, nil
}

func (f *fakeActions) ListByUser(
	_ context.Context, guildID, userID uint64, includeInactive bool, limit int,
) ([]*types.Action, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Action
	for _, a := range f.actions {
		if a.GuildID == guildID && a.UserID == userID && (includeInactive || a.Active) {
			clone := *a
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeEscalations struct {
	rules map[uint64][]*types.EscalationRule
}

func (f *fakeEscalations) List(_ context.Context, guildID uint64) ([]*types.EscalationRule, error) {
	return f.rules[guildID], nil
}

type fakeConfig struct {
	mu      sync.Mutex
	configs map[uint64]*types.ModerationConfig
	err     error
	lookups int
}

func (f *fakeConfig) GetModeration(_ context.Context, guildID uint64) (*types.ModerationConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return f.configs[guildID], nil
}

func (f *fakeConfig) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeConfig) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

type fakePlatform struct {
	rec *recorder
	err map[string]error
}

func (f *fakePlatform) call(name string) error {
	f.rec.add(name)
	return f.err[name]
}

func (f *fakePlatform) Ban(context.Context, uint64, uint64, string) error   { return f.call("ban") }
func (f *fakePlatform) Unban(context.Context, uint64, uint64, string) error { return f.call("unban") }
func (f *fakePlatform) Kick(context.Context, uint64, uint64, string) error  { return f.call("kick") }

func (f *fakePlatform) GrantRole(context.Context, uint64, uint64, uint64, string) error {
	return f.call("grant_role")
}

func (f *fakePlatform) RevokeRole(context.Context, uint64, uint64, uint64, string) error {
	return f.call("revoke_role")
}

type fakeNotifier struct {
	rec *recorder
	err error
}

func (f *fakeNotifier) NotifyAction(context.Context, *types.Action) error {
	f.rec.add("notify")
	return f.err
}

type fakeLogs struct {
	rec *recorder
	err error
}

func (f *fakeLogs) PublishAction(context.Context, *types.Action) error {
	f.rec.add("log")
	return f.err
}

func (f *fakeLogs) PublishUpdate(context.Context, *types.Action, types.ActionUpdate) error {
	f.rec.add("log_update")
	return f.err
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	engine      *moderation.Engine
	actions     *fakeActions
	escalations *fakeEscalations
	config      *fakeConfig
	platform    *fakePlatform
	notifier    *fakeNotifier
	logs        *fakeLogs
	rec         *recorder
	clock       *clock
}

func newHarness() *harness {
	rec := &recorder{}
	h := &harness{
		actions:     newFakeActions(rec),
		escalations: &fakeEscalations{rules: make(map[uint64][]*types.EscalationRule)},
		config:      &fakeConfig{configs: make(map[uint64]*types.ModerationConfig)},
		platform:    &fakePlatform{rec: rec, err: make(map[string]error)},
		notifier:    &fakeNotifier{rec: rec},
		logs:        &fakeLogs{rec: rec},
		rec:         rec,
		clock:       &clock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	}

	h.engine = moderation.NewEngine(moderation.Dependencies{
		Actions:     h.actions,
		Escalations: h.escalations,
		Config:      h.config,
		Platform:    h.platform,
		Notifier:    h.notifier,
		Logs:        h.logs,
		BotUserID:   botUserID,
		Now:         h.clock.Now,
	}, zap.NewNop())

	return h
}

func (h *harness) count(event string) int {
	var n int
	for _, e := range h.rec.list() {
		if e == event {
			n++
		}
	}
	return n
}

func ptr[T any](v T) *T { return &v }
