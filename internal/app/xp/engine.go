package xp

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sparfuchs-app/sparfuchs/internal/domain"
	"github.com/sparfuchs-app/sparfuchs/internal/infra/metrics"
)

// Engine owns the XP award orchestration: event-type lookup, cap and
// cooldown enforcement, multiplier resolution, level re-resolution, and
// the atomic event+progress write.
//
// Awards for one user are serialized through a per-user mutex so the
// cap/cooldown check-then-act sequence never races against itself.
// Persistence errors are caught here, logged, and counted; the caller
// always receives the last-known-good progress, never an error.
type Engine struct {
	store domain.Store

	mu    sync.Mutex
	cfg   *domain.XPConfig
	user  string
	cache map[string]*domain.UserProgress
	locks map[string]*sync.Mutex
}

// AwardInput describes one award request.
type AwardInput struct {
	EventKey   string
	SourceType string
	SourceID   string
	Meta       string // free-form JSON

	// ProgressOverride replaces the cached progress as the award base.
	// Used when chaining awards so the second builds on the first's
	// persisted result instead of stale state.
	ProgressOverride *domain.UserProgress

	// ProgressPatch is merged into the same persisted write as the
	// XP/level update — never a second write.
	ProgressPatch *domain.ProgressPatch

	// SkipCooldownCheck bypasses the generic cooldown. The daily-login
	// flow is gated by its own calendar-day key instead.
	SkipCooldownCheck bool
}

// NewEngine creates an engine over the persistence collaborator.
func NewEngine(store domain.Store) *Engine {
	return &Engine{
		store: store,
		cache: make(map[string]*domain.UserProgress),
		locks: make(map[string]*sync.Mutex),
	}
}

// StartSession loads the rule configuration (once) and get-or-creates the
// user's progress at the floor level. Until a session starts, every award
// is a no-op.
func (e *Engine) StartSession(userID string) (*domain.UserProgress, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}

	floor := ResolveLevelByXP(cfg.Levels, 0)
	if floor == nil {
		return nil, domain.ErrConfigUnready
	}

	progress, err := e.store.GetOrCreateProgress(userID, floor.ID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.user = userID
	e.cache[userID] = progress
	e.mu.Unlock()

	metrics.StreakCurrent.Set(float64(progress.CurrentStreak))
	return progress, nil
}

// Config returns the loaded rule configuration, loading it on first use.
func (e *Engine) Config() (domain.XPConfig, error) {
	cfg, err := e.config()
	if err != nil {
		return domain.XPConfig{}, err
	}
	return *cfg, nil
}

// Progress returns the cached progress for the active session, or nil.
func (e *Engine) Progress() *domain.UserProgress {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.user == "" {
		return nil
	}
	return e.cache[e.user]
}

// Award grants XP for the given event at the current instant.
func (e *Engine) Award(in AwardInput) *domain.UserProgress {
	return e.AwardAt(in, time.Now())
}

// AwardAt grants XP for the given event as of now. It returns nil when
// no session or configuration is available, the unmodified base progress
// on a policy skip or persistence failure, and the persisted progress on
// success.
func (e *Engine) AwardAt(in AwardInput, now time.Time) *domain.UserProgress {
	e.mu.Lock()
	userID := e.user
	cfg := e.cfg
	e.mu.Unlock()

	if userID == "" || cfg == nil {
		return nil
	}

	// Serialize the check-then-act sequence per user.
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	return e.awardLocked(userID, cfg, in, now)
}

// awardLocked runs one award. The caller holds the user lock; the base
// progress is read from the cache under that lock, so an award that
// committed a moment earlier is always the base for the next one rather
// than a stale snapshot.
func (e *Engine) awardLocked(userID string, cfg *domain.XPConfig, in AwardInput, now time.Time) *domain.UserProgress {
	et := cfg.EventTypeByKey(in.EventKey)
	if et == nil || !et.Active {
		return nil
	}

	base := in.ProgressOverride
	if base == nil {
		e.mu.Lock()
		base = e.cache[userID]
		e.mu.Unlock()
	}
	if base == nil {
		return nil
	}

	// Lifetime cap. Reaching it is policy, not an error.
	if et.MaxPerUser != nil {
		count, err := e.store.XPEventCount(userID, et.ID)
		if err != nil {
			log.Printf("[xp] count events for %s: %v", in.EventKey, err)
			metrics.PersistFailures.WithLabelValues("xp").Inc()
			return base
		}
		if count >= *et.MaxPerUser {
			metrics.XPAwardSkips.WithLabelValues("cap").Inc()
			return base
		}
	}

	// Cooldown spacing between awards of the same type.
	if !in.SkipCooldownCheck && et.CooldownHours != nil {
		last, ok, err := e.store.LatestXPEventAt(userID, et.ID)
		if err != nil {
			log.Printf("[xp] latest event for %s: %v", in.EventKey, err)
			metrics.PersistFailures.WithLabelValues("xp").Inc()
			return base
		}
		if ok && now.Sub(last) < time.Duration(*et.CooldownHours)*time.Hour {
			metrics.XPAwardSkips.WithLabelValues("cooldown").Inc()
			return base
		}
	}

	multiplier := HighestMultiplier(cfg.EventRules, et.ID, now)
	delta := int64(math.Round(float64(et.BaseXP) * multiplier))
	if delta <= 0 {
		metrics.XPAwardSkips.WithLabelValues("zero_delta").Inc()
		return base
	}

	nextTotal := base.XPTotal + delta
	nextLevelID := base.CurrentLevelID
	if lvl := ResolveLevelByXP(cfg.Levels, nextTotal); lvl != nil {
		nextLevelID = lvl.ID
	}

	patch := domain.ProgressPatch{}
	if in.ProgressPatch != nil {
		patch = *in.ProgressPatch
	}
	patch.XPTotal = &nextTotal
	patch.CurrentLevelID = &nextLevelID

	ev := domain.XPEvent{
		ID:          uuid.NewString(),
		UserID:      userID,
		EventTypeID: et.ID,
		EventKey:    et.Key,
		BaseXP:      et.BaseXP,
		Multiplier:  multiplier,
		Delta:       delta,
		SourceType:  in.SourceType,
		SourceID:    in.SourceID,
		Meta:        in.Meta,
		CreatedAt:   now,
	}

	// Event write and progress write land as one transaction. On failure
	// the award is abandoned, not retried, and no partial state becomes
	// visible.
	updated, err := e.store.AwardTx(ev, userID, patch)
	if err != nil {
		log.Printf("[xp] award %s: %v", in.EventKey, err)
		metrics.PersistFailures.WithLabelValues("xp").Inc()
		return base
	}

	e.mu.Lock()
	e.cache[userID] = updated
	e.mu.Unlock()

	metrics.XPAwards.WithLabelValues(et.Key).Inc()
	metrics.XPDelta.Add(float64(delta))
	return updated
}

// config loads the rule configuration on first use and caches it for the
// rest of the session. Catalog rows are immutable once loaded.
func (e *Engine) config() (*domain.XPConfig, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := e.store.XPConfig()
	if err != nil {
		return nil, err
	}
	e.cfg = &cfg
	return e.cfg, nil
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[userID] = lock
	}
	return lock
}
