package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/shashiranjanraj/agromart/pkg/kv"
	"github.com/shashiranjanraj/agromart/pkg/logger"
)

// Reason says why an action was refused.
type Reason string

const (
	ReasonCooldown Reason = "cooldown"
	ReasonLimit    Reason = "limit"
)

// Limit is a per-action policy: a minimum gap between two actions and,
// when Max > 0, at most Max actions per Window.
type Limit struct {
	Action string
	Gap    time.Duration
	Max    int
	Window time.Duration
}

var (
	// ChatLimit guards the "need help" chat link.
	ChatLimit = Limit{Action: "chat", Gap: time.Minute, Max: 5, Window: time.Hour}
	// OrderLimit guards the WhatsApp order message.
	OrderLimit = Limit{Action: "whatsapp", Gap: time.Minute}
)

// Decision is the outcome of a Check. Remaining is how long to wait,
// rounded up to the second.
type Decision struct {
	Allowed   bool
	Remaining time.Duration
	Reason    Reason
}

// ActionLimiter throttles user actions with bookkeeping in a kv.Store.
// Storage errors fail open.
type ActionLimiter struct {
	store kv.Store
	now   func() time.Time
}

func NewActionLimiter(store kv.Store) *ActionLimiter {
	return &ActionLimiter{store: store, now: time.Now}
}

// WithClock replaces time.Now, for tests.
func (l *ActionLimiter) WithClock(now func() time.Time) *ActionLimiter {
	l.now = now
	return l
}

// Check records the action and allows it, or refuses it without recording.
func (l *ActionLimiter) Check(ctx context.Context, limit Limit) Decision {
	now := l.now().UnixMilli()
	cooldownKey := "agro_cooldown_" + limit.Action
	historyKey := "agro_history_" + limit.Action

	last, err := l.readInt(ctx, cooldownKey)
	if err != nil {
		return l.failOpen(ctx, limit, err)
	}
	if gap := limit.Gap.Milliseconds(); last > 0 && now-last < gap {
		return Decision{Reason: ReasonCooldown, Remaining: ceilSeconds(gap - (now - last))}
	}

	if limit.Max > 0 && limit.Window > 0 {
		history, err := l.readHistory(ctx, historyKey)
		if err != nil {
			return l.failOpen(ctx, limit, err)
		}
		window := limit.Window.Milliseconds()
		recent := history[:0]
		for _, t := range history {
			if now-t < window {
				recent = append(recent, t)
			}
		}
		if len(recent) >= limit.Max {
			return Decision{Reason: ReasonLimit, Remaining: ceilSeconds(window - (now - recent[0]))}
		}
		recent = append(recent, now)
		raw, _ := json.Marshal(recent)
		if err := l.store.Set(ctx, historyKey, raw); err != nil {
			return l.failOpen(ctx, limit, err)
		}
	}

	if err := l.store.Set(ctx, cooldownKey, []byte(strconv.FormatInt(now, 10))); err != nil {
		return l.failOpen(ctx, limit, err)
	}
	return Decision{Allowed: true}
}

func (l *ActionLimiter) readInt(ctx context.Context, key string) (int64, error) {
	raw, err := l.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (l *ActionLimiter) readHistory(ctx context.Context, key string) ([]int64, error) {
	raw, err := l.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var history []int64
	if err := json.Unmarshal(raw, &history); err != nil {
		return nil, nil
	}
	return history, nil
}

func (l *ActionLimiter) failOpen(ctx context.Context, limit Limit, err error) Decision {
	logger.WithCtx(ctx).Warn("action limit check failed", "action", limit.Action, "error", err)
	return Decision{Allowed: true}
}

func ceilSeconds(ms int64) time.Duration {
	return time.Duration((ms+999)/1000) * time.Second
}
