package resilience

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/gatekit/auth"
	"github.com/kbukum/gatekit/logger"
)

// GuardedUsers is an auth.UserProvider protected by retries and a circuit
// breaker.
type GuardedUsers struct {
	users   auth.UserProvider
	cfg     Config
	breaker *Breaker
	log     *logger.Logger
}

// Guard wraps users. A nil log uses the resilience component logger.
func Guard(users auth.UserProvider, cfg Config, log *logger.Logger) *GuardedUsers {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Get(logger.ComponentResilience)
	}
	g := &GuardedUsers{users: users, cfg: cfg, log: log}
	g.breaker = NewBreaker(cfg.Breaker, func(from, to State) {
		fields := logger.Fields("breaker", cfg.Name, "from", from.String(), "to", to.String())
		if to == StateOpen {
			log.Warn("user store circuit opened", fields)
			return
		}
		log.Info("user store circuit state changed", fields)
	})
	return g
}

// State returns the breaker state.
func (g *GuardedUsers) State() State { return g.breaker.State() }

// LoadUserByUsername implements auth.UserProvider.
func (g *GuardedUsers) LoadUserByUsername(ctx context.Context, username string) (auth.Account, error) {
	var account auth.Account
	err := retry(ctx, g.cfg.Retry, isStoreFailure, func() error {
		if !g.breaker.Allow() {
			return auth.ServiceFailure("user store unavailable", ErrCircuitOpen)
		}
		a, err := g.users.LoadUserByUsername(ctx, username)
		if isCancellation(err) {
			g.breaker.Release()
		} else {
			g.breaker.Done(isStoreFailure(err))
		}
		account = a
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// isStoreFailure reports whether err means the store itself failed.
// Authentication answers and caller cancellation do not count.
func isStoreFailure(err error) bool {
	if err == nil || stderrors.Is(err, ErrCircuitOpen) {
		return false
	}
	if isCancellation(err) {
		return false
	}
	k := auth.KindOf(err)
	return k == 0 || k == auth.KindServiceFailure
}

// isCancellation reports whether the caller gave up before the store answered.
func isCancellation(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
