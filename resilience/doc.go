// Package resilience protects authentication against an unhealthy user
// store.
//
// Guard wraps an auth.UserProvider with retries and a circuit breaker.
// Only store failures count: an unknown username is an answer, not an
// outage, so it neither retries nor trips the breaker. While the breaker
// is open, lookups fail fast with an auth service failure.
//
//	users := resilience.Guard(store, resilience.Config{}, logger.Get("users"))
//	provider := auth.NewDaoProvider(users, nil, encoder)
package resilience
