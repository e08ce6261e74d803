package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/gatekit/logger"
)

// --- fakes ---

type fakeUsers struct {
	accounts map[string]Account
	err      error
	calls    atomic.Int32
}

func (f *fakeUsers) LoadUserByUsername(_ context.Context, username string) (Account, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.accounts[username]
	if !ok {
		return nil, UsernameNotFound()
	}
	return a, nil
}

type countingEncoder struct {
	valid bool
	calls atomic.Int32
	last  [3]string
	mu    sync.Mutex
}

func (e *countingEncoder) IsPasswordValid(encoded, raw, salt string) bool {
	e.calls.Add(1)
	e.mu.Lock()
	e.last = [3]string{encoded, raw, salt}
	e.mu.Unlock()
	return e.valid
}

type fakeChecker struct {
	pre, post error
	order     *[]string
}

func (c fakeChecker) CheckPreAuth(Account) error {
	if c.order != nil {
		*c.order = append(*c.order, "pre")
	}
	return c.pre
}

func (c fakeChecker) CheckPostAuth(Account) error {
	if c.order != nil {
		*c.order = append(*c.order, "post")
	}
	return c.post
}

type recordedAttempt struct {
	provider, outcome string
}

type fakeRecorder struct {
	mu       sync.Mutex
	attempts []recordedAttempt
}

func (r *fakeRecorder) RecordAttempt(_ context.Context, provider, outcome string, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, recordedAttempt{provider, outcome})
}

func newTestProvider(users UserProvider, checker AccountChecker, enc PasswordEncoder, opts ...Option) *DaoProvider {
	opts = append([]Option{WithLogger(logger.NewNop())}, opts...)
	return NewDaoProvider(users, checker, enc, opts...)
}

func aliceUsers(opts ...UserOption) *fakeUsers {
	return &fakeUsers{accounts: map[string]Account{
		"alice": NewUser("alice", "encoded-pw", append([]UserOption{WithSalt("s4lt"), WithAuthorities("ROLE_USER")}, opts...)...),
	}}
}

// --- retrieveUser classification ---

func TestAuthenticate_UsernameNotFoundPropagatesUnwrapped(t *testing.T) {
	enc := &countingEncoder{valid: true}
	p := newTestProvider(aliceUsers(), nil, enc)

	_, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("bob", "pw", ""))
	if !errors.Is(err, ErrUsernameNotFound) {
		t.Fatalf("expected ErrUsernameNotFound, got %v", err)
	}
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Kind != KindUsernameNotFound {
		t.Fatalf("expected *Error of KindUsernameNotFound, got %#v", err)
	}
	if errors.Unwrap(err) != nil {
		t.Error("username not found must not carry a cause")
	}
	if enc.calls.Load() != 0 {
		t.Error("encoder must not run for unknown users")
	}
}

func TestAuthenticate_WrappedNotFoundFromProvider(t *testing.T) {
	users := UserProviderFunc(func(context.Context, string) (Account, error) {
		return nil, fmt.Errorf("ldap lookup: %w", UsernameNotFound())
	})
	p := newTestProvider(users, nil, &countingEncoder{valid: true})

	_, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("bob", "pw", ""))
	if KindOf(err) != KindUsernameNotFound {
		t.Fatalf("expected KindUsernameNotFound, got %v", err)
	}
	if strings.Contains(err.Error(), "ldap") {
		t.Errorf("not-found error leaks provider detail: %q", err)
	}
}

func TestAuthenticate_HideUserNotFound(t *testing.T) {
	p := newTestProvider(aliceUsers(), nil, &countingEncoder{valid: true}, WithHideUserNotFound(true))

	_, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("bob", "pw", ""))
	if !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestAuthenticate_ProviderErrorBecomesServiceFailure(t *testing.T) {
	cause := errors.New("connection refused")
	p := newTestProvider(&fakeUsers{err: cause}, nil, &countingEncoder{valid: true})

	_, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", "pw", ""))
	if !errors.Is(err, ErrServiceFailure) {
		t.Fatalf("expected ErrServiceFailure, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("service failure must preserve the original cause")
	}
}

func TestAuthenticate_ProviderAuthErrorsAreClassified(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
	}{
		{"bad credentials", BadCredentials(), KindServiceFailure},
		{"wrapped bad credentials", fmt.Errorf("ldap: %w", BadCredentials()), KindServiceFailure},
		{"account status", AccountStatusError(StatusLocked), KindServiceFailure},
		{"wrapped account status", fmt.Errorf("ldap: %w", AccountStatusError(StatusDisabled)), KindServiceFailure},
		{"unsupported token", UnsupportedToken(), KindServiceFailure},
		{"wrapped unsupported token", fmt.Errorf("db: %w", UnsupportedToken()), KindServiceFailure},
		{"service failure", ServiceFailure("pool exhausted", nil), KindServiceFailure},
		{"wrapped not found", fmt.Errorf("db: %w", UsernameNotFound()), KindUsernameNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enc := &countingEncoder{valid: true}
			p := newTestProvider(&fakeUsers{err: tc.err}, nil, enc)

			_, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", "pw", ""))
			if got := KindOf(err); got != tc.wantKind {
				t.Fatalf("kind = %s, want %s (%v)", got, tc.wantKind, err)
			}
			if n := enc.calls.Load(); n != 0 {
				t.Errorf("encoder called %d times, want 0", n)
			}
		})
	}
}

func TestAuthenticate_ServiceFailurePassesThroughOnce(t *testing.T) {
	original := ServiceFailure("user store unavailable", errors.New("circuit open"))
	p := newTestProvider(&fakeUsers{err: original}, nil, &countingEncoder{valid: true})

	_, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", "pw", ""))
	var authErr *Error
	if !errors.As(err, &authErr) || authErr != original {
		t.Fatalf("expected the store's service failure unchanged, got %v", err)
	}
}

func TestAuthenticate_MalformedAccountIsServiceFailure(t *testing.T) {
	tests := []struct {
		name    string
		account Account
	}{
		{"nil account", nil},
		{"typed nil account", (*User)(nil)},
		{"empty username", NewUser("", "pw")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := UserProviderFunc(func(context.Context, string) (Account, error) {
				return tc.account, nil
			})
			p := newTestProvider(users, nil, &countingEncoder{valid: true})

			_, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", "pw", ""))
			if !IsKind(err, KindServiceFailure) {
				t.Fatalf("expected KindServiceFailure, got %v", err)
			}
			if !strings.Contains(err.Error(), "malformed account") {
				t.Errorf("unexpected message: %q", err)
			}
		})
	}
}

// --- checkAuthentication ---

func TestAuthenticate_EmptyCredentialsSkipEncoder(t *testing.T) {
	for _, creds := range []string{"", "   ", "\t\n"} {
		enc := &countingEncoder{valid: true}
		p := newTestProvider(aliceUsers(), nil, enc)

		_, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", creds, ""))
		if !errors.Is(err, ErrBadCredentials) {
			t.Fatalf("credentials %q: expected ErrBadCredentials, got %v", creds, err)
		}
		if n := enc.calls.Load(); n != 0 {
			t.Errorf("credentials %q: encoder called %d times, want 0", creds, n)
		}
	}
}

func TestAuthenticate_InvalidPassword(t *testing.T) {
	enc := &countingEncoder{valid: false}
	p := newTestProvider(aliceUsers(), nil, enc)

	tok := NewUsernamePasswordToken("alice", "wrong", "")
	_, err := p.Authenticate(context.Background(), tok)
	if !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
	if enc.calls.Load() != 1 {
		t.Errorf("encoder called %d times, want 1", enc.calls.Load())
	}
	if want := [3]string{"encoded-pw", "wrong", "s4lt"}; enc.last != want {
		t.Errorf("encoder args = %v, want %v", enc.last, want)
	}
	if tok.Credentials != "wrong" {
		t.Error("credentials must only be erased on success")
	}
}

func TestAuthenticate_Success(t *testing.T) {
	users := aliceUsers()
	p := newTestProvider(users, nil, &countingEncoder{valid: true}, WithProviderKey("main"))

	tok := NewUsernamePasswordToken("alice", "secret", "main")
	result, err := p.Authenticate(context.Background(), tok)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == tok {
		t.Error("a new token must be returned")
	}
	if result.Account() != users.accounts["alice"] {
		t.Error("result must reference the resolved account")
	}
	if !result.IsAuthenticated() {
		t.Error("result must be authenticated")
	}
	if result.Credentials != "" {
		t.Error("result must not carry credentials")
	}
	if tok.Credentials != "" {
		t.Error("presented credentials must be erased")
	}
	if got := result.Authorities(); len(got) != 1 || got[0] != "ROLE_USER" {
		t.Errorf("authorities = %v", got)
	}
	if result.ProviderKey != "main" || result.Username != "alice" {
		t.Errorf("unexpected result token: %v", result)
	}
	if p.Supports(result) {
		t.Error("authenticated tokens are not supported for re-authentication")
	}
}

// --- account status ---

func TestAuthenticate_AccountStatus(t *testing.T) {
	tests := []struct {
		name        string
		opt         UserOption
		valid       bool
		wantStatus  Status
		wantEncoder int32
	}{
		{"disabled", WithDisabled(true), true, StatusDisabled, 0},
		{"locked", WithLocked(true), true, StatusLocked, 0},
		{"expired", WithExpired(true), true, StatusExpired, 0},
		{"disabled with wrong password", WithDisabled(true), false, StatusDisabled, 0},
		{"credentials expired", WithCredentialsExpired(true), true, StatusCredentialsExpired, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			enc := &countingEncoder{valid: tc.valid}
			p := newTestProvider(aliceUsers(tc.opt), nil, enc)

			_, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", "pw", ""))
			var authErr *Error
			if !errors.As(err, &authErr) || authErr.Kind != KindAccountStatus {
				t.Fatalf("expected AccountStatus error, got %v", err)
			}
			if authErr.Status != tc.wantStatus {
				t.Errorf("status = %v, want %v", authErr.Status, tc.wantStatus)
			}
			if errors.Is(err, ErrBadCredentials) {
				t.Error("account status must not be reported as bad credentials")
			}
			if enc.calls.Load() != tc.wantEncoder {
				t.Errorf("encoder calls = %d, want %d", enc.calls.Load(), tc.wantEncoder)
			}
		})
	}
}

func TestAuthenticate_CheckerOrder(t *testing.T) {
	var order []string
	checker := fakeChecker{order: &order}
	enc := PasswordEncoderFunc(func(string, string, string) bool {
		order = append(order, "password")
		return true
	})
	p := newTestProvider(aliceUsers(), checker, enc)

	if _, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", "pw", "")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(order, ","); got != "pre,password,post" {
		t.Errorf("order = %s", got)
	}
}

func TestAuthenticate_CheckerPlainErrorBecomesAccountStatus(t *testing.T) {
	cause := errors.New("account under review")
	p := newTestProvider(aliceUsers(), fakeChecker{pre: cause}, &countingEncoder{valid: true})

	_, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", "pw", ""))
	if !IsKind(err, KindAccountStatus) {
		t.Fatalf("expected KindAccountStatus, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Error("checker cause must be preserved")
	}
}

// --- supports ---

func TestSupports(t *testing.T) {
	p := newTestProvider(aliceUsers(), nil, nil, WithProviderKey("main"))

	if p.Supports(nil) {
		t.Error("nil token must not be supported")
	}
	if p.Supports(NewUsernamePasswordToken("alice", "pw", "other")) {
		t.Error("token with foreign key must not be supported")
	}
	if !p.Supports(NewUsernamePasswordToken("alice", "pw", "main")) {
		t.Error("token with matching key must be supported")
	}

	_, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", "pw", "other"))
	if !errors.Is(err, ErrUnsupportedToken) {
		t.Errorf("expected ErrUnsupportedToken, got %v", err)
	}
}

func TestNewDaoProvider_PanicsWithoutUsers(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewDaoProvider(nil, nil, nil)
}

func TestNewDaoProvider_DefaultEncoderIsPlaintext(t *testing.T) {
	users := &fakeUsers{accounts: map[string]Account{"alice": NewUser("alice", "secret")}}
	p := newTestProvider(users, nil, nil)

	if _, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", "secret", "")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", "Secret", "")); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

// --- observability ---

func TestAuthenticate_RecordsOutcome(t *testing.T) {
	rec := &fakeRecorder{}
	p := newTestProvider(aliceUsers(), nil, &countingEncoder{valid: true}, WithRecorder(rec), WithProviderKey("main"))

	ctx := context.Background()
	_, _ = p.Authenticate(ctx, NewUsernamePasswordToken("alice", "pw", "main"))
	_, _ = p.Authenticate(ctx, NewUsernamePasswordToken("alice", "", "main"))
	_, _ = p.Authenticate(ctx, NewUsernamePasswordToken("bob", "pw", "main"))

	want := []recordedAttempt{
		{"main", "success"},
		{"main", "bad_credentials"},
		{"main", "username_not_found"},
	}
	if len(rec.attempts) != len(want) {
		t.Fatalf("attempts = %v", rec.attempts)
	}
	for i := range want {
		if rec.attempts[i] != want[i] {
			t.Errorf("attempt %d = %v, want %v", i, rec.attempts[i], want[i])
		}
	}
}

func TestAuthenticate_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	p := newTestProvider(&fakeUsers{err: errors.New("db down")}, nil, &countingEncoder{valid: true},
		WithTracer(tp.Tracer("test")))
	_, _ = p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", "pw", ""))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "auth.Authenticate" {
		t.Errorf("span name = %q", span.Name())
	}
	if span.Status().Code != codes.Error {
		t.Errorf("service failure should mark span as error, got %v", span.Status())
	}
	var outcome string
	for _, kv := range span.Attributes() {
		if kv.Key == "auth.outcome" {
			outcome = kv.Value.AsString()
		}
	}
	if outcome != "service_failure" {
		t.Errorf("auth.outcome = %q", outcome)
	}
}

func TestAuthenticate_Concurrent(t *testing.T) {
	users := aliceUsers()
	enc := PasswordEncoderFunc(func(_, raw, _ string) bool { return raw == "secret" })
	p := newTestProvider(users, nil, enc)

	var wg sync.WaitGroup
	var ok, bad atomic.Int32
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pw := "secret"
			if i%2 == 1 {
				pw = "wrong"
			}
			if _, err := p.Authenticate(context.Background(), NewUsernamePasswordToken("alice", pw, "")); err == nil {
				ok.Add(1)
			} else if IsKind(err, KindBadCredentials) {
				bad.Add(1)
			}
		}(i)
	}
	wg.Wait()
	if ok.Load() != 25 || bad.Load() != 25 {
		t.Errorf("ok=%d bad=%d, want 25/25", ok.Load(), bad.Load())
	}
}
