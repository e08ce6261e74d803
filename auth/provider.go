package auth

import (
	"context"
	stderrors "errors"
	"reflect"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/gatekit/auth/password"
	"github.com/kbukum/gatekit/logger"
)

const defaultTracerName = "github.com/kbukum/gatekit/auth"

// Provider authenticates tokens it supports.
type Provider interface {
	Supports(t *Token) bool
	Authenticate(ctx context.Context, t *Token) (*Token, error)
}

// DaoProvider authenticates username/password tokens against accounts
// loaded from a UserProvider.
//
// An attempt runs: load the account, CheckPreAuth, verify the password,
// CheckPostAuth. The status pre-check runs before the password is verified,
// so a disabled account is reported as such even for a wrong password.
//
// DaoProvider holds no mutable state and is safe for concurrent use when its
// collaborators are.
type DaoProvider struct {
	users            UserProvider
	checker          AccountChecker
	encoder          PasswordEncoder
	key              string
	hideUserNotFound bool
	log              *logger.Logger
	recorder         Recorder
	tracer           trace.Tracer
}

// Option configures a DaoProvider.
type Option func(*DaoProvider)

// WithProviderKey restricts the provider to tokens carrying key.
func WithProviderKey(key string) Option {
	return func(p *DaoProvider) { p.key = key }
}

// WithHideUserNotFound reports unknown usernames as bad credentials.
func WithHideUserNotFound(hide bool) Option {
	return func(p *DaoProvider) { p.hideUserNotFound = hide }
}

// WithLogger sets the logger used for attempt logging.
func WithLogger(l *logger.Logger) Option {
	return func(p *DaoProvider) {
		if l != nil {
			p.log = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(p *DaoProvider) {
		if r != nil {
			p.recorder = r
		}
	}
}

// WithTracer sets the tracer. The global otel tracer is used otherwise.
func WithTracer(t trace.Tracer) Option {
	return func(p *DaoProvider) {
		if t != nil {
			p.tracer = t
		}
	}
}

// NewDaoProvider creates a DaoProvider. A nil checker defaults to
// DefaultAccountChecker and a nil encoder to plaintext comparison.
// It panics if users is nil.
func NewDaoProvider(users UserProvider, checker AccountChecker, encoder PasswordEncoder, opts ...Option) *DaoProvider {
	if users == nil {
		panic("auth: NewDaoProvider requires a UserProvider")
	}
	if checker == nil {
		checker = DefaultAccountChecker{}
	}
	if encoder == nil {
		encoder = password.PlaintextEncoder{}
	}
	p := &DaoProvider{
		users:    users,
		checker:  checker,
		encoder:  encoder,
		log:      logger.Get(logger.ComponentAuth),
		recorder: nopRecorder{},
		tracer:   otel.Tracer(defaultTracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Key returns the provider key.
func (p *DaoProvider) Key() string { return p.key }

// Supports reports whether t is an unauthenticated token for this provider.
func (p *DaoProvider) Supports(t *Token) bool {
	return t != nil && !t.authenticated && t.ProviderKey == p.key
}

// Authenticate verifies t and returns a new authenticated token referencing
// the loaded account. The credentials of t are erased on success.
//
// Every failure is an *Error; use KindOf or errors.Is with the Err*
// sentinels to tell them apart.
func (p *DaoProvider) Authenticate(ctx context.Context, t *Token) (result *Token, err error) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "auth.Authenticate",
		trace.WithAttributes(attribute.String("auth.provider", p.name())))
	defer func() {
		p.finish(ctx, span, t, err, time.Since(start))
	}()

	if !p.Supports(t) {
		return nil, UnsupportedToken()
	}

	account, err := p.retrieveUser(ctx, t.Username)
	if err != nil {
		if p.hideUserNotFound && IsKind(err, KindUsernameNotFound) {
			return nil, BadCredentials()
		}
		return nil, err
	}

	if err := p.checker.CheckPreAuth(account); err != nil {
		return nil, statusError(err)
	}
	if err := p.checkAuthentication(account, t); err != nil {
		return nil, err
	}
	if err := p.checker.CheckPostAuth(account); err != nil {
		return nil, statusError(err)
	}

	result = newAuthenticatedToken(account, p.key)
	t.EraseCredentials()
	return result, nil
}

// retrieveUser loads the account for username and classifies failures.
// UsernameNotFound and ServiceFailure errors from the UserProvider pass
// through unchanged; anything else, including other auth kinds, becomes a
// service failure carrying the original error.
func (p *DaoProvider) retrieveUser(ctx context.Context, username string) (Account, error) {
	account, err := p.users.LoadUserByUsername(ctx, username)
	if err != nil {
		var authErr *Error
		if stderrors.As(err, &authErr) &&
			(authErr.Kind == KindUsernameNotFound || authErr.Kind == KindServiceFailure) {
			return nil, authErr
		}
		return nil, ServiceFailure("loading user", err)
	}
	if isNilAccount(account) || account.Username() == "" {
		return nil, ServiceFailure("provider returned malformed account", nil)
	}
	return account, nil
}

// isNilAccount reports whether a is nil or holds a nil pointer.
func isNilAccount(a Account) bool {
	if a == nil {
		return true
	}
	v := reflect.ValueOf(a)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// checkAuthentication verifies the presented credentials. Blank credentials
// are rejected without consulting the encoder.
func (p *DaoProvider) checkAuthentication(account Account, t *Token) error {
	if strings.TrimSpace(t.Credentials) == "" {
		return BadCredentials()
	}
	if !p.encoder.IsPasswordValid(account.Password(), t.Credentials, account.Salt()) {
		return BadCredentials()
	}
	return nil
}

func (p *DaoProvider) finish(ctx context.Context, span trace.Span, t *Token, err error, d time.Duration) {
	outcome := Outcome(err)
	span.SetAttributes(attribute.String("auth.outcome", outcome))

	fields := logger.Fields(
		logger.FieldProvider, p.name(),
		logger.FieldOutcome, outcome,
		logger.FieldDuration, d.Milliseconds(),
	)
	if t != nil {
		fields[logger.FieldUsername] = t.Username
	}
	log := p.log.WithContext(ctx)

	switch {
	case err == nil:
		log.Debug("authentication succeeded", fields)
	case IsKind(err, KindServiceFailure):
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		log.Error("authentication service failure", logger.MergeWithError(fields, err))
	default:
		log.Debug("authentication failed", fields)
	}
	span.End()

	p.recorder.RecordAttempt(ctx, p.name(), outcome, d.Seconds())
}

func (p *DaoProvider) name() string {
	if p.key == "" {
		return "dao"
	}
	return p.key
}

// statusError turns an AccountChecker failure into an AccountStatus error.
// Checkers returning an *Error keep their kind.
func statusError(err error) error {
	var authErr *Error
	if stderrors.As(err, &authErr) {
		return authErr
	}
	return &Error{Kind: KindAccountStatus, cause: err}
}
