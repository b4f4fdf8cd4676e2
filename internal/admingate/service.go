package admingate

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/brightloom/storefront-backend/pkg/config"
	pkgerrors "github.com/brightloom/storefront-backend/pkg/errors"
	"github.com/brightloom/storefront-backend/pkg/logger"
	"github.com/brightloom/storefront-backend/pkg/redis"
)

// failureStore tracks sign-in failure counters with expiry.
type failureStore interface {
	Get(ctx context.Context, key string) (string, error)
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Del(ctx context.Context, keys ...string) error
	LockoutKey(scope string) string
}

// Session is the issued admin session handoff.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LockoutDetails reports remaining cool-down to a locked-out caller.
type LockoutDetails struct {
	RetryAfterSeconds int64 `json:"retryAfterSeconds"`
}

// AttemptDetails reports remaining tries after a failed sign-in.
type AttemptDetails struct {
	AttemptsRemaining int `json:"attemptsRemaining"`
}

// Service gates the admin views. It is advisory UI gating backed by a shared
// password digest, not an account system.
type Service interface {
	SignIn(ctx context.Context, password, caller string) (*Session, error)
	VerifyToken(tokenString string) error
}

type service struct {
	cfg    config.AdminGateConfig
	digest string
	store  failureStore
	logg   *logger.Logger
	now    func() time.Time
}

// NewService wires the admin gate.
func NewService(cfg config.AdminGateConfig, store failureStore, logg *logger.Logger) (Service, error) {
	if cfg.PasswordDigest == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admingate: password digest is required")
	}
	if cfg.JWTSecret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admingate: jwt secret is required")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admingate: failure store is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admingate: logger is required")
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.LockoutWindow <= 0 {
		cfg.LockoutWindow = 15 * time.Minute
	}
	return &service{
		cfg:    cfg,
		digest: strings.ToLower(strings.TrimSpace(cfg.PasswordDigest)),
		store:  store,
		logg:   logg,
		now:    time.Now,
	}, nil
}

// SignIn compares the SHA-256 digest of the submitted password against the
// configured digest. A locked-out caller is rejected before the password is
// even checked, so a correct password does not reset an active lockout.
func (s *service) SignIn(ctx context.Context, password, caller string) (*Session, error) {
	if password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	key := s.store.LockoutKey(callerScope(caller))
	if err := s.checkLockout(ctx, key); err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(password))
	submitted := hex.EncodeToString(sum[:])
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(s.digest)) != 1 {
		return nil, s.recordFailure(ctx, key)
	}

	if err := s.store.Del(ctx, key); err != nil {
		s.logg.Warn(ctx, "failed to clear sign-in failure counter")
	}

	token, expiresAt, err := MintSessionToken(s.cfg, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to issue session token")
	}

	s.logg.Info(ctx, "admin sign-in succeeded")
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyToken checks an admin session token issued by SignIn.
func (s *service) VerifyToken(tokenString string) error {
	if strings.TrimSpace(tokenString) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "session token required")
	}
	if _, err := ParseSessionToken(s.cfg, tokenString); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token")
	}
	return nil
}

func (s *service) checkLockout(ctx context.Context, key string) error {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		// Counter store being down should not lock admins out entirely.
		s.logg.Warn(ctx, "failure counter unavailable, skipping lockout check")
		return nil
	}

	count := parseCount(raw)
	if count < int64(s.cfg.MaxFailures) {
		return nil
	}

	remaining := s.cfg.LockoutWindow
	if ttl, ttlErr := s.store.TTL(ctx, key); ttlErr == nil && ttl > 0 {
		remaining = ttl
	}
	return lockoutError(remaining)
}

func (s *service) recordFailure(ctx context.Context, key string) error {
	count, err := s.store.IncrWithTTL(ctx, key, s.cfg.LockoutWindow)
	if err != nil {
		s.logg.Warn(ctx, "failed to record sign-in failure")
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid password")
	}

	if count >= int64(s.cfg.MaxFailures) {
		s.logg.Warn(ctx, "admin sign-in locked out after repeated failures")
		return lockoutError(s.cfg.LockoutWindow)
	}

	remaining := s.cfg.MaxFailures - int(count)
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid password").
		WithDetails(AttemptDetails{AttemptsRemaining: remaining})
}

func lockoutError(remaining time.Duration) error {
	seconds := int64(remaining.Round(time.Second).Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return pkgerrors.New(pkgerrors.CodeRateLimit, "too many failed attempts").
		WithDetails(LockoutDetails{RetryAfterSeconds: seconds})
}

func callerScope(caller string) string {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return "admin"
	}
	return "admin:" + caller
}

func parseCount(raw string) int64 {
	count, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return count
}
