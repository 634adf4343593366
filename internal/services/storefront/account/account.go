// Package account runs the passcode login, logout and profile flows.
package account

import (
	"context"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/timeouts"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
	"github.com/louisbranch/storefront/internal/services/storefront/nav"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// OTPLength is the exact length of a one-time passcode.
const OTPLength = 6

var (
	profileNamePattern  = regexp.MustCompile(`^[A-Za-z\s]{3,}$`)
	profilePhonePattern = regexp.MustCompile(`^\d{10,15}$`)
)

// Remote is the account half of the backend.
type Remote interface {
	SendOTP(ctx context.Context, email string) error
	ResendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) (domain.Login, error)
	Logout(ctx context.Context) error
	UserDetails(ctx context.Context, userID string) (domain.Profile, error)
	UpdateUser(ctx context.Context, userID string, profile domain.Profile) error
}

// SessionForgetter drops local session credentials.
type SessionForgetter interface {
	ForgetSession() error
}

// Purger erases persisted shopper state.
type Purger interface {
	Purge(ctx context.Context) error
}

// Clearer empties in-memory shopper state.
type Clearer interface {
	Clear()
}

// Config wires a Service.
type Config struct {
	// AdminURL is the dashboard base administrators are sent to after login.
	AdminURL string
	Cooldown time.Duration
	Now      func() time.Time
	Logger   *zap.Logger
	Session  SessionForgetter
	Purger   Purger
	Clearers []Clearer
}

// Service is safe for concurrent use.
type Service struct {
	remote   Remote
	adminURL string
	cooldown time.Duration
	now      func() time.Time
	logger   *zap.Logger
	session  SessionForgetter
	purger   Purger
	clearers []Clearer

	mu     sync.Mutex
	issued map[string]time.Time
}

// New builds an account service.
func New(remote Remote, cfg Config) *Service {
	s := &Service{
		remote:   remote,
		adminURL: cfg.AdminURL,
		cooldown: cfg.Cooldown,
		now:      cfg.Now,
		logger:   cfg.Logger,
		session:  cfg.Session,
		purger:   cfg.Purger,
		clearers: cfg.Clearers,
		issued:   make(map[string]time.Time),
	}
	if s.cooldown <= 0 {
		s.cooldown = timeouts.OTPResendCooldown
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// SendOTP emails a passcode to email and starts the resend cooldown.
func (s *Service) SendOTP(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if err := s.remote.SendOTP(ctx, email); err != nil {
		return err
	}
	s.markIssued(email)
	return nil
}

// ResendOTP re-issues a passcode. Within the cooldown it fails locally with
// RATE_LIMITED and the remaining wait in whole seconds.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if wait := s.ResendAvailableIn(email); wait > 0 {
		seconds := strconv.Itoa(int((wait + time.Second - 1) / time.Second))
		return apperrors.WithMetadata(apperrors.CodeRateLimited, "passcode resend cooling down", map[string]string{
			"wait": seconds + "s",
		})
	}
	if err := s.remote.ResendOTP(ctx, email); err != nil {
		return err
	}
	s.markIssued(email)
	return nil
}

// ResendAvailableIn is the time left before email may receive a new passcode.
func (s *Service) ResendAvailableIn(email string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.issued[cooldownKey(email)]
	if !ok {
		return 0
	}
	remaining := s.cooldown - s.now().Sub(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Service) markIssued(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[cooldownKey(email)] = s.now()
}

// VerifyOTP exchanges a passcode for a session and says where to go next:
// administrators leave for the admin dashboard, shoppers land on their
// success view.
func (s *Service) VerifyOTP(ctx context.Context, email, otp string) (domain.Login, nav.Intent, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return domain.Login{}, nav.None(), err
	}
	otp = strings.TrimSpace(otp)
	if len([]rune(otp)) != OTPLength {
		return domain.Login{}, nav.None(), apperrors.WithMetadata(apperrors.CodeValidation, "passcode must be 6 digits", map[string]string{
			"reason": "OTP must be exactly 6 digits",
		})
	}
	login, err := s.remote.VerifyOTP(ctx, email, otp)
	if err != nil {
		return domain.Login{}, nav.None(), err
	}
	s.mu.Lock()
	delete(s.issued, cooldownKey(email))
	s.mu.Unlock()

	s.logger.Info("shopper logged in", zap.String("user_id", login.UserID), zap.Int("role", login.Role))
	if login.Role == domain.RoleAdmin {
		return login, nav.Redirect(routepath.AdminDashboard(s.adminURL, login.UserID)), nil
	}
	return login, nav.Redirect(routepath.Success(login.UserID)), nil
}

// Logout ends the session on the backend, then erases persisted and
// in-memory shopper state. When the backend refuses, nothing local is
// touched.
func (s *Service) Logout(ctx context.Context) (nav.Intent, error) {
	if err := s.remote.Logout(ctx); err != nil {
		return nav.None(), err
	}
	if s.session != nil {
		if err := s.session.ForgetSession(); err != nil {
			s.logger.Warn("forget session cookies", zap.Error(err))
		}
	}
	for _, clearer := range s.clearers {
		clearer.Clear()
	}
	if s.purger != nil {
		if err := s.purger.Purge(ctx); err != nil {
			return nav.Redirect(routepath.Root), apperrors.Wrap(apperrors.CodeUnknown, "purge persisted state", err)
		}
	}
	return nav.Redirect(routepath.Root), nil
}

// Profile loads the shopper's profile.
func (s *Service) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	return s.remote.UserDetails(ctx, userID)
}

// UpdateProfile validates and saves the profile.
func (s *Service) UpdateProfile(ctx context.Context, userID string, profile domain.Profile) error {
	if err := ValidateProfile(profile); err != nil {
		return err
	}
	return s.remote.UpdateUser(ctx, userID, profile)
}

// ValidateProfile checks the editable fields.
func ValidateProfile(profile domain.Profile) error {
	if !profileNamePattern.MatchString(profile.Name) {
		return apperrors.WithMetadata(apperrors.CodeValidation, "invalid name", map[string]string{
			"reason": "Name must be at least 3 characters and only letters.",
			"field":  "name",
		})
	}
	if !profilePhonePattern.MatchString(profile.Phone) {
		return apperrors.WithMetadata(apperrors.CodeValidation, "invalid phone", map[string]string{
			"reason": "Phone number must be 10 to 15 digits.",
			"field":  "phone",
		})
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", apperrors.WithMetadata(apperrors.CodeValidation, "invalid email", map[string]string{
			"reason": "Please enter a valid email address",
			"field":  "email",
		})
	}
	return raw, nil
}

func cooldownKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
