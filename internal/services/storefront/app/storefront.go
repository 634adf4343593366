package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/errors/i18n"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/storefront/account"
	"github.com/louisbranch/storefront/internal/services/storefront/authgate"
	"github.com/louisbranch/storefront/internal/services/storefront/cart"
	"github.com/louisbranch/storefront/internal/services/storefront/catalog"
	"github.com/louisbranch/storefront/internal/services/storefront/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/discovery"
	"github.com/louisbranch/storefront/internal/services/storefront/storage"
	"github.com/louisbranch/storefront/internal/services/storefront/wishlist"
)

// Remote is every backend call the storefront makes.
type Remote interface {
	catalog.Remote
	cart.Remote
	wishlist.Remote
	authgate.Verifier
	account.Remote
	checkout.Remote
}

// Config wires a Storefront. Only the remote is required.
type Config struct {
	AdminURL string
	// Locale selects the message catalog for notices. Defaults to en-US.
	Locale string
	// Store persists cart and wishlist snapshots. Nil disables persistence.
	Store storage.Store
	// Session drops local credentials on logout. When nil and the remote
	// can forget its session, the remote is used.
	Session       account.SessionForgetter
	Scheduler     discovery.Scheduler
	DebounceDelay time.Duration
	OTPCooldown   time.Duration
	Now           func() time.Time
	Logger        *zap.Logger
}

// Storefront is one shopper session.
type Storefront struct {
	catalog   *catalog.Index
	cart      *cart.Synchronizer
	wishlist  *wishlist.Synchronizer
	discovery *discovery.Pipeline
	gate      *authgate.Gate
	account   *account.Service
	checkout  *checkout.Service
	messages  *i18n.Catalog
	printer   *message.Printer
	logger    *zap.Logger
}

// New builds a Storefront over remote.
func New(remote Remote, cfg Config) *Storefront {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		cartOpts     = []cart.Option{cart.WithLogger(logger.Named("cart"))}
		wishlistOpts = []wishlist.Option{wishlist.WithLogger(logger.Named("wishlist"))}
		purger       account.Purger
	)
	if cfg.Store != nil {
		cartOpts = append(cartOpts, cart.WithPersister(storage.CartPersister(cfg.Store)))
		wishlistOpts = append(wishlistOpts, wishlist.WithPersister(storage.WishlistPersister(cfg.Store)))
		purger = cfg.Store
	}

	index := catalog.NewIndex(remote, logger.Named("catalog"))
	cartSync := cart.New(remote, cartOpts...)
	wishlistSync := wishlist.New(remote, wishlistOpts...)

	discoveryLogger := logger.Named("discovery")
	var pipeline *discovery.Pipeline
	pipelineOpts := []discovery.PipelineOption{
		discovery.WithPipelineLogger(discoveryLogger),
		// Rank the settled text right away so the next render only pages.
		discovery.WithOnSettle(func(discovery.Query) {
			if _, err := pipeline.View(); err != nil {
				discoveryLogger.Debug("warm view", zap.Error(err))
			}
		}),
	}
	if cfg.Scheduler != nil {
		pipelineOpts = append(pipelineOpts, discovery.WithScheduler(cfg.Scheduler))
	}
	if cfg.DebounceDelay > 0 {
		pipelineOpts = append(pipelineOpts, discovery.WithDebounceDelay(cfg.DebounceDelay))
	}

	session := cfg.Session
	if session == nil {
		if forgetter, ok := remote.(account.SessionForgetter); ok {
			session = forgetter
		}
	}

	pipeline = discovery.NewPipeline(index, pipelineOpts...)

	locale := strings.TrimSpace(cfg.Locale)
	if locale == "" {
		locale = i18n.BaseLocale
	}
	messages := i18n.GetCatalog(locale)

	return &Storefront{
		catalog:   index,
		cart:      cartSync,
		wishlist:  wishlistSync,
		discovery: pipeline,
		gate:      authgate.New(remote, logger.Named("authgate")),
		account: account.New(remote, account.Config{
			AdminURL: cfg.AdminURL,
			Cooldown: cfg.OTPCooldown,
			Now:      cfg.Now,
			Logger:   logger.Named("account"),
			Session:  session,
			Purger:   purger,
			Clearers: []account.Clearer{cartSync, wishlistSync},
		}),
		checkout: checkout.New(remote, cartSync, logger.Named("checkout")),
		messages: messages,
		printer:  message.NewPrinter(language.Make(messages.Locale())),
		logger:   logger,
	}
}

func (s *Storefront) Catalog() *catalog.Index          { return s.catalog }
func (s *Storefront) Cart() *cart.Synchronizer         { return s.cart }
func (s *Storefront) Wishlist() *wishlist.Synchronizer { return s.wishlist }
func (s *Storefront) Discovery() *discovery.Pipeline   { return s.discovery }
func (s *Storefront) Gate() *authgate.Gate             { return s.gate }
func (s *Storefront) Account() *account.Service        { return s.account }
func (s *Storefront) Checkout() *checkout.Service      { return s.checkout }

// UserID is the shopper the collections are bound to, or "".
func (s *Storefront) UserID() string {
	return s.cart.OwnerID()
}

// Init binds the session to ownerID, seeds the collections from persisted
// snapshots and then loads the catalog, cart and wishlist concurrently. With
// an empty ownerID only the catalog is loaded. The first load error is
// returned; every component keeps its own error for display either way.
func (s *Storefront) Init(ctx context.Context, ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID != "" {
		ctx = requestctx.WithUserID(ctx, ownerID)
	}
	s.cart.Bind(ownerID)
	s.wishlist.Bind(ownerID)

	if ownerID != "" {
		if _, err := s.cart.Restore(ctx); err != nil {
			s.logger.Warn("restore cart snapshot", zap.Error(err))
		}
		if _, err := s.wishlist.Restore(ctx); err != nil {
			s.logger.Warn("restore wishlist snapshot", zap.Error(err))
		}
	}

	var g errgroup.Group
	g.Go(func() error { return s.catalog.Load(ctx) })
	if ownerID != "" {
		g.Go(func() error {
			_, err := s.cart.Fetch(ctx)
			return err
		})
		g.Go(func() error {
			_, err := s.wishlist.Fetch(ctx)
			return err
		})
	}
	return g.Wait()
}

// Teardown abandons the session's in-flight work. Pending search text is
// dropped, in-memory collections are cleared and any outstanding responses
// become stale. Persisted snapshots are kept.
func (s *Storefront) Teardown() {
	s.discovery.CancelPending()
	s.cart.Clear()
	s.wishlist.Clear()
	s.gate.Reset()
}

// Navigate runs the auth gate for path. An authorized decision for a
// different shopper than the one currently bound re-initializes the session
// for that shopper.
func (s *Storefront) Navigate(ctx context.Context, path string) authgate.Decision {
	decision := s.gate.Navigate(ctx, path)
	if decision.Superseded || decision.State != authgate.StateAuthorized {
		return decision
	}
	if decision.User.ID != s.UserID() {
		if err := s.Init(ctx, decision.User.ID); err != nil {
			s.logger.Warn("initialize session", zap.String("user_id", decision.User.ID), zap.Error(err))
		}
	}
	return decision
}

// Describe renders err as shopper-facing text.
func (s *Storefront) Describe(err error) string {
	if err == nil {
		return ""
	}
	return s.messages.Format(string(apperrors.CodeOf(err)), apperrors.MetadataOf(err))
}

// Notice renders a notice key with optional metadata.
func (s *Storefront) Notice(key string, metadata map[string]string) string {
	return s.messages.Format(key, metadata)
}

// FormatPrice renders an amount in rupees for the session locale.
func (s *Storefront) FormatPrice(amount decimal.Decimal) string {
	return s.printer.Sprint(currency.Symbol(currency.INR.Amount(amount.InexactFloat64())))
}

// Execute runs cmd and fills in the notice for a failure.
func (s *Storefront) Execute(ctx context.Context, cmd Command) Result {
	if userID := s.UserID(); userID != "" {
		ctx = requestctx.WithUserID(ctx, userID)
	}
	requestID := uuid.NewString()
	ctx = requestctx.WithRequestID(ctx, requestID)
	result := cmd.Execute(ctx, s)
	if result.Err != nil {
		if result.Notice == "" {
			result.Notice = s.Describe(result.Err)
		}
		code := apperrors.CodeOf(result.Err)
		s.logger.Warn("command failed",
			zap.String("command", cmd.Name()),
			zap.String("request_id", requestID),
			zap.String("code", string(code)),
			zap.Bool("retryable", code.Retryable()),
			zap.Error(result.Err),
		)
	}
	return result
}
