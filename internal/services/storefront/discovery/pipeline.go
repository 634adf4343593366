package discovery

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/timeouts"
	"github.com/louisbranch/storefront/internal/services/storefront/domain"
)

// Catalog supplies the products to search and a version that changes
// whenever they are replaced.
type Catalog interface {
	Products() []domain.Product
	Version() uint64
}

// Query is the shopper's discovery state.
type Query struct {
	SearchText          string
	DebouncedSearchText string
	Category            string
	Filter              string
	Page                int
}

type memoKey struct {
	version  uint64
	category string
	filter   string
	text     string
}

// Pipeline holds the discovery query for one session and recomputes the
// matching set only when an input other than the page changes.
type Pipeline struct {
	catalog   Catalog
	debouncer *Debouncer
	delay     time.Duration
	onSettle  func(Query)
	logger    *zap.Logger

	mu         sync.Mutex
	query      Query
	filter     Filter
	memoKey    memoKey
	memo       []domain.Product
	memoFilled bool
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithScheduler replaces the clock that drives debouncing.
func WithScheduler(s Scheduler) PipelineOption {
	return func(p *Pipeline) { p.debouncer.scheduler = s }
}

// WithDebounceDelay overrides the quiet period before search text settles.
func WithDebounceDelay(d time.Duration) PipelineOption {
	return func(p *Pipeline) { p.delay = d }
}

// WithOnSettle registers a callback run after debounced text changes.
func WithOnSettle(fn func(Query)) PipelineOption {
	return func(p *Pipeline) { p.onSettle = fn }
}

func WithPipelineLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline builds a pipeline over catalog starting on page 1.
func NewPipeline(catalog Catalog, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		catalog: catalog,
		delay:   timeouts.SearchDebounce,
		logger:  zap.NewNop(),
		query:   Query{Page: 1},
	}
	p.debouncer = NewDebouncer(RealScheduler{}, p.settle)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Query returns the current discovery state.
func (p *Pipeline) Query() Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// SetSearchText records typed text and restarts the debounce timer.
func (p *Pipeline) SetSearchText(text string) {
	p.mu.Lock()
	p.query.SearchText = text
	p.mu.Unlock()
	p.debouncer.Schedule(text, p.delay)
}

// FlushSearch settles pending search text immediately.
func (p *Pipeline) FlushSearch() bool {
	return p.debouncer.Flush()
}

// CancelPending drops search text that has not settled yet.
func (p *Pipeline) CancelPending() {
	p.debouncer.CancelPending()
}

func (p *Pipeline) settle(text string) {
	p.mu.Lock()
	if p.query.DebouncedSearchText == text {
		p.mu.Unlock()
		return
	}
	p.query.DebouncedSearchText = text
	p.query.Page = 1
	query := p.query
	p.mu.Unlock()

	p.logger.Debug("search settled", zap.String("text", text))
	if p.onSettle != nil {
		p.onSettle(query)
	}
}

// SetCategory selects a category; "" selects all.
func (p *Pipeline) SetCategory(category string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.query.Category == category {
		return
	}
	p.query.Category = category
	p.query.Page = 1
}

// SetFilter parses and applies a filter expression. An invalid expression
// is rejected and the previous filter stays in effect.
func (p *Pipeline) SetFilter(raw string) error {
	filter, err := ParseFilter(raw)
	if err != nil {
		return apperrors.WithMetadata(apperrors.CodeValidation, err.Error(), map[string]string{
			"reason": "Invalid filter: " + err.Error(),
		})
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.query.Filter == filter.String() {
		return nil
	}
	p.filter = filter
	p.query.Filter = filter.String()
	p.query.Page = 1
	return nil
}

// SetPage moves to page. The view clamps it into range.
func (p *Pipeline) SetPage(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query.Page = page
}

// Reset returns to the initial query and drops pending search text.
func (p *Pipeline) Reset() {
	p.debouncer.CancelPending()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = Query{Page: 1}
	p.filter = Filter{}
	p.memo = nil
	p.memoFilled = false
}

// View computes the current page. The matching set is reused while the
// catalog version, category, filter and settled text are unchanged.
func (p *Pipeline) View() (View, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := memoKey{
		version:  p.catalog.Version(),
		category: p.query.Category,
		filter:   p.query.Filter,
		text:     strings.TrimSpace(p.query.DebouncedSearchText),
	}
	if !p.memoFilled || p.memoKey != key {
		matches, err := Matches(p.catalog.Products(), key.category, p.filter, key.text)
		if err != nil {
			return View{}, apperrors.Wrap(apperrors.CodeValidation, "apply filter", err)
		}
		p.memo = matches
		p.memoKey = key
		p.memoFilled = true
	}

	view := Paginate(p.memo, p.query.Page)
	p.query.Page = view.CurrentPage
	return view, nil
}
