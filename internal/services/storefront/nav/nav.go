// Package nav describes where the storefront wants the shopper to go next.
// Components return intents instead of moving the shopper themselves; the
// shell decides how to act on them.
package nav

import (
	"net/url"

	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

// Kind is the type of navigation intent.
type Kind string

const (
	KindNone        Kind = ""
	KindRedirect    Kind = "redirect"
	KindRender      Kind = "render"
	KindPlaceholder Kind = "placeholder"
)

// Intent is a navigation decision.
type Intent struct {
	Kind Kind
	// Target is the redirect destination, a storefront path or an absolute URL.
	Target string
	View   routepath.View
	Params map[string]string
}

// None is the zero intent: stay where you are.
func None() Intent { return Intent{} }

// Redirect sends the shopper to target.
func Redirect(target string) Intent {
	return Intent{Kind: KindRedirect, Target: target}
}

// Render shows view with its path parameters.
func Render(view routepath.View, params map[string]string) Intent {
	return Intent{Kind: KindRender, View: view, Params: params}
}

// Placeholder holds the screen while a decision is pending.
func Placeholder() Intent {
	return Intent{Kind: KindPlaceholder}
}

// External reports whether the redirect leaves the storefront.
func (i Intent) External() bool {
	if i.Kind != KindRedirect {
		return false
	}
	u, err := url.Parse(i.Target)
	return err == nil && u.IsAbs()
}

func (i Intent) String() string {
	switch i.Kind {
	case KindRedirect:
		return "redirect " + i.Target
	case KindRender:
		return "render " + string(i.View)
	case KindPlaceholder:
		return "placeholder"
	default:
		return "none"
	}
}
