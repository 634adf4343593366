package nav

import (
	"testing"

	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

func TestIntentExternal(t *testing.T) {
	tests := []struct {
		intent Intent
		want   bool
	}{
		{intent: Redirect("/"), want: false},
		{intent: Redirect("https://checkout.example/s/1"), want: true},
		{intent: Render(routepath.ViewCart, nil), want: false},
		{intent: None(), want: false},
	}
	for _, tt := range tests {
		if got := tt.intent.External(); got != tt.want {
			t.Fatalf("%s External() = %t, want %t", tt.intent, got, tt.want)
		}
	}
}

func TestIntentString(t *testing.T) {
	if got := Render(routepath.ViewPlans, nil).String(); got != "render plans" {
		t.Fatalf("String() = %q", got)
	}
	if got := Placeholder().String(); got != "placeholder" {
		t.Fatalf("String() = %q", got)
	}
}
