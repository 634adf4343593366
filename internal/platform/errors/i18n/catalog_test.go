package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	fallback := GetCatalog("missing-locale")
	if fallback != base {
		t.Fatal("expected fallback to en-US catalog")
	}
	if GetCatalog("") != base {
		t.Fatal("expected empty locale to resolve to en-US")
	}
}

func TestGetCatalogMatchesAcceptLanguage(t *testing.T) {
	custom := NewCatalog("pt-BR", map[Code]string{CodeAuth: "Entre novamente"})
	RegisterCatalog("pt-BR", custom)

	if got := GetCatalog("pt-BR,pt;q=0.9,en;q=0.5"); got != custom {
		t.Fatalf("GetCatalog() locale = %q, want pt-BR", got.Locale())
	}
}

func TestFormatValidationReason(t *testing.T) {
	cat := GetCatalog(BaseLocale)
	if got := cat.Format(CodeValidation, map[string]string{"reason": "exceeds stock"}); got != "exceeds stock" {
		t.Fatalf("Format() = %q, want %q", got, "exceeds stock")
	}
	if got := cat.Format(CodeValidation, nil); got != "Please check your input" {
		t.Fatalf("Format() = %q, want default validation text", got)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestNoticesPreferBackendMessage(t *testing.T) {
	cat := GetCatalog(BaseLocale)
	if got := cat.Format(NoticeCartAdded, nil); got != "Added to cart" {
		t.Fatalf("Format() = %q, want default notice", got)
	}
	if got := cat.Format(NoticeCartAdded, map[string]string{"message": "Product added"}); got != "Product added" {
		t.Fatalf("Format() = %q, want backend message", got)
	}
}
