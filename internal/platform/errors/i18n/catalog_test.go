package i18n

import (
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/louisbranch/tictac/internal/platform/errors"
)

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	fallback := GetCatalog("missing-locale")
	if fallback != base {
		t.Fatal("expected fallback to en-US catalog")
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[apperrors.Code]string{
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
	cat := NewCatalog("test", map[apperrors.Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestGetCatalogCachesByLocale(t *testing.T) {
	first := GetCatalog("ru-RU")
	if first.Locale() != "ru-RU" {
		t.Fatalf("locale = %q, want ru-RU", first.Locale())
	}
	if GetCatalog("ru-RU") != first {
		t.Fatal("expected cached catalog")
	}
	if got := GetCatalog("xx-YY").Locale(); got != "en-US" {
		t.Fatalf("fallback locale = %q, want en-US", got)
	}
}

func TestErrorRendersDomainCodes(t *testing.T) {
	cat := GetCatalog("en-US")

	wrapped := fmt.Errorf("move: %w", apperrors.New(apperrors.CodeCellOccupied, "cell B2 is occupied"))
	if got := cat.Error(wrapped); got != "cell is already taken" {
		t.Fatalf("wrapped error text = %q", got)
	}

	withMeta := apperrors.WithMetadata(apperrors.CodeChatTooLong, "chat too long", map[string]string{"Limit": "500"})
	if got := cat.Error(withMeta); got != "chat message must be at most 500 characters" {
		t.Fatalf("templated error text = %q", got)
	}

	if got := cat.Error(errors.New("socket exploded")); got != "internal error" {
		t.Fatalf("plain error text = %q", got)
	}
	if got := cat.Error(nil); got != "" {
		t.Fatalf("nil error text = %q", got)
	}
}

func TestErrorRendersRussianCatalog(t *testing.T) {
	cat := GetCatalog("ru-RU")
	if got := cat.Error(apperrors.New(apperrors.CodeWrongTurn, "wrong turn")); got != "сейчас не твой ход" {
		t.Fatalf("ru-RU wrong turn = %q", got)
	}
}
