package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/lumishop/lumishop/internal/config"
	"github.com/lumishop/lumishop/internal/constants"
)

func TestSendRestockEmailDisabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	err := svc.SendRestockEmail("buyer@example.com", RestockEmailInput{ProductName: "耳机", ProductSlug: "earphones", CountInStock: 5}, constants.LocaleZhCN)
	if !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}
}

func TestSendRestockEmailNotConfigured(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true})
	err := svc.SendRestockEmail("buyer@example.com", RestockEmailInput{ProductName: "耳机"}, constants.LocaleZhCN)
	if !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected ErrEmailServiceNotConfigured, got %v", err)
	}
}

func TestSendCustomEmailRejectsBadAddress(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.example.com", Port: 25, From: "noreply@example.com"})
	if err := svc.SendCustomEmail("not-an-address", "subject", "body"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"zh-TW":      constants.LocaleZhTW,
		"zh-HK":      constants.LocaleZhTW,
		"en":         constants.LocaleEnUS,
		"en-GB":      constants.LocaleEnUS,
		"zh-CN":      constants.LocaleZhCN,
		"":           constants.LocaleZhCN,
		"fr-FR":      constants.LocaleZhCN,
		"  EN-us  ":  constants.LocaleEnUS,
	}
	for input, want := range cases {
		if got := normalizeLocale(input); got != want {
			t.Fatalf("normalizeLocale(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestBuildEmailMessage(t *testing.T) {
	msg := buildEmailMessage("noreply@example.com", "buyer@example.com", "到货了", "正文")
	if !strings.Contains(msg, "From: noreply@example.com\r\n") {
		t.Fatalf("missing from header: %q", msg)
	}
	if !strings.Contains(msg, "To: buyer@example.com\r\n") {
		t.Fatalf("missing to header: %q", msg)
	}
	if !strings.Contains(msg, "Content-Type: text/plain; charset=UTF-8\r\n") {
		t.Fatalf("missing content type: %q", msg)
	}
	if !strings.HasSuffix(msg, "\r\n正文") {
		t.Fatalf("expected body after blank line: %q", msg)
	}
}

func TestBuildFromAddress(t *testing.T) {
	if got := buildFromAddress("noreply@example.com", ""); got != "noreply@example.com" {
		t.Fatalf("expected bare address, got %q", got)
	}
	got := buildFromAddress("noreply@example.com", "LumiShop")
	if !strings.Contains(got, "noreply@example.com") || !strings.Contains(got, "LumiShop") {
		t.Fatalf("expected named address, got %q", got)
	}
}
