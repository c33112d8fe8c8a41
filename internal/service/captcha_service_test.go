package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/lumishop/lumishop/internal/config"
	"github.com/lumishop/lumishop/internal/constants"
)

func newImageCaptchaConfig() config.CaptchaConfig {
	return config.CaptchaConfig{
		Provider: constants.CaptchaProviderImage,
		Scenes:   config.CaptchaSceneConfig{Login: true, Register: true},
		Image: config.CaptchaImageConfig{
			Length:        4,
			Width:         240,
			Height:        80,
			ExpireSeconds: 300,
			MaxStore:      1024,
		},
	}
}

func TestCaptchaSceneToggle(t *testing.T) {
	none := NewCaptchaService(config.CaptchaConfig{Provider: constants.CaptchaProviderNone})
	if none.IsSceneEnabled(constants.CaptchaSceneLogin) {
		t.Fatalf("expected login scene disabled with none provider")
	}
	if err := none.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); err != nil {
		t.Fatalf("expected none provider to pass, got %v", err)
	}

	cfg := newImageCaptchaConfig()
	cfg.Scenes.Register = false
	svc := NewCaptchaService(cfg)
	if !svc.IsSceneEnabled(constants.CaptchaSceneLogin) {
		t.Fatalf("expected login scene enabled")
	}
	if svc.IsSceneEnabled(constants.CaptchaSceneRegister) {
		t.Fatalf("expected register scene disabled")
	}
	if svc.IsSceneEnabled("unknown") {
		t.Fatalf("expected unknown scene disabled")
	}
}

func TestCaptchaVerifyRequiresPayload(t *testing.T) {
	svc := NewCaptchaService(newImageCaptchaConfig())

	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{}); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected ErrCaptchaRequired, got %v", err)
	}
	if err := svc.Verify(constants.CaptchaSceneLogin, CaptchaVerifyPayload{CaptchaID: "id", CaptchaCode: "0000"}); !errors.Is(err, ErrCaptchaInvalid) {
		t.Fatalf("expected ErrCaptchaInvalid for unknown id, got %v", err)
	}
}

func TestGenerateImageChallenge(t *testing.T) {
	svc := NewCaptchaService(newImageCaptchaConfig())

	challenge, err := svc.GenerateImageChallenge()
	if err != nil {
		t.Fatalf("generate challenge failed: %v", err)
	}
	if challenge.CaptchaID == "" {
		t.Fatalf("expected captcha id")
	}
	if !strings.HasPrefix(challenge.ImageBase64, "data:image/") {
		t.Fatalf("expected base64 image payload, got %q", challenge.ImageBase64[:min(len(challenge.ImageBase64), 32)])
	}

	none := NewCaptchaService(config.CaptchaConfig{Provider: constants.CaptchaProviderNone})
	if _, err := none.GenerateImageChallenge(); !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected ErrCaptchaRequired with none provider, got %v", err)
	}
}
