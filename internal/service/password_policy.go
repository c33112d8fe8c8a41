package service

import (
	"unicode"

	"github.com/lumishop/lumishop/internal/config"
)

// passwordPolicyError 以 i18n 键表达具体不达标项，errors.Is 归类为 ErrWeakPassword
type passwordPolicyError struct {
	key  string
	args []any
}

func (e passwordPolicyError) Error() string {
	return e.key
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func (e passwordPolicyError) Key() string {
	return e.key
}

func (e passwordPolicyError) Args() []any {
	return e.args
}

// validatePassword 按策略校验密码强度。空策略不设限
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	empty := policy.MinLength <= 0 &&
		!policy.RequireUpper && !policy.RequireLower &&
		!policy.RequireNumber && !policy.RequireSpecial
	if empty {
		return nil
	}

	// 长度按字符数而不是字节数算
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		return passwordPolicyError{key: "error.password_min_length", args: []any{policy.MinLength}}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case policy.RequireUpper && !hasUpper:
		return passwordPolicyError{key: "error.password_require_upper"}
	case policy.RequireLower && !hasLower:
		return passwordPolicyError{key: "error.password_require_lower"}
	case policy.RequireNumber && !hasNumber:
		return passwordPolicyError{key: "error.password_require_number"}
	case policy.RequireSpecial && !hasSpecial:
		return passwordPolicyError{key: "error.password_require_special"}
	}
	return nil
}
