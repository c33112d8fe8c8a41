package i18n

import (
	"fmt"
	"strings"

	"github.com/lumishop/lumishop/internal/constants"

	"github.com/gin-gonic/gin"
)

// ResolveLocale 解析请求语言：优先 query 参数 lang，其次 Accept-Language，最后回退默认语言
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return constants.LocaleZhCN
	}
	if lang := normalizeLocale(c.Query("lang")); lang != "" {
		return lang
	}
	if lang := normalizeLocale(c.GetHeader("Accept-Language")); lang != "" {
		return lang
	}
	return constants.LocaleZhCN
}

// T 按语言取文案，缺失时按 zh-CN -> en-US 兜底，仍缺失则原样返回 key
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(constants.LocaleZhCN, key); ok {
		return msg
	}
	if msg, ok := lookup(constants.LocaleEnUS, key); ok {
		return msg
	}
	return key
}

// Sprintf 取带占位符的文案并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	tpl := T(locale, key)
	if len(args) == 0 {
		return tpl
	}
	return fmt.Sprintf(tpl, args...)
}

func lookup(locale, key string) (string, bool) {
	catalog, ok := catalogs[locale]
	if !ok {
		return "", false
	}
	msg, ok := catalog[key]
	return msg, ok
}

func normalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	// Accept-Language 可能携带权重列表，只取第一项
	if idx := strings.IndexAny(raw, ",;"); idx >= 0 {
		raw = raw[:idx]
	}
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "zh-tw"), strings.HasPrefix(lower, "zh-hant"):
		return constants.LocaleZhTW
	case strings.HasPrefix(lower, "zh"):
		return constants.LocaleZhCN
	case strings.HasPrefix(lower, "en"):
		return constants.LocaleEnUS
	}
	return ""
}
