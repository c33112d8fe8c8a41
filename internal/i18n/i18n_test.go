package i18n

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumishop/lumishop/internal/constants"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?lang=en-US", nil)
	if got := ResolveLocale(c); got != constants.LocaleEnUS {
		t.Fatalf("query lang want en-US got %s", got)
	}

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c2.Request.Header.Set("Accept-Language", "zh-TW,zh;q=0.9")
	if got := ResolveLocale(c2); got != constants.LocaleZhTW {
		t.Fatalf("accept-language want zh-TW got %s", got)
	}

	c3, _ := gin.CreateTestContext(httptest.NewRecorder())
	c3.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ResolveLocale(c3); got != constants.LocaleZhCN {
		t.Fatalf("default locale want zh-CN got %s", got)
	}
	if got := ResolveLocale(nil); got != constants.LocaleZhCN {
		t.Fatalf("nil context want zh-CN got %s", got)
	}
}

func TestTranslateFallsBack(t *testing.T) {
	// 每个语言的文案都应该存在
	for _, locale := range constants.SupportedLocales {
		if got := T(locale, "error.unauthorized"); got == "" || got == "error.unauthorized" {
			t.Fatalf("locale %s missing error.unauthorized", locale)
		}
	}

	// 未知语言回退 zh-CN
	if got := T("fr-FR", "error.unauthorized"); got != T(constants.LocaleZhCN, "error.unauthorized") {
		t.Fatalf("unknown locale should fall back to zh-CN, got %q", got)
	}

	// 未知 key 原样返回
	if got := T(constants.LocaleZhCN, "error.definitely_missing"); got != "error.definitely_missing" {
		t.Fatalf("missing key should be returned as-is, got %q", got)
	}
}

func TestSprintfFormatsArgs(t *testing.T) {
	got := Sprintf(constants.LocaleEnUS, "error.password_min_length", 8)
	if !strings.Contains(got, "8") {
		t.Fatalf("expected formatted arg in %q", got)
	}
	// 无参数时原样返回模板
	if got := Sprintf(constants.LocaleEnUS, "error.unauthorized"); got == "" {
		t.Fatalf("expected template returned")
	}
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	base, ok := catalogs[constants.LocaleZhCN]
	if !ok {
		t.Fatalf("zh-CN catalog missing")
	}
	for _, locale := range []string{constants.LocaleZhTW, constants.LocaleEnUS} {
		catalog, ok := catalogs[locale]
		if !ok {
			t.Fatalf("%s catalog missing", locale)
		}
		for key := range base {
			if _, ok := catalog[key]; !ok {
				t.Fatalf("%s missing key %s", locale, key)
			}
		}
		for key := range catalog {
			if _, ok := base[key]; !ok {
				t.Fatalf("zh-CN missing key %s present in %s", key, locale)
			}
		}
	}
}
