package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":" Buyer@Example.com "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("email")(c)
	if key != "buyer@example.com|1.2.3.4" {
		t.Fatalf("key want buyer@example.com|1.2.3.4 got %s", key)
	}

	// 读取字段后请求体要还原，后续绑定才能正常工作
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "Buyer@Example.com") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestKeyByIPAndJSONFieldFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`not-json`))
	c.Request.RemoteAddr = "1.2.3.4:5678"

	if key := KeyByIPAndJSONField("email")(c); key != "1.2.3.4" {
		t.Fatalf("non-JSON body should fall back to IP, got %s", key)
	}

	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":42}`))
	c2.Request.RemoteAddr = "1.2.3.4:5678"
	if key := KeyByIPAndJSONField("email")(c2); key != "1.2.3.4" {
		t.Fatalf("non-string field should fall back to IP, got %s", key)
	}
}

func TestRateLimitMiddlewareWithoutClient(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 60, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("expected handler response body, got %s", w.Body.String())
	}
}

func TestRateLimitMiddlewareSkipsInvalidRule(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 0, MaxRequests: 0}, nil))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{"int64", int64(7), 7, true},
		{"int", 7, 7, true},
		{"int32", int32(7), 7, true},
		{"uint64", uint64(7), 7, true},
		{"float64", float64(7.9), 7, true},
		{"string", "7", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tc := range cases {
		got, ok := toInt64(tc.input)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s: toInt64(%v) = (%d, %v), want (%d, %v)", tc.name, tc.input, got, ok, tc.want, tc.ok)
		}
	}
}
