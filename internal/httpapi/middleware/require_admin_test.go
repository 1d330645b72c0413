package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequireAdmin_AllowsAdminKey_BlocksPublicKey(t *testing.T) {
	keys := Keys{
		Public: []string{"pub_key"},
		Admin:  []string{"adm_key"},
	}

	cases := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"admin key", "X-API-Key", "adm_key", http.StatusOK},
		{"admin bearer", "Authorization", "Bearer adm_key", http.StatusOK},
		{"lowercase bearer", "Authorization", "bearer adm_key", http.StatusOK},
		{"public key", "X-API-Key", "pub_key", http.StatusForbidden},
		{"unknown key", "X-API-Key", "nope", http.StatusForbidden},
		{"missing key", "", "", http.StatusUnauthorized},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/check", nil)
		if c.header != "" {
			req.Header.Set(c.header, c.value)
		}
		rec := httptest.NewRecorder()
		RequireAdmin(keys)(okHandler).ServeHTTP(rec, req)
		if rec.Code != c.want {
			t.Fatalf("%s: want %d got %d", c.name, c.want, rec.Code)
		}
	}
}

func TestRequireAny(t *testing.T) {
	keys := Keys{Public: []string{"pub_key"}, Admin: []string{"adm_key"}}
	for key, want := range map[string]int{
		"pub_key": http.StatusOK,
		"adm_key": http.StatusOK,
		"other":   http.StatusUnauthorized,
		"":        http.StatusUnauthorized,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/check", nil)
		req.Header.Set("X-API-Key", key)
		rec := httptest.NewRecorder()
		RequireAny(keys)(okHandler).ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("key %q: want %d got %d", key, want, rec.Code)
		}
	}
}

func TestAuth_DisabledWithoutKeys(t *testing.T) {
	for _, mw := range []func(http.Handler) http.Handler{RequireAny(Keys{}), RequireAdmin(Keys{Public: []string{"p"}})} {
		rec := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("want open access, got %d", rec.Code)
		}
	}
}
