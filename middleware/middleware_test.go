package middleware

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	goGuard "github.com/MrEthical07/goGuard"
	"github.com/MrEthical07/goGuard/csrf"
)

func newTestMonitor(t *testing.T, cfg goGuard.Config) *goGuard.Monitor {
	t.Helper()
	m, err := goGuard.New().
		WithConfig(cfg).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRole(t *testing.T) {
	m := newTestMonitor(t, goGuard.DefaultConfig())
	h := RequireRole(m, "editor", RoleFromHeader("X-Role"))(okHandler())

	tests := []struct {
		role string
		want int
	}{
		{"", http.StatusUnauthorized},
		{"viewer", http.StatusForbidden},
		{"ghost", http.StatusForbidden},
		{"editor", http.StatusOK},
		{"admin", http.StatusOK},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.role != "" {
			req.Header.Set("X-Role", tc.role)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Fatalf("role %q: got %d, want %d", tc.role, rec.Code, tc.want)
		}
	}
}

func TestRequireRoleDefaultsToContext(t *testing.T) {
	m := newTestMonitor(t, goGuard.DefaultConfig())

	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = goGuard.RoleFromContext(r.Context())
	})
	h := RequireRole(m, "viewer", nil)(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(goGuard.WithRole(req.Context(), "manager"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || seen != "manager" {
		t.Fatalf("expected pass-through with role, got %d role=%q", rec.Code, seen)
	}
}

func TestRequireRoleNilMonitorDenies(t *testing.T) {
	h := RequireRole(nil, "viewer", RoleFromHeader("X-Role"))(okHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Role", "admin")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func multipartRequest(t *testing.T, field, filename, contentType string, size int) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("a"), size)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestLimitUpload(t *testing.T) {
	cfg := goGuard.DefaultConfig()
	cfg.Upload.MaxSizeBytes = 1024
	m := newTestMonitor(t, cfg)
	h := LimitUpload(m, "file")(okHandler())

	tests := []struct {
		name        string
		contentType string
		size        int
		want        int
	}{
		{"accepted", "image/png", 512, http.StatusOK},
		{"too large", "image/png", 2048, http.StatusRequestEntityTooLarge},
		{"wrong type", "text/html", 10, http.StatusUnsupportedMediaType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, multipartRequest(t, "file", "x.bin", tc.contentType, tc.size))
			if rec.Code != tc.want {
				t.Fatalf("got %d, want %d (%s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}

	snap := m.MetricsSnapshot()
	if snap.Counters[goGuard.MetricUploadValid] != 1 || snap.Counters[goGuard.MetricUploadTooLarge] != 1 {
		t.Fatalf("unexpected upload counters %+v", snap.Counters)
	}
}

func TestLimitUploadIgnoresOtherFieldsAndBodies(t *testing.T) {
	m := newTestMonitor(t, goGuard.DefaultConfig())
	h := LimitUpload(m, "file")(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, multipartRequest(t, "avatar", "x.html", "text/html", 10))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected other fields to pass, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected non-multipart to pass, got %d", rec.Code)
	}
}

func newTestIssuer(t *testing.T) *csrf.Issuer {
	t.Helper()
	i, err := csrf.NewIssuer(csrf.Config{Key: []byte("0123456789abcdef0123456789abcdef"), TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return i
}

func TestCSRFIssuesCookieOnSafeMethod(t *testing.T) {
	issuer := newTestIssuer(t)

	var fromCtx string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx, _ = CSRFToken(r.Context())
	})
	h := CSRF(issuer, "gg_csrf")(inner)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "gg_csrf" {
		t.Fatalf("expected csrf cookie, got %v", cookies)
	}
	if cookies[0].SameSite != http.SameSiteStrictMode {
		t.Fatal("expected SameSite=Strict")
	}
	if fromCtx != cookies[0].Value {
		t.Fatal("expected context token to match cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("valid cookie must not be reissued")
	}
}

func TestCSRFEnforcesDoubleSubmit(t *testing.T) {
	issuer := newTestIssuer(t)
	h := CSRF(issuer, "gg_csrf")(okHandler())

	tok, err := issuer.Issue("")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	other, err := issuer.Issue("")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name   string
		cookie string
		header string
		form   string
		want   int
	}{
		{"missing everything", "", "", "", http.StatusForbidden},
		{"cookie only", tok, "", "", http.StatusForbidden},
		{"mismatched header", tok, other, "", http.StatusForbidden},
		{"forged pair", "forged", "forged", "", http.StatusForbidden},
		{"header match", tok, tok, "", http.StatusOK},
		{"form match", tok, "", tok, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.form != "" {
				body = strings.NewReader(CSRFFormField + "=" + tc.form)
			}
			req := httptest.NewRequest(http.MethodPost, "/submit", body)
			if tc.form != "" {
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "gg_csrf", Value: tc.cookie})
			}
			if tc.header != "" {
				req.Header.Set(CSRFHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("got %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
