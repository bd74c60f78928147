package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/MrEthical07/goGuard/csrf"
)

// CSRFHeader carries the echoed token on state-changing requests.
const CSRFHeader = "X-CSRF-Token"

// CSRFFormField is the form fallback for CSRFHeader.
const CSRFFormField = "csrf_token"

type csrfTokenContextKey struct{}

// CSRFToken returns the token the CSRF middleware placed in the request
// context, for rendering into forms.
func CSRFToken(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(csrfTokenContextKey{}).(string)
	return tok, ok && tok != ""
}

// CSRF enforces the double-submit pattern. Safe methods receive a cookie named
// cookieName when they lack a valid one; other methods must echo the cookie in
// CSRFHeader or CSRFFormField and the cookie must verify, else 403.
func CSRF(issuer *csrf.Issuer, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if issuer == nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			cookieToken := ""
			if c, err := r.Cookie(cookieName); err == nil {
				cookieToken = c.Value
			}

			if isSafeMethod(r.Method) {
				tok := cookieToken
				if _, err := issuer.Verify(tok, ""); err != nil {
					tok, err = issuer.Issue("")
					if err != nil {
						http.Error(w, "internal error", http.StatusInternalServerError)
						return
					}
					http.SetCookie(w, &http.Cookie{
						Name:     cookieName,
						Value:    tok,
						Path:     "/",
						MaxAge:   int(issuer.TTL().Seconds()),
						Secure:   r.TLS != nil,
						SameSite: http.SameSiteStrictMode,
					})
				}
				ctx := context.WithValue(r.Context(), csrfTokenContextKey{}, tok)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			echoed := r.Header.Get(CSRFHeader)
			if echoed == "" {
				echoed = r.PostFormValue(CSRFFormField)
			}
			if cookieToken == "" || subtle.ConstantTimeCompare([]byte(cookieToken), []byte(echoed)) != 1 {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			if _, err := issuer.Verify(cookieToken, ""); err != nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
