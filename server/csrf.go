// Cross-site request forgery protection of the HTML forms.

package main

import (
	"errors"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/yatube/yatube/server/logs"
)

const (
	csrfCookieName = "csrftoken"
	csrfFieldName  = "csrfmiddlewaretoken"
	// Required length of session.csrf_key.
	csrfKeyLength = 32
)

// csrfMiddleware rejects unsafe requests which don't carry the token issued with the form.
func csrfMiddleware(config cookieConfig, next http.Handler) (http.Handler, error) {
	if len(config.CsrfKey) != csrfKeyLength {
		return nil, errors.New("session: csrf_key must be a base64-encoded 32 byte key")
	}

	protected := csrf.Protect(config.CsrfKey,
		csrf.CookieName(csrfCookieName),
		csrf.FieldName(csrfFieldName),
		csrf.Path("/"),
		csrf.Domain(config.Domain),
		csrf.Secure(config.Secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(serveCsrfFailure)),
	)(next)

	return http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		// Referer is checked for HTTPS requests only.
		if req.TLS == nil && req.URL.Scheme != "https" {
			req = csrf.PlaintextHTTPRequest(req)
		}
		protected.ServeHTTP(wrt, req)
	}), nil
}

func serveCsrfFailure(wrt http.ResponseWriter, req *http.Request) {
	reason := csrf.FailureReason(req)
	logs.Warn.Println("csrf: rejected", req.Method, req.URL.Path, reason)

	data := pageContext{}
	if reason != nil {
		data["reason"] = reason.Error()
	}
	render(wrt, req, http.StatusForbidden, "core/403csrf.html", data)
}
