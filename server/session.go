// Browser sessions: the session cookie holds a token issued by the 'token' authenticator.

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/logs"
	"github.com/yatube/yatube/server/store"
	"github.com/yatube/yatube/server/store/types"
)

const defaultCookieName = "sessionid"

type cookieConfig struct {
	// Name of the session cookie.
	Name string `json:"cookie_name"`
	// Send the cookie over HTTPS only.
	Secure bool `json:"secure"`
	// Optional domain of the cookie.
	Domain string `json:"domain"`
	// Key for signing CSRF cookies, 32 bytes.
	CsrfKey []byte `json:"csrf_key"`
}

func parseCookieConfig(jsconfig json.RawMessage) (cookieConfig, error) {
	var config cookieConfig
	if len(jsconfig) > 0 {
		if err := json.Unmarshal(jsconfig, &config); err != nil {
			return config, errors.New("session: failed to parse config: " + err.Error() + "(" + string(jsconfig) + ")")
		}
	}
	if config.Name == "" {
		config.Name = defaultCookieName
	}
	return config, nil
}

func cookieName() string {
	if globals.cookie.Name == "" {
		return defaultCookieName
	}
	return globals.cookie.Name
}

// Session of an authenticated user.
type Session struct {
	uid     types.Uid
	authLvl auth.Level
	user    *types.User
}

type sessionCtxKey struct{}

// Authenticates the session cookie, if any, and attaches the session to the request context.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		if sess := authenticateRequest(wrt, req); sess != nil {
			req = req.WithContext(context.WithValue(req.Context(), sessionCtxKey{}, sess))
		}
		next.ServeHTTP(wrt, req)
	})
}

// Checks the session cookie. Invalid or expired cookie is cleared and the request
// proceeds as anonymous.
func authenticateRequest(wrt http.ResponseWriter, req *http.Request) *Session {
	cookie, err := req.Cookie(cookieName())
	if err != nil || cookie.Value == "" {
		return nil
	}

	token, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		clearSessionCookie(wrt)
		return nil
	}

	hdl := store.Store.GetAuthHandler("token")
	if hdl == nil {
		logs.Err.Println("session: token authenticator is not available")
		return nil
	}

	rec, _, err := hdl.Authenticate(token)
	if err != nil {
		clearSessionCookie(wrt)
		return nil
	}

	user, err := store.Users.Get(rec.Uid)
	if err != nil {
		logs.Warn.Println("session: failed to load user", rec.Uid, err)
		return nil
	}
	if user == nil || user.State != types.StateOK {
		clearSessionCookie(wrt)
		return nil
	}

	return &Session{uid: rec.Uid, authLvl: rec.AuthLevel, user: user}
}

// Returns the session of the request or nil for anonymous requests.
func currentSession(req *http.Request) *Session {
	sess, _ := req.Context().Value(sessionCtxKey{}).(*Session)
	return sess
}

// Returns the user of the request or nil for anonymous requests.
func currentUser(req *http.Request) *types.User {
	if sess := currentSession(req); sess != nil {
		return sess.user
	}
	return nil
}

// Issues a new token for the authenticated user and sets it as the session cookie.
func startSession(wrt http.ResponseWriter, rec *auth.Rec) error {
	hdl := store.Store.GetAuthHandler("token")
	if hdl == nil {
		return errors.New("session: token authenticator is not available")
	}

	token, expires, err := hdl.GenSecret(&auth.Rec{Uid: rec.Uid, AuthLevel: rec.AuthLevel})
	if err != nil {
		return err
	}

	http.SetCookie(wrt, &http.Cookie{
		Name:     cookieName(),
		Value:    base64.RawURLEncoding.EncodeToString(token),
		Path:     "/",
		Domain:   globals.cookie.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   globals.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Removes the session cookie.
func clearSessionCookie(wrt http.ResponseWriter) {
	http.SetCookie(wrt, &http.Cookie{
		Name:     cookieName(),
		Value:    "",
		Path:     "/",
		Domain:   globals.cookie.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   globals.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
