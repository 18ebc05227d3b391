package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	config, err := loadConfig("yatube.conf")
	if err != nil {
		t.Fatal("Failed to load the sample config:", err)
	}
	if config.Listen != ":8000" || config.PostsPerPage != 10 {
		t.Errorf("Unexpected config values: listen '%s', posts per page %d", config.Listen, config.PostsPerPage)
	}
	for _, name := range []string{"basic", "token"} {
		if len(config.Auth[name]) == 0 {
			t.Errorf("Missing config of '%s' authenticator", name)
		}
	}

	cookie, err := parseCookieConfig(config.Session)
	if err != nil {
		t.Fatal(err)
	}
	if cookie.Name != defaultCookieName {
		t.Errorf("Cookie name: expected '%s', got '%s'", defaultCookieName, cookie.Name)
	}
	if len(cookie.CsrfKey) != csrfKeyLength {
		t.Errorf("CSRF key: expected %d bytes, got %d", csrfKeyLength, len(cookie.CsrfKey))
	}

	if _, err = parseFeedConfig(config.Feed); err != nil {
		t.Error(err)
	}

	tls, err := parseTLSConfig(config.TLS)
	if err != nil || tls != nil {
		t.Errorf("TLS is disabled in the sample config, got %v %v", tls, err)
	}

	if _, err = loadConfig("no-such-file.conf"); err == nil {
		t.Error("Missing config file must fail")
	}
}

func TestParseTLSConfig(t *testing.T) {
	orig := globals.tlsStrictMaxAge
	defer func() { globals.tlsStrictMaxAge = orig }()

	if _, err := parseTLSConfig([]byte(`{"enabled": true}`)); err == nil {
		t.Error("TLS without certificates must fail")
	}

	conf, err := parseTLSConfig([]byte(`{"enabled": true, "strict_max_age": 600, "cert_file": "a.crt", "key_file": "a.key"}`))
	if err != nil || conf == nil {
		t.Fatal("Failed to parse TLS config", err)
	}
	if globals.tlsStrictMaxAge != "600" {
		t.Errorf("Strict max age: expected '600', got '%s'", globals.tlsStrictMaxAge)
	}

	hdl := hstsHandler(http.NotFoundHandler())
	resp := httptest.NewRecorder()
	hdl.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if hsts := resp.Header().Get("Strict-Transport-Security"); hsts != "max-age=600" {
		t.Errorf("HSTS header: unexpected '%s'", hsts)
	}

	conf, err = parseTLSConfig([]byte(`{"enabled": true, "autocert": {"domains": ["example.com"], "cache": "/tmp"},
		"cert_file": "a.crt", "key_file": "a.key"}`))
	if err != nil {
		t.Fatal(err)
	}
	if conf.serverConfig().GetCertificate == nil || conf.CertFile != "" {
		t.Error("Autocert must replace static certificates")
	}
}

func TestTLSRedirect(t *testing.T) {
	cases := []struct {
		port, target, want string
	}{
		{":443", "http://example.com/create/", "https://example.com/create/"},
		{":8443", "http://example.com:8000/posts/x/?page=2", "https://example.com:8443/posts/x/?page=2"},
		{"127.0.0.1:https", "http://example.com/", "https://example.com/"},
	}
	for _, tc := range cases {
		resp := httptest.NewRecorder()
		tlsRedirect(tc.port)(resp, httptest.NewRequest(http.MethodGet, tc.target, nil))
		if resp.Code != http.StatusTemporaryRedirect {
			t.Errorf("%s: expected %d, got %d", tc.target, http.StatusTemporaryRedirect, resp.Code)
		}
		if loc := resp.Header().Get("Location"); loc != tc.want {
			t.Errorf("%s: expected '%s', got '%s'", tc.target, tc.want, loc)
		}
	}
}

func TestServePprof(t *testing.T) {
	mux := http.NewServeMux()
	servePprof(mux, "debug/pprof")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "goroutine\t") {
		t.Errorf("Profile list: %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/goroutine", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "goroutine ") {
		t.Errorf("Goroutine profile: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/nonsense", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Unknown profile: expected 404, got %d", rec.Code)
	}

	// Disabled.
	mux = http.NewServeMux()
	servePprof(mux, "-")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Disabled pprof: expected 404, got %d", rec.Code)
	}
}
