package main

import (
	"encoding/base64"
	"html"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/yatube/yatube/server/store/types"
)

var testCsrfKey = []byte("0123456789abcdef0123456789abcdef")

func (env *testEnv) protect(t *testing.T) {
	t.Helper()
	handler, err := csrfMiddleware(cookieConfig{Name: defaultCookieName, CsrfKey: testCsrfKey}, env.handler)
	if err != nil {
		t.Fatal(err)
	}
	env.handler = handler
}

var csrfValueRe = regexp.MustCompile(`value="([^"]+)"`)

func TestCsrfRejectsPostWithoutToken(t *testing.T) {
	cases := []struct {
		target string
		form   url.Values
	}{
		{"/create/", url.Values{"text": {"Forged"}}},
		{postEditURL(types.Uid(1000).String()), url.Values{"text": {"Forged"}}},
		{"/auth/login/", url.Values{"username": {"mallory"}, "password": {"password123"}}},
		{"/auth/signup/", url.Values{"username": {"victim"}, "password1": {"x"}, "password2": {"x"}}},
	}
	for _, tc := range cases {
		t.Run(tc.target, func(t *testing.T) {
			env := newTestEnv(t)
			env.protect(t)

			req := postRequest(tc.target, tc.form)
			// The session is never looked at: no store or auth calls are expected.
			req.AddCookie(&http.Cookie{Name: defaultCookieName,
				Value: base64.RawURLEncoding.EncodeToString([]byte("token-of-alice"))})

			resp := env.do(req)
			if resp.Code != http.StatusForbidden {
				t.Fatalf("Status: expected %d, got %d", http.StatusForbidden, resp.Code)
			}
			if env.renderer.name != "core/403csrf.html" {
				t.Errorf("Template: expected 'core/403csrf.html', got '%s'", env.renderer.name)
			}
		})
	}
}

func TestCsrfAcceptsIssuedToken(t *testing.T) {
	env := newTestEnv(t)
	env.protect(t)
	user := testUser(1, "alice")
	groups := []types.Group{*testGroup(5, "cats")}

	req := httptest.NewRequest(http.MethodGet, "/create/", nil)
	env.login(req, user)
	env.groups.EXPECT().GetAll().Return(groups, nil)

	resp := env.do(req)
	if resp.Code != http.StatusOK {
		t.Fatalf("Form status: expected %d, got %d", http.StatusOK, resp.Code)
	}
	field, _ := env.renderer.data["csrf_field"].(template.HTML)
	match := csrfValueRe.FindStringSubmatch(string(field))
	if match == nil {
		t.Fatalf("Form has no CSRF field: '%s'", field)
	}
	var cookie *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == csrfCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("CSRF cookie was not set")
	}

	req = postRequest("/create/", url.Values{"text": {"Hello"}, csrfFieldName: {html.UnescapeString(match[1])}})
	req.AddCookie(cookie)
	env.login(req, user)
	env.groups.EXPECT().GetAll().Return(groups, nil)
	env.posts.EXPECT().Create(gomock.Any()).DoAndReturn(func(post *types.Post) (*types.Post, error) {
		post.SetUid(types.Uid(77))
		return post, nil
	})

	resp = env.do(req)
	if resp.Code != http.StatusFound {
		t.Fatalf("Status: expected %d, got %d", http.StatusFound, resp.Code)
	}
}

func TestCsrfMiddlewareKey(t *testing.T) {
	if _, err := csrfMiddleware(cookieConfig{CsrfKey: []byte("short")}, http.NotFoundHandler()); err == nil {
		t.Error("Short CSRF key must be rejected")
	}
	if _, err := csrfMiddleware(cookieConfig{CsrfKey: testCsrfKey}, http.NotFoundHandler()); err != nil {
		t.Errorf("Valid CSRF key rejected: %v", err)
	}
}
