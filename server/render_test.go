package main

import (
	"bytes"
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yatube/yatube/server/store/types"
)

func TestTemplates(t *testing.T) {
	renderer, err := newTemplateRenderer(nil)
	if err != nil {
		t.Fatal("Failed to parse templates:", err)
	}

	author := testUser(1, "alice")
	group := testGroup(5, "cats")
	posts := testPosts(2, author, group)
	posts[1].Text = "<script>alert(1)</script>\nsecond line"
	views := []*postView{
		{Post: &posts[0], Author: author, Group: group},
		{Post: &posts[1], Author: nil, Group: nil},
	}
	page := newPaginator(25, 10).Page(2, views)

	postForm := newPostForm([]types.Group{*group, *testGroup(6, "dogs")})
	postForm.Text = posts[0].Text
	postForm.Group = group.Id

	signupForm := newSignupForm()
	signupForm.Errors.add("username", msgRequired)

	passwordForm := newPasswordChangeForm()
	passwordForm.Errors.add("old_password", msgBadOldPass)

	cases := []struct {
		page string
		data pageContext
		want []string
	}{
		{"posts/index.html", pageContext{"page_obj": page, "user": nil},
			[]string{"Latest posts", "Post number A", `href="/profile/alice/"`, `href="/group/cats/"`,
				"&lt;script&gt;alert(1)&lt;/script&gt;<br>second line", `href="?page=3"`, `href="?page=1"`,
				`href="/auth/login/"`, "1 March 2024"}},
		{"posts/index.html", pageContext{"page_obj": newPaginator(0, 10).Page(1, nil), "user": author},
			[]string{"No posts yet.", `href="/create/"`, `href="/auth/logout/"`}},
		{"posts/group_list.html", pageContext{"group": group, "page_obj": page, "user": nil},
			[]string{"Group cats", "About cats", "Post number A"}},
		{"posts/profile.html", pageContext{"author": author, "page_obj": page, "posts_count": 25, "user": nil},
			[]string{"All posts of ALICE", "Posts: 25"}},
		{"posts/post_detail.html", pageContext{"post": views[0], "posts_count": 25, "can_edit": true, "user": author},
			[]string{"Post Post number A", `href="` + postEditURL(posts[0].Id) + `"`, "Posts by the author: <span>25</span>"}},
		{"posts/post_create.html", pageContext{"form": postForm, "is_edit": true, "post": &posts[0], "user": author},
			[]string{"Edit post", `action="` + postEditURL(posts[0].Id) + `"`, `<option value="` + group.Id + `" selected>`,
				"Post number A</textarea>", "Save"}},
		{"posts/post_create.html", pageContext{"form": newPostForm(nil), "is_edit": false, "user": author},
			[]string{"New post", `action="/create/"`, "Add"}},
		{"users/login.html", pageContext{"form": newLoginForm("/create/"), "next": "/create/", "user": nil,
			"csrf_field": template.HTML(`<input type="hidden" name="csrfmiddlewaretoken" value="tok">`)},
			[]string{`name="next" value="/create/"`, `name="password"`, `name="csrfmiddlewaretoken" value="tok"`}},
		{"users/password_change.html", pageContext{"form": passwordForm, "user": author},
			[]string{`action="/auth/password_change/"`, msgBadOldPass, `name="new_password2"`}},
		{"users/password_change_done.html", pageContext{"user": author},
			[]string{"Your password was changed."}},
		{"core/403csrf.html", pageContext{"reason": "CSRF token invalid", "user": nil},
			[]string{"CSRF verification failed.", "CSRF token invalid"}},
		{"users/signup.html", pageContext{"form": signupForm, "user": nil},
			[]string{"Sign up", msgRequired, `name="password2"`}},
		{"users/logged_out.html", pageContext{"user": nil},
			[]string{"You have been logged out."}},
		{"core/404.html", pageContext{"path": "/missing/", "user": nil},
			[]string{"Page /missing/ not found."}},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		if err := renderer.Render(&buf, tc.page, tc.data); err != nil {
			t.Errorf("%s: failed to render: %s", tc.page, err)
			continue
		}
		html := buf.String()
		for _, want := range tc.want {
			if !strings.Contains(html, want) {
				t.Errorf("%s: '%s' not found in the output", tc.page, want)
			}
		}
	}

	if err := renderer.Render(&bytes.Buffer{}, "posts/missing.html", nil); err == nil {
		t.Error("Rendering an unknown page must fail")
	}
}

func TestRenderHeaders(t *testing.T) {
	renderer, err := newTemplateRenderer(nil)
	if err != nil {
		t.Fatal("Failed to parse templates:", err)
	}
	origRenderer, origCache := globals.renderer, globals.cacheControl
	defer func() {
		globals.renderer, globals.cacheControl = origRenderer, origCache
	}()
	globals.renderer = renderer

	for cache, want := range map[int]string{0: "no-cache", 300: "max-age=300"} {
		globals.cacheControl = cache

		resp := httptest.NewRecorder()
		render(resp, httptest.NewRequest(http.MethodGet, "/auth/logout/", nil), http.StatusOK,
			"users/logged_out.html", nil)
		if resp.Code != http.StatusOK {
			t.Errorf("Status: expected %d, got %d", http.StatusOK, resp.Code)
		}
		if ct := resp.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Errorf("Content-Type: unexpected '%s'", ct)
		}
		if cc := resp.Header().Get("Cache-Control"); cc != want {
			t.Errorf("Cache-Control: expected '%s', got '%s'", want, cc)
		}
	}
}
