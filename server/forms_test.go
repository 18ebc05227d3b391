package main

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yatube/yatube/server/store/types"
)

func TestPostFormValidate(t *testing.T) {
	groups := []types.Group{*testGroup(5, "cats"), *testGroup(6, "dogs")}

	cases := []struct {
		name   string
		values url.Values
		errors formErrors
		group  string
	}{
		{"text only", url.Values{"text": {"Hello"}}, formErrors{}, ""},
		{"with group", url.Values{"text": {"Hello"}, "group": {groups[1].Id}}, formErrors{}, "dogs"},
		{"blank text", url.Values{"text": {" \n "}}, formErrors{"text": {msgRequired}}, ""},
		{"bad group", url.Values{"text": {"Hello"}, "group": {"zzz"}}, formErrors{"group": {msgInvalidChoice}}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := newPostForm(groups)
			form.bind(postRequest("/create/", tc.values))

			valid := form.validate()
			if valid != (len(tc.errors) == 0) {
				t.Errorf("validate: expected %v, got %v", len(tc.errors) == 0, valid)
			}
			if diff := cmp.Diff(tc.errors, form.Errors); diff != "" {
				t.Errorf("Errors mismatch (-want +got):\n%s", diff)
			}
			if !valid {
				return
			}
			sel := form.selectedGroup()
			if tc.group == "" && sel != nil {
				t.Errorf("Expected no group, got '%s'", sel.Slug)
			}
			if tc.group != "" && (sel == nil || sel.Slug != tc.group) {
				t.Errorf("Expected group '%s', got %v", tc.group, sel)
			}
		})
	}
}

func TestSignupFormValidate(t *testing.T) {
	cases := []struct {
		name   string
		change func(url.Values)
		errors formErrors
	}{
		{"valid", func(url.Values) {}, formErrors{}},
		{"no email", func(v url.Values) { v.Del("email") }, formErrors{}},
		{"bad email", func(v url.Values) { v.Set("email", "carol at example") }, formErrors{"email": {msgBadEmail}}},
		{"named email", func(v url.Values) { v.Set("email", "Carol <carol@example.com>") }, formErrors{"email": {msgBadEmail}}},
		{"no username", func(v url.Values) { v.Set("username", "  ") }, formErrors{"username": {msgRequired}}},
		{"long name", func(v url.Values) { v.Set("first_name", strings.Repeat("я", maxNameLength+1)) },
			formErrors{"first_name": {msgTooLong}}},
		{"no passwords", func(v url.Values) { v.Del("password1"); v.Del("password2") },
			formErrors{"password1": {msgRequired}, "password2": {msgRequired}}},
		{"mismatch", func(v url.Values) { v.Set("password2", "other") }, formErrors{"password2": {msgPasswordMatch}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := signupValues()
			tc.change(values)

			form := newSignupForm()
			form.bind(postRequest("/auth/signup/", values))
			form.validate()
			if diff := cmp.Diff(tc.errors, form.Errors); diff != "" {
				t.Errorf("Errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSignupFormFullName(t *testing.T) {
	cases := map[[2]string]string{
		{"Carol", "Smith"}: "Carol Smith",
		{"Carol", ""}:      "Carol",
		{"", "Smith"}:      "Smith",
		{"", ""}:           "",
	}
	for names, want := range cases {
		form := &signupForm{FirstName: names[0], LastName: names[1]}
		if got := form.fullName(); got != want {
			t.Errorf("fullName(%q): expected '%s', got '%s'", names, want, got)
		}
	}
}
