// HTML forms: binding of submitted values and validation.

package main

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/yatube/yatube/server/store/types"
)

// Key of errors which are not tied to a particular field.
const nonFieldErrors = "__all__"

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgBadLogin      = "Please enter a correct username and password. Note that both fields may be case-sensitive."
	msgUsernameTaken = "A user with that username already exists."
	msgBadUsername   = "Enter a valid username. This value may contain only lowercase letters, numbers, and @/./+/-/_ characters."
	msgWeakPassword  = "This password is too short."
	msgPasswordMatch = "The two password fields didn’t match."
	msgBadEmail      = "Enter a valid email address."
	msgTooLong       = "Ensure this value is shorter."
	msgBadOldPass    = "Your old password was entered incorrectly. Please enter it again."
)

// Maximum length of user's first and last name.
const maxNameLength = 150

// formErrors maps field name to the list of validation errors.
type formErrors map[string][]string

func (e formErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Field returns errors of the given field. Used by templates.
func (e formErrors) Field(name string) []string {
	return e[name]
}

// NonField returns errors which are not tied to any field.
func (e formErrors) NonField() []string {
	return e[nonFieldErrors]
}

// Form to create or edit a post.
type postForm struct {
	Text string
	// Uid of the group or blank.
	Group string
	// Available groups.
	Groups []types.Group
	Errors formErrors
}

func newPostForm(groups []types.Group) *postForm {
	return &postForm{Groups: groups, Errors: formErrors{}}
}

func (f *postForm) bind(req *http.Request) {
	f.Text = strings.TrimSpace(req.PostFormValue("text"))
	f.Group = strings.TrimSpace(req.PostFormValue("group"))
}

// Validates bound values. Returns true if the form is valid.
func (f *postForm) validate() bool {
	if f.Text == "" {
		f.Errors.add("text", msgRequired)
	}
	if f.Group != "" && f.selectedGroup() == nil {
		f.Errors.add("group", msgInvalidChoice)
	}
	return len(f.Errors) == 0
}

// Returns the selected group or nil.
func (f *postForm) selectedGroup() *types.Group {
	if f.Group == "" {
		return nil
	}
	for i := range f.Groups {
		if f.Groups[i].Id == f.Group {
			return &f.Groups[i]
		}
	}
	return nil
}

// IsSelected checks if the group is the current choice. Used by templates.
func (f *postForm) IsSelected(id string) bool {
	return f.Group == id
}

// Login form.
type loginForm struct {
	Username string
	Password string
	// Where to go after successful login.
	Next   string
	Errors formErrors
}

func newLoginForm(next string) *loginForm {
	return &loginForm{Next: next, Errors: formErrors{}}
}

func (f *loginForm) bind(req *http.Request) {
	f.Username = strings.ToLower(strings.TrimSpace(req.PostFormValue("username")))
	f.Password = req.PostFormValue("password")
	if next := req.PostFormValue("next"); next != "" {
		f.Next = next
	}
}

func (f *loginForm) validate() bool {
	if f.Username == "" {
		f.Errors.add("username", msgRequired)
	}
	if f.Password == "" {
		f.Errors.add("password", msgRequired)
	}
	return len(f.Errors) == 0
}

// The secret for the 'basic' authenticator.
func (f *loginForm) secret() []byte {
	return []byte(f.Username + ":" + f.Password)
}

// Signup form.
type signupForm struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password1 string
	Password2 string
	Errors    formErrors
}

func newSignupForm() *signupForm {
	return &signupForm{Errors: formErrors{}}
}

func (f *signupForm) bind(req *http.Request) {
	f.FirstName = strings.TrimSpace(req.PostFormValue("first_name"))
	f.LastName = strings.TrimSpace(req.PostFormValue("last_name"))
	f.Username = strings.ToLower(strings.TrimSpace(req.PostFormValue("username")))
	f.Email = strings.TrimSpace(req.PostFormValue("email"))
	f.Password1 = req.PostFormValue("password1")
	f.Password2 = req.PostFormValue("password2")
}

func (f *signupForm) validate() bool {
	if f.Username == "" {
		f.Errors.add("username", msgRequired)
	}
	if len([]rune(f.FirstName)) > maxNameLength {
		f.Errors.add("first_name", msgTooLong)
	}
	if len([]rune(f.LastName)) > maxNameLength {
		f.Errors.add("last_name", msgTooLong)
	}
	if f.Email != "" {
		if addr, err := mail.ParseAddress(f.Email); err != nil || addr.Address != f.Email {
			f.Errors.add("email", msgBadEmail)
		}
	}
	if f.Password1 == "" {
		f.Errors.add("password1", msgRequired)
	}
	if f.Password2 == "" {
		f.Errors.add("password2", msgRequired)
	} else if f.Password1 != f.Password2 {
		f.Errors.add("password2", msgPasswordMatch)
	}
	return len(f.Errors) == 0
}

// Full name of the user.
func (f *signupForm) fullName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}

// The secret for the 'basic' authenticator.
func (f *signupForm) secret() []byte {
	return []byte(f.Username + ":" + f.Password1)
}

// Password change form of a logged in user.
type passwordChangeForm struct {
	OldPassword  string
	NewPassword1 string
	NewPassword2 string
	Errors       formErrors
}

func newPasswordChangeForm() *passwordChangeForm {
	return &passwordChangeForm{Errors: formErrors{}}
}

func (f *passwordChangeForm) bind(req *http.Request) {
	f.OldPassword = req.PostFormValue("old_password")
	f.NewPassword1 = req.PostFormValue("new_password1")
	f.NewPassword2 = req.PostFormValue("new_password2")
}

func (f *passwordChangeForm) validate() bool {
	if f.OldPassword == "" {
		f.Errors.add("old_password", msgRequired)
	}
	if f.NewPassword1 == "" {
		f.Errors.add("new_password1", msgRequired)
	}
	if f.NewPassword2 == "" {
		f.Errors.add("new_password2", msgRequired)
	} else if f.NewPassword1 != f.NewPassword2 {
		f.Errors.add("new_password2", msgPasswordMatch)
	}
	return len(f.Errors) == 0
}

// Secret which checks the current password of the user.
func (f *passwordChangeForm) oldSecret(username string) []byte {
	return []byte(username + ":" + f.OldPassword)
}

// Secret with a blank login: only the password is replaced.
func (f *passwordChangeForm) newSecret() []byte {
	return []byte(":" + f.NewPassword1)
}
