// Handlers of login, signup, password change and logout.

package main

import (
	"net/http"

	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/logs"
	"github.com/yatube/yatube/server/store"
	"github.com/yatube/yatube/server/store/types"
)

func serveLogin(wrt http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodPost {
		wrt.Header().Set("Allow", "GET, POST")
		http.Error(wrt, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	form := newLoginForm(req.URL.Query().Get("next"))
	if req.Method == http.MethodPost {
		form.bind(req)
		if form.validate() {
			rec, err := authenticateLogin(form)
			if err != nil {
				serve500(wrt, req, err)
				return
			}
			if rec != nil {
				if err = startSession(wrt, rec); err != nil {
					serve500(wrt, req, err)
					return
				}
				if err = store.Users.UpdateLastSeen(rec.Uid, req.UserAgent(), types.TimeNow()); err != nil {
					logs.Warn.Println("login: failed to update last seen", rec.Uid, err)
				}
				statsInc("Logins", 1)

				http.Redirect(wrt, req, redirectTarget(form.Next, "/"), http.StatusFound)
				return
			}
			form.Errors.add(nonFieldErrors, msgBadLogin)
		}
	}

	render(wrt, req, http.StatusOK, "users/login.html", pageContext{
		"form": form,
		"next": form.Next,
	})
}

// Checks login and password. Returns nil record and nil error if the credentials are wrong
// or the user cannot log in.
func authenticateLogin(form *loginForm) (*auth.Rec, error) {
	hdl := store.Store.GetAuthHandler("basic")
	if hdl == nil {
		return nil, types.ErrUnsupported
	}

	rec, _, err := hdl.Authenticate(form.secret())
	switch err {
	case nil:
	case types.ErrFailed, types.ErrExpired, types.ErrMalformed, types.ErrPolicy:
		return nil, nil
	default:
		return nil, err
	}

	user, err := store.Users.Get(rec.Uid)
	if err != nil {
		return nil, err
	}
	if user == nil || user.State != types.StateOK {
		return nil, nil
	}
	return rec, nil
}

func serveSignup(wrt http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodPost {
		wrt.Header().Set("Allow", "GET, POST")
		http.Error(wrt, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	form := newSignupForm()
	if req.Method == http.MethodPost {
		form.bind(req)
		if form.validate() {
			rec, err := createAccount(form)
			if err != nil {
				serve500(wrt, req, err)
				return
			}
			if rec != nil {
				if err = startSession(wrt, rec); err != nil {
					serve500(wrt, req, err)
					return
				}
				statsInc("Signups", 1)
				logs.Info.Println("signup: new user", form.Username, rec.Uid)

				http.Redirect(wrt, req, "/", http.StatusFound)
				return
			}
		}
	}

	render(wrt, req, http.StatusOK, "users/signup.html", pageContext{"form": form})
}

// Creates a user and the 'basic' auth record. Validation failures are reported
// as form errors with nil record and nil error.
func createAccount(form *signupForm) (*auth.Rec, error) {
	hdl := store.Store.GetAuthHandler("basic")
	if hdl == nil {
		return nil, types.ErrUnsupported
	}

	if _, err := hdl.IsUnique(form.secret()); err != nil {
		switch err {
		case types.ErrDuplicate:
			form.Errors.add("username", msgUsernameTaken)
		case types.ErrPolicy, types.ErrMalformed:
			form.Errors.add("username", msgBadUsername)
		default:
			return nil, err
		}
		return nil, nil
	}

	user, err := store.Users.Create(&types.User{
		Username: form.Username,
		FullName: form.fullName(),
		Email:    form.Email,
	})
	if err == types.ErrDuplicate {
		form.Errors.add("username", msgUsernameTaken)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec, err := hdl.AddRecord(&auth.Rec{Uid: user.Uid(), AuthLevel: auth.LevelAuth}, form.secret())
	if err != nil {
		// Roll back the partially created account.
		if derr := store.Users.Delete(user.Uid(), true); derr != nil {
			logs.Warn.Println("signup: failed to delete user", user.Uid(), derr)
		}
		switch err {
		case types.ErrPolicy:
			form.Errors.add("password1", msgWeakPassword)
		case types.ErrDuplicate:
			form.Errors.add("username", msgUsernameTaken)
		default:
			return nil, err
		}
		return nil, nil
	}
	return rec, nil
}

func serveLogout(wrt http.ResponseWriter, req *http.Request) {
	clearSessionCookie(wrt)
	render(wrt, req, http.StatusOK, "users/logged_out.html", pageContext{"user": nil})
}

func servePasswordChange(wrt http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet && req.Method != http.MethodPost {
		wrt.Header().Set("Allow", "GET, POST")
		http.Error(wrt, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	sess := currentSession(req)
	if sess == nil {
		http.Redirect(wrt, req, loginURL(req.URL.Path), http.StatusFound)
		return
	}

	form := newPasswordChangeForm()
	if req.Method == http.MethodPost {
		form.bind(req)
		if form.validate() {
			changed, err := changePassword(sess, form)
			if err != nil {
				serve500(wrt, req, err)
				return
			}
			if changed {
				logs.Info.Println("password changed", sess.uid)
				http.Redirect(wrt, req, "/auth/password_change/done/", http.StatusFound)
				return
			}
		}
	}

	render(wrt, req, http.StatusOK, "users/password_change.html", pageContext{"form": form})
}

// Checks the old password and replaces it with the new one. Rejected passwords are
// reported as form errors with false and nil error.
func changePassword(sess *Session, form *passwordChangeForm) (bool, error) {
	hdl := store.Store.GetAuthHandler("basic")
	if hdl == nil {
		return false, types.ErrUnsupported
	}

	rec, _, err := hdl.Authenticate(form.oldSecret(sess.user.Username))
	switch err {
	case nil:
		if rec.Uid != sess.uid {
			form.Errors.add("old_password", msgBadOldPass)
			return false, nil
		}
	case types.ErrFailed, types.ErrMalformed:
		form.Errors.add("old_password", msgBadOldPass)
		return false, nil
	default:
		return false, err
	}

	if _, err = hdl.UpdateRecord(&auth.Rec{Uid: sess.uid}, form.newSecret()); err != nil {
		if err == types.ErrPolicy || err == types.ErrMalformed {
			form.Errors.add("new_password1", msgWeakPassword)
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func servePasswordChangeDone(wrt http.ResponseWriter, req *http.Request) {
	if currentSession(req) == nil {
		http.Redirect(wrt, req, loginURL(req.URL.Path), http.StatusFound)
		return
	}
	render(wrt, req, http.StatusOK, "users/password_change_done.html", nil)
}
