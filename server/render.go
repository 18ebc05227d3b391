// Rendering of HTML pages from templates.

package main

import (
	"bytes"
	"embed"
	"errors"
	"html"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yatube/yatube/server/store/types"
)

//go:embed templates
var embeddedTemplates embed.FS

// Pages which can be rendered. Each page is combined with base.html and includes/*.html.
var pageTemplates = []string{
	"posts/index.html",
	"posts/group_list.html",
	"posts/profile.html",
	"posts/post_detail.html",
	"posts/post_create.html",
	"users/login.html",
	"users/signup.html",
	"users/logged_out.html",
	"users/password_change.html",
	"users/password_change_done.html",
	"core/404.html",
	"core/403csrf.html",
}

// pageContext is the data passed to a page template.
type pageContext map[string]any

// Renderer writes a named page.
type Renderer interface {
	Render(wrt io.Writer, name string, data pageContext) error
}

type templateRenderer struct {
	pages map[string]*template.Template
}

// Parses page templates from fsys or from the embedded templates if fsys is nil.
func newTemplateRenderer(fsys fs.FS) (*templateRenderer, error) {
	if fsys == nil {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}

	r := &templateRenderer{pages: make(map[string]*template.Template, len(pageTemplates))}
	for _, name := range pageTemplates {
		tmpl, err := template.New(path.Base(name)).Funcs(templateFuncs).
			ParseFS(fsys, "base.html", "includes/*.html", name)
		if err != nil {
			return nil, err
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render implements Renderer.
func (r *templateRenderer) Render(wrt io.Writer, name string, data pageContext) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.New("render: unknown page " + name)
	}
	return tmpl.ExecuteTemplate(wrt, "base", data)
}

// Renders the page into a buffer, then writes it out with the given status.
// The current user is added to the context unless already set, the CSRF form field always is.
func render(wrt http.ResponseWriter, req *http.Request, status int, name string, data pageContext) {
	if data == nil {
		data = pageContext{}
	}
	if _, ok := data["user"]; !ok {
		data["user"] = currentUser(req)
	}
	data["csrf_field"] = csrf.TemplateField(req)

	var buf bytes.Buffer
	if err := globals.renderer.Render(&buf, name, data); err != nil {
		serve500(wrt, req, err)
		return
	}

	wrt.Header().Set("Content-Type", "text/html; charset=utf-8")
	if globals.cacheControl > 0 {
		wrt.Header().Set("Cache-Control", "max-age="+strconv.Itoa(globals.cacheControl))
	} else {
		wrt.Header().Set("Cache-Control", "no-cache")
	}
	wrt.WriteHeader(status)
	wrt.Write(buf.Bytes())
}

var templateFuncs = template.FuncMap{
	"truncatechars": truncateChars,
	"linebreaksbr":  linebreaksbr,
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
	"postURL":     postURL,
	"postEditURL": postEditURL,
	"profileURL":  profileURL,
	"groupURL":    groupURL,
	"pageURL": func(n int) string {
		return "?page=" + strconv.Itoa(n)
	},
}

// Truncates s to at most n user-perceived characters including the trailing ellipsis.
func truncateChars(s string, n int) string {
	if types.Truncate(s, n) == s {
		return s
	}
	return types.Truncate(s, n-1) + "…"
}

// Escapes text and converts line breaks to <br>.
func linebreaksbr(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(html.EscapeString(s), "\n", "<br>"))
}
