// Handlers of post listings, post pages and post forms.

package main

import (
	"net/http"
	"strings"

	"github.com/yatube/yatube/server/logs"
	"github.com/yatube/yatube/server/store"
	"github.com/yatube/yatube/server/store/types"
)

// postView bundles a post with its resolved author and group.
type postView struct {
	Post *types.Post
	// Nil if the author is deleted.
	Author *types.User
	// Nil if the post is not in a group.
	Group *types.Group
}

func registerRoutes(mux *http.ServeMux) {
	route := func(pattern, name string, hdl http.HandlerFunc) {
		mux.Handle(pattern, globals.metrics.instrument(name, hdl))
	}

	route("GET /{$}", "index", serveIndex)
	route("GET /group/{slug}/{$}", "group_list", serveGroupPosts)
	route("GET /profile/{username}/{$}", "profile", serveProfile)
	route("GET /posts/{post_id}/{$}", "post_detail", servePostDetail)
	route("/create/{$}", "post_create", servePostCreate)
	route("/posts/{post_id}/edit/{$}", "post_edit", servePostEdit)
	route("/auth/login/{$}", "login", serveLogin)
	route("/auth/signup/{$}", "signup", serveSignup)
	route("/auth/password_change/{$}", "password_change", servePasswordChange)
	route("GET /auth/password_change/done/{$}", "password_change_done", servePasswordChangeDone)
	route("GET /auth/logout/{$}", "logout", serveLogout)
	route("GET /feed/ws", "feed", serveFeed)
	route("/", "not_found", appendSlash(mux))
}

// Redirects to the same path with a trailing slash if that path has a route, otherwise
// responds with 404.
func appendSlash(mux *http.ServeMux) http.HandlerFunc {
	return func(wrt http.ResponseWriter, req *http.Request) {
		if p := req.URL.Path; !strings.HasSuffix(p, "/") {
			slashed := req.Clone(req.Context())
			slashed.URL.Path = p + "/"
			slashed.URL.RawPath = ""
			if _, pattern := mux.Handler(slashed); pattern != "" && pattern != "/" {
				target := req.URL.EscapedPath() + "/"
				if req.URL.RawQuery != "" {
					target += "?" + req.URL.RawQuery
				}
				http.Redirect(wrt, req, target, http.StatusMovedPermanently)
				return
			}
		}
		serve404(wrt, req)
	}
}

// Resolves authors and groups of posts. Groups which are already known need not be loaded.
func expandPosts(posts []types.Post, known ...*types.Group) ([]*postView, error) {
	views := make([]*postView, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	groups := make(map[string]*types.Group)
	for _, grp := range known {
		groups[grp.Id] = grp
	}

	var uids []types.Uid
	seen := make(map[string]bool)
	loadGroups := false
	for i := range posts {
		if !seen[posts[i].Author] {
			seen[posts[i].Author] = true
			uids = append(uids, posts[i].AuthorUid())
		}
		if posts[i].Group != "" && groups[posts[i].Group] == nil {
			loadGroups = true
		}
	}

	users, err := store.Users.GetAll(uids...)
	if err != nil {
		return nil, err
	}
	authors := make(map[string]*types.User, len(users))
	for i := range users {
		authors[users[i].Id] = &users[i]
	}

	if loadGroups {
		all, err := store.Groups.GetAll()
		if err != nil {
			return nil, err
		}
		for i := range all {
			groups[all[i].Id] = &all[i]
		}
	}

	for i := range posts {
		views = append(views, &postView{
			Post:   &posts[i],
			Author: authors[posts[i].Author],
			Group:  groups[posts[i].Group],
		})
	}
	return views, nil
}

// Loads the requested page of posts matching the query.
func loadPage(req *http.Request, opts *types.QueryOpt, known ...*types.Group) (*Page, error) {
	count, err := store.Posts.Count(opts)
	if err != nil {
		return nil, err
	}

	pgr := newPaginator(count, globals.postsPerPage)
	number := pgr.Number(req.URL.Query().Get("page"))

	var posts []types.Post
	if count > 0 {
		opts.Limit, opts.Offset = pgr.Window(number)
		if posts, err = store.Posts.GetAll(opts); err != nil {
			return nil, err
		}
	}

	items, err := expandPosts(posts, known...)
	if err != nil {
		return nil, err
	}
	return pgr.Page(number, items), nil
}

// All posts, newest first.
func serveIndex(wrt http.ResponseWriter, req *http.Request) {
	page, err := loadPage(req, &types.QueryOpt{})
	if err != nil {
		serve500(wrt, req, err)
		return
	}
	render(wrt, req, http.StatusOK, "posts/index.html", pageContext{"page_obj": page})
}

// Posts of a group.
func serveGroupPosts(wrt http.ResponseWriter, req *http.Request) {
	group, err := store.Groups.Get(req.PathValue("slug"))
	if err != nil {
		serve500(wrt, req, err)
		return
	}
	if group == nil {
		serve404(wrt, req)
		return
	}

	page, err := loadPage(req, &types.QueryOpt{Group: group.Uid()}, group)
	if err != nil {
		serve500(wrt, req, err)
		return
	}
	render(wrt, req, http.StatusOK, "posts/group_list.html", pageContext{
		"group":    group,
		"page_obj": page,
	})
}

// Posts of an author.
func serveProfile(wrt http.ResponseWriter, req *http.Request) {
	author, err := store.Users.GetByUsername(req.PathValue("username"))
	if err != nil {
		serve500(wrt, req, err)
		return
	}
	if author == nil {
		serve404(wrt, req)
		return
	}

	page, err := loadPage(req, &types.QueryOpt{Author: author.Uid()})
	if err != nil {
		serve500(wrt, req, err)
		return
	}
	render(wrt, req, http.StatusOK, "posts/profile.html", pageContext{
		"author":      author,
		"page_obj":    page,
		"posts_count": page.Count,
	})
}

// Loads a post by ID from the URL path. Returns nil if the ID is malformed or
// the post does not exist.
func loadPost(req *http.Request) (*types.Post, error) {
	id := parsePostId(req.PathValue("post_id"))
	if id.IsZero() {
		return nil, nil
	}
	return store.Posts.Get(id)
}

// A single post.
func servePostDetail(wrt http.ResponseWriter, req *http.Request) {
	post, err := loadPost(req)
	if err != nil {
		serve500(wrt, req, err)
		return
	}
	if post == nil {
		serve404(wrt, req)
		return
	}

	views, err := expandPosts([]types.Post{*post})
	if err != nil {
		serve500(wrt, req, err)
		return
	}
	count, err := store.Posts.Count(&types.QueryOpt{Author: post.AuthorUid()})
	if err != nil {
		serve500(wrt, req, err)
		return
	}

	sess := currentSession(req)
	render(wrt, req, http.StatusOK, "posts/post_detail.html", pageContext{
		"post":        views[0],
		"posts_count": count,
		"can_edit":    sess != nil && sess.uid == post.AuthorUid(),
	})
}

// New post form. Guests are sent to the login page.
func servePostCreate(wrt http.ResponseWriter, req *http.Request) {
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

	groups, err := store.Groups.GetAll()
	if err != nil {
		serve500(wrt, req, err)
		return
	}

	form := newPostForm(groups)
	if req.Method == http.MethodPost {
		form.bind(req)
		if form.validate() {
			post, err := store.Posts.Create(&types.Post{
				Author: sess.uid.String(),
				Group:  form.Group,
				Text:   form.Text,
			})
			if err != nil {
				serve500(wrt, req, err)
				return
			}

			statsInc("PostsCreated", 1)
			globals.metrics.postCreated()
			if globals.feed != nil {
				globals.feed.publish(newFeedEvent(post, sess.user, form.selectedGroup()))
			}
			logs.Info.Println("post created", post.Id, "by", sess.user.Username)

			http.Redirect(wrt, req, profileURL(sess.user.Username), http.StatusFound)
			return
		}
	}

	render(wrt, req, http.StatusOK, "posts/post_create.html", pageContext{
		"form":    form,
		"is_edit": false,
	})
}

// Post edit form. Only the author may edit the post, everyone else is sent
// to the post page.
func servePostEdit(wrt http.ResponseWriter, req *http.Request) {
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

	post, err := loadPost(req)
	if err != nil {
		serve500(wrt, req, err)
		return
	}
	if post == nil {
		serve404(wrt, req)
		return
	}
	if post.AuthorUid() != sess.uid {
		http.Redirect(wrt, req, postURL(post.Id), http.StatusFound)
		return
	}

	groups, err := store.Groups.GetAll()
	if err != nil {
		serve500(wrt, req, err)
		return
	}

	form := newPostForm(groups)
	form.Text = post.Text
	form.Group = post.Group
	if req.Method == http.MethodPost {
		form.bind(req)
		if form.validate() {
			err := store.Posts.Update(post.Uid(), map[string]any{
				"Text":  form.Text,
				"Group": form.Group,
			})
			if err == types.ErrNotFound {
				serve404(wrt, req)
				return
			}
			if err != nil {
				serve500(wrt, req, err)
				return
			}

			statsInc("PostsEdited", 1)
			globals.metrics.postEdited()

			http.Redirect(wrt, req, postURL(post.Id), http.StatusFound)
			return
		}
	}

	render(wrt, req, http.StatusOK, "posts/post_create.html", pageContext{
		"form":    form,
		"is_edit": true,
		"post":    post,
	})
}
