package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/store/adapter"
	"github.com/yatube/yatube/server/store/types"
)

// fakeAdapter implements only the methods exercised by the tests.
type fakeAdapter struct {
	adapter.Adapter

	open       bool
	config     json.RawMessage
	maxResults int

	users        []*types.User
	groups       []*types.Group
	posts        []*types.Post
	postUpdate   map[string]any
	lastUsername string
}

func (a *fakeAdapter) GetName() string                { return "fake" }
func (a *fakeAdapter) IsOpen() bool                   { return a.open }
func (a *fakeAdapter) SetMaxResults(val int) error    { a.maxResults = val; return nil }
func (a *fakeAdapter) CheckDbVersion() error          { return nil }
func (a *fakeAdapter) Close() error                   { a.open = false; return nil }
func (a *fakeAdapter) UserCreate(u *types.User) error { a.users = append(a.users, u); return nil }
func (a *fakeAdapter) Open(config json.RawMessage) error {
	a.open = true
	a.config = config
	return nil
}
func (a *fakeAdapter) UserGetByUsername(name string) (*types.User, error) {
	a.lastUsername = name
	return nil, nil
}
func (a *fakeAdapter) GroupCreate(g *types.Group) error { a.groups = append(a.groups, g); return nil }
func (a *fakeAdapter) GroupGetAll() ([]types.Group, error) {
	return []types.Group{{Title: "Zebras"}, {Title: "Ants"}, {Title: "Moths"}}, nil
}
func (a *fakeAdapter) PostCreate(p *types.Post) error { a.posts = append(a.posts, p); return nil }
func (a *fakeAdapter) PostUpdate(id types.Uid, update map[string]any) error {
	a.postUpdate = update
	return nil
}
func (a *fakeAdapter) AuthGetRecord(user types.Uid, scheme string) (string, auth.Level, []byte, time.Time, error) {
	return scheme + ":leo", auth.LevelAuth, nil, time.Time{}, nil
}

const testStoreConfig = `{
	"uid_key": "la6YsO+bNX/+XIkOqc5Svw==",
	"max_results": 256,
	"adapters": {"fake": {"database": "yatube"}}
}`

func openFake(t *testing.T) *fakeAdapter {
	t.Helper()
	fake := &fakeAdapter{}
	adp = nil
	availableAdapters = map[string]adapter.Adapter{}
	RegisterAdapter(fake)
	if err := Store.Open(1, json.RawMessage(testStoreConfig)); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return fake
}

func TestOpenAdapter(t *testing.T) {
	fake := openFake(t)
	if !Store.IsOpen() || Store.GetAdapterName() != "fake" {
		t.Fatal("Adapter is not open")
	}
	if fake.maxResults != 256 {
		t.Errorf("Expected max results 256, got %d", fake.maxResults)
	}
	if string(fake.config) != `{"database": "yatube"}` {
		t.Errorf("Unexpected adapter config %s", fake.config)
	}
	if err := Store.Open(1, json.RawMessage(testStoreConfig)); err == nil {
		t.Error("Second Open must fail")
	}
	if err := Store.Close(); err != nil || Store.IsOpen() {
		t.Errorf("Close failed: %v", err)
	}
}

func TestOpenAdapterErrors(t *testing.T) {
	adp = nil
	availableAdapters = map[string]adapter.Adapter{}
	if err := openAdapter(1, json.RawMessage(`{}`)); err == nil {
		t.Error("Expected error with no adapters registered")
	}
	RegisterAdapter(&fakeAdapter{})
	if err := openAdapter(1, json.RawMessage(`{"use_adapter":"postgres"}`)); err == nil {
		t.Error("Expected error for unavailable adapter")
	}
	if err := openAdapter(1, json.RawMessage(`{not json}`)); err == nil {
		t.Error("Expected config parse error")
	}
	if err := openAdapter(5000, json.RawMessage(testStoreConfig)); err == nil {
		t.Error("Expected invalid worker ID error")
	}
}

func TestRegisterAdapterPanics(t *testing.T) {
	availableAdapters = map[string]adapter.Adapter{}
	RegisterAdapter(&fakeAdapter{})

	defer func() {
		if recover() == nil {
			t.Error("Duplicate registration must panic")
		}
	}()
	RegisterAdapter(&fakeAdapter{})
}

func TestUidEncoding(t *testing.T) {
	openFake(t)
	defer Store.Close()

	uid := Store.GetUid()
	if uid.IsZero() {
		t.Fatal("GetUid returned zero")
	}
	if EncodeUid(DecodeUid(uid)) != uid {
		t.Error("DecodeUid/EncodeUid do not round trip")
	}
	if DecodeUid(types.ZeroUid) != 0 || !EncodeUid(0).IsZero() {
		t.Error("Zero values must map to zero")
	}
}

func TestUsersCreate(t *testing.T) {
	fake := openFake(t)
	defer Store.Close()

	user, err := Users.Create(&types.User{Username: "LeoT", FullName: "Leo\u0301"})
	if err != nil {
		t.Fatal(err)
	}
	if user.Id == "" || user.CreatedAt.IsZero() || user.Username != "leot" {
		t.Errorf("Unexpected user %+v", user)
	}
	if user.FullName != "Le\u00f3" {
		t.Errorf("Full name is not NFC normalized: %q", user.FullName)
	}
	if len(fake.users) != 1 {
		t.Errorf("Adapter received %d users", len(fake.users))
	}

	Users.GetByUsername("MiXeD")
	if fake.lastUsername != "mixed" {
		t.Errorf("Username lookup must be lowercase, got '%s'", fake.lastUsername)
	}

	unique, _, _, _, err := Users.GetAuthRecord(user.Uid(), "basic")
	if err != nil || unique != "leo" {
		t.Errorf("GetAuthRecord must strip the scheme, got '%s', %v", unique, err)
	}
}

func TestGroupsAndPosts(t *testing.T) {
	fake := openFake(t)
	defer Store.Close()

	if _, err := Groups.Create(&types.Group{Title: "No slug"}); err != types.ErrMalformed {
		t.Errorf("Expected ErrMalformed for a group without slug, got %v", err)
	}
	group, err := Groups.Create(&types.Group{Title: "  Cats  ", Slug: "cats"})
	if err != nil || group.Title != "Cats" || group.Id == "" {
		t.Errorf("Unexpected group %+v, %v", group, err)
	}

	groups, _ := Groups.GetAll()
	var titles []string
	for _, g := range groups {
		titles = append(titles, g.Title)
	}
	if diff := cmp.Diff([]string{"Ants", "Moths", "Zebras"}, titles); diff != "" {
		t.Errorf("Groups are not sorted by title (-want +got):\n%s", diff)
	}

	if _, err := Posts.Create(&types.Post{Text: "orphan"}); err != types.ErrMalformed {
		t.Errorf("Expected ErrMalformed for a post without author, got %v", err)
	}
	post, err := Posts.Create(&types.Post{Author: Store.GetUidString(), Text: "Cafe\u0301"})
	if err != nil {
		t.Fatal(err)
	}
	if post.Text != "Caf\u00e9" || post.Uid().IsZero() || !post.CreatedAt.Equal(post.UpdatedAt) {
		t.Errorf("Unexpected post %+v", post)
	}

	if err := Posts.Update(post.Uid(), map[string]any{"Text": "Cafe\u0301 again"}); err != nil {
		t.Fatal(err)
	}
	if fake.postUpdate["Text"] != "Caf\u00e9 again" {
		t.Errorf("Updated text is not normalized: %q", fake.postUpdate["Text"])
	}
	if _, ok := fake.postUpdate["UpdatedAt"]; !ok {
		t.Error("UpdatedAt must be set on update")
	}
}

func TestAuthSchemes(t *testing.T) {
	saved := authHandlers
	defer func() { authHandlers = saved }()
	authHandlers = nil

	defer func() {
		if recover() == nil {
			t.Error("Nil handler must panic")
		}
	}()

	if Store.GetAuthNames() != nil {
		t.Error("Expected no auth names")
	}
	RegisterAuthScheme("Token", struct{ auth.AuthHandler }{})
	RegisterAuthScheme("basic", struct{ auth.AuthHandler }{})
	if diff := cmp.Diff([]string{"basic", "token"}, Store.GetAuthNames()); diff != "" {
		t.Errorf("Auth names mismatch (-want +got):\n%s", diff)
	}
	if Store.GetAuthHandler("TOKEN") == nil {
		t.Error("Handler lookup must be case-insensitive")
	}
	RegisterAuthScheme("nil", nil)
}
