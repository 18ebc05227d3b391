package main

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/auth/mock_auth"
	"github.com/yatube/yatube/server/store"
	"github.com/yatube/yatube/server/store/mock_store"
	"github.com/yatube/yatube/server/store/types"
)

type mocks struct {
	store  *mock_store.MockPersistentStorageInterface
	users  *mock_store.MockUsersPersistenceInterface
	groups *mock_store.MockGroupsPersistenceInterface
	posts  *mock_store.MockPostsPersistenceInterface
	basic  *mock_auth.MockAuthHandler
}

func setupMocks(t *testing.T) *mocks {
	ctrl := gomock.NewController(t)
	m := &mocks{
		store:  mock_store.NewMockPersistentStorageInterface(ctrl),
		users:  mock_store.NewMockUsersPersistenceInterface(ctrl),
		groups: mock_store.NewMockGroupsPersistenceInterface(ctrl),
		posts:  mock_store.NewMockPostsPersistenceInterface(ctrl),
		basic:  mock_auth.NewMockAuthHandler(ctrl),
	}
	origStore, origUsers, origGroups, origPosts := store.Store, store.Users, store.Groups, store.Posts
	store.Store, store.Users, store.Groups, store.Posts = m.store, m.users, m.groups, m.posts
	t.Cleanup(func() {
		store.Store, store.Users, store.Groups, store.Posts = origStore, origUsers, origGroups, origPosts
	})
	m.store.EXPECT().GetAuthHandler("basic").Return(m.basic).AnyTimes()
	return m
}

func TestGenDb(t *testing.T) {
	raw, err := os.ReadFile("data.json")
	if err != nil {
		t.Fatal(err)
	}
	var data Data
	if err = json.Unmarshal(raw, &data); err != nil {
		t.Fatal("Failed to parse sample data:", err)
	}

	m := setupMocks(t)
	m.basic.EXPECT().Init(gomock.Any(), "basic").Return(nil)

	nextId := types.Uid(100)
	users := make(map[string]*types.User)
	m.users.EXPECT().Create(gomock.Any()).Times(len(data.Users)).
		DoAndReturn(func(user *types.User) (*types.User, error) {
			nextId++
			user.SetUid(nextId)
			users[user.Username] = user
			return user, nil
		})
	m.basic.EXPECT().AddRecord(gomock.Any(), gomock.Any()).Times(len(data.Users)).
		DoAndReturn(func(rec *auth.Rec, secret []byte) (*auth.Rec, error) {
			return rec, nil
		})

	groups := make(map[string]*types.Group)
	m.groups.EXPECT().Create(gomock.Any()).Times(len(data.Groups)).
		DoAndReturn(func(group *types.Group) (*types.Group, error) {
			nextId++
			group.SetUid(nextId)
			groups[group.Slug] = group
			return group, nil
		})

	var posts []*types.Post
	m.posts.EXPECT().Create(gomock.Any()).Times(len(data.Posts)).
		DoAndReturn(func(post *types.Post) (*types.Post, error) {
			nextId++
			post.SetUid(nextId)
			posts = append(posts, post)
			return post, nil
		})

	if err = genDb(&data, nil); err != nil {
		t.Fatal("genDb failed:", err)
	}

	if users["dave"] == nil || users["dave"].State != types.StateSuspended {
		t.Error("User 'dave' must be suspended")
	}
	if alice := users["alice"]; alice == nil || alice.CreatedAt.After(time.Now().Add(-139*time.Hour)) {
		t.Error("User 'alice' must be created 140 hours ago")
	}
	if posts[0].Author != users["alice"].Id || posts[0].Group != groups["cats"].Id {
		t.Errorf("First post: unexpected author '%s' or group '%s'", posts[0].Author, posts[0].Group)
	}
	if posts[2].Group != "" {
		t.Errorf("Third post must have no group, got '%s'", posts[2].Group)
	}
	for i := 1; i < len(posts); i++ {
		if !posts[i].CreatedAt.After(posts[i-1].CreatedAt) {
			t.Errorf("Post %d must be newer than post %d", i, i-1)
		}
	}
}

func TestGenDbUnknownAuthor(t *testing.T) {
	m := setupMocks(t)
	m.basic.EXPECT().Init(gomock.Any(), "basic").Return(nil)
	m.users.EXPECT().Create(gomock.Any()).DoAndReturn(func(user *types.User) (*types.User, error) {
		user.SetUid(types.Uid(1))
		return user, nil
	})
	m.basic.EXPECT().AddRecord(gomock.Any(), []byte("alice:alice123")).Return(&auth.Rec{}, nil)

	data := &Data{
		Users: []User{{Username: "alice", Password: "alice123"}},
		Posts: []Post{{Author: "mallory", Text: "Who am I?"}},
	}
	if err := genDb(data, nil); err == nil {
		t.Error("Post by an unknown author must fail")
	}
}

func TestGenDbEmpty(t *testing.T) {
	setupMocks(t)
	if err := genDb(&Data{}, nil); err != nil {
		t.Error("Empty data must not fail:", err)
	}
}

func TestGetCreatedTime(t *testing.T) {
	now := time.Now()
	if got := getCreatedTime("-2h"); got.After(now.Add(-time.Hour)) || got.Before(now.Add(-3*time.Hour)) {
		t.Errorf("getCreatedTime('-2h'): unexpected %s", got)
	}
	if got := getCreatedTime(""); got.Before(now.Add(-time.Second)) {
		t.Errorf("getCreatedTime(''): unexpected %s", got)
	}
}
