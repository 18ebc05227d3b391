package test_data

import (
	"time"

	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/db/common"
	"github.com/yatube/yatube/server/store/types"
)

type TestData struct {
	UGen   *types.UidGenerator
	Users  []*types.User
	Recs   []common.AuthRecord
	Groups []*types.Group
	Posts  []*types.Post
	Now    time.Time
}

func initUsers(now time.Time, uGen *types.UidGenerator) []*types.User {
	users := make([]*types.User, 0, 3)
	users = append(users, &types.User{
		ObjHeader: types.ObjHeader{Id: uGen.GetStr()},
		Username:  "alice",
		FullName:  "Alice Liddell",
		Email:     "alice@test.example.com",
		UserAgent: "SomeAgent v1.2.3",
	})
	users = append(users, &types.User{
		ObjHeader: types.ObjHeader{Id: uGen.GetStr()},
		Username:  "bob",
		FullName:  "Bob Dobbs",
		Email:     "bob@test.example.com",
		UserAgent: "Firefox 110",
	})
	users = append(users, &types.User{
		ObjHeader: types.ObjHeader{Id: uGen.GetStr()},
		Username:  "carol",
		UserAgent: "curl/7.88",
	})
	for _, user := range users {
		user.CreatedAt = now
		user.UpdatedAt = now
		user.State = types.StateOK
		// Assign user.id from user.Id.
		user.Uid()
	}
	return users
}

func initAuthRecords(now time.Time, users []*types.User) []common.AuthRecord {
	recs := make([]common.AuthRecord, 0, 2)
	recs = append(recs, common.AuthRecord{
		Unique:  "basic:alice",
		UserId:  users[0].Id,
		Scheme:  "basic",
		AuthLvl: auth.LevelAuth,
		Secret:  []byte{'a', 'l', 'i', 'c', 'e'},
		Expires: now.Add(24 * time.Hour),
	})
	recs = append(recs, common.AuthRecord{
		Unique:  "basic:bob",
		UserId:  users[1].Id,
		Scheme:  "basic",
		AuthLvl: auth.LevelAuth,
		Secret:  []byte{'b', 'o', 'b'},
		Expires: now.Add(24 * time.Hour),
	})
	return recs
}

func initGroups(now time.Time, uGen *types.UidGenerator) []*types.Group {
	groups := []*types.Group{
		{
			ObjHeader:   types.ObjHeader{Id: uGen.GetStr(), CreatedAt: now, UpdatedAt: now},
			Title:       "Writers",
			Slug:        "writers",
			Description: "Everything about writing",
		},
		{
			ObjHeader:   types.ObjHeader{Id: uGen.GetStr(), CreatedAt: now, UpdatedAt: now},
			Title:       "Cats",
			Slug:        "cats",
			Description: "Photos and stories",
		},
	}
	for _, g := range groups {
		g.Uid()
	}
	return groups
}

// initPosts creates posts with distinct timestamps. Index 0 is the oldest.
// alice: 0, 1, 3, 4; bob: 2, 5. Group writers: 1, 2, 4; cats: 5.
func initPosts(now time.Time, uGen *types.UidGenerator, users []*types.User, groups []*types.Group) []*types.Post {
	spec := []struct {
		author int
		group  int
	}{
		{0, -1},
		{0, 0},
		{1, 0},
		{0, -1},
		{0, 0},
		{1, 1},
	}
	posts := make([]*types.Post, 0, len(spec))
	for i, ps := range spec {
		at := now.Add(time.Duration(i) * time.Minute)
		post := &types.Post{
			ObjHeader: types.ObjHeader{Id: uGen.GetStr(), CreatedAt: at, UpdatedAt: at},
			Author:    users[ps.author].Id,
			Text:      "Post number " + string(rune('A'+i)) + " with enough text to be truncated",
		}
		if ps.group >= 0 {
			post.Group = groups[ps.group].Id
		}
		post.Uid()
		posts = append(posts, post)
	}
	return posts
}

func InitTestData() *TestData {
	// Use fixed timestamp to make tests more predictable
	var now = time.Date(2022, time.March, 12, 11, 39, 24, 15, time.Local).UTC().Round(time.Millisecond)
	var uGen = &types.UidGenerator{}
	if err := uGen.Init(11, []byte("testtesttesttest")); err != nil {
		return nil
	}
	users := initUsers(now, uGen)
	groups := initGroups(now, uGen)
	return &TestData{
		UGen:   uGen,
		Users:  users,
		Recs:   initAuthRecords(now, users),
		Groups: groups,
		Posts:  initPosts(now, uGen, users, groups),
		Now:    now,
	}
}
