package common

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/yatube/yatube/server/store/types"
)

func genTestPosts() []types.Post {
	base := time.Date(2022, time.March, 1, 10, 0, 0, 0, time.UTC)
	posts := []types.Post{
		{ObjHeader: types.ObjHeader{CreatedAt: base.Add(1 * time.Hour)}, Text: "1"},
		{ObjHeader: types.ObjHeader{CreatedAt: base.Add(3 * time.Hour)}, Text: "3"},
		{ObjHeader: types.ObjHeader{CreatedAt: base.Add(2 * time.Hour)}, Text: "2a"},
		{ObjHeader: types.ObjHeader{CreatedAt: base.Add(2 * time.Hour)}, Text: "2b"},
		{ObjHeader: types.ObjHeader{CreatedAt: base}, Text: "0"},
	}
	for i := range posts {
		posts[i].SetUid(types.Uid(100 + i))
	}
	return posts
}

func order(posts []types.Post) string {
	var texts []string
	for i := range posts {
		texts = append(texts, posts[i].Text)
	}
	return strings.Join(texts, ",")
}

func TestWindow(t *testing.T) {
	cases := []struct {
		opts   *types.QueryOpt
		limit  int
		offset int
	}{
		{nil, 50, 0},
		{&types.QueryOpt{}, 50, 0},
		{&types.QueryOpt{Limit: 10, Offset: 20}, 10, 20},
		{&types.QueryOpt{Limit: 100}, 50, 0},
		{&types.QueryOpt{Limit: -1, Offset: -5}, 50, 0},
	}
	for i, tc := range cases {
		limit, offset := Window(tc.opts, 50)
		if limit != tc.limit || offset != tc.offset {
			t.Errorf("Case %d: expected %d/%d, got %d/%d", i, tc.limit, tc.offset, limit, offset)
		}
	}
}

func TestUpdateByMap(t *testing.T) {
	now := time.Now()
	cols, args := UpdateByMap(map[string]any{"UpdatedAt": now, "Text": "hello", "grp": nil})

	if diff := cmp.Diff([]string{"text=?", "updatedat=?", "grp=?"}, cols); diff == "" {
		t.Error("Columns must be sorted by field name")
	}
	if diff := cmp.Diff([]string{"text=?", "updatedat=?"}, cols[1:]); diff != "" {
		t.Errorf("Unexpected columns (-want +got):\n%s", diff)
	}
	if cols[0] != "grp=?" || args[0] != nil || args[1] != "hello" || args[2] != now {
		t.Errorf("Unexpected arguments %v", args)
	}
}

func TestNormalizeUpdateMap(t *testing.T) {
	got := NormalizeUpdateMap(map[string]any{"Text": "x", "UpdatedAt": 1})
	if diff := cmp.Diff(map[string]any{"text": "x", "updatedat": 1}, got); diff != "" {
		t.Errorf("Unexpected map (-want +got):\n%s", diff)
	}
}

func TestSortPosts(t *testing.T) {
	posts := genTestPosts()
	SortPosts(posts)
	if got := order(posts); got != "3,2b,2a,1,0" {
		t.Errorf("Wrong order: %s", got)
	}
}

func TestSelectPage(t *testing.T) {
	posts := genTestPosts()
	SortPosts(posts)

	if got := order(SelectPage(posts, &types.QueryOpt{Limit: 2}, 10)); got != "3,2b" {
		t.Errorf("First page: %s", got)
	}
	if got := order(SelectPage(posts, &types.QueryOpt{Limit: 2, Offset: 4}, 10)); got != "0" {
		t.Errorf("Last page: %s", got)
	}
	if got := SelectPage(posts, &types.QueryOpt{Limit: 2, Offset: 5}, 10); len(got) != 0 {
		t.Errorf("Past the end must be empty, got %d", len(got))
	}
	if got := order(SelectPage(posts, nil, 3)); got != "3,2b,2a" {
		t.Errorf("Max results not applied: %s", got)
	}
}
