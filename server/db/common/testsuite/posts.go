package testsuite

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/yatube/yatube/server/db/common/test_data"
	"github.com/yatube/yatube/server/store/adapter"
	types "github.com/yatube/yatube/server/store/types"
)

func RunGroupCreate(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	for _, group := range td.Groups {
		if err := adp.GroupCreate(group); err != nil {
			t.Fatal(err)
		}
	}

	// Slug must be unique.
	dupe := *td.Groups[0]
	dupe.SetUid(td.UGen.Get())
	dupe.Title = "Another title"
	if err := adp.GroupCreate(&dupe); err != types.ErrDuplicate {
		t.Error("Should be duplicate error but got", err)
	}
}

func RunGroupGet(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	got, err := adp.GroupGet("no-such-group")
	if err != nil || got != nil {
		t.Errorf("Group should be nil, got %+v, %v", got, err)
	}

	got, err = adp.GroupGet(td.Groups[1].Slug)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(td.Groups[1], got, cmpOpts...); diff != "" {
		t.Errorf("Group mismatch (-want +got):\n%s", diff)
	}
}

func RunGroupGetAll(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	got, err := adp.GroupGetAll()
	if err != nil {
		t.Fatal(err)
	}
	var slugs []string
	for _, g := range got {
		slugs = append(slugs, g.Slug)
	}
	// Sorted by title: Cats, Writers.
	if diff := cmp.Diff([]string{"cats", "writers"}, slugs); diff != "" {
		t.Errorf("Groups mismatch (-want +got):\n%s", diff)
	}
}

func RunPostCreate(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	for _, post := range td.Posts {
		if err := adp.PostCreate(post); err != nil {
			t.Fatal(err)
		}
	}
}

func RunPostGet(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	got, err := adp.PostGet(td.UGen.Get())
	if err != nil || got != nil {
		t.Errorf("Post should be nil, got %+v, %v", got, err)
	}

	for _, i := range []int{0, 5} {
		got, err = adp.PostGet(td.Posts[i].Uid())
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(td.Posts[i], got, cmpOpts...); diff != "" {
			t.Errorf("Post %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func postIds(posts []types.Post) []string {
	ids := []string{}
	for _, p := range posts {
		ids = append(ids, p.Id)
	}
	return ids
}

func wantIds(td *test_data.TestData, idx ...int) []string {
	ids := []string{}
	for _, i := range idx {
		ids = append(ids, td.Posts[i].Id)
	}
	return ids
}

func RunPostGetAll(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	cases := []struct {
		name string
		opts *types.QueryOpt
		want []int
	}{
		{"all", nil, []int{5, 4, 3, 2, 1, 0}},
		{"first page", &types.QueryOpt{Limit: 4}, []int{5, 4, 3, 2}},
		{"second page", &types.QueryOpt{Limit: 4, Offset: 4}, []int{1, 0}},
		{"past the end", &types.QueryOpt{Limit: 4, Offset: 8}, []int{}},
		{"author", &types.QueryOpt{Author: td.Users[0].Uid()}, []int{4, 3, 1, 0}},
		{"group", &types.QueryOpt{Group: td.Groups[0].Uid()}, []int{4, 2, 1}},
		{"author and group", &types.QueryOpt{Author: td.Users[1].Uid(), Group: td.Groups[0].Uid()}, []int{2}},
		{"empty group", &types.QueryOpt{Group: td.UGen.Get()}, []int{}},
	}
	for _, tc := range cases {
		got, err := adp.PostGetAll(tc.opts)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if diff := cmp.Diff(wantIds(td, tc.want...), postIds(got)); diff != "" {
			t.Errorf("%s: posts mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func RunPostCount(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	cases := []struct {
		opts *types.QueryOpt
		want int
	}{
		{nil, 6},
		{&types.QueryOpt{Author: td.Users[1].Uid()}, 2},
		{&types.QueryOpt{Group: td.Groups[1].Uid()}, 1},
		{&types.QueryOpt{Author: td.Users[2].Uid()}, 0},
		// Limit does not apply to counts.
		{&types.QueryOpt{Limit: 2}, 6},
	}
	for i, tc := range cases {
		got, err := adp.PostCount(tc.opts)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("Case %d: count mismatch: got %v want %v", i, got, tc.want)
		}
	}
}

func RunPostUpdate(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	now := td.Now.Add(time.Hour)
	post := td.Posts[1]
	err := adp.PostUpdate(post.Uid(), map[string]any{
		"Text":      "Edited text",
		"Group":     "",
		"UpdatedAt": now,
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := adp.PostGet(post.Uid())
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "Edited text" || got.Group != "" || got.Author != post.Author {
		t.Errorf("Post not updated: %+v", got)
	}
	if !got.CreatedAt.Round(time.Millisecond).Equal(post.CreatedAt.Round(time.Millisecond)) {
		t.Errorf("CreatedAt must not change: got %v want %v", got.CreatedAt, post.CreatedAt)
	}

	// Moving the post to another group.
	if err = adp.PostUpdate(post.Uid(), map[string]any{"Group": td.Groups[1].Id}); err != nil {
		t.Fatal(err)
	}
	if got, _ = adp.PostGet(post.Uid()); got.Group != td.Groups[1].Id {
		t.Errorf("Group mismatch: got %v want %v", got.Group, td.Groups[1].Id)
	}

	if err = adp.PostUpdate(td.UGen.Get(), map[string]any{"Text": "x"}); err != types.ErrNotFound {
		t.Error("Should be ErrNotFound but got", err)
	}
}

func RunVersion(t *testing.T, adp adapter.Adapter) {
	t.Helper()

	vers, err := adp.GetDbVersion()
	if err != nil {
		t.Fatal(err)
	}
	if vers != adp.Version() {
		t.Errorf("Version mismatch: got %v want %v", vers, adp.Version())
	}
	if err = adp.CheckDbVersion(); err != nil {
		t.Error(err)
	}
}
