package types

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUidText(t *testing.T) {
	uid := Uid(0x1234567890abcdef)
	str := uid.String()
	if len(str) != uidBase64Unpadded {
		t.Fatalf("Invalid length of '%s'", str)
	}
	if got := ParseUid(str); got != uid {
		t.Errorf("ParseUid: expected %v, got %v", uid, got)
	}
	if ZeroUid.String() != "" {
		t.Error("Zero Uid must be an empty string")
	}
	for _, bad := range []string{"", "short", "toolongstring", "!!!!!!!!!!!"} {
		if !ParseUid(bad).IsZero() {
			t.Errorf("ParseUid('%s') must fail", bad)
		}
	}
}

func TestUidJSON(t *testing.T) {
	type wrapper struct {
		Id Uid
	}
	in := wrapper{Id: Uid(42)}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out wrapper
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Id != in.Id {
		t.Errorf("Expected %v, got %v", in.Id, out.Id)
	}

	if err := json.Unmarshal([]byte(`{"Id":""}`), &out); err != nil || !out.Id.IsZero() {
		t.Errorf("Empty string must decode to zero Uid, got %v, %v", out.Id, err)
	}
}

func TestUidCompare(t *testing.T) {
	if Uid(1).Compare(Uid(2)) != -1 || Uid(2).Compare(Uid(1)) != 1 || Uid(3).Compare(Uid(3)) != 0 {
		t.Error("Compare returned unexpected result")
	}
}

func TestObjHeader(t *testing.T) {
	var h ObjHeader
	h.SetUid(Uid(77))
	if h.Id != Uid(77).String() {
		t.Errorf("Unexpected Id '%s'", h.Id)
	}

	h2 := ObjHeader{Id: h.Id}
	if h2.Uid() != Uid(77) {
		t.Errorf("Uid() did not parse Id, got %v", h2.Uid())
	}

	h2.InitTimes()
	if h2.CreatedAt.IsZero() || !h2.CreatedAt.Equal(h2.UpdatedAt) || h2.IsDeleted() {
		t.Error("InitTimes did not initialize timestamps")
	}

	now := TimeNow()
	h2.DeletedAt = &now
	if !h2.IsDeleted() {
		t.Error("Header with DeletedAt must be deleted")
	}
	h2.InitTimes()
	if h2.IsDeleted() {
		t.Error("InitTimes must clear DeletedAt")
	}
}

func TestObjState(t *testing.T) {
	cases := []struct {
		in   string
		want ObjState
		err  bool
	}{
		{"", StateOK, false},
		{"ok", StateOK, false},
		{"SUSP", StateSuspended, false},
		{"del", StateDeleted, false},
		{"undef", StateUndefined, false},
		{"bogus", StateOK, true},
	}
	for _, tc := range cases {
		got, err := NewObjState(tc.in)
		if (err != nil) != tc.err || got != tc.want {
			t.Errorf("NewObjState(%q) = %v, %v", tc.in, got, err)
		}
	}

	var st ObjState
	if err := json.Unmarshal([]byte(`"susp"`), &st); err != nil || st != StateSuspended {
		t.Errorf("Unmarshal: %v, %v", st, err)
	}
	if err := st.Scan(int64(20)); err != nil || st != StateDeleted {
		t.Errorf("Scan: %v, %v", st, err)
	}
	if err := st.Scan("20"); err == nil {
		t.Error("Scan of a string must fail")
	}
}

func TestStringers(t *testing.T) {
	g := &Group{Title: "Cats", Slug: "cats"}
	if g.String() != "Cats" {
		t.Errorf("Group string '%s'", g.String())
	}

	u := &User{Username: "leo"}
	if u.String() != "leo" || u.DisplayName() != "leo" {
		t.Errorf("User string '%s', display name '%s'", u.String(), u.DisplayName())
	}
	u.FullName = "Leo Tolstoy"
	if u.DisplayName() != "Leo Tolstoy" {
		t.Errorf("Display name '%s'", u.DisplayName())
	}

	cases := []struct {
		text string
		want string
	}{
		{"short", "short"},
		{"exactly fifteen", "exactly fifteen"},
		{"This is a very long post text", "This is a very "},
		{"Привет, как твои дела?", "Привет, как тво"},
		{"👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽", "👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽👍🏽"},
	}
	for _, tc := range cases {
		p := &Post{Text: tc.text}
		if diff := cmp.Diff(tc.want, p.String()); diff != "" {
			t.Errorf("Post.String() mismatch (-want +got):\n%s", diff)
		}
	}

	if Truncate("abc", 0) != "" {
		t.Error("Truncate to zero must return empty string")
	}
}

func TestPostUids(t *testing.T) {
	p := &Post{Author: Uid(5).String()}
	if p.AuthorUid() != Uid(5) {
		t.Errorf("AuthorUid %v", p.AuthorUid())
	}
	if !p.GroupUid().IsZero() {
		t.Errorf("GroupUid must be zero for a post without a group")
	}
}
