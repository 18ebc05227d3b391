// Package testsuite contains adapter tests shared by all database backends.
package testsuite

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/db/common/test_data"
	"github.com/yatube/yatube/server/store/adapter"
	types "github.com/yatube/yatube/server/store/types"
)

// Databases differ in timestamp precision and time zone of returned values.
var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(types.ObjHeader{}),
	cmpopts.EquateApproxTime(time.Millisecond),
	cmpopts.IgnoreFields(types.User{}, "UserAgent", "LastSeen"),
}

func RunUserCreate(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	for _, user := range td.Users {
		if err := adp.UserCreate(user); err != nil {
			t.Fatal(err)
		}
	}

	// Username must be unique.
	dupe := *td.Users[0]
	dupe.SetUid(td.UGen.Get())
	if err := adp.UserCreate(&dupe); err != types.ErrDuplicate {
		t.Error("Should be duplicate error but got", err)
	}
}

func RunUserGet(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	// Test not found
	got, err := adp.UserGet(td.UGen.Get())
	if err != nil || got != nil {
		t.Errorf("User should be nil, got %+v, %v", got, err)
	}

	got, err = adp.UserGet(td.Users[0].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(td.Users[0], got, cmpOpts...); diff != "" {
		t.Errorf("User mismatch (-want +got):\n%s", diff)
	}
}

func RunUserGetByUsername(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	got, err := adp.UserGetByUsername("nobody")
	if err != nil || got != nil {
		t.Errorf("User should be nil, got %+v, %v", got, err)
	}

	got, err = adp.UserGetByUsername(td.Users[1].Username)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Uid() != td.Users[1].Uid() {
		t.Errorf("Wrong user %+v", got)
	}
}

func RunUserGetAll(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	// Test not found (dummy UIDs).
	got, err := adp.UserGetAll(td.UGen.Get(), td.UGen.Get())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) > 0 {
		t.Error("result users should be zero length, got", len(got))
	}

	got, err = adp.UserGetAll(td.Users[0].Uid(), td.Users[1].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("resultUsers length mismatch: got %v want %v", len(got), 2)
	}
	found := map[string]bool{}
	for _, usr := range got {
		found[usr.Username] = true
	}
	if !found["alice"] || !found["bob"] {
		t.Errorf("Wrong users returned %v", found)
	}
}

func RunUserUpdate(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	now := td.Now.Add(time.Hour)
	update := map[string]any{
		"UserAgent": "Test Agent v0.11",
		"LastSeen":  now,
		"UpdatedAt": now,
	}
	if err := adp.UserUpdate(td.Users[0].Uid(), update); err != nil {
		t.Fatal(err)
	}

	got, err := adp.UserGet(td.Users[0].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if got.UserAgent != "Test Agent v0.11" {
		t.Errorf("UserAgent mismatch: got %v", got.UserAgent)
	}
	if got.LastSeen == nil || !got.LastSeen.Round(time.Millisecond).Equal(now.Round(time.Millisecond)) {
		t.Errorf("LastSeen mismatch: got %v want %v", got.LastSeen, now)
	}
	if !got.UpdatedAt.Round(time.Millisecond).Equal(now.Round(time.Millisecond)) {
		t.Errorf("UpdatedAt mismatch: got %v want %v", got.UpdatedAt, now)
	}
}

func RunAuthAddRecord(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	for _, rec := range td.Recs {
		err := adp.AuthAddRecord(types.ParseUid(rec.UserId), rec.Scheme, rec.Unique,
			rec.AuthLvl, rec.Secret, rec.Expires)
		if err != nil {
			t.Fatal(err)
		}
	}
	//Test duplicate
	err := adp.AuthAddRecord(td.Users[2].Uid(), td.Recs[0].Scheme,
		td.Recs[0].Unique, td.Recs[0].AuthLvl, td.Recs[0].Secret, td.Recs[0].Expires)
	if err != types.ErrDuplicate {
		t.Fatal("Should be duplicate error but got", err)
	}
}

func RunAuthGetRecord(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	rec := td.Recs[0]
	unique, lvl, secret, expires, err := adp.AuthGetRecord(types.ParseUid(rec.UserId), rec.Scheme)
	if err != nil {
		t.Fatal(err)
	}
	if unique != rec.Unique || lvl != rec.AuthLvl || string(secret) != string(rec.Secret) {
		t.Errorf("Record mismatch: got %v %v %s", unique, lvl, secret)
	}
	if !expires.Round(time.Millisecond).Equal(rec.Expires.Round(time.Millisecond)) {
		t.Errorf("Expires mismatch: got %v want %v", expires, rec.Expires)
	}

	if _, _, _, _, err = adp.AuthGetRecord(td.Users[2].Uid(), "basic"); err != types.ErrNotFound {
		t.Error("Should be ErrNotFound but got", err)
	}
}

func RunAuthGetUniqueRecord(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	rec := td.Recs[1]
	uid, lvl, secret, _, err := adp.AuthGetUniqueRecord(rec.Unique)
	if err != nil {
		t.Fatal(err)
	}
	if uid != types.ParseUid(rec.UserId) || lvl != rec.AuthLvl || string(secret) != string(rec.Secret) {
		t.Errorf("Record mismatch: got %v %v %s", uid, lvl, secret)
	}

	uid, _, _, _, err = adp.AuthGetUniqueRecord("basic:nobody")
	if err != nil || !uid.IsZero() {
		t.Errorf("Missing record must return zero uid, got %v, %v", uid, err)
	}
}

func RunAuthUpdRecord(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	rec := td.Recs[1]
	newSecret := []byte("new secret")
	err := adp.AuthUpdRecord(types.ParseUid(rec.UserId), rec.Scheme, rec.Unique,
		auth.LevelRoot, newSecret, time.Time{})
	if err != nil {
		t.Fatal(err)
	}

	_, lvl, secret, _, err := adp.AuthGetRecord(types.ParseUid(rec.UserId), rec.Scheme)
	if err != nil {
		t.Fatal(err)
	}
	if lvl != auth.LevelRoot || string(secret) != string(newSecret) {
		t.Errorf("Record not updated: %v %s", lvl, secret)
	}

	// Changing the unique value.
	err = adp.AuthUpdRecord(types.ParseUid(rec.UserId), rec.Scheme, "basic:robert",
		auth.LevelAuth, nil, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	uid, _, secret, _, err := adp.AuthGetUniqueRecord("basic:robert")
	if err != nil {
		t.Fatal(err)
	}
	if uid != types.ParseUid(rec.UserId) || string(secret) != string(newSecret) {
		t.Errorf("Unique not updated: %v %s", uid, secret)
	}
}

func RunAuthDelScheme(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	rec := td.Recs[1]
	if err := adp.AuthDelScheme(types.ParseUid(rec.UserId), rec.Scheme); err != nil {
		t.Fatal(err)
	}
	if _, _, _, _, err := adp.AuthGetRecord(types.ParseUid(rec.UserId), rec.Scheme); err != types.ErrNotFound {
		t.Error("Record should be deleted, got", err)
	}
}

func RunAuthDelAllRecords(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	rec := td.Recs[0]
	count, err := adp.AuthDelAllRecords(types.ParseUid(rec.UserId))
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Deleted count mismatch: got %v want %v", count, 1)
	}
}

// RunUserDelete soft-deletes bob and hard-deletes carol.
func RunUserDelete(t *testing.T, adp adapter.Adapter, td *test_data.TestData) {
	t.Helper()

	if err := adp.UserDelete(td.Users[1].Uid(), false); err != nil {
		t.Fatal(err)
	}
	got, err := adp.UserGet(td.Users[1].Uid())
	if err != nil || got != nil {
		t.Errorf("Soft-deleted user must not be returned, got %+v, %v", got, err)
	}
	got, err = adp.UserGetByUsername(td.Users[1].Username)
	if err != nil || got != nil {
		t.Errorf("Soft-deleted user must not be found by name, got %+v, %v", got, err)
	}

	if err := adp.UserDelete(td.Users[2].Uid(), true); err != nil {
		t.Fatal(err)
	}
	all, err := adp.UserGetAll(td.Users[0].Uid(), td.Users[1].Uid(), td.Users[2].Uid())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Uid() != td.Users[0].Uid() {
		t.Errorf("Only alice must remain, got %+v", all)
	}
}
