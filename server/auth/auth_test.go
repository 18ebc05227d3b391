package auth

import (
	"encoding/json"
	"testing"
)

func TestLevelText(t *testing.T) {
	cases := []struct {
		lvl  Level
		name string
	}{
		{LevelNone, ""},
		{LevelAnon, "anon"},
		{LevelAuth, "auth"},
		{LevelRoot, "root"},
	}
	for _, tc := range cases {
		if tc.lvl.String() != tc.name {
			t.Errorf("Level(%d).String() = '%s', want '%s'", tc.lvl, tc.lvl.String(), tc.name)
		}
		if ParseAuthLevel(tc.name) != tc.lvl {
			t.Errorf("ParseAuthLevel('%s') = %d", tc.name, ParseAuthLevel(tc.name))
		}
	}
	if Level(5).String() != "unkn" {
		t.Errorf("Invalid level must be 'unkn', got '%s'", Level(5).String())
	}
	if ParseAuthLevel("AUTH") != LevelAuth {
		t.Error("ParseAuthLevel must be case-insensitive")
	}
}

func TestLevelJSON(t *testing.T) {
	data, err := json.Marshal(LevelAuth)
	if err != nil || string(data) != `"auth"` {
		t.Fatalf("Marshal: %s, %v", data, err)
	}

	var lvl Level
	if err := json.Unmarshal([]byte(`"root"`), &lvl); err != nil || lvl != LevelRoot {
		t.Errorf("Unmarshal: %d, %v", lvl, err)
	}
	if err := json.Unmarshal([]byte(`"admin"`), &lvl); err == nil {
		t.Error("Unmarshal of unknown level must fail")
	}
	if err := lvl.UnmarshalJSON([]byte(`auth`)); err == nil {
		t.Error("Unquoted level must fail")
	}
}
