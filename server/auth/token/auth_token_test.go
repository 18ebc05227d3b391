package token

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/store/types"
)

func newTestAuthenticator(t *testing.T, serial int) *authenticator {
	t.Helper()
	conf, _ := json.Marshal(map[string]any{
		"key":        []byte("0123456789abcdef0123456789abcdef"),
		"serial_num": serial,
		"expire_in":  3600,
	})
	ta := &authenticator{}
	if err := ta.Init(conf, "token"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return ta
}

func TestInit(t *testing.T) {
	cases := []struct {
		conf string
		ok   bool
	}{
		{`{"key":"MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=","expire_in":60}`, true},
		{`{"key":"c2hvcnQ=","expire_in":60}`, false},
		{`{"key":"MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=","expire_in":0}`, false},
		{`{"key":"MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=","expire_in":60,"serial_num":70000}`, false},
		{`not json`, false},
	}
	for i, tc := range cases {
		err := (&authenticator{}).Init(json.RawMessage(tc.conf), "token")
		if (err == nil) != tc.ok {
			t.Errorf("Case %d: unexpected result %v", i, err)
		}
	}

	ta := newTestAuthenticator(t, 1)
	if !ta.IsInitialized() {
		t.Error("Authenticator must be initialized")
	}
	if err := ta.Init(nil, "token"); err == nil {
		t.Error("Repeated Init must fail")
	}
}

func TestGenSecretAuthenticate(t *testing.T) {
	ta := newTestAuthenticator(t, 1)

	rec := &auth.Rec{Uid: types.Uid(12345), AuthLevel: auth.LevelAuth}
	token, expires, err := ta.GenSecret(rec)
	if err != nil {
		t.Fatalf("GenSecret failed: %v", err)
	}
	if len(token) != tokenSize {
		t.Errorf("Expected %d byte token, got %d", tokenSize, len(token))
	}
	if rec.Lifetime != time.Hour {
		t.Errorf("Default lifetime not applied: %v", rec.Lifetime)
	}
	if time.Until(expires) > time.Hour+time.Second || time.Until(expires) < 59*time.Minute {
		t.Errorf("Unexpected expiration %v", expires)
	}

	got, challenge, err := ta.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if challenge != nil || got.Uid != rec.Uid || got.AuthLevel != auth.LevelAuth {
		t.Errorf("Unexpected record %+v", got)
	}

	// Tampered signature.
	bad := append([]byte{}, token...)
	bad[len(bad)-1] ^= 0xff
	if _, _, err := ta.Authenticate(bad); err != types.ErrFailed {
		t.Errorf("Tampered token: expected ErrFailed, got %v", err)
	}

	// Too short.
	if _, _, err := ta.Authenticate(token[:20]); err != types.ErrMalformed {
		t.Errorf("Short token: expected ErrMalformed, got %v", err)
	}

	// Serial number changed.
	other := newTestAuthenticator(t, 2)
	if _, _, err := other.Authenticate(token); err != types.ErrFailed {
		t.Errorf("Serial mismatch: expected ErrFailed, got %v", err)
	}
}

func TestGenSecretNegativeLifetime(t *testing.T) {
	ta := newTestAuthenticator(t, 1)
	if _, _, err := ta.GenSecret(&auth.Rec{Uid: types.Uid(1), Lifetime: -time.Second}); err != types.ErrExpired {
		t.Errorf("Expected ErrExpired, got %v", err)
	}

	token, _, _ := ta.GenSecret(&auth.Rec{Uid: types.Uid(1), Lifetime: 500 * time.Millisecond})
	if _, _, err := ta.Authenticate(token); err != types.ErrExpired {
		t.Errorf("Short-lived token: expected ErrExpired, got %v", err)
	}
}

func TestUnsupported(t *testing.T) {
	ta := newTestAuthenticator(t, 1)
	if _, err := ta.AddRecord(&auth.Rec{}, nil); err != types.ErrUnsupported {
		t.Errorf("AddRecord: %v", err)
	}
	if _, err := ta.UpdateRecord(&auth.Rec{}, nil); err != types.ErrUnsupported {
		t.Errorf("UpdateRecord: %v", err)
	}
	if _, err := ta.IsUnique(nil); err != types.ErrUnsupported {
		t.Errorf("IsUnique: %v", err)
	}
	if err := ta.DelRecords(types.Uid(1)); err != nil {
		t.Errorf("DelRecords: %v", err)
	}
}
