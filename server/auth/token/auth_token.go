// Package token issues and checks the signed tokens stored in the session cookie.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/store"
	"github.com/yatube/yatube/server/store/types"
)

// Session token:
//
//	[8:uid][8:expires][1:auth-level][2:serial][32:HMAC-SHA256 of the preceding bytes]
const (
	payloadSize = 19
	tokenSize   = payloadSize + sha256.Size
)

type authenticator struct {
	name string
	key  []byte
	// Lifetime of a session unless the record says otherwise.
	sessionTTL time.Duration
	// Bumping the serial logs out every user.
	serial uint16
}

type sessionClaims struct {
	uid     types.Uid
	expires time.Time
	level   auth.Level
	serial  uint16
}

func (c *sessionClaims) marshal() []byte {
	buf := make([]byte, payloadSize, tokenSize)
	binary.LittleEndian.PutUint64(buf[0:], uint64(c.uid))
	binary.LittleEndian.PutUint64(buf[8:], uint64(c.expires.Unix()))
	buf[16] = byte(c.level)
	binary.LittleEndian.PutUint16(buf[17:], c.serial)
	return buf
}

func unmarshalClaims(buf []byte) *sessionClaims {
	return &sessionClaims{
		uid:     types.Uid(binary.LittleEndian.Uint64(buf[0:])),
		expires: time.Unix(int64(binary.LittleEndian.Uint64(buf[8:])), 0).UTC(),
		level:   auth.Level(buf[16]),
		serial:  binary.LittleEndian.Uint16(buf[17:]),
	}
}

func (ta *authenticator) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, ta.key)
	mac.Write(payload)
	return mac.Sum(nil)
}

// Init reads the signing key, the serial number and the session lifetime.
func (ta *authenticator) Init(jsonconf json.RawMessage, name string) error {
	if name == "" {
		return errors.New("auth_token: blank name")
	}
	if ta.name != "" {
		return errors.New("auth_token: " + name + " conflicts with already initialized " + ta.name)
	}

	var config struct {
		Key       []byte `json:"key"`
		SerialNum int    `json:"serial_num"`
		// Seconds.
		ExpireIn int `json:"expire_in"`
	}
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		return errors.New("auth_token: invalid config: " + err.Error())
	}
	if len(config.Key) < sha256.Size {
		return errors.New("auth_token: signing key must be at least 32 bytes")
	}
	if config.ExpireIn <= 0 {
		return errors.New("auth_token: expire_in must be positive")
	}
	if config.SerialNum < 0 || config.SerialNum > 0xffff {
		return errors.New("auth_token: serial_num out of range")
	}

	ta.name = name
	ta.key = config.Key
	ta.sessionTTL = time.Duration(config.ExpireIn) * time.Second
	ta.serial = uint16(config.SerialNum)
	return nil
}

func (ta *authenticator) IsInitialized() bool {
	return ta.name != ""
}

// Tokens are not stored anywhere.
func (authenticator) AddRecord(rec *auth.Rec, secret []byte) (*auth.Rec, error) {
	return nil, types.ErrUnsupported
}

func (authenticator) UpdateRecord(rec *auth.Rec, secret []byte) (*auth.Rec, error) {
	return nil, types.ErrUnsupported
}

// Authenticate verifies the signature, serial number and expiration of a session token.
func (ta *authenticator) Authenticate(token []byte) (*auth.Rec, []byte, error) {
	if len(token) != tokenSize {
		return nil, nil, types.ErrMalformed
	}
	payload := token[:payloadSize]
	if !hmac.Equal(token[payloadSize:], ta.sign(payload)) {
		return nil, nil, types.ErrFailed
	}

	claims := unmarshalClaims(payload)
	if claims.level > auth.LevelRoot {
		return nil, nil, types.ErrMalformed
	}
	if claims.serial != ta.serial {
		return nil, nil, types.ErrFailed
	}
	if claims.expires.Before(time.Now().Add(time.Second)) {
		return nil, nil, types.ErrExpired
	}

	return &auth.Rec{
		Uid:       claims.uid,
		AuthLevel: claims.level,
		Lifetime:  time.Until(claims.expires),
		State:     types.StateUndefined,
	}, nil, nil
}

// GenSecret issues a session token for the record. Zero lifetime means the configured default.
func (ta *authenticator) GenSecret(rec *auth.Rec) ([]byte, time.Time, error) {
	switch {
	case rec.Lifetime == 0:
		rec.Lifetime = ta.sessionTTL
	case rec.Lifetime < 0:
		return nil, time.Time{}, types.ErrExpired
	}

	claims := &sessionClaims{
		uid:     rec.Uid,
		expires: time.Now().Add(rec.Lifetime).UTC().Truncate(time.Second),
		level:   rec.AuthLevel,
		serial:  ta.serial,
	}
	payload := claims.marshal()
	return append(payload, ta.sign(payload)...), claims.expires, nil
}

func (authenticator) IsUnique(token []byte) (bool, error) {
	return false, types.ErrUnsupported
}

// DelRecords does nothing: tokens lapse on expiration or when the serial number changes.
func (authenticator) DelRecords(uid types.Uid) error {
	return nil
}

func init() {
	store.RegisterAuthScheme("token", &authenticator{})
}
