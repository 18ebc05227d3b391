// Package adapter defines what a storage backend must provide to the blog.
package adapter

import (
	"encoding/json"
	"time"

	"github.com/yatube/yatube/server/auth"
	t "github.com/yatube/yatube/server/store/types"
)

// Adapter is a storage backend. Only one adapter is active at a time, selected by
// the store_config.use_adapter setting.
type Adapter interface {
	// General

	// Open connects using the adapter section of store_config.
	Open(config json.RawMessage) error
	Close() error
	// IsOpen does not check the connection is alive.
	IsOpen() bool
	// GetDbVersion reads the schema version recorded in the database.
	GetDbVersion() (int, error)
	// CheckDbVersion fails unless the schema version equals Version().
	CheckDbVersion() error
	// GetName is the key of the adapter in store_config.adapters.
	GetName() string
	// SetMaxResults caps the size of a single listing. Zero or negative restores the default.
	SetMaxResults(val int) error
	// CreateDb creates the schema. With reset an existing database is dropped first.
	CreateDb(reset bool) error
	// UpgradeDb migrates an older schema to Version().
	UpgradeDb() error
	// Version is the schema version the adapter works with.
	Version() int
	// Stats of the connection pool, published via expvar and Prometheus.
	Stats() any

	// Users

	// UserCreate stores a new user. Taken username is t.ErrDuplicate.
	UserCreate(user *t.User) error
	// UserGet returns record for a given user ID. Missing user is (nil, nil).
	UserGet(uid t.Uid) (*t.User, error)
	// UserGetAll skips unknown and deleted IDs.
	UserGetAll(ids ...t.Uid) ([]t.User, error)
	// UserGetByUsername returns user record by the unique login name.
	UserGetByUsername(username string) (*t.User, error)
	// UserDelete deletes user record. Hard delete also removes auth records and posts.
	UserDelete(uid t.Uid, hard bool) error
	// UserUpdate sets the given fields, keyed by struct field name.
	UserUpdate(uid t.Uid, update map[string]any) error

	// Auth records. unique is the "scheme:login" string.

	// AuthGetUniqueRecord finds the record by login. Unknown login is (t.ZeroUid, ..., nil).
	AuthGetUniqueRecord(unique string) (t.Uid, auth.Level, []byte, time.Time, error)
	// AuthGetRecord finds the record of the user for the scheme. Missing record is t.ErrNotFound.
	AuthGetRecord(user t.Uid, scheme string) (string, auth.Level, []byte, time.Time, error)
	// AuthAddRecord stores credentials. Taken login is t.ErrDuplicate.
	AuthAddRecord(user t.Uid, scheme, unique string, authLvl auth.Level, secret []byte, expires time.Time) error
	// AuthDelScheme removes the record of the user for the scheme.
	AuthDelScheme(user t.Uid, scheme string) error
	// AuthDelAllRecords removes every record of the user and reports how many were removed.
	AuthDelAllRecords(uid t.Uid) (int, error)
	// AuthUpdRecord changes credentials. Blank login, nil secret and zero expiration are left unchanged.
	AuthUpdRecord(user t.Uid, scheme, unique string, authLvl auth.Level, secret []byte, expires time.Time) error

	// Groups

	// GroupCreate creates a group. Duplicate slug is t.ErrDuplicate.
	GroupCreate(group *t.Group) error
	// GroupGet loads a single group by slug. If the group does not exist the call returns (nil, nil).
	GroupGet(slug string) (*t.Group, error)
	// GroupGetAll loads all groups ordered by title.
	GroupGetAll() ([]t.Group, error)

	// Posts

	// PostCreate saves a post.
	PostCreate(post *t.Post) error
	// PostGet loads a single post. If the post does not exist the call returns (nil, nil).
	PostGet(id t.Uid) (*t.Post, error)
	// PostGetAll loads posts matching the query, newest first.
	PostGetAll(opts *t.QueryOpt) ([]t.Post, error)
	// PostCount counts posts matching the query. Limit and Offset are ignored.
	PostCount(opts *t.QueryOpt) (int, error)
	// PostUpdate updates post record. Missing post is t.ErrNotFound.
	PostUpdate(id t.Uid, update map[string]any) error
}
