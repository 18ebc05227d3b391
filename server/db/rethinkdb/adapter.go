//go:build rethinkdb
// +build rethinkdb

// Package rethinkdb is a database adapter for RethinkDB.
package rethinkdb

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/db/common"
	"github.com/yatube/yatube/server/store"
	adp "github.com/yatube/yatube/server/store/adapter"
	t "github.com/yatube/yatube/server/store/types"
	rdb "gopkg.in/rethinkdb/rethinkdb-go.v6"
)

// adapter holds RethinkDb connection data.
type adapter struct {
	conn       *rdb.Session
	dbName     string
	maxResults int
	version    int
}

const (
	defaultHost     = "localhost:28015"
	defaultDatabase = "yatube"

	adpVersion = 101

	adapterName = "rethinkdb"

	defaultMaxResults = 1024
)

// See https://godoc.org/github.com/rethinkdb/rethinkdb-go#ConnectOpts for explanations.
type configType struct {
	Database      string `json:"database,omitempty"`
	Addresses     any    `json:"addresses,omitempty"`
	Username      string `json:"username,omitempty"`
	Password      string `json:"password,omitempty"`
	AuthKey       string `json:"authkey,omitempty"`
	Timeout       int    `json:"timeout,omitempty"`
	WriteTimeout  int    `json:"write_timeout,omitempty"`
	ReadTimeout   int    `json:"read_timeout,omitempty"`
	InitialCap    int    `json:"initial_cap,omitempty"`
	MaxOpen       int    `json:"max_open,omitempty"`
	DiscoverHosts bool   `json:"discover_hosts,omitempty"`
}

// Open initializes rethinkdb session
func (a *adapter) Open(jsonconfig json.RawMessage) error {
	if a.conn != nil {
		return errors.New("adapter rethinkdb is already connected")
	}

	if len(jsonconfig) < 2 {
		return errors.New("adapter rethinkdb missing config")
	}

	var err error
	var config configType
	if err = json.Unmarshal(jsonconfig, &config); err != nil {
		return errors.New("adapter rethinkdb failed to parse config: " + err.Error())
	}

	var opts rdb.ConnectOpts

	if config.Addresses == nil {
		opts.Address = defaultHost
	} else if host, ok := config.Addresses.(string); ok {
		opts.Address = host
	} else if ihosts, ok := config.Addresses.([]any); ok && len(ihosts) > 0 {
		hosts := make([]string, len(ihosts))
		for i, ih := range ihosts {
			h, ok := ih.(string)
			if !ok || h == "" {
				return errors.New("adapter rethinkdb invalid config.Addresses value")
			}
			hosts[i] = h
		}
		opts.Addresses = hosts
	} else {
		return errors.New("adapter rethinkdb failed to parse config.Addresses")
	}

	if config.Database == "" {
		a.dbName = defaultDatabase
	} else {
		a.dbName = config.Database
	}

	if a.maxResults <= 0 {
		a.maxResults = defaultMaxResults
	}

	opts.Database = a.dbName
	opts.Username = config.Username
	opts.Password = config.Password
	opts.AuthKey = config.AuthKey
	opts.Timeout = time.Duration(config.Timeout) * time.Second
	opts.WriteTimeout = time.Duration(config.WriteTimeout) * time.Second
	opts.ReadTimeout = time.Duration(config.ReadTimeout) * time.Second
	opts.InitialCap = config.InitialCap
	opts.MaxOpen = config.MaxOpen
	opts.DiscoverHosts = config.DiscoverHosts

	a.conn, err = rdb.Connect(opts)
	if err != nil {
		return err
	}

	a.version = -1

	return nil
}

// Close closes the underlying database connection
func (a *adapter) Close() error {
	var err error
	if a.conn != nil {
		// Close will wait for all outstanding requests to finish
		err = a.conn.Close()
		a.conn = nil
		a.version = -1
	}
	return err
}

// IsOpen returns true if connection to database has been established. It does not check if
// connection is actually live.
func (a *adapter) IsOpen() bool {
	return a.conn != nil
}

// GetDbVersion returns current database version.
func (a *adapter) GetDbVersion() (int, error) {
	if a.version > 0 {
		return a.version, nil
	}

	cursor, err := rdb.DB(a.dbName).Table("kvmeta").Get("version").Field("value").Run(a.conn)
	if err != nil {
		if isMissingDb(err) {
			err = errors.New("Database not initialized")
		}
		return -1, err
	}
	defer cursor.Close()

	if cursor.IsNil() {
		return -1, errors.New("Database not initialized")
	}

	var vers int
	if err = cursor.One(&vers); err != nil {
		return -1, err
	}

	a.version = vers

	return vers, nil
}

func (a *adapter) updateDbVersion(v int) error {
	a.version = -1
	_, err := rdb.DB(a.dbName).Table("kvmeta").Get("version").
		Update(map[string]any{"value": v}).RunWrite(a.conn)
	return err
}

// CheckDbVersion checks whether the actual DB version matches the expected version of this adapter.
func (a *adapter) CheckDbVersion() error {
	version, err := a.GetDbVersion()
	if err != nil {
		return err
	}

	if version != adpVersion {
		return errors.New("Invalid database version " + strconv.Itoa(version) +
			". Expected " + strconv.Itoa(adpVersion))
	}

	return nil
}

// Version returns adapter version.
func (adapter) Version() int {
	return adpVersion
}

// Stats returns connection state.
func (a *adapter) Stats() any {
	if a.conn == nil {
		return nil
	}
	return map[string]bool{"Connected": a.conn.IsConnected()}
}

// GetName returns string that adapter uses to register itself with store.
func (a *adapter) GetName() string {
	return adapterName
}

// SetMaxResults configures how many results can be returned in a single DB call.
func (a *adapter) SetMaxResults(val int) error {
	if val <= 0 {
		a.maxResults = defaultMaxResults
	} else {
		a.maxResults = val
	}

	return nil
}

// CreateDb initializes the storage. If reset is true, the database is first deleted losing all the data.
func (a *adapter) CreateDb(reset bool) error {
	// Drop database if exists, ignore error if it does not.
	if reset {
		rdb.DBDrop(a.dbName).RunWrite(a.conn)
	}

	if _, err := rdb.DBCreate(a.dbName).RunWrite(a.conn); err != nil {
		return err
	}

	// Table with metadata key-value pairs.
	if _, err := rdb.DB(a.dbName).TableCreate("kvmeta", rdb.TableCreateOpts{PrimaryKey: "key"}).RunWrite(a.conn); err != nil {
		return err
	}

	// Users
	if _, err := rdb.DB(a.dbName).TableCreate("users", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}
	// Users are looked up by login name.
	if _, err := rdb.DB(a.dbName).Table("users").IndexCreate("Username").RunWrite(a.conn); err != nil {
		return err
	}

	// User authentication records {unique, userid, secret}
	if _, err := rdb.DB(a.dbName).TableCreate("auth", rdb.TableCreateOpts{PrimaryKey: "unique"}).RunWrite(a.conn); err != nil {
		return err
	}
	// Should be able to access user's auth records by user id
	if _, err := rdb.DB(a.dbName).Table("auth").IndexCreate("userid").RunWrite(a.conn); err != nil {
		return err
	}

	// Index of unique values such as "username:alice" or "slug:cats": {Id: <value>, Source: <uid>}.
	// RethinkDB does not support unique secondary indexes.
	if _, err := rdb.DB(a.dbName).TableCreate("uniques", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}

	// Groups
	if _, err := rdb.DB(a.dbName).TableCreate("groups", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).Table("groups").IndexCreate("Slug").RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).Table("groups").IndexCreate("Title").RunWrite(a.conn); err != nil {
		return err
	}

	// Posts
	if _, err := rdb.DB(a.dbName).TableCreate("posts", rdb.TableCreateOpts{PrimaryKey: "Id"}).RunWrite(a.conn); err != nil {
		return err
	}
	if _, err := rdb.DB(a.dbName).Table("posts").IndexCreate("CreatedAt").RunWrite(a.conn); err != nil {
		return err
	}
	for _, field := range []string{"Author", "Group"} {
		field := field
		if _, err := rdb.DB(a.dbName).Table("posts").IndexCreateFunc(field+"_CreatedAt",
			func(row rdb.Term) any {
				return []any{row.Field(field), row.Field("CreatedAt")}
			}).RunWrite(a.conn); err != nil {
			return err
		}
	}

	// Record current DB version.
	if _, err := rdb.DB(a.dbName).Table("kvmeta").Insert(
		map[string]any{"key": "version", "value": adpVersion}).RunWrite(a.conn); err != nil {
		return err
	}

	return nil
}

// UpgradeDb upgrades the database, if necessary.
func (a *adapter) UpgradeDb() error {
	bumpVersion := func(a *adapter, x int) error {
		if err := a.updateDbVersion(x); err != nil {
			return err
		}
		_, err := a.GetDbVersion()
		return err
	}

	if _, err := a.GetDbVersion(); err != nil {
		return err
	}

	if a.version == 100 {
		// Perform database upgrade from version 100 to version 101.

		// Group listings are sorted by time.
		if _, err := rdb.DB(a.dbName).Table("posts").IndexCreateFunc("Group_CreatedAt",
			func(row rdb.Term) any {
				return []any{row.Field("Group"), row.Field("CreatedAt")}
			}).RunWrite(a.conn); err != nil {
			return err
		}

		if err := bumpVersion(a, 101); err != nil {
			return err
		}
	}

	if a.version != adpVersion {
		return errors.New("Failed to perform database upgrade to version " + strconv.Itoa(adpVersion) +
			". DB is still at " + strconv.Itoa(a.version))
	}
	return nil
}

type uniqueRecord struct {
	Id     string
	Source string
}

// claimUnique records a unique value. Returns t.ErrDuplicate if the value is already taken.
func (a *adapter) claimUnique(value, source string) error {
	_, err := rdb.DB(a.dbName).Table("uniques").Insert(&uniqueRecord{Id: value, Source: source}).RunWrite(a.conn)
	if rdb.IsConflictErr(err) {
		return t.ErrDuplicate
	}
	return err
}

func (a *adapter) releaseUnique(value string) {
	rdb.DB(a.dbName).Table("uniques").Get(value).Delete().RunWrite(a.conn)
}

// UserCreate creates a new user. Returns t.ErrDuplicate if the username is taken.
func (a *adapter) UserCreate(user *t.User) error {
	if err := a.claimUnique("username:"+user.Username, user.Id); err != nil {
		return err
	}

	_, err := rdb.DB(a.dbName).Table("users").Insert(user).RunWrite(a.conn)
	if err != nil {
		// Best effort cleanup.
		a.releaseUnique("username:" + user.Username)
		if rdb.IsConflictErr(err) {
			return t.ErrDuplicate
		}
		return err
	}

	return nil
}

// AuthAddRecord adds user's authentication record
func (a *adapter) AuthAddRecord(uid t.Uid, scheme, unique string, authLvl auth.Level,
	secret []byte, expires time.Time) error {

	_, err := rdb.DB(a.dbName).Table("auth").Insert(
		&common.AuthRecord{
			Unique:  unique,
			UserId:  uid.String(),
			Scheme:  scheme,
			AuthLvl: authLvl,
			Secret:  secret,
			Expires: expires}).RunWrite(a.conn)
	if err != nil {
		if rdb.IsConflictErr(err) {
			return t.ErrDuplicate
		}
		return err
	}
	return nil
}

// AuthDelScheme deletes an existing authentication scheme for the user.
func (a *adapter) AuthDelScheme(uid t.Uid, scheme string) error {
	_, err := rdb.DB(a.dbName).Table("auth").
		GetAllByIndex("userid", uid.String()).
		Filter(map[string]any{"scheme": scheme}).
		Delete().RunWrite(a.conn)
	return err
}

// AuthDelAllRecords deletes all authentication records for the user.
func (a *adapter) AuthDelAllRecords(uid t.Uid) (int, error) {
	res, err := rdb.DB(a.dbName).Table("auth").GetAllByIndex("userid", uid.String()).
		Delete().RunWrite(a.conn)
	return res.Deleted, err
}

func (a *adapter) authGetRecord(uid t.Uid, scheme string) (*common.AuthRecord, error) {
	cursor, err := rdb.DB(a.dbName).Table("auth").
		GetAllByIndex("userid", uid.String()).
		Filter(map[string]any{"scheme": scheme}).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if cursor.IsNil() {
		return nil, t.ErrNotFound
	}

	var record common.AuthRecord
	if err = cursor.One(&record); err != nil {
		if err == rdb.ErrEmptyResult {
			err = t.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// AuthUpdRecord updates user's authentication unique, secret, auth level.
func (a *adapter) AuthUpdRecord(uid t.Uid, scheme, unique string, authLvl auth.Level,
	secret []byte, expires time.Time) error {
	// The primary key is immutable. If 'unique' has changed, we have to replace the old record with a new one.
	record, err := a.authGetRecord(uid, scheme)
	if err != nil {
		return err
	}

	record.AuthLvl = authLvl
	if len(secret) > 0 {
		record.Secret = secret
	}
	if !expires.IsZero() {
		record.Expires = expires
	}

	if unique == "" || record.Unique == unique {
		_, err = rdb.DB(a.dbName).Table("auth").Get(record.Unique).Update(
			map[string]any{
				"authlvl": record.AuthLvl,
				"secret":  record.Secret,
				"expires": record.Expires,
			}).RunWrite(a.conn)
		return err
	}

	oldUnique := record.Unique
	if err = a.AuthAddRecord(uid, scheme, unique, record.AuthLvl, record.Secret, record.Expires); err != nil {
		return err
	}
	_, err = rdb.DB(a.dbName).Table("auth").Get(oldUnique).Delete().RunWrite(a.conn)
	return err
}

// AuthGetRecord retrieves user's authentication record
func (a *adapter) AuthGetRecord(uid t.Uid, scheme string) (string, auth.Level, []byte, time.Time, error) {
	record, err := a.authGetRecord(uid, scheme)
	if err != nil {
		return "", 0, nil, time.Time{}, err
	}
	return record.Unique, record.AuthLvl, record.Secret, record.Expires, nil
}

// AuthGetUniqueRecord retrieves user's authentication record by unique value.
func (a *adapter) AuthGetUniqueRecord(unique string) (t.Uid, auth.Level, []byte, time.Time, error) {
	cursor, err := rdb.DB(a.dbName).Table("auth").Get(unique).Run(a.conn)
	if err != nil {
		return t.ZeroUid, 0, nil, time.Time{}, err
	}
	defer cursor.Close()

	if cursor.IsNil() {
		return t.ZeroUid, 0, nil, time.Time{}, nil
	}

	var record common.AuthRecord
	if err = cursor.One(&record); err != nil {
		return t.ZeroUid, 0, nil, time.Time{}, err
	}

	return t.ParseUid(record.UserId), record.AuthLvl, record.Secret, record.Expires, nil
}

// UserGet fetches a single user by user id. If user is not found it returns (nil, nil)
func (a *adapter) UserGet(uid t.Uid) (*t.User, error) {
	cursor, err := rdb.DB(a.dbName).Table("users").Get(uid.String()).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if cursor.IsNil() {
		return nil, nil
	}

	var user t.User
	if err = cursor.One(&user); err != nil {
		return nil, err
	}
	if user.State == t.StateDeleted {
		return nil, nil
	}
	return &user, nil
}

// UserGetByUsername fetches a single user by login name. If user is not found it returns (nil, nil)
func (a *adapter) UserGetByUsername(username string) (*t.User, error) {
	cursor, err := rdb.DB(a.dbName).Table("users").GetAllByIndex("Username", username).
		Filter(rdb.Row.Field("State").Ne(t.StateDeleted)).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var user t.User
	if err = cursor.One(&user); err != nil {
		if err == rdb.ErrEmptyResult {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UserGetAll fetches users by IDs. Missing and deleted users are skipped.
func (a *adapter) UserGetAll(ids ...t.Uid) ([]t.User, error) {
	uids := make([]any, len(ids))
	for i, id := range ids {
		uids[i] = id.String()
	}

	users := []t.User{}
	if len(uids) == 0 {
		return users, nil
	}

	cursor, err := rdb.DB(a.dbName).Table("users").GetAll(uids...).
		Filter(rdb.Row.Field("State").Ne(t.StateDeleted)).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var user t.User
	for cursor.Next(&user) {
		users = append(users, user)
		user = t.User{}
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// UserDelete deletes specified user: wipes completely (hard-delete) or marks as deleted.
func (a *adapter) UserDelete(uid t.Uid, hard bool) error {
	// Disable all user's auth records.
	if _, err := a.AuthDelAllRecords(uid); err != nil {
		return err
	}

	q := rdb.DB(a.dbName).Table("users").Get(uid.String())
	if !hard {
		now := t.TimeNow()
		_, err := q.Update(map[string]any{
			"State":     t.StateDeleted,
			"StateAt":   now,
			"DeletedAt": now,
			"UpdatedAt": now,
		}).RunWrite(a.conn)
		return err
	}

	cursor, err := q.Field("Username").Default(nil).Run(a.conn)
	if err != nil {
		return err
	}
	var username string
	if !cursor.IsNil() {
		cursor.One(&username)
	}
	cursor.Close()

	if _, err = rdb.DB(a.dbName).Table("posts").
		Between([]any{uid.String(), rdb.MinVal}, []any{uid.String(), rdb.MaxVal},
			rdb.BetweenOpts{Index: "Author_CreatedAt"}).
		Delete().RunWrite(a.conn); err != nil {
		return err
	}
	if _, err = q.Delete().RunWrite(a.conn); err != nil {
		return err
	}
	if username != "" {
		a.releaseUnique("username:" + username)
	}
	return nil
}

// UserUpdate updates user object.
func (a *adapter) UserUpdate(uid t.Uid, update map[string]any) error {
	_, err := rdb.DB(a.dbName).Table("users").Get(uid.String()).Update(update).RunWrite(a.conn)
	return err
}

// GroupCreate saves a new group. Returns t.ErrDuplicate if the slug is taken.
func (a *adapter) GroupCreate(group *t.Group) error {
	if err := a.claimUnique("slug:"+group.Slug, group.Id); err != nil {
		return err
	}

	if _, err := rdb.DB(a.dbName).Table("groups").Insert(group).RunWrite(a.conn); err != nil {
		a.releaseUnique("slug:" + group.Slug)
		if rdb.IsConflictErr(err) {
			return t.ErrDuplicate
		}
		return err
	}
	return nil
}

// GroupGet loads a group by slug. If the group does not exist it returns (nil, nil).
func (a *adapter) GroupGet(slug string) (*t.Group, error) {
	cursor, err := rdb.DB(a.dbName).Table("groups").GetAllByIndex("Slug", slug).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var group t.Group
	if err = cursor.One(&group); err != nil {
		if err == rdb.ErrEmptyResult {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// GroupGetAll loads all groups sorted by title.
func (a *adapter) GroupGetAll() ([]t.Group, error) {
	cursor, err := rdb.DB(a.dbName).Table("groups").
		OrderBy(rdb.OrderByOpts{Index: "Title"}).
		Limit(a.maxResults).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var groups []t.Group
	if err = cursor.All(&groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// PostCreate saves a new post.
func (a *adapter) PostCreate(post *t.Post) error {
	if _, err := rdb.DB(a.dbName).Table("posts").Insert(post).RunWrite(a.conn); err != nil {
		if rdb.IsConflictErr(err) {
			return t.ErrDuplicate
		}
		return err
	}
	return nil
}

// PostGet loads a single post. If the post does not exist it returns (nil, nil).
func (a *adapter) PostGet(id t.Uid) (*t.Post, error) {
	cursor, err := rdb.DB(a.dbName).Table("posts").Get(id.String()).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	if cursor.IsNil() {
		return nil, nil
	}

	var post t.Post
	if err = cursor.One(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// postQuery selects posts matching the query options ordered newest first.
func (a *adapter) postQuery(opts *t.QueryOpt) rdb.Term {
	table := rdb.DB(a.dbName).Table("posts")

	var author, group string
	if opts != nil {
		if !opts.Author.IsZero() {
			author = opts.Author.String()
		}
		if !opts.Group.IsZero() {
			group = opts.Group.String()
		}
	}

	byIndex := func(index, value string) rdb.Term {
		return table.Between([]any{value, rdb.MinVal}, []any{value, rdb.MaxVal},
			rdb.BetweenOpts{Index: index}).
			OrderBy(rdb.OrderByOpts{Index: rdb.Desc(index)})
	}

	switch {
	case author != "" && group != "":
		return byIndex("Author_CreatedAt", author).Filter(map[string]any{"Group": group})
	case author != "":
		return byIndex("Author_CreatedAt", author)
	case group != "":
		return byIndex("Group_CreatedAt", group)
	}
	return table.OrderBy(rdb.OrderByOpts{Index: rdb.Desc("CreatedAt")})
}

// PostGetAll loads posts matching the query, newest first.
func (a *adapter) PostGetAll(opts *t.QueryOpt) ([]t.Post, error) {
	limit, offset := common.Window(opts, a.maxResults)

	cursor, err := a.postQuery(opts).Skip(offset).Limit(limit).Run(a.conn)
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	posts := []t.Post{}
	var post t.Post
	for cursor.Next(&post) {
		posts = append(posts, post)
		post = t.Post{}
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

// PostCount counts posts matching the query.
func (a *adapter) PostCount(opts *t.QueryOpt) (int, error) {
	cursor, err := a.postQuery(opts).Count().Run(a.conn)
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	var count int
	err = cursor.One(&count)
	return count, err
}

// PostUpdate updates text or group of a post.
func (a *adapter) PostUpdate(id t.Uid, update map[string]any) error {
	res, err := rdb.DB(a.dbName).Table("posts").Get(id.String()).Update(update).RunWrite(a.conn)
	if err != nil {
		return err
	}
	if res.Skipped > 0 {
		return t.ErrNotFound
	}
	return nil
}

func isMissingDb(err error) bool {
	return err != nil && strings.Contains(err.Error(), "does not exist")
}

// GetTestAdapter returns an unregistered adapter instance for integration tests.
func GetTestAdapter() adp.Adapter {
	return &adapter{}
}

func init() {
	store.RegisterAdapter(&adapter{})
}
