//go:build mysql
// +build mysql

// Package mysql is a database adapter for MySQL.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	ms "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/db/common"
	"github.com/yatube/yatube/server/store"
	adp "github.com/yatube/yatube/server/store/adapter"
	t "github.com/yatube/yatube/server/store/types"
)

// adapter holds MySQL connection data.
type adapter struct {
	db     *sqlx.DB
	dsn    string
	dbName string
	// Maximum number of records to return
	maxResults int
	version    int

	// Single query timeout.
	sqlTimeout time.Duration
	// DB transaction timeout.
	txTimeout time.Duration
}

const (
	defaultDSN      = "root:@tcp(localhost:3306)/yatube?parseTime=true"
	defaultDatabase = "yatube"

	adpVersion  = 101
	adapterName = "mysql"

	defaultMaxResults = 1024

	// If DB request timeout is specified,
	// we allocate txTimeoutMultiplier times more time for transactions.
	txTimeoutMultiplier = 1.5
)

// MySQL error numbers.
const (
	errDupEntry   = 1062
	errBadDb      = 1049
	errNoSuchTbl  = 1146
	errForeignKey = 1452
)

type configType struct {
	// DB connection settings.
	// Please, see https://pkg.go.dev/github.com/go-sql-driver/mysql#Config
	// for the full list of fields.
	ms.Config
	// Deprecated.
	DSN      string `json:"dsn,omitempty"`
	Database string `json:"database,omitempty"`

	// Connection pool settings.
	//
	// Maximum number of open connections to the database.
	MaxOpenConns int `json:"max_open_conns,omitempty"`
	// Maximum number of connections in the idle connection pool.
	MaxIdleConns int `json:"max_idle_conns,omitempty"`
	// Maximum amount of time a connection may be reused (in seconds).
	ConnMaxLifetime int `json:"conn_max_lifetime,omitempty"`

	// DB request timeout (in seconds).
	// If 0 (or negative), no timeout is applied.
	SqlTimeout int `json:"sql_timeout,omitempty"`
}

func (a *adapter) getContext() (context.Context, context.CancelFunc) {
	if a.sqlTimeout > 0 {
		return context.WithTimeout(context.Background(), a.sqlTimeout)
	}
	return context.Background(), nil
}

func (a *adapter) getContextForTx() (context.Context, context.CancelFunc) {
	if a.txTimeout > 0 {
		return context.WithTimeout(context.Background(), a.txTimeout)
	}
	return context.Background(), nil
}

// Open initializes database session
func (a *adapter) Open(jsonconfig json.RawMessage) error {
	if a.db != nil {
		return errors.New("mysql adapter is already connected")
	}

	if len(jsonconfig) < 2 {
		return errors.New("adapter mysql missing config")
	}

	var err error
	defaultCfg := ms.NewConfig()
	config := configType{Config: *defaultCfg}
	if err = json.Unmarshal(jsonconfig, &config); err != nil {
		return errors.New("mysql adapter failed to parse config: " + err.Error())
	}

	if config.FormatDSN() != defaultCfg.FormatDSN() {
		// MySql config is specified. Use it.
		a.dbName = config.DBName
		// Timestamps are scanned into time.Time.
		config.ParseTime = true
		a.dsn = config.FormatDSN()
		if config.DSN != "" || config.Database != "" {
			return errors.New("mysql config: conflicting config and DSN are provided")
		}
	} else {
		// Otherwise, use DSN and Database to configure database connection.
		// Note: this method is deprecated.
		if config.DSN != "" {
			a.dsn = config.DSN
		} else {
			a.dsn = defaultDSN
		}
		a.dbName = config.Database
	}

	if a.dbName == "" {
		a.dbName = defaultDatabase
	}

	if a.maxResults <= 0 {
		a.maxResults = defaultMaxResults
	}

	// This just initializes the driver but does not open the network connection.
	a.db, err = sqlx.Open("mysql", a.dsn)
	if err != nil {
		return err
	}

	// Actually opening the network connection.
	err = a.db.Ping()
	if isMissingDb(err) {
		// Ignore missing database here. If we are initializing the database
		// missing DB is OK.
		err = nil
	}
	if err == nil {
		if config.MaxOpenConns > 0 {
			a.db.SetMaxOpenConns(config.MaxOpenConns)
		}
		if config.MaxIdleConns > 0 {
			a.db.SetMaxIdleConns(config.MaxIdleConns)
		}
		if config.ConnMaxLifetime > 0 {
			a.db.SetConnMaxLifetime(time.Duration(config.ConnMaxLifetime) * time.Second)
		}
		if config.SqlTimeout > 0 {
			a.sqlTimeout = time.Duration(config.SqlTimeout) * time.Second
			// We allocate txTimeoutMultiplier times sqlTimeout for transactions.
			a.txTimeout = time.Duration(float64(config.SqlTimeout)*txTimeoutMultiplier) * time.Second
		}
	}
	a.version = -1
	return err
}

// Close closes the underlying database connection
func (a *adapter) Close() error {
	var err error
	if a.db != nil {
		err = a.db.Close()
		a.db = nil
		a.version = -1
	}
	return err
}

// IsOpen returns true if connection to database has been established. It does not check if
// connection is actually live.
func (a *adapter) IsOpen() bool {
	return a.db != nil
}

// GetDbVersion returns current database version.
func (a *adapter) GetDbVersion() (int, error) {
	if a.version > 0 {
		return a.version, nil
	}

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	var vers int
	err := a.db.GetContext(ctx, &vers, "SELECT `value` FROM kvmeta WHERE `key`='version'")
	if err != nil {
		if isMissingDb(err) || isMissingTable(err) || err == sql.ErrNoRows {
			err = errors.New("Database not initialized")
		}
		return -1, err
	}

	a.version = vers

	return vers, nil
}

func (a *adapter) updateDbVersion(v int) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	a.version = -1
	if _, err := a.db.ExecContext(ctx, "UPDATE kvmeta SET `value`=? WHERE `key`='version'", v); err != nil {
		return err
	}
	return nil
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

// Stats returns DB connection stats object.
func (a *adapter) Stats() any {
	if a.db == nil {
		return nil
	}
	return a.db.Stats()
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

// CreateDb initializes the storage.
func (a *adapter) CreateDb(reset bool) error {
	var err error
	var tx *sql.Tx

	// Can't use an existing connection because it's configured with a database name which may not exist.
	// Don't care if it does not close cleanly.
	a.db.Close()

	// This DSN has been parsed before and produced no error, not checking for errors here.
	cfg, _ := ms.ParseDSN(a.dsn)
	// Clear database name
	cfg.DBName = ""

	a.db, err = sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return err
	}

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	if tx, err = a.db.BeginTx(ctx, nil); err != nil {
		return err
	}

	defer func() {
		if err != nil {
			// FIXME: This is useless: MySQL auto-commits on every CREATE TABLE.
			// Maybe DROP DATABASE instead.
			tx.Rollback()
		}
	}()

	if reset {
		if _, err = tx.Exec("DROP DATABASE IF EXISTS " + a.dbName); err != nil {
			return err
		}
	}

	if _, err = tx.Exec("CREATE DATABASE " + a.dbName + " CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci"); err != nil {
		return err
	}

	if _, err = tx.Exec("USE " + a.dbName); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE users(
			id        BIGINT NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			deletedat DATETIME(3),
			state     SMALLINT NOT NULL DEFAULT 0,
			stateat   DATETIME(3),
			username  VARCHAR(32) NOT NULL,
			fullname  VARCHAR(150) NOT NULL DEFAULT '',
			email     VARCHAR(254) NOT NULL DEFAULT '',
			lastseen  DATETIME(3),
			useragent VARCHAR(255) DEFAULT '',
			PRIMARY KEY(id),
			UNIQUE INDEX users_username(username),
			INDEX users_state_stateat(state, stateat)
		)`); err != nil {
		return err
	}

	// Authentication records for the basic authentication scheme.
	if _, err = tx.Exec(
		`CREATE TABLE auth(
			id      INT NOT NULL AUTO_INCREMENT,
			uname   VARCHAR(40) NOT NULL,
			userid  BIGINT NOT NULL,
			scheme  VARCHAR(16) NOT NULL,
			authlvl INT NOT NULL,
			secret  VARCHAR(255) NOT NULL,
			expires DATETIME,
			PRIMARY KEY(id),
			FOREIGN KEY(userid) REFERENCES users(id),
			UNIQUE INDEX auth_userid_scheme(userid, scheme),
			UNIQUE INDEX auth_uname(uname)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		"CREATE TABLE `groups`(" +
			`id          BIGINT NOT NULL,
			createdat   DATETIME(3) NOT NULL,
			updatedat   DATETIME(3) NOT NULL,
			title       VARCHAR(200) NOT NULL,
			slug        VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			PRIMARY KEY(id),
			UNIQUE INDEX groups_slug(slug),
			INDEX groups_title(title)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE posts(
			id        BIGINT NOT NULL,
			createdat DATETIME(3) NOT NULL,
			updatedat DATETIME(3) NOT NULL,
			author    BIGINT NOT NULL,
			grp       BIGINT,
			text      TEXT NOT NULL,
			PRIMARY KEY(id),
			FOREIGN KEY(author) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY(grp) REFERENCES ` + "`groups`" + `(id) ON DELETE SET NULL,
			INDEX posts_createdat_id(createdat, id),
			INDEX posts_author_createdat(author, createdat),
			INDEX posts_grp_createdat(grp, createdat)
		)`); err != nil {
		return err
	}

	if _, err = tx.Exec(
		`CREATE TABLE kvmeta(` +
			"`key`       VARCHAR(64) NOT NULL," +
			"`createdat` DATETIME(3)," +
			"`value`     TEXT," +
			"PRIMARY KEY(`key`)" +
			`)`); err != nil {
		return err
	}
	if _, err = tx.Exec("INSERT INTO kvmeta(`key`, `value`) VALUES('version', ?)", adpVersion); err != nil {
		return err
	}

	return tx.Commit()
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

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	if a.version == 100 {
		// Perform database upgrade from version 100 to version 101.

		// Group listings are sorted by time.
		if _, err := a.db.ExecContext(ctx, "CREATE INDEX posts_grp_createdat ON posts(grp, createdat)"); err != nil {
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

// UserCreate creates a new user. Returns t.ErrDuplicate if the username is taken.
func (a *adapter) UserCreate(user *t.User) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	_, err := a.db.ExecContext(ctx,
		"INSERT INTO users(id,createdat,updatedat,state,username,fullname,email) VALUES(?,?,?,?,?,?,?)",
		store.DecodeUid(user.Uid()),
		user.CreatedAt, user.UpdatedAt,
		user.State, user.Username, user.FullName, user.Email)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// AuthAddRecord adds user's authentication record
func (a *adapter) AuthAddRecord(uid t.Uid, scheme, unique string, authLvl auth.Level,
	secret []byte, expires time.Time) error {

	var exp *time.Time
	if !expires.IsZero() {
		exp = &expires
	}
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	if _, err := a.db.ExecContext(ctx, "INSERT INTO auth(uname,userid,scheme,authLvl,secret,expires) VALUES(?,?,?,?,?,?)",
		unique, store.DecodeUid(uid), scheme, authLvl, secret, exp); err != nil {
		if isDupe(err) {
			return t.ErrDuplicate
		}
		return err
	}
	return nil
}

// AuthDelScheme deletes an existing authentication scheme for the user.
func (a *adapter) AuthDelScheme(user t.Uid, scheme string) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	_, err := a.db.ExecContext(ctx, "DELETE FROM auth WHERE userid=? AND scheme=?", store.DecodeUid(user), scheme)
	return err
}

// AuthDelAllRecords deletes all authentication records for the user.
func (a *adapter) AuthDelAllRecords(user t.Uid) (int, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	res, err := a.db.ExecContext(ctx, "DELETE FROM auth WHERE userid=?", store.DecodeUid(user))
	if err != nil {
		return 0, err
	}
	count, _ := res.RowsAffected()

	return int(count), nil
}

// AuthUpdRecord updates user's authentication unique, secret, auth level.
func (a *adapter) AuthUpdRecord(uid t.Uid, scheme, unique string, authLvl auth.Level,
	secret []byte, expires time.Time) error {

	params := []string{"authLvl=?"}
	args := []any{authLvl}
	if unique != "" {
		params = append(params, "uname=?")
		args = append(args, unique)
	}
	if len(secret) > 0 {
		params = append(params, "secret=?")
		args = append(args, secret)
	}
	if !expires.IsZero() {
		params = append(params, "expires=?")
		args = append(args, expires)
	}
	args = append(args, store.DecodeUid(uid), scheme)

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	sql := "UPDATE auth SET " + strings.Join(params, ",") + " WHERE userid=? AND scheme=?"
	resp, err := a.db.ExecContext(ctx, sql, args...)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	if err != nil {
		return err
	}

	// MySQL reports matched rows as affected only with CLIENT_FOUND_ROWS, check existence explicitly.
	if count, _ := resp.RowsAffected(); count <= 0 {
		var exists int
		err = a.db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM auth WHERE userid=? AND scheme=?",
			store.DecodeUid(uid), scheme)
		if err != nil {
			return err
		}
		if exists == 0 {
			return t.ErrNotFound
		}
	}
	return nil
}

// authRecord is a row of the auth table.
type authRecord struct {
	Userid  int64
	Uname   string
	Authlvl auth.Level
	Secret  []byte
	Expires *time.Time
}

// AuthGetRecord retrieves user's authentication record
func (a *adapter) AuthGetRecord(uid t.Uid, scheme string) (string, auth.Level, []byte, time.Time, error) {
	var expires time.Time
	var record authRecord

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	if err := a.db.GetContext(ctx, &record, "SELECT userid,uname,secret,expires,authlvl FROM auth WHERE userid=? AND scheme=?",
		store.DecodeUid(uid), scheme); err != nil {
		if err == sql.ErrNoRows {
			// Nothing found - use standard error.
			err = t.ErrNotFound
		}
		return "", 0, nil, expires, err
	}

	if record.Expires != nil {
		expires = *record.Expires
	}

	return record.Uname, record.Authlvl, record.Secret, expires, nil
}

// AuthGetUniqueRecord retrieves user's authentication record by unique value.
func (a *adapter) AuthGetUniqueRecord(unique string) (t.Uid, auth.Level, []byte, time.Time, error) {
	var expires time.Time
	var record authRecord

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}
	if err := a.db.GetContext(ctx, &record, "SELECT userid,uname,secret,expires,authlvl FROM auth WHERE uname=?",
		unique); err != nil {
		if err == sql.ErrNoRows {
			// Nothing found - clear the error
			err = nil
		}
		return t.ZeroUid, 0, nil, expires, err
	}

	if record.Expires != nil {
		expires = *record.Expires
	}

	return store.EncodeUid(record.Userid), record.Authlvl, record.Secret, expires, nil
}

// userRecord is a row of the users table.
type userRecord struct {
	Id        int64
	Createdat time.Time
	Updatedat time.Time
	Deletedat *time.Time
	State     t.ObjState
	Stateat   *time.Time
	Username  string
	Fullname  string
	Email     string
	Lastseen  *time.Time
	Useragent sql.NullString
}

func (r *userRecord) toUser() t.User {
	user := t.User{
		ObjHeader: t.ObjHeader{
			CreatedAt: r.Createdat,
			UpdatedAt: r.Updatedat,
			DeletedAt: r.Deletedat,
		},
		State:     r.State,
		StateAt:   r.Stateat,
		Username:  r.Username,
		FullName:  r.Fullname,
		Email:     r.Email,
		LastSeen:  r.Lastseen,
		UserAgent: r.Useragent.String,
	}
	user.SetUid(store.EncodeUid(r.Id))
	return user
}

const userColumns = "id,createdat,updatedat,deletedat,state,stateat,username,fullname,email,lastseen,useragent"

func (a *adapter) userGetOne(query string, args ...any) (*t.User, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var rec userRecord
	err := a.db.GetContext(ctx, &rec, query, args...)
	if err == sql.ErrNoRows {
		// Nothing found: user does not exist or marked as soft-deleted
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user := rec.toUser()
	return &user, nil
}

// UserGet fetches a single user by user id. If user is not found it returns (nil, nil)
func (a *adapter) UserGet(uid t.Uid) (*t.User, error) {
	return a.userGetOne("SELECT "+userColumns+" FROM users WHERE id=? AND state!=?",
		store.DecodeUid(uid), t.StateDeleted)
}

// UserGetByUsername fetches a single user by login name. If user is not found it returns (nil, nil)
func (a *adapter) UserGetByUsername(username string) (*t.User, error) {
	return a.userGetOne("SELECT "+userColumns+" FROM users WHERE username=? AND state!=?",
		username, t.StateDeleted)
}

// UserGetAll fetches users by IDs. Missing and deleted users are skipped.
func (a *adapter) UserGetAll(ids ...t.Uid) ([]t.User, error) {
	users := []t.User{}
	if len(ids) == 0 {
		return users, nil
	}

	uids := make([]any, len(ids))
	for i, id := range ids {
		uids[i] = store.DecodeUid(id)
	}

	q, uids, _ := sqlx.In("SELECT "+userColumns+" FROM users WHERE id IN (?) AND state!=?", uids, t.StateDeleted)

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var recs []userRecord
	if err := a.db.SelectContext(ctx, &recs, q, uids...); err != nil {
		return nil, err
	}
	for i := range recs {
		users = append(users, recs[i].toUser())
	}
	return users, nil
}

// UserDelete deletes specified user: wipes completely (hard-delete) or marks as deleted.
func (a *adapter) UserDelete(uid t.Uid, hard bool) error {
	ctx, cancel := a.getContextForTx()
	if cancel != nil {
		defer cancel()
	}
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	now := t.TimeNow()
	decodedUid := store.DecodeUid(uid)

	if hard {
		if _, err = tx.ExecContext(ctx, "DELETE FROM posts WHERE author=?", decodedUid); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, "DELETE FROM auth WHERE userid=?", decodedUid); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", decodedUid); err != nil {
			return err
		}
	} else {
		// Disable all user's auth records
		if _, err = tx.ExecContext(ctx, "DELETE FROM auth WHERE userid=?", decodedUid); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, "UPDATE users SET updatedat=?,state=?,stateat=?,deletedat=? WHERE id=?",
			now, t.StateDeleted, now, now, decodedUid); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// UserUpdate updates user object.
func (a *adapter) UserUpdate(uid t.Uid, update map[string]any) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	cols, args := common.UpdateByMap(update)
	args = append(args, store.DecodeUid(uid))
	_, err := a.db.ExecContext(ctx, "UPDATE users SET "+strings.Join(cols, ",")+" WHERE id=?", args...)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// GroupCreate saves a new group.
func (a *adapter) GroupCreate(group *t.Group) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	_, err := a.db.ExecContext(ctx,
		"INSERT INTO `groups`(id,createdat,updatedat,title,slug,description) VALUES(?,?,?,?,?,?)",
		store.DecodeUid(group.Uid()), group.CreatedAt, group.UpdatedAt, group.Title, group.Slug, group.Description)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// groupRecord is a row of the groups table.
type groupRecord struct {
	Id          int64
	Createdat   time.Time
	Updatedat   time.Time
	Title       string
	Slug        string
	Description string
}

func (r *groupRecord) toGroup() t.Group {
	group := t.Group{
		ObjHeader:   t.ObjHeader{CreatedAt: r.Createdat, UpdatedAt: r.Updatedat},
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
	}
	group.SetUid(store.EncodeUid(r.Id))
	return group
}

// GroupGet loads a group by slug. If the group does not exist it returns (nil, nil).
func (a *adapter) GroupGet(slug string) (*t.Group, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var rec groupRecord
	err := a.db.GetContext(ctx, &rec, "SELECT * FROM `groups` WHERE slug=?", slug)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	group := rec.toGroup()
	return &group, nil
}

// GroupGetAll loads all groups sorted by title.
func (a *adapter) GroupGetAll() ([]t.Group, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var recs []groupRecord
	if err := a.db.SelectContext(ctx, &recs, "SELECT * FROM `groups` ORDER BY title LIMIT ?", a.maxResults); err != nil {
		return nil, err
	}
	var groups []t.Group
	for i := range recs {
		groups = append(groups, recs[i].toGroup())
	}
	return groups, nil
}

// PostCreate saves a new post.
func (a *adapter) PostCreate(post *t.Post) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	_, err := a.db.ExecContext(ctx,
		"INSERT INTO posts(id,createdat,updatedat,author,grp,text) VALUES(?,?,?,?,?,?)",
		store.DecodeUid(post.Uid()), post.CreatedAt, post.UpdatedAt,
		store.DecodeUid(post.AuthorUid()), groupRef(post.Group), post.Text)
	if isDupe(err) {
		return t.ErrDuplicate
	}
	return err
}

// postRecord is a row of the posts table.
type postRecord struct {
	Id        int64
	Createdat time.Time
	Updatedat time.Time
	Author    int64
	Grp       sql.NullInt64
	Text      string
}

func (r *postRecord) toPost() t.Post {
	post := t.Post{
		ObjHeader: t.ObjHeader{CreatedAt: r.Createdat, UpdatedAt: r.Updatedat},
		Author:    store.EncodeUid(r.Author).String(),
		Text:      r.Text,
	}
	if r.Grp.Valid {
		post.Group = store.EncodeUid(r.Grp.Int64).String()
	}
	post.SetUid(store.EncodeUid(r.Id))
	return post
}

// PostGet loads a single post. If the post does not exist it returns (nil, nil).
func (a *adapter) PostGet(id t.Uid) (*t.Post, error) {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var rec postRecord
	err := a.db.GetContext(ctx, &rec, "SELECT * FROM posts WHERE id=?", store.DecodeUid(id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	post := rec.toPost()
	return &post, nil
}

// postFilter converts query options into a WHERE clause.
func postFilter(opts *t.QueryOpt) (string, []any) {
	var where []string
	var args []any
	if opts != nil {
		if !opts.Author.IsZero() {
			where = append(where, "author=?")
			args = append(args, store.DecodeUid(opts.Author))
		}
		if !opts.Group.IsZero() {
			where = append(where, "grp=?")
			args = append(args, store.DecodeUid(opts.Group))
		}
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// PostGetAll loads posts matching the query, newest first.
func (a *adapter) PostGetAll(opts *t.QueryOpt) ([]t.Post, error) {
	limit, offset := common.Window(opts, a.maxResults)
	where, args := postFilter(opts)
	args = append(args, limit, offset)

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var recs []postRecord
	if err := a.db.SelectContext(ctx, &recs, "SELECT * FROM posts"+where+
		" ORDER BY createdat DESC, id DESC LIMIT ? OFFSET ?", args...); err != nil {
		return nil, err
	}
	posts := make([]t.Post, 0, len(recs))
	for i := range recs {
		posts = append(posts, recs[i].toPost())
	}
	return posts, nil
}

// PostCount counts posts matching the query.
func (a *adapter) PostCount(opts *t.QueryOpt) (int, error) {
	where, args := postFilter(opts)

	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var count int
	err := a.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM posts"+where, args...)
	return count, err
}

// PostUpdate updates text or group of a post.
func (a *adapter) PostUpdate(id t.Uid, update map[string]any) error {
	ctx, cancel := a.getContext()
	if cancel != nil {
		defer cancel()
	}

	var exists int
	if err := a.db.GetContext(ctx, &exists, "SELECT COUNT(*) FROM posts WHERE id=?", store.DecodeUid(id)); err != nil {
		return err
	}
	if exists == 0 {
		return t.ErrNotFound
	}

	cols, args := common.UpdateByMap(postUpdate(update))
	args = append(args, store.DecodeUid(id))
	_, err := a.db.ExecContext(ctx, "UPDATE posts SET "+strings.Join(cols, ",")+" WHERE id=?", args...)
	if isForeignKeyErr(err) {
		return t.ErrGroupNotFound
	}
	return err
}

// Helper functions

func mysqlErrorNumber(err error) uint16 {
	var myErr *ms.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}

// Check if MySQL error is a Error Code: 1062. Duplicate entry ... for key ...
func isDupe(err error) bool {
	return err != nil && mysqlErrorNumber(err) == errDupEntry
}

func isMissingDb(err error) bool {
	return err != nil && mysqlErrorNumber(err) == errBadDb
}

func isMissingTable(err error) bool {
	return err != nil && mysqlErrorNumber(err) == errNoSuchTbl
}

func isForeignKeyErr(err error) bool {
	return err != nil && mysqlErrorNumber(err) == errForeignKey
}

// groupRef converts group Uid string to a nullable foreign key.
func groupRef(group string) sql.NullInt64 {
	if group == "" {
		return sql.NullInt64{}
	}
	id := store.DecodeUid(t.ParseUid(group))
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// postUpdate maps field names of t.Post to column names and values.
func postUpdate(update map[string]any) map[string]any {
	out := make(map[string]any, len(update))
	for k, v := range update {
		if k == "Group" {
			grp, _ := v.(string)
			out["grp"] = groupRef(grp)
			continue
		}
		out[k] = v
	}
	return out
}

// GetTestAdapter returns an unregistered adapter instance for integration tests.
func GetTestAdapter() adp.Adapter {
	return &adapter{}
}

func init() {
	store.RegisterAdapter(&adapter{})
}
