//go:build mongodb
// +build mongodb

// Package mongodb is a database adapter for MongoDB.
package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/db/common"
	"github.com/yatube/yatube/server/logs"
	"github.com/yatube/yatube/server/store"
	adp "github.com/yatube/yatube/server/store/adapter"
	t "github.com/yatube/yatube/server/store/types"
	b "go.mongodb.org/mongo-driver/bson"
	mdb "go.mongodb.org/mongo-driver/mongo"
	mdbopts "go.mongodb.org/mongo-driver/mongo/options"
)

// adapter holds MongoDB connection data.
type adapter struct {
	conn            *mdb.Client
	db              *mdb.Database
	dbName          string
	maxResults      int
	version         int
	ctx             context.Context
	useTransactions bool
}

const (
	defaultHost     = "localhost:27017"
	defaultDatabase = "yatube"

	adpVersion  = 101
	adapterName = "mongodb"

	defaultMaxResults = 1024
)

// See https://godoc.org/go.mongodb.org/mongo-driver/mongo/options#ClientOptions for explanations.
type configType struct {
	Addresses      any `json:"addresses,omitempty"`
	ConnectTimeout int `json:"timeout,omitempty"`

	// Options separately from ClientOptions (custom options):
	Database   string `json:"database,omitempty"`
	ReplicaSet string `json:"replica_set,omitempty"`

	AuthSource string `json:"auth_source,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`
}

// Open initializes mongodb session
func (a *adapter) Open(jsonconfig json.RawMessage) error {
	if a.conn != nil {
		return errors.New("adapter mongodb is already connected")
	}

	if len(jsonconfig) < 2 {
		return errors.New("adapter mongodb missing config")
	}

	var err error
	var config configType
	if err = json.Unmarshal(jsonconfig, &config); err != nil {
		return errors.New("adapter mongodb failed to parse config: " + err.Error())
	}

	var opts mdbopts.ClientOptions

	if config.Addresses == nil {
		opts.SetHosts([]string{defaultHost})
	} else if host, ok := config.Addresses.(string); ok {
		opts.SetHosts([]string{host})
	} else if ihosts, ok := config.Addresses.([]any); ok && len(ihosts) > 0 {
		hosts := make([]string, len(ihosts))
		for i, ih := range ihosts {
			h, ok := ih.(string)
			if !ok || h == "" {
				return errors.New("adapter mongodb invalid config.Addresses value")
			}
			hosts[i] = h
		}
		opts.SetHosts(hosts)
	} else {
		return errors.New("adapter mongodb failed to parse config.Addresses")
	}

	if config.ConnectTimeout > 0 {
		opts.SetConnectTimeout(time.Duration(config.ConnectTimeout) * time.Second)
	}

	if config.Database == "" {
		a.dbName = defaultDatabase
	} else {
		a.dbName = config.Database
	}

	if config.ReplicaSet == "" {
		logs.Info.Println("MongoDB configured as standalone or replica_set option not set. Transaction support is disabled.")
	} else {
		opts.SetReplicaSet(config.ReplicaSet)
		a.useTransactions = true
	}

	if config.Username != "" {
		var passwordSet bool
		if config.AuthSource == "" {
			config.AuthSource = "admin"
		}
		if config.Password != "" {
			passwordSet = true
		}
		opts.SetAuth(
			mdbopts.Credential{
				AuthMechanism: "SCRAM-SHA-256",
				AuthSource:    config.AuthSource,
				Username:      config.Username,
				Password:      config.Password,
				PasswordSet:   passwordSet,
			})
	}

	if a.maxResults <= 0 {
		a.maxResults = defaultMaxResults
	}

	a.ctx = context.Background()
	a.conn, err = mdb.Connect(a.ctx, &opts)
	if err != nil {
		return err
	}
	a.db = a.conn.Database(a.dbName)
	a.version = -1

	return nil
}

// Close the adapter
func (a *adapter) Close() error {
	var err error
	if a.conn != nil {
		err = a.conn.Disconnect(a.ctx)
		a.conn = nil
		a.version = -1
	}
	return err
}

// IsOpen checks if the adapter is ready for use
func (a *adapter) IsOpen() bool {
	return a.conn != nil
}

// GetDbVersion returns current database version.
func (a *adapter) GetDbVersion() (int, error) {
	if a.version > 0 {
		return a.version, nil
	}

	var result struct {
		Key   string `bson:"_id"`
		Value int
	}
	if err := a.db.Collection("kvmeta").FindOne(a.ctx, b.M{"_id": "version"}).Decode(&result); err != nil {
		if err == mdb.ErrNoDocuments {
			err = errors.New("Database not initialized")
		}
		return -1, err
	}

	a.version = result.Value
	return result.Value, nil
}

// CheckDbVersion checks if the actual database version matches adapter version.
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

// Version returns adapter version
func (a *adapter) Version() int {
	return adpVersion
}

// Stats returns the number of client sessions in progress.
func (a *adapter) Stats() any {
	if a.conn == nil {
		return nil
	}
	return map[string]int{"SessionsInProgress": a.conn.NumberSessionsInProgress()}
}

// GetName returns the name of the adapter
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

// CreateDb creates the database optionally dropping an existing database first.
func (a *adapter) CreateDb(reset bool) error {
	if reset {
		logs.Info.Print("Dropping database...")
		if err := a.db.Drop(a.ctx); err != nil {
			return err
		}
	} else if a.isDbInitialized() {
		return errors.New("Database already initialized")
	}
	// Collections (tables) do not need to be explicitly created since MongoDB creates them with first write operation

	indexes := []struct {
		Collection string
		Field      string
		IndexOpts  mdb.IndexModel
	}{
		// Users
		// Index on 'user.state' for finding suspended and soft-deleted users.
		{
			Collection: "users",
			Field:      "state",
		},
		// Login names are unique.
		{
			Collection: "users",
			IndexOpts: mdb.IndexModel{
				Keys:    b.M{"username": 1},
				Options: mdbopts.Index().SetUnique(true),
			},
		},

		// User authentication records {_id, userid, secret}
		// Should be able to access user's auth records by user id
		{
			Collection: "auth",
			Field:      "userid",
		},

		// Groups are looked up by unique slug and listed by title.
		{
			Collection: "groups",
			IndexOpts: mdb.IndexModel{
				Keys:    b.M{"slug": 1},
				Options: mdbopts.Index().SetUnique(true),
			},
		},
		{
			Collection: "groups",
			Field:      "title",
		},

		// Posts are listed newest first: all, by author, by group.
		{
			Collection: "posts",
			IndexOpts:  mdb.IndexModel{Keys: b.D{{Key: "createdat", Value: -1}, {Key: "_id", Value: -1}}},
		},
		{
			Collection: "posts",
			IndexOpts:  mdb.IndexModel{Keys: b.D{{Key: "author", Value: 1}, {Key: "createdat", Value: -1}}},
		},
		{
			Collection: "posts",
			IndexOpts:  mdb.IndexModel{Keys: b.D{{Key: "group", Value: 1}, {Key: "createdat", Value: -1}}},
		},
	}

	var err error
	for _, idx := range indexes {
		if idx.Field != "" {
			_, err = a.db.Collection(idx.Collection).Indexes().CreateOne(a.ctx, mdb.IndexModel{Keys: b.M{idx.Field: 1}})
		} else {
			_, err = a.db.Collection(idx.Collection).Indexes().CreateOne(a.ctx, idx.IndexOpts)
		}
		if err != nil {
			return err
		}
	}

	// Collection "kvmeta" with metadata key-value pairs.
	// Key in "_id" field.
	// Record current DB version.
	if _, err := a.db.Collection("kvmeta").InsertOne(a.ctx, map[string]any{"_id": "version", "value": adpVersion}); err != nil {
		return err
	}

	return nil
}

// UpgradeDb upgrades database to the current adapter version.
func (a *adapter) UpgradeDb() error {
	bumpVersion := func(a *adapter, x int) error {
		if err := a.updateDbVersion(x); err != nil {
			return err
		}
		_, err := a.GetDbVersion()
		return err
	}

	_, err := a.GetDbVersion()
	if err != nil {
		return err
	}

	if a.version == 100 {
		// Perform database upgrade from version 100 to version 101.

		// Group listings are sorted by time.
		if _, err = a.db.Collection("posts").Indexes().CreateOne(a.ctx,
			mdb.IndexModel{Keys: b.D{{Key: "group", Value: 1}, {Key: "createdat", Value: -1}}}); err != nil {
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

func (a *adapter) updateDbVersion(v int) error {
	a.version = -1
	_, err := a.db.Collection("kvmeta").UpdateOne(a.ctx,
		b.M{"_id": "version"},
		b.M{"$set": b.M{"value": v}},
	)
	return err
}

// User management

// UserCreate inserts User object into a database
func (a *adapter) UserCreate(usr *t.User) error {
	if _, err := a.db.Collection("users").InsertOne(a.ctx, usr); err != nil {
		if mdb.IsDuplicateKeyError(err) {
			return t.ErrDuplicate
		}
		return err
	}
	return nil
}

func (a *adapter) userGetOne(filter b.M) (*t.User, error) {
	var user t.User

	filter["state"] = b.M{"$ne": t.StateDeleted}
	if err := a.db.Collection("users").FindOne(a.ctx, filter).Decode(&user); err != nil {
		if err == mdb.ErrNoDocuments { // User not found
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UserGet fetches a single user by user id. If user is not found it returns (nil, nil)
func (a *adapter) UserGet(id t.Uid) (*t.User, error) {
	return a.userGetOne(b.M{"_id": id.String()})
}

// UserGetByUsername fetches a single user by login name. If user is not found it returns (nil, nil)
func (a *adapter) UserGetByUsername(username string) (*t.User, error) {
	return a.userGetOne(b.M{"username": username})
}

// UserGetAll returns user records for a given list of user IDs
func (a *adapter) UserGetAll(ids ...t.Uid) ([]t.User, error) {
	uids := make([]any, len(ids))
	for i, id := range ids {
		uids[i] = id.String()
	}

	users := []t.User{}
	filter := b.M{"_id": b.M{"$in": uids}, "state": b.M{"$ne": t.StateDeleted}}
	cur, err := a.db.Collection("users").Find(a.ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(a.ctx)

	for cur.Next(a.ctx) {
		var user t.User
		if err := cur.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, cur.Err()
}

func (a *adapter) maybeStartTransaction(sess mdb.Session) error {
	if a.useTransactions {
		return sess.StartTransaction()
	}
	return nil
}

func (a *adapter) maybeCommitTransaction(ctx context.Context, sess mdb.Session) error {
	if a.useTransactions {
		return sess.CommitTransaction(ctx)
	}
	return nil
}

// UserDelete deletes user record
func (a *adapter) UserDelete(uid t.Uid, hard bool) error {
	var err error
	var sess mdb.Session
	if sess, err = a.conn.StartSession(); err != nil {
		return err
	}
	defer sess.EndSession(a.ctx)

	if err = a.maybeStartTransaction(sess); err != nil {
		return err
	}
	return mdb.WithSession(a.ctx, sess, func(sc mdb.SessionContext) error {
		// Disable or delete all user's auth records.
		if _, err = a.authDelAllRecords(sc, uid); err != nil {
			return err
		}

		if hard {
			// Delete user's posts.
			if _, err = a.db.Collection("posts").DeleteMany(sc, b.M{"author": uid.String()}); err != nil {
				return err
			}

			// And finally delete the user.
			if _, err = a.db.Collection("users").DeleteOne(sc, b.M{"_id": uid.String()}); err != nil {
				return err
			}
		} else {
			now := t.TimeNow()
			disable := b.M{"$set": b.M{"state": t.StateDeleted, "stateat": now, "deletedat": now, "updatedat": now}}
			if _, err = a.db.Collection("users").UpdateOne(sc, b.M{"_id": uid.String()}, disable); err != nil {
				return err
			}
		}

		// Finally commit all changes
		return a.maybeCommitTransaction(sc, sess)
	})
}

// UserUpdate updates user record
func (a *adapter) UserUpdate(uid t.Uid, update map[string]any) error {
	// to get round the hardcoded "UpdatedAt" key in store.Users.Update()
	update = common.NormalizeUpdateMap(update)

	_, err := a.db.Collection("users").UpdateOne(a.ctx, b.M{"_id": uid.String()}, b.M{"$set": update})
	if mdb.IsDuplicateKeyError(err) {
		return t.ErrDuplicate
	}
	return err
}

// Authentication management for the basic authentication scheme

// AuthGetUniqueRecord returns authentication record for a given unique value i.e. login.
func (a *adapter) AuthGetUniqueRecord(unique string) (t.Uid, auth.Level, []byte, time.Time, error) {
	var record common.AuthRecord

	filter := b.M{"_id": unique}
	findOpts := mdbopts.FindOne().SetProjection(b.M{
		"userid":  1,
		"authlvl": 1,
		"secret":  1,
		"expires": 1,
	})
	err := a.db.Collection("auth").FindOne(a.ctx, filter, findOpts).Decode(&record)
	if err != nil {
		if err == mdb.ErrNoDocuments {
			return t.ZeroUid, 0, nil, time.Time{}, nil
		}
		return t.ZeroUid, 0, nil, time.Time{}, err
	}

	return t.ParseUid(record.UserId), record.AuthLvl, record.Secret, record.Expires, nil
}

// AuthGetRecord returns authentication record given user ID and method.
func (a *adapter) AuthGetRecord(uid t.Uid, scheme string) (string, auth.Level, []byte, time.Time, error) {
	record, err := a.authGetRecord(uid, scheme)
	if err != nil {
		return "", 0, nil, time.Time{}, err
	}
	return record.Unique, record.AuthLvl, record.Secret, record.Expires, nil
}

func (a *adapter) authGetRecord(uid t.Uid, scheme string) (*common.AuthRecord, error) {
	var record common.AuthRecord

	filter := b.M{"userid": uid.String(), "scheme": scheme}
	err := a.db.Collection("auth").FindOne(a.ctx, filter).Decode(&record)
	if err != nil {
		if err == mdb.ErrNoDocuments {
			return nil, t.ErrNotFound
		}
		return nil, err
	}

	return &record, nil
}

// AuthAddRecord creates new authentication record
func (a *adapter) AuthAddRecord(uid t.Uid, scheme, unique string, authLvl auth.Level, secret []byte, expires time.Time) error {
	authRecord := &common.AuthRecord{
		Unique:  unique,
		UserId:  uid.String(),
		Scheme:  scheme,
		AuthLvl: authLvl,
		Secret:  secret,
		Expires: expires,
	}
	if _, err := a.db.Collection("auth").InsertOne(a.ctx, authRecord); err != nil {
		if mdb.IsDuplicateKeyError(err) {
			return t.ErrDuplicate
		}
		return err
	}
	return nil
}

// AuthDelScheme deletes an existing authentication scheme for the user.
func (a *adapter) AuthDelScheme(uid t.Uid, scheme string) error {
	_, err := a.db.Collection("auth").DeleteOne(a.ctx,
		b.M{
			"userid": uid.String(),
			"scheme": scheme})
	return err
}

func (a *adapter) authDelAllRecords(ctx context.Context, uid t.Uid) (int, error) {
	res, err := a.db.Collection("auth").DeleteMany(ctx, b.M{"userid": uid.String()})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}

// AuthDelAllRecords deletes all records of a given user.
func (a *adapter) AuthDelAllRecords(uid t.Uid) (int, error) {
	return a.authDelAllRecords(a.ctx, uid)
}

// AuthUpdRecord modifies an authentication record.
func (a *adapter) AuthUpdRecord(uid t.Uid, scheme, unique string,
	authLvl auth.Level, secret []byte, expires time.Time) error {
	// The primary key is immutable. If '_id' has changed, we have to replace the old record with a new one:
	// 1. Check if '_id' has changed.
	// 2. If not, execute update by '_id'
	// 3. If yes, first insert the new record (it may fail due to dublicate '_id') then delete the old one.

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
		_, err = a.db.Collection("auth").UpdateOne(a.ctx,
			b.M{"_id": record.Unique},
			b.M{"$set": b.M{
				"authlvl": record.AuthLvl,
				"secret":  record.Secret,
				"expires": record.Expires}})
		return err
	}

	oldUnique := record.Unique
	if err = a.AuthAddRecord(uid, scheme, unique, record.AuthLvl, record.Secret, record.Expires); err != nil {
		return err
	}
	_, err = a.db.Collection("auth").DeleteOne(a.ctx, b.M{"_id": oldUnique})
	return err
}

// Groups

// GroupCreate saves a new group.
func (a *adapter) GroupCreate(group *t.Group) error {
	if _, err := a.db.Collection("groups").InsertOne(a.ctx, group); err != nil {
		if mdb.IsDuplicateKeyError(err) {
			return t.ErrDuplicate
		}
		return err
	}
	return nil
}

// GroupGet loads a group by slug. If the group does not exist it returns (nil, nil).
func (a *adapter) GroupGet(slug string) (*t.Group, error) {
	var group t.Group
	if err := a.db.Collection("groups").FindOne(a.ctx, b.M{"slug": slug}).Decode(&group); err != nil {
		if err == mdb.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// GroupGetAll loads all groups sorted by title.
func (a *adapter) GroupGetAll() ([]t.Group, error) {
	findOpts := mdbopts.Find().SetSort(b.D{{Key: "title", Value: 1}}).SetLimit(int64(a.maxResults))
	cur, err := a.db.Collection("groups").Find(a.ctx, b.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(a.ctx)

	var groups []t.Group
	if err = cur.All(a.ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Posts

// PostCreate saves a new post.
func (a *adapter) PostCreate(post *t.Post) error {
	if _, err := a.db.Collection("posts").InsertOne(a.ctx, post); err != nil {
		if mdb.IsDuplicateKeyError(err) {
			return t.ErrDuplicate
		}
		return err
	}
	return nil
}

// PostGet loads a single post. If the post does not exist it returns (nil, nil).
func (a *adapter) PostGet(id t.Uid) (*t.Post, error) {
	var post t.Post
	if err := a.db.Collection("posts").FindOne(a.ctx, b.M{"_id": id.String()}).Decode(&post); err != nil {
		if err == mdb.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func postFilter(opts *t.QueryOpt) b.M {
	filter := b.M{}
	if opts != nil {
		if !opts.Author.IsZero() {
			filter["author"] = opts.Author.String()
		}
		if !opts.Group.IsZero() {
			filter["group"] = opts.Group.String()
		}
	}
	return filter
}

// PostGetAll loads posts matching the query, newest first.
func (a *adapter) PostGetAll(opts *t.QueryOpt) ([]t.Post, error) {
	limit, offset := common.Window(opts, a.maxResults)
	findOpts := mdbopts.Find().
		SetSort(b.D{{Key: "createdat", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cur, err := a.db.Collection("posts").Find(a.ctx, postFilter(opts), findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(a.ctx)

	posts := []t.Post{}
	for cur.Next(a.ctx) {
		var post t.Post
		if err = cur.Decode(&post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, cur.Err()
}

// PostCount counts posts matching the query.
func (a *adapter) PostCount(opts *t.QueryOpt) (int, error) {
	count, err := a.db.Collection("posts").CountDocuments(a.ctx, postFilter(opts))
	return int(count), err
}

// PostUpdate updates text or group of a post.
func (a *adapter) PostUpdate(id t.Uid, update map[string]any) error {
	res, err := a.db.Collection("posts").UpdateOne(a.ctx,
		b.M{"_id": id.String()},
		b.M{"$set": common.NormalizeUpdateMap(update)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return t.ErrNotFound
	}
	return nil
}

func (a *adapter) isDbInitialized() bool {
	var result map[string]int

	findOpts := mdbopts.FindOneOptions{Projection: b.M{"value": 1, "_id": 0}}
	if err := a.db.Collection("kvmeta").FindOne(a.ctx, b.M{"_id": "version"}, &findOpts).Decode(&result); err != nil {
		return false
	}
	return true
}

// GetTestAdapter returns an unregistered adapter instance for integration tests.
func GetTestAdapter() adp.Adapter {
	return &adapter{}
}

func init() {
	store.RegisterAdapter(&adapter{})
}
