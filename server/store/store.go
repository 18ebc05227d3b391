// Package store provides methods for registering and accessing database adapters.
package store

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/store/adapter"
	"github.com/yatube/yatube/server/store/types"

	"golang.org/x/text/unicode/norm"
)

var adp adapter.Adapter
var availableAdapters = make(map[string]adapter.Adapter)

// Unique ID generator
var uGen types.UidGenerator

type configType struct {
	// 16-byte key for XTEA. Used to initialize types.UidGenerator.
	UidKey []byte `json:"uid_key"`
	// Maximum number of results to return from adapter.
	MaxResults int `json:"max_results"`
	// DB adapter name to use. Should be one of those specified in `Adapters`.
	UseAdapter string `json:"use_adapter"`
	// Configurations for individual adapters.
	Adapters map[string]json.RawMessage `json:"adapters"`
}

func openAdapter(workerId int, jsonconf json.RawMessage) error {
	var config configType
	if err := json.Unmarshal(jsonconf, &config); err != nil {
		return errors.New("store: failed to parse config: " + err.Error() + "(" + string(jsonconf) + ")")
	}

	if adp == nil {
		if len(config.UseAdapter) > 0 {
			// Adapter name specified explicitly.
			if ad, ok := availableAdapters[config.UseAdapter]; ok {
				adp = ad
			} else {
				return errors.New("store: " + config.UseAdapter + " adapter is not available in this binary")
			}
		} else if len(availableAdapters) == 1 {
			// Default to the only entry in availableAdapters.
			for _, v := range availableAdapters {
				adp = v
			}
		} else {
			return errors.New("store: db adapter is not specified. Please set `store_config.use_adapter` in `yatube.conf`")
		}
	}

	if adp.IsOpen() {
		return errors.New("store: connection is already opened")
	}

	// Initialize snowflake.
	if workerId < 0 || workerId > 1023 {
		return errors.New("store: invalid worker ID")
	}

	if err := uGen.Init(uint(workerId), config.UidKey); err != nil {
		return errors.New("store: failed to init snowflake: " + err.Error())
	}

	if err := adp.SetMaxResults(config.MaxResults); err != nil {
		return err
	}

	var adapterConfig json.RawMessage
	if config.Adapters != nil {
		adapterConfig = config.Adapters[adp.GetName()]
	}

	return adp.Open(adapterConfig)
}

// PersistentStorageInterface defines methods used for interation with persistent storage.
type PersistentStorageInterface interface {
	Open(workerId int, jsonconf json.RawMessage) error
	Close() error
	IsOpen() bool
	GetAdapterName() string
	GetAdapterVersion() int
	GetDbVersion() int
	InitDb(jsonconf json.RawMessage, reset bool) error
	UpgradeDb(jsonconf json.RawMessage) error
	GetUid() types.Uid
	GetUidString() string
	DbStats() func() any
	GetAuthNames() []string
	GetAuthHandler(name string) auth.AuthHandler
}

// Store is the main object for interacting with persistent storage.
var Store PersistentStorageInterface

type storeObj struct{}

// Open initializes the persistence system. Adapter holds a connection pool for a database instance.
//
//	workerId - snowflake worker ID
//	jsonconf - configuration string
func (storeObj) Open(workerId int, jsonconf json.RawMessage) error {
	if err := openAdapter(workerId, jsonconf); err != nil {
		return err
	}

	return adp.CheckDbVersion()
}

// Close terminates connection to persistent storage.
func (storeObj) Close() error {
	if adp.IsOpen() {
		return adp.Close()
	}

	return nil
}

// IsOpen checks if persistent storage connection has been initialized.
func (storeObj) IsOpen() bool {
	if adp != nil {
		return adp.IsOpen()
	}

	return false
}

// GetAdapterName returns the name of the current adater.
func (storeObj) GetAdapterName() string {
	if adp != nil {
		return adp.GetName()
	}

	return ""
}

// GetAdapterVersion returns version of the current adater.
func (storeObj) GetAdapterVersion() int {
	if adp != nil {
		return adp.Version()
	}

	return -1
}

// GetDbVersion returns version of the underlying database.
func (storeObj) GetDbVersion() int {
	if adp != nil {
		vers, _ := adp.GetDbVersion()
		return vers
	}

	return -1
}

// InitDb creates and configures a new database instance. If 'reset' is true it will first
// attempt to drop an existing database. If the adapter is not open, it will use the config
// string to open the adapter first.
func (s storeObj) InitDb(jsonconf json.RawMessage, reset bool) error {
	if !s.IsOpen() {
		if err := openAdapter(1, jsonconf); err != nil {
			return err
		}
	}
	return adp.CreateDb(reset)
}

// UpgradeDb performes an upgrade of the database to the current adapter version.
// If the adapter is not open, it will use the config string to open the adapter first.
func (s storeObj) UpgradeDb(jsonconf json.RawMessage) error {
	if !s.IsOpen() {
		if err := openAdapter(1, jsonconf); err != nil {
			return err
		}
	}
	return adp.UpgradeDb()
}

// RegisterAdapter makes a persistence adapter available.
// If Register is called twice or if the adapter is nil, it panics.
func RegisterAdapter(a adapter.Adapter) {
	if a == nil {
		panic("store: Register adapter is nil")
	}

	adapterName := a.GetName()
	if _, ok := availableAdapters[adapterName]; ok {
		panic("store: adapter '" + adapterName + "' is already registered")
	}
	availableAdapters[adapterName] = a
}

// GetUid generates a unique ID suitable for use as a primary key.
func (storeObj) GetUid() types.Uid {
	return uGen.Get()
}

// GetUidString generate unique ID as string
func (storeObj) GetUidString() string {
	return uGen.GetStr()
}

// DecodeUid takes an XTEA encrypted Uid and decrypts it into an int64.
// This is needed for sql compatibility. Tte original int64 values
// are generated by snowflake which ensures that the top bit is unset.
func DecodeUid(uid types.Uid) int64 {
	if uid.IsZero() {
		return 0
	}
	return uGen.DecodeUid(uid)
}

// EncodeUid applies XTEA encryption to an int64 value. It's the inverse of DecodeUid.
func EncodeUid(id int64) types.Uid {
	if id == 0 {
		return types.ZeroUid
	}
	return uGen.EncodeInt64(id)
}

// SetTestUidGenerator sets the Uid generator for adapter tests which run without opening the store.
func SetTestUidGenerator(ug types.UidGenerator) {
	uGen = ug
}

// DbStats returns a callback returning db connection stats object.
func (s storeObj) DbStats() func() any {
	if !s.IsOpen() {
		return nil
	}
	return adp.Stats
}

// UsersPersistenceInterface is an interface which defines methods for persistent storage of user records.
type UsersPersistenceInterface interface {
	Create(user *types.User) (*types.User, error)
	Get(uid types.Uid) (*types.User, error)
	GetAll(uid ...types.Uid) ([]types.User, error)
	GetByUsername(username string) (*types.User, error)
	Delete(id types.Uid, hard bool) error
	Update(uid types.Uid, update map[string]any) error
	UpdateLastSeen(uid types.Uid, userAgent string, when time.Time) error
	AddAuthRecord(uid types.Uid, authLvl auth.Level, scheme, unique string, secret []byte, expires time.Time) error
	GetAuthRecord(user types.Uid, scheme string) (string, auth.Level, []byte, time.Time, error)
	GetAuthUniqueRecord(scheme, unique string) (types.Uid, auth.Level, []byte, time.Time, error)
	UpdateAuthRecord(uid types.Uid, authLvl auth.Level, scheme, unique string, secret []byte, expires time.Time) error
	DelAuthRecords(uid types.Uid, scheme string) error
}

// usersMapper is a users struct to hold methods for persistence mapping for the User object.
type usersMapper struct{}

// Users is the ancor for storing/retrieving User objects
var Users UsersPersistenceInterface

// Create inserts User object into a database, updates creation time and assigns UID
func (usersMapper) Create(user *types.User) (*types.User, error) {
	user.SetUid(Store.GetUid())
	user.InitTimes()
	user.Username = strings.ToLower(user.Username)
	user.FullName = norm.NFC.String(user.FullName)
	if user.State == types.StateUndefined {
		user.State = types.StateOK
	}

	if err := adp.UserCreate(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Get returns a user object for the given user id
func (usersMapper) Get(uid types.Uid) (*types.User, error) {
	return adp.UserGet(uid)
}

// GetAll returns a slice of user objects for the given user ids
func (usersMapper) GetAll(uid ...types.Uid) ([]types.User, error) {
	return adp.UserGetAll(uid...)
}

// GetByUsername returns a user with the given login name.
func (usersMapper) GetByUsername(username string) (*types.User, error) {
	return adp.UserGetByUsername(strings.ToLower(username))
}

// Delete deletes user records.
func (usersMapper) Delete(id types.Uid, hard bool) error {
	return adp.UserDelete(id, hard)
}

// Update is a general-purpose update of user data.
func (usersMapper) Update(uid types.Uid, update map[string]any) error {
	if _, ok := update["UpdatedAt"]; !ok {
		update["UpdatedAt"] = types.TimeNow()
	}
	return adp.UserUpdate(uid, update)
}

// UpdateLastSeen updates LastSeen and UserAgent.
func (usersMapper) UpdateLastSeen(uid types.Uid, userAgent string, when time.Time) error {
	return adp.UserUpdate(uid, map[string]any{"LastSeen": when, "UserAgent": userAgent})
}

// AddAuthRecord creates a new authentication record for the given user.
func (usersMapper) AddAuthRecord(uid types.Uid, authLvl auth.Level, scheme, unique string, secret []byte,
	expires time.Time) error {

	return adp.AuthAddRecord(uid, scheme, scheme+":"+unique, authLvl, secret, expires)
}

// GetAuthRecord takes a user ID and a authentication scheme name, fetches unique scheme-dependent identifier and
// authentication secret.
func (usersMapper) GetAuthRecord(user types.Uid, scheme string) (string, auth.Level, []byte, time.Time, error) {
	unique, authLvl, secret, expires, err := adp.AuthGetRecord(user, scheme)
	if err == nil {
		if parts := strings.SplitN(unique, ":", 2); len(parts) == 2 {
			unique = parts[1]
		}
	}
	return unique, authLvl, secret, expires, err
}

// GetAuthUniqueRecord takes a unique identifier and a authentication scheme name, fetches user ID and
// authentication secret.
func (usersMapper) GetAuthUniqueRecord(scheme, unique string) (types.Uid, auth.Level, []byte, time.Time, error) {
	return adp.AuthGetUniqueRecord(scheme + ":" + unique)
}

// UpdateAuthRecord updates authentication record with a new secret and expiration time.
func (usersMapper) UpdateAuthRecord(uid types.Uid, authLvl auth.Level, scheme, unique string,
	secret []byte, expires time.Time) error {

	return adp.AuthUpdRecord(uid, scheme, scheme+":"+unique, authLvl, secret, expires)
}

// DelAuthRecords deletes user's auth records of the given scheme.
func (usersMapper) DelAuthRecords(uid types.Uid, scheme string) error {
	return adp.AuthDelScheme(uid, scheme)
}

// GroupsPersistenceInterface is an interface which defines methods for persistent storage of groups.
type GroupsPersistenceInterface interface {
	Create(group *types.Group) (*types.Group, error)
	Get(slug string) (*types.Group, error)
	GetAll() ([]types.Group, error)
}

type groupsMapper struct{}

// Groups is an instance of GroupsPersistenceInterface to map methods to.
var Groups GroupsPersistenceInterface

// Create saves a new group. The slug must be unique.
func (groupsMapper) Create(group *types.Group) (*types.Group, error) {
	if group.Slug == "" {
		return nil, types.ErrMalformed
	}
	group.SetUid(Store.GetUid())
	group.InitTimes()
	group.Title = norm.NFC.String(strings.TrimSpace(group.Title))
	group.Description = norm.NFC.String(group.Description)

	if err := adp.GroupCreate(group); err != nil {
		return nil, err
	}
	return group, nil
}

// Get loads a group by slug.
func (groupsMapper) Get(slug string) (*types.Group, error) {
	return adp.GroupGet(slug)
}

// GetAll loads all groups.
func (groupsMapper) GetAll() ([]types.Group, error) {
	groups, err := adp.GroupGetAll()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Title < groups[j].Title
	})
	return groups, nil
}

// PostsPersistenceInterface is an interface which defines methods for persistent storage of posts.
type PostsPersistenceInterface interface {
	Create(post *types.Post) (*types.Post, error)
	Get(id types.Uid) (*types.Post, error)
	GetAll(opts *types.QueryOpt) ([]types.Post, error)
	Count(opts *types.QueryOpt) (int, error)
	Update(id types.Uid, update map[string]any) error
}

type postsMapper struct{}

// Posts is an instance of PostsPersistenceInterface to map methods to.
var Posts PostsPersistenceInterface

// Create saves a new post authored by post.Author.
func (postsMapper) Create(post *types.Post) (*types.Post, error) {
	if post.Author == "" {
		return nil, types.ErrMalformed
	}
	post.SetUid(Store.GetUid())
	post.InitTimes()
	post.Text = norm.NFC.String(post.Text)

	if err := adp.PostCreate(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get loads a single post.
func (postsMapper) Get(id types.Uid) (*types.Post, error) {
	return adp.PostGet(id)
}

// GetAll loads posts matching the query, newest first.
func (postsMapper) GetAll(opts *types.QueryOpt) ([]types.Post, error) {
	return adp.PostGetAll(opts)
}

// Count returns the number of posts matching the query.
func (postsMapper) Count(opts *types.QueryOpt) (int, error) {
	return adp.PostCount(opts)
}

// Update modifies text and group of a post.
func (postsMapper) Update(id types.Uid, update map[string]any) error {
	if text, ok := update["Text"].(string); ok {
		update["Text"] = norm.NFC.String(text)
	}
	if _, ok := update["UpdatedAt"]; !ok {
		update["UpdatedAt"] = types.TimeNow()
	}
	return adp.PostUpdate(id, update)
}

// Registered authentication handlers.
var authHandlers map[string]auth.AuthHandler

// RegisterAuthScheme registers an authentication scheme handler.
func RegisterAuthScheme(name string, handler auth.AuthHandler) {
	if name == "" {
		panic("RegisterAuthScheme: empty auth scheme name")
	}
	if handler == nil {
		panic("RegisterAuthScheme: scheme handler is nil")
	}

	name = strings.ToLower(name)
	if authHandlers == nil {
		authHandlers = make(map[string]auth.AuthHandler)
	}
	if _, dup := authHandlers[name]; dup {
		panic("RegisterAuthScheme: called twice for scheme " + name)
	}
	authHandlers[name] = handler
}

// GetAuthNames returns all registered auth handler names, sorted.
func (storeObj) GetAuthNames() []string {
	if len(authHandlers) == 0 {
		return nil
	}

	var names []string
	for name := range authHandlers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// GetAuthHandler returns an auth handler by name.
func (storeObj) GetAuthHandler(name string) auth.AuthHandler {
	return authHandlers[strings.ToLower(name)]
}

func init() {
	Store = storeObj{}
	Users = usersMapper{}
	Groups = groupsMapper{}
	Posts = postsMapper{}
}
