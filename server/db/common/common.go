// Package common contains utility methods used by all adapters.
package common

import (
	"sort"
	"strings"
	"time"

	"github.com/yatube/yatube/server/auth"
	t "github.com/yatube/yatube/server/store/types"
)

// AuthRecord is an authentication record as stored by document databases.
type AuthRecord struct {
	Unique  string     `json:"unique" bson:"_id" rethinkdb:"unique"`
	UserId  string     `json:"userid" bson:"userid" rethinkdb:"userid"`
	Scheme  string     `json:"scheme" bson:"scheme" rethinkdb:"scheme"`
	AuthLvl auth.Level `json:"authlvl" bson:"authlvl" rethinkdb:"authlvl"`
	Secret  []byte     `json:"secret" bson:"secret" rethinkdb:"secret"`
	Expires time.Time  `json:"expires" bson:"expires" rethinkdb:"expires"`
}

// Window converts query options into LIMIT and OFFSET values. The limit is capped at maxResults.
func Window(opts *t.QueryOpt, maxResults int) (limit, offset int) {
	limit = maxResults
	if opts != nil {
		if opts.Limit > 0 && opts.Limit < limit {
			limit = opts.Limit
		}
		if opts.Offset > 0 {
			offset = opts.Offset
		}
	}
	return limit, offset
}

// UpdateByMap converts an update map into a list of "column=?" assignments and matching arguments.
// Field names are lowercased to match column names. Columns are sorted for a stable query text.
func UpdateByMap(update map[string]any) (cols []string, args []any) {
	keys := make([]string, 0, len(update))
	for col := range update {
		keys = append(keys, col)
	}
	sort.Strings(keys)

	for _, col := range keys {
		cols = append(cols, strings.ToLower(col)+"=?")
		args = append(args, update[col])
	}
	return
}

// NormalizeUpdateMap lowercases keys of the update map. Used by document stores.
func NormalizeUpdateMap(update map[string]any) map[string]any {
	result := make(map[string]any, len(update))
	for key, value := range update {
		result[strings.ToLower(key)] = value
	}
	return result
}

// SortPosts orders posts newest first. Posts created at the same moment are ordered by descending ID.
func SortPosts(posts []t.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].Uid().Compare(posts[j].Uid()) > 0
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// SelectPage applies the query window to posts already sorted newest first.
func SelectPage(posts []t.Post, opts *t.QueryOpt, maxResults int) []t.Post {
	limit, offset := Window(opts, maxResults)
	if offset >= len(posts) {
		return []t.Post{}
	}
	posts = posts[offset:]
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}
