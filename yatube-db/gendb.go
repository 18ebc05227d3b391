package main

import (
	"errors"
	"log"
	"time"

	"github.com/yatube/yatube/server/auth"
	"github.com/yatube/yatube/server/store"
	"github.com/yatube/yatube/server/store/types"
)

// Length of generated passwords.
const passwordLength = 10

// Loads sample users, groups and posts into the database.
func genDb(data *Data, basicConfig []byte) error {
	if len(data.Users) == 0 {
		log.Println("No data provided, stopping")
		return nil
	}

	authHandler := store.Store.GetAuthHandler("basic")
	if authHandler == nil {
		return errors.New("basic authenticator is not available")
	}
	if len(basicConfig) == 0 {
		basicConfig = []byte(`{}`)
	}
	if err := authHandler.Init(basicConfig, "basic"); err != nil {
		return err
	}

	log.Println("Generating users...")

	nameIndex := make(map[string]string, len(data.Users))
	for _, uu := range data.Users {
		state, err := types.NewObjState(uu.State)
		if err != nil {
			return err
		}
		user := &types.User{
			State:    state,
			Username: uu.Username,
			FullName: uu.FullName,
			Email:    uu.Email,
		}
		user.CreatedAt = getCreatedTime(uu.CreatedAt)

		if user, err = store.Users.Create(user); err != nil {
			return err
		}

		passwd := uu.Password
		if passwd == "(random)" || passwd == "" {
			passwd = getPassword(passwordLength)
			log.Printf("Password for user '%s' is '%s'", uu.Username, passwd)
		}
		if _, err = authHandler.AddRecord(&auth.Rec{Uid: user.Uid(), AuthLevel: auth.LevelAuth},
			[]byte(user.Username+":"+passwd)); err != nil {
			return err
		}

		nameIndex[user.Username] = user.Id
	}

	log.Println("Generating groups...")

	slugIndex := make(map[string]string, len(data.Groups))
	for _, gg := range data.Groups {
		group := &types.Group{
			Title:       gg.Title,
			Slug:        gg.Slug,
			Description: gg.Description,
		}
		group.CreatedAt = getCreatedTime(gg.CreatedAt)

		group, err := store.Groups.Create(group)
		if err != nil {
			return err
		}
		slugIndex[group.Slug] = group.Id
	}

	log.Println("Generating posts...")

	for _, pp := range data.Posts {
		author, ok := nameIndex[pp.Author]
		if !ok {
			return errors.New("unknown author of a post: " + pp.Author)
		}
		post := &types.Post{
			Author: author,
			Text:   pp.Text,
		}
		if pp.Group != "" {
			if post.Group, ok = slugIndex[pp.Group]; !ok {
				return errors.New("unknown group of a post: " + pp.Group)
			}
		}
		post.CreatedAt = getCreatedTime(pp.CreatedAt)

		if _, err := store.Posts.Create(post); err != nil {
			return err
		}
	}

	log.Printf("Generated %d users, %d groups, %d posts", len(data.Users), len(data.Groups), len(data.Posts))
	return nil
}

// Converts a duration such as "-140h" into a time relative to now. Blank duration
// gives the current time.
func getCreatedTime(delta string) time.Time {
	dd, err := time.ParseDuration(delta)
	if err != nil && delta != "" {
		log.Fatal("Invalid duration string", delta)
	}
	return types.TimeNow().Add(dd)
}
