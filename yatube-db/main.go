package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"

	jcr "github.com/tinode/jsonco"
	_ "github.com/yatube/yatube/server/auth/basic"
	"github.com/yatube/yatube/server/store"
)

type configType struct {
	StoreConfig json.RawMessage            `json:"store_config"`
	AuthConfig  map[string]json.RawMessage `json:"auth_config"`
}

/*
User object in data.json

	"createdAt": "-140h",
	"username": "alice",
	"passhash": "alice123",
	"fullName": "Alice Johnson",
	"email": "alice@example.com",
	"state": "ok"
*/
type User struct {
	CreatedAt string `json:"createdAt"`
	Username  string `json:"username"`
	Password  string `json:"passhash"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	State     string `json:"state"`
}

/*
Group object in data.json

	"createdAt": "-128h",
	"title": "Cats",
	"slug": "cats",
	"description": "Everything about cats"
*/
type Group struct {
	CreatedAt   string `json:"createdAt"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

/*
Post object in data.json

	"createdAt": "-100h",
	"author": "alice",
	"group": "cats",
	"text": "My cat ate my homework."
*/
type Post struct {
	CreatedAt string `json:"createdAt"`
	Author    string `json:"author"`
	Group     string `json:"group"`
	Text      string `json:"text"`
}

// Data is the content of data.json.
type Data struct {
	Users  []User  `json:"users"`
	Groups []Group `json:"groups"`
	Posts  []Post  `json:"posts"`
}

// Generates password of length n
func getPassword(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-/.+?=&"

	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

func loadConfig(conffile string) *configType {
	file, err := os.Open(conffile)
	if err != nil {
		log.Fatalln("Failed to read config file:", err)
	}
	defer file.Close()

	var config configType
	jr := jcr.New(file)
	if err = json.NewDecoder(jr).Decode(&config); err != nil {
		switch jerr := err.(type) {
		case *json.UnmarshalTypeError:
			lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
			log.Fatalf("Unmarshall error in config file in %s at %d:%d (offset %d bytes): %s",
				jerr.Field, lnum, cnum, jerr.Offset, jerr.Error())
		case *json.SyntaxError:
			lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
			log.Fatalf("Syntax error in config file at %d:%d (offset %d bytes): %s",
				lnum, cnum, jerr.Offset, jerr.Error())
		default:
			log.Fatal("Failed to parse config file: ", err)
		}
	}
	return &config
}

func main() {
	var reset = flag.Bool("reset", false, "force database reset")
	var upgrade = flag.Bool("upgrade", false, "perform database version upgrade")
	var noInit = flag.Bool("no_init", false, "check that database exists but don't create if missing")
	var datafile = flag.String("data", "", "name of file with sample data to load")
	var conffile = flag.String("config", "./yatube.conf", "config of the database connection")

	flag.Parse()

	var data Data
	if *datafile != "" && *datafile != "-" {
		raw, err := os.ReadFile(*datafile)
		if err != nil {
			log.Fatalln("Failed to read sample data file:", err)
		}
		if err = json.Unmarshal(raw, &data); err != nil {
			log.Fatalln("Failed to parse sample data:", err)
		}
	}

	config := loadConfig(*conffile)

	err := store.Store.Open(1, config.StoreConfig)
	defer store.Store.Close()

	log.Println("Database", store.Store.GetAdapterName(), store.Store.GetAdapterVersion())

	if err != nil {
		if strings.Contains(err.Error(), "Database not initialized") {
			if *noInit {
				log.Fatalln("Database not found.")
			}
			log.Println("Database not found. Creating.")
		} else if strings.Contains(err.Error(), "Invalid database version") {
			msg := "Wrong DB version: expected " + strconv.Itoa(store.Store.GetAdapterVersion()) + ", got " +
				strconv.Itoa(store.Store.GetDbVersion()) + "."
			if *reset {
				log.Println(msg, "Dropping and recreating the database.")
			} else if *upgrade {
				log.Println(msg, "Upgrading the database.")
			} else {
				log.Fatalln(msg, "Use --reset to reset, --upgrade to upgrade.")
			}
		} else {
			log.Fatalln("Failed to init DB adapter:", err)
		}
	} else if *reset {
		log.Println("Database reset requested")
	} else {
		log.Println("Database exists, DB version is correct. All done.")
		os.Exit(0)
	}

	if *upgrade {
		// Upgrade DB from one version to another.
		err = store.Store.UpgradeDb(config.StoreConfig)
		if err == nil {
			log.Println("Database successfully upgraded.")
		}
	} else {
		// Reset or create DB
		err = store.Store.InitDb(config.StoreConfig, true)
		if err == nil {
			var action string
			if *reset {
				action = "reset"
			} else {
				action = "initialized"
			}
			log.Println("Database", action)
		}
	}

	if err != nil {
		log.Fatalln("Failed to init DB:", err)
	}

	if !*upgrade {
		if err = genDb(&data, config.AuthConfig["basic"]); err != nil {
			log.Fatalln("Failed to load sample data:", err)
		}
	} else if len(data.Users) > 0 {
		log.Println("Sample data ignored. All done.")
	}
	os.Exit(0)
}
