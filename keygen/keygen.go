package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
)

// Sizes of the keys in bytes.
var keySizes = map[string]int{
	// XTEA key for obfuscating IDs, store_config.uid_key.
	"uid": 16,
	// HMAC salt for signing session tokens, auth_config.token.key.
	"token": 32,
	// Key of the CSRF cookie, session.csrf_key.
	"csrf": 32,
}

// Generate random keys for yatube.conf or validate an existing key.
// Keys are base64-encoded with padding, as expected by the JSON decoder.
func main() {
	var kind = flag.String("kind", "", "Kind of the key to generate or validate: 'uid', 'token' or 'csrf'. All kinds are generated if blank.")
	var key = flag.String("validate", "", "Key to validate")

	flag.Parse()

	if *key != "" {
		os.Exit(validate(*key, *kind))
	}
	if *kind == "" {
		for _, kind := range []string{"uid", "token", "csrf"} {
			if code := generate(kind); code != 0 {
				os.Exit(code)
			}
		}
		os.Exit(0)
	}
	os.Exit(generate(*kind))
}

func generate(kind string) int {
	size, ok := keySizes[kind]
	if !ok {
		fmt.Println("unknown key kind", kind)
		return 1
	}

	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		fmt.Println("failed to generate key", err)
		return 1
	}

	fmt.Printf("%s key: %s\n", kind, base64.StdEncoding.EncodeToString(data))
	return 0
}

func validate(key, kind string) int {
	size, ok := keySizes[kind]
	if !ok {
		fmt.Println("unknown key kind", kind)
		return 1
	}

	data, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		fmt.Println("INVALID: failed to decode base64", err)
		return 1
	}
	if len(data) != size {
		fmt.Printf("INVALID: %s key must be %d bytes long, got %d\n", kind, size, len(data))
		return 1
	}

	fmt.Printf("Valid %s key\n", kind)
	return 0
}
