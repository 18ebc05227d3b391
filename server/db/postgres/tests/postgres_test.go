//go:build postgres
// +build postgres

// Integration tests of the PostgreSQL adapter. Requires a running database server:
//
//	go test -tags postgres ./server/db/postgres/tests/ -config ./test.conf
package tests

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"testing"

	jcr "github.com/tinode/jsonco"
	"github.com/yatube/yatube/server/db/common/test_data"
	"github.com/yatube/yatube/server/db/common/testsuite"
	backend "github.com/yatube/yatube/server/db/postgres"
	"github.com/yatube/yatube/server/logs"
	"github.com/yatube/yatube/server/store"
	"github.com/yatube/yatube/server/store/adapter"
)

type configType struct {
	// If Reset=true test will recreate database every time it runs
	Reset bool `json:"reset_db_data"`
	// Configurations for individual adapters.
	Adapters map[string]json.RawMessage `json:"adapters"`
}

var config configType
var adp adapter.Adapter
var testData *test_data.TestData

func TestCreateDb(t *testing.T) {
	if err := adp.CreateDb(config.Reset); err != nil {
		t.Fatal(err)
	}
	testsuite.RunVersion(t, adp)
}

// ================== Create tests ================================
func TestUserCreate(t *testing.T) {
	testsuite.RunUserCreate(t, adp, testData)
}

func TestAuthAddRecord(t *testing.T) {
	testsuite.RunAuthAddRecord(t, adp, testData)
}

func TestGroupCreate(t *testing.T) {
	testsuite.RunGroupCreate(t, adp, testData)
}

func TestPostCreate(t *testing.T) {
	testsuite.RunPostCreate(t, adp, testData)
}

// ================== Read tests ==================================
func TestUserGet(t *testing.T) {
	testsuite.RunUserGet(t, adp, testData)
}

func TestUserGetByUsername(t *testing.T) {
	testsuite.RunUserGetByUsername(t, adp, testData)
}

func TestUserGetAll(t *testing.T) {
	testsuite.RunUserGetAll(t, adp, testData)
}

func TestAuthGetRecord(t *testing.T) {
	testsuite.RunAuthGetRecord(t, adp, testData)
}

func TestAuthGetUniqueRecord(t *testing.T) {
	testsuite.RunAuthGetUniqueRecord(t, adp, testData)
}

func TestGroupGet(t *testing.T) {
	testsuite.RunGroupGet(t, adp, testData)
}

func TestGroupGetAll(t *testing.T) {
	testsuite.RunGroupGetAll(t, adp, testData)
}

func TestPostGet(t *testing.T) {
	testsuite.RunPostGet(t, adp, testData)
}

func TestPostGetAll(t *testing.T) {
	testsuite.RunPostGetAll(t, adp, testData)
}

func TestPostCount(t *testing.T) {
	testsuite.RunPostCount(t, adp, testData)
}

// ================== Update tests ================================
func TestUserUpdate(t *testing.T) {
	testsuite.RunUserUpdate(t, adp, testData)
}

func TestAuthUpdRecord(t *testing.T) {
	testsuite.RunAuthUpdRecord(t, adp, testData)
}

func TestPostUpdate(t *testing.T) {
	testsuite.RunPostUpdate(t, adp, testData)
}

// ================== Delete tests ================================
func TestAuthDelScheme(t *testing.T) {
	testsuite.RunAuthDelScheme(t, adp, testData)
}

func TestAuthDelAllRecords(t *testing.T) {
	testsuite.RunAuthDelAllRecords(t, adp, testData)
}

func TestUserDelete(t *testing.T) {
	testsuite.RunUserDelete(t, adp, testData)
}

func init() {
	logs.Init(os.Stderr, "stdFlags")
	adp = backend.GetTestAdapter()
	conffile := flag.String("config", "./test.conf", "config of the database connection")

	if file, err := os.Open(*conffile); err != nil {
		log.Fatal("Failed to read config file:", err)
	} else if err = json.NewDecoder(jcr.New(file)).Decode(&config); err != nil {
		log.Fatal("Failed to parse config file:", err)
	}

	if adp == nil {
		log.Fatal("Database adapter is missing")
	}
	if adp.IsOpen() {
		log.Print("Connection is already opened")
	}

	err := adp.Open(config.Adapters[adp.GetName()])
	if err != nil {
		log.Fatal(err)
	}

	testData = test_data.InitTestData()
	if testData == nil {
		log.Fatal("Failed to initialize test data")
	}
	store.SetTestUidGenerator(*testData.UGen)
}
