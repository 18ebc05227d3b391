// Yatube: a blog server with groups, author profiles and a live feed of new posts.
//
// Setup & initialization.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/prometheus/common/version"
	jcr "github.com/tinode/jsonco"

	_ "github.com/yatube/yatube/server/auth/basic"
	_ "github.com/yatube/yatube/server/auth/token"
	"github.com/yatube/yatube/server/logs"
	"github.com/yatube/yatube/server/store"
)

const (
	// Posts on a single page of a listing.
	defaultPostsPerPage = 10

	// Default value of Cache-Control header for rendered pages, seconds.
	defaultCacheControl = 0

	// Application version.
	currentVersion = "0.3"
)

// Build timestamp defined by the compiler
var buildstamp = "undef"

var globals struct {
	// Live feed of newly created posts.
	feed *FeedHub
	// Page renderer.
	renderer Renderer
	// Prometheus metrics.
	metrics *serverMetrics

	// Channel for publishing expvar updates.
	statsUpdate chan *counterUpdate

	// Number of posts on a page of a listing.
	postsPerPage int
	// Session cookie parameters.
	cookie cookieConfig
	// Value of Cache-Control header.
	cacheControl int

	// Add Strict-Transport-Security to headers, the value signifies age.
	// Empty string "" turns it off
	tlsStrictMaxAge string
	// Use X-Forwarded-For and X-Forwarded-Proto headers.
	useXForwardedFor bool
}

// Contents of the configuration file
type configType struct {
	// HTTP(S) address:port to listen on for incoming requests, e.g. ":8000" or "127.0.0.1:8000".
	Listen string `json:"listen"`
	// Cache-Control value for rendered pages in seconds. 0 disables caching.
	CacheControl int `json:"cache_control"`
	// URL path for exposing runtime stats. Disabled if the path is blank or "-".
	ExpvarPath string `json:"expvar"`
	// URL path for Prometheus metrics. Disabled if the path is blank or "-".
	MetricsPath string `json:"metrics"`
	// URL path for internal server status. Disabled if the path is blank or "-".
	PprofPath string `json:"pprof"`
	// Take IP address and scheme of the client from HTTP headers 'X-Forwarded-For' and 'X-Forwarded-Proto'.
	// Useful when yatube is behind a proxy. If missing, fallback to default RemoteAddr.
	UseXForwardedFor bool `json:"use_x_forwarded_for"`
	// Number of posts on a page.
	PostsPerPage int `json:"posts_per_page"`
	// Directory with page templates. Embedded templates are used if blank.
	Templates string `json:"templates"`

	// Configs for subsystems
	Session json.RawMessage            `json:"session"`
	Feed    json.RawMessage            `json:"feed"`
	TLS     json.RawMessage            `json:"tls"`
	Auth    map[string]json.RawMessage `json:"auth_config"`
	Store   json.RawMessage            `json:"store_config"`
}

func main() {
	executable, _ := os.Executable()

	logFlags := flag.String("log_flags", "stdFlags",
		"Comma-separated list of log flags (as defined in https://golang.org/pkg/log/#pkg-constants without the L prefix)")
	logOutput := flag.String("log_output", "stderr", "Log destination: 'stdout' or 'stderr'.")
	configfile := flag.String("config", "yatube.conf", "Path to config file.")
	listenOn := flag.String("listen", "", "Override address and port to listen on for HTTP(S) clients.")
	staticPath := flag.String("static_data", "", "File path to directory with page templates.")
	expvarPath := flag.String("expvar", "", "Override the URL path where runtime stats are exposed. Use '-' to disable.")
	pprofUrl := flag.String("pprof_url", "", "Debugging only! URL path for exposing profiling info. Use '-' to disable.")
	flag.Parse()

	out := logs.Output(*logOutput)
	logs.Init(out, *logFlags)

	version.Version = currentVersion
	version.Revision = buildstamp

	logs.Info.Printf("Server v%s:%s:%s; pid %d; %d process(es)",
		currentVersion, executable, buildstamp,
		os.Getpid(), runtime.GOMAXPROCS(runtime.NumCPU()))

	*configfile = toAbsolutePath(rootpath(executable), *configfile)
	logs.Info.Printf("Using config from '%s'", *configfile)

	config, err := loadConfig(*configfile)
	if err != nil {
		logs.Err.Fatal(err)
	}

	if *listenOn != "" {
		config.Listen = *listenOn
	}
	if *expvarPath != "" {
		config.ExpvarPath = *expvarPath
	}
	if *pprofUrl != "" {
		config.PprofPath = *pprofUrl
	}
	if *staticPath != "" {
		config.Templates = *staticPath
	}

	// Initialize authentication handlers. The store registers handlers in init().
	for _, name := range store.Store.GetAuthNames() {
		if authhdl := store.Store.GetAuthHandler(name); authhdl != nil {
			if err := authhdl.Init(config.Auth[name], name); err != nil {
				logs.Err.Fatalln("Failed to init auth scheme", name+":", err)
			}
		}
	}
	for _, name := range []string{"basic", "token"} {
		if authhdl := store.Store.GetAuthHandler(name); authhdl == nil || !authhdl.IsInitialized() {
			logs.Err.Fatalln("Required auth scheme is not available:", name)
		}
	}

	if err = store.Store.Open(1, config.Store); err != nil {
		logs.Err.Fatal("Failed to connect to DB: ", err)
	}
	logs.Info.Println("DB adapter", store.Store.GetAdapterName(), store.Store.GetAdapterVersion())
	defer func() {
		store.Store.Close()
		logs.Info.Println("Closed database connection(s)")
	}()

	if globals.cookie, err = parseCookieConfig(config.Session); err != nil {
		logs.Err.Fatal(err)
	}

	globals.postsPerPage = config.PostsPerPage
	if globals.postsPerPage <= 0 {
		globals.postsPerPage = defaultPostsPerPage
	}
	globals.cacheControl = config.CacheControl
	if globals.cacheControl < 0 {
		globals.cacheControl = defaultCacheControl
	}
	globals.useXForwardedFor = config.UseXForwardedFor

	var templates fs.FS
	if config.Templates != "" {
		templates = os.DirFS(toAbsolutePath(rootpath(executable), config.Templates))
		logs.Info.Printf("Loading templates from '%s'", config.Templates)
	}
	if globals.renderer, err = newTemplateRenderer(templates); err != nil {
		logs.Err.Fatal("Failed to parse templates: ", err)
	}

	feedConfig, err := parseFeedConfig(config.Feed)
	if err != nil {
		logs.Err.Fatal(err)
	}
	globals.feed = newFeedHub(feedConfig)

	mux := http.NewServeMux()

	// Exposing values for statistics and monitoring.
	statsInit(mux, config.ExpvarPath)
	statsRegisterDbStats()

	globals.metrics = newServerMetrics(mux, config.MetricsPath)

	// Debugging.
	servePprof(mux, config.PprofPath)

	registerRoutes(mux)

	tlsConfig, err := parseTLSConfig(config.TLS)
	if err != nil {
		logs.Err.Fatalln(err)
	}

	handler, err := wrapHandlers(mux, out)
	if err != nil {
		logs.Err.Fatal(err)
	}

	if err = listenAndServe(config.Listen, handler, tlsConfig, signalHandler()); err != nil {
		logs.Err.Fatal(err)
	}
}

// Wraps the mux into middleware: sessions, CSRF checks, compression, panic recovery, access log.
func wrapHandlers(mux http.Handler, accessLog io.Writer) (http.Handler, error) {
	handler, err := csrfMiddleware(globals.cookie, sessionMiddleware(mux))
	if err != nil {
		return nil, err
	}
	if globals.useXForwardedFor {
		handler = handlers.ProxyHeaders(handler)
	}

	// Websocket connections must be hijackable: no compression.
	compressed := handlers.CompressHandler(handler)
	plain := handler
	handler = http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		if websocket.IsWebSocketUpgrade(req) {
			plain.ServeHTTP(wrt, req)
			return
		}
		compressed.ServeHTTP(wrt, req)
	})

	handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(logs.Err),
		handlers.PrintRecoveryStack(true))(handler)

	return hstsHandler(handlers.CombinedLoggingHandler(accessLog, handler)), nil
}

// Reads and parses the config file. Comments are permitted.
func loadConfig(path string) (*configType, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config configType
	jr := jcr.New(file)
	if err = json.NewDecoder(jr).Decode(&config); err != nil {
		switch jerr := err.(type) {
		case *json.UnmarshalTypeError:
			lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
			return nil, fmt.Errorf("Unmarshall error in config file in %s at %d:%d (offset %d bytes): %s",
				jerr.Field, lnum, cnum, jerr.Offset, jerr.Error())
		case *json.SyntaxError:
			lnum, cnum, _ := jr.LineAndChar(jerr.Offset)
			return nil, fmt.Errorf("Syntax error in config file at %d:%d (offset %d bytes): %s",
				lnum, cnum, jerr.Offset, jerr.Error())
		default:
			return nil, fmt.Errorf("Failed to parse config file: %s", err)
		}
	}
	return &config, nil
}

// Get the directory of the executable.
func rootpath(executable string) string {
	dir, _ := filepath.Split(executable)
	return dir
}

// Convert relative filepath to absolute.
func toAbsolutePath(base, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		// Relative to the current working directory.
		abs, _ := filepath.Abs(path)
		return abs
	}
	return filepath.Clean(filepath.Join(base, path))
}
