// Web server initialization and shutdown.

package main

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yatube/yatube/server/logs"
	"golang.org/x/crypto/acme/autocert"
)

// Maximum time to wait for in-flight requests on shutdown.
const shutdownTimeout = 5 * time.Second

type tlsAutocertConfig struct {
	// Domains to support by autocert
	Domains []string `json:"domains"`
	// Name of directory where auto-certificates are cached, e.g. /etc/letsencrypt/live/your-domain-here
	CertCache string `json:"cache"`
	// Contact email for letsencrypt
	Email string `json:"email"`
}

type tlsConfig struct {
	// Flag enabling TLS
	Enabled bool `json:"enabled"`
	// Listen for connections on this address:port and redirect them to HTTPS port.
	RedirectHTTP string `json:"http_redirect"`
	// Enable Strict-Transport-Security by setting max_age > 0
	StrictMaxAge int `json:"strict_max_age"`
	// ACME autocert config, e.g. letsencrypt.org
	Autocert *tlsAutocertConfig `json:"autocert"`
	// If Autocert is not defined, provide file names of static certificate and key
	CertFile string `json:"cert_file"`
	KeyFile  string `json:"key_file"`
}

// Parses the "tls" section of the config. Returns nil if TLS is disabled.
func parseTLSConfig(jsconfig json.RawMessage) (*tlsConfig, error) {
	if len(jsconfig) == 0 {
		return nil, nil
	}

	var config tlsConfig
	if err := json.Unmarshal(jsconfig, &config); err != nil {
		return nil, errors.New("http: failed to parse tls config: " + err.Error() + "(" + string(jsconfig) + ")")
	}

	if !config.Enabled {
		return nil, nil
	}

	if config.StrictMaxAge > 0 {
		globals.tlsStrictMaxAge = strconv.Itoa(config.StrictMaxAge)
	}

	if config.Autocert == nil && (config.CertFile == "" || config.KeyFile == "") {
		return nil, errors.New("http: missing certificate or key file names")
	}

	return &config, nil
}

// Builds *tls.Config for the server: either autocert or static cert.
func (tc *tlsConfig) serverConfig() *tls.Config {
	conf := &tls.Config{MinVersion: tls.VersionTLS12}
	if tc.Autocert != nil {
		certManager := autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(tc.Autocert.Domains...),
			Cache:      autocert.DirCache(tc.Autocert.CertCache),
			Email:      tc.Autocert.Email,
		}
		conf.GetCertificate = certManager.GetCertificate
		if tc.CertFile != "" || tc.KeyFile != "" {
			logs.Warn.Printf("HTTP server: using autocert, static cert and key files are ignored")
			tc.CertFile = ""
			tc.KeyFile = ""
		}
	}
	return conf
}

func listenAndServe(addr string, handler http.Handler, tlsConf *tlsConfig, stop <-chan bool) error {
	shuttingDown := false

	httpdone := make(chan bool)

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if tlsConf != nil {
		// If port is not specified, use default https port (443),
		// otherwise it will default to 80
		if server.Addr == "" {
			server.Addr = ":https"
		}
		server.TLSConfig = tlsConf.serverConfig()
	}

	go func() {
		var err error
		if tlsConf != nil {
			if tlsConf.RedirectHTTP != "" {
				logs.Info.Printf("Redirecting connections from HTTP at [%s] to HTTPS at [%s]",
					tlsConf.RedirectHTTP, server.Addr)

				// This is a second HTTP server listenning on a different port.
				go http.ListenAndServe(tlsConf.RedirectHTTP, tlsRedirect(server.Addr))
			}

			logs.Info.Printf("Listening for client HTTPS connections on [%s]", server.Addr)
			err = server.ListenAndServeTLS(tlsConf.CertFile, tlsConf.KeyFile)
		} else {
			logs.Info.Printf("Listening for client HTTP connections on [%s]", server.Addr)
			err = server.ListenAndServe()
		}
		if err != nil {
			if shuttingDown {
				logs.Info.Println("HTTP server: stopped")
			} else {
				logs.Err.Println("HTTP server: failed", err)
			}
		}
		httpdone <- true
	}()

	// Wait for either a termination signal or an error
loop:
	for {
		select {
		case <-stop:
			// Flip the flag that we are terminating and close the Accept-ing socket, so no new connections are possible.
			shuttingDown = true
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			err := server.Shutdown(ctx)
			cancel()
			if err != nil {
				// Failure/timeout shutting down the server gracefully.
				return err
			}

			// Wait for http server to stop Accept()-ing connections.
			<-httpdone

			// Disconnect live feed clients.
			if globals.feed != nil {
				globals.feed.shutdown()
			}

			// Stop publishing statistics.
			statsShutdown()

			break loop

		case <-httpdone:
			break loop
		}
	}
	return nil
}

// Wrapper for http.Handler which optionally adds a Strict-Transport-Security to the response.
func hstsHandler(handler http.Handler) http.Handler {
	if globals.tlsStrictMaxAge != "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Strict-Transport-Security", "max-age="+globals.tlsStrictMaxAge)
			handler.ServeHTTP(w, r)
		})
	}
	return handler
}

// Redirect HTTP requests to HTTPS.
func tlsRedirect(toPort string) http.HandlerFunc {
	if strings.HasPrefix(toPort, ":") {
		toPort = toPort[1:]
	} else if _, port, err := net.SplitHostPort(toPort); err == nil {
		toPort = port
	}
	if toPort == "443" || toPort == "https" {
		toPort = ""
	} else if toPort != "" {
		toPort = ":" + toPort
	}

	return func(wrt http.ResponseWriter, req *http.Request) {
		host, _, err := net.SplitHostPort(req.Host)
		if err != nil {
			// If SplitHostPort has failed assume it's because :port part is missing.
			host = req.Host
		}

		target := "https://" + host + toPort + req.URL.Path
		if req.URL.RawQuery != "" {
			target += "?" + req.URL.RawQuery
		}
		http.Redirect(wrt, req, target, http.StatusTemporaryRedirect)
	}
}

// Custom 404 response.
func serve404(wrt http.ResponseWriter, req *http.Request) {
	render(wrt, req, http.StatusNotFound, "core/404.html", pageContext{"path": req.URL.Path})
}

// Generic 500 response. The error is logged, not shown.
func serve500(wrt http.ResponseWriter, req *http.Request, err error) {
	logs.Err.Println("http:", req.Method, req.URL.Path, err)
	http.Error(wrt, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
