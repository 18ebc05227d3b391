package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestServerMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.store.EXPECT().IsOpen().Return(true).AnyTimes()
	env.store.EXPECT().GetAdapterName().Return("postgres").AnyTimes()
	env.store.EXPECT().DbStats().Return(func() any {
		return map[string]int64{"TotalConns": 3}
	}).AnyTimes()

	mux := http.NewServeMux()
	m := newServerMetrics(mux, "/metrics")
	globals.metrics = m

	mux.Handle("/hello", m.instrument("hello", http.HandlerFunc(func(wrt http.ResponseWriter, req *http.Request) {
		wrt.Write([]byte("hello"))
	})))
	for i := 0; i < 2; i++ {
		mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello", nil))
	}
	m.postCreated()
	m.postEdited()
	m.postEdited()
	m.feedClientsChanged(2)

	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("Status: expected %d, got %d", http.StatusOK, resp.Code)
	}
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		`yatube_http_requests_total{code="200",method="get",route="hello"} 2`,
		`yatube_http_request_duration_seconds_count{route="hello"} 2`,
		`yatube_posts_total{op="create"} 1`,
		`yatube_posts_total{op="edit"} 2`,
		`yatube_feed_clients_live_count 2`,
		`yatube_db_up 1`,
		`yatube_db_stat{adapter="postgres",name="TotalConns"} 3`,
		`yatube_uptime_seconds`,
		`go_goroutines`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("'%s' not found in metrics", want)
		}
	}
}

func TestServerMetricsDisabled(t *testing.T) {
	mux := http.NewServeMux()
	m := newServerMetrics(mux, "-")
	if m == nil {
		t.Fatal("Metrics must be created even when not exposed")
	}

	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusNotFound {
		t.Errorf("Status: expected %d, got %d", http.StatusNotFound, resp.Code)
	}

	// Nil metrics are a no-op.
	var none *serverMetrics
	none.postCreated()
	none.postEdited()
	none.feedClientsChanged(1)
	hdl := http.NotFoundHandler()
	if none.instrument("x", hdl) == nil {
		t.Error("instrument must return the handler")
	}
}
