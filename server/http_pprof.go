// Runtime profiles over HTTP. GET <pprof_url>/ lists profiles with their counts,
// GET <pprof_url>/<name> dumps the named profile in text form.

package main

import (
	"fmt"
	"net/http"
	"path"
	"runtime/pprof"
	"strings"

	"github.com/yatube/yatube/server/logs"
)

// servePprof mounts the profile handler at prefix. Blank prefix or "-" disables it.
func servePprof(mux *http.ServeMux, prefix string) {
	if prefix == "" || prefix == "-" {
		return
	}

	root := path.Clean("/"+prefix) + "/"
	mux.Handle(root, profileHandler(root))

	logs.Info.Printf("pprof: profiles served at '%s'", root)
}

func profileHandler(root string) http.HandlerFunc {
	return func(wrt http.ResponseWriter, req *http.Request) {
		hdr := wrt.Header()
		hdr.Set("Content-Type", "text/plain; charset=utf-8")
		hdr.Set("X-Content-Type-Options", "nosniff")

		name := strings.TrimPrefix(req.URL.Path, root)
		if name == "" {
			for _, prof := range pprof.Profiles() {
				fmt.Fprintf(wrt, "%s\t%d\n", prof.Name(), prof.Count())
			}
			return
		}

		prof := pprof.Lookup(name)
		if prof == nil {
			wrt.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(wrt, "no such profile %q\n", name)
			return
		}
		// debug=2 prints goroutine stacks the way an unrecovered panic would.
		prof.WriteTo(wrt, 2)
	}
}
