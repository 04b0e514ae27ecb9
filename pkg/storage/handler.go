package storage

import (
	"errors"
	"io"
	"mime"
	"net/http"
	pathpkg "path"
	"strings"
)

// Handler serves files of d keyed by the request path. Only keys under
// prefix are served: Handler(disk, "upload") answers GET /upload/category/5/x.png.
func Handler(d Disk, prefix string) http.Handler {
	prefix = strings.Trim(prefix, "/")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		p := strings.TrimPrefix(pathpkg.Clean("/"+r.URL.Path), "/")
		if prefix != "" && p != prefix && !strings.HasPrefix(p, prefix+"/") {
			http.NotFound(w, r)
			return
		}

		rc, err := d.Get(r.Context(), p)
		if err != nil {
			if errors.Is(err, ErrNotExist) {
				http.NotFound(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		defer rc.Close()

		if ct := mime.TypeByExtension(pathpkg.Ext(p)); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("Cache-Control", "public, max-age=86400")
		if r.Method == http.MethodHead {
			return
		}
		io.Copy(w, rc) //nolint:errcheck
	})
}
