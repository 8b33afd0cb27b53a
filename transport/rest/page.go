package rest

import (
	"embed"
	"net/http"
	"path"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/rocketscienceinc/tictactoe-local/transport/session"
)

//go:embed assets/*
var assets embed.FS

var contentTypes = map[string]string{
	".css":  "text/css; charset=utf-8",
	".html": "text/html; charset=utf-8",
	".js":   "text/javascript; charset=utf-8",
}

// servePage - serves the board and hands out the session cookie before the socket connects.
func servePage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	session.Ensure(w, r)
	writeAsset(w, r, "index.html")
}

func serveAssets(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	writeAsset(w, r, ps.ByName("file"))
}

func writeAsset(w http.ResponseWriter, r *http.Request, name string) {
	data, err := assets.ReadFile("assets/" + name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	contentType, ok := contentTypes[path.Ext(name)]
	if !ok {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	securityHeaders(w)

	_, _ = w.Write(data)
}
