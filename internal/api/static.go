// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package api

import (
	"net/http"
	"path"
	"strings"
)

const indexFile = "/index.html"

// staticHandler serves the built front end and falls back to index.html
// for client-side routes.
type staticHandler struct {
	root http.FileSystem
	fs   http.Handler
}

func newStaticHandler(dir string) *staticHandler {
	root := http.Dir(dir)
	return &staticHandler{root: root, fs: http.FileServer(root)}
}

func (s *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := path.Clean("/" + r.URL.Path)
	setStaticCacheControl(w, p)

	if p != "/" && p != indexFile && s.isFile(p) {
		s.fs.ServeHTTP(w, r)
		return
	}

	// Unknown asset requests get a real 404; everything else is a
	// client-side route.
	if path.Ext(p) != "" && p != indexFile {
		http.NotFound(w, r)
		return
	}
	if !s.isFile(indexFile) {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	f, err := s.root.Open(indexFile)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, "index.html", stat.ModTime(), f)
}

func (s *staticHandler) isFile(p string) bool {
	f, err := s.root.Open(p)
	if err != nil {
		return false
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return !stat.IsDir()
}

func setStaticCacheControl(w http.ResponseWriter, p string) {
	switch ext := strings.ToLower(path.Ext(p)); ext {
	case ".js", ".css":
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	case ".png", ".svg", ".jpg", ".webp", ".ico", ".woff2":
		w.Header().Set("Cache-Control", "public, max-age=604800")
	}
}
