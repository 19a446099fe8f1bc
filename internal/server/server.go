// Package server is the thin HTTP front end: it serves the most recent
// result set and accepts a re-crawl trigger guarded by the crawl lock. All
// analysis happens in pkg/pipeline; this layer only reads finished runs.
package server

import (
	"net/http"

	"github.com/shopscope/shopscope/internal/utils"
	"github.com/shopscope/shopscope/pkg/storage"
)

// CrawlFunc runs a full crawl synchronously. The server invokes it on a
// background goroutine while holding the crawl lock.
type CrawlFunc func() error

type Server struct {
	DB       *storage.DB
	Lock     *utils.CrawlLock
	Crawl    CrawlFunc
	Username string
	Password string
}

func New(db *storage.DB, lock *utils.CrawlLock, crawl CrawlFunc, user, pass string) *Server {
	return &Server{
		DB:       db,
		Lock:     lock,
		Crawl:    crawl,
		Username: user,
		Password: pass,
	}
}

// Handler builds the route table. Split from Start so tests can drive it
// through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/results", s.basicAuth(s.handleResults))
	mux.HandleFunc("GET /api/runs", s.basicAuth(s.handleRuns))
	mux.HandleFunc("POST /api/recrawl", s.basicAuth(s.handleRecrawl))

	return mux
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
