// Package server 把推荐引擎暴露为 HTTP API，并托管可选的前端静态资源。
// 纯粹的请求编解码与路由，不含任何评分逻辑。
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/trekware/trekkit/engine"
)

// Server 是 HTTP 服务。
type Server struct {
	engine *engine.Engine
	log    *slog.Logger

	staticDir string
}

// New 创建 HTTP 服务。
func New(eng *engine.Engine, log *slog.Logger, staticDir string) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{engine: eng, log: log, staticDir: staticDir}
}

// Handler 组装路由。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/treks", s.handleListTreks)
		r.Get("/treks/{trekID}", s.handleGetTrek)

		r.Get("/users", s.handleListUsers)
		r.Post("/users", s.handleCreateUser)
		r.Get("/users/{userID}", s.handleGetUser)
		r.Post("/users/{userID}/ratings", s.handleCreateRating)

		r.Get("/recommend/{method}/{userID}", s.handleRecommend)
		r.Get("/explain/{userID}/{trekID}", s.handleExplain)
	})

	if s.staticDir != "" {
		fs := http.FileServer(http.Dir(s.staticDir))
		r.Handle("/*", fs)
	}

	return r
}

// requestLogger 按请求记录一行结构化日志。
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
