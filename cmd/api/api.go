package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/KAsare1/Kodefx-blog/cmd/config"
	"github.com/KAsare1/Kodefx-blog/cmd/utils"
	"github.com/KAsare1/Kodefx-blog/db"
	"github.com/KAsare1/Kodefx-blog/service/about"
	"github.com/KAsare1/Kodefx-blog/service/follow"
	"github.com/KAsare1/Kodefx-blog/service/posts"
	"github.com/KAsare1/Kodefx-blog/service/user"
	"github.com/KAsare1/Kodefx-blog/web"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

type APIServer struct {
	address string
	cfg     config.Config
	db      *gorm.DB
	redis   *redis.Client
}

func NewApiServer(cfg config.Config, db *gorm.DB, rdb *redis.Client) *APIServer {
	return &APIServer{
		address: ":" + cfg.ServerPort,
		cfg:     cfg,
		db:      db,
		redis:   rdb,
	}
}

// Handler builds the full middleware chain and router.
func (s *APIServer) Handler() (http.Handler, error) {
	templates, err := web.NewTemplates()
	if err != nil {
		return nil, err
	}

	store := db.NewStore(s.db)
	sessions := utils.NewSessions(s.cfg.SecretKey, s.cfg.SessionTTL, store)
	images := utils.NewImageStorage(s.cfg.MediaRoot)

	router := mux.NewRouter().StrictSlash(true)
	router.NotFoundHandler = web.NotFoundHandler(templates)
	router.MethodNotAllowedHandler = web.MethodNotAllowedHandler(templates)
	router.PathPrefix(utils.MediaPrefix).Handler(mediaHandler(s.cfg.MediaRoot, templates)).Methods("GET")

	userHandler := user.NewHandler(store, sessions, templates, user.NewMailer(s.cfg), s.cfg.SiteURL)
	userHandler.RegisterRoutes(router)

	aboutHandler := about.NewHandler(templates)
	aboutHandler.RegisterRoutes(router)

	followHandler := follow.NewHandler(store, templates)
	followHandler.RegisterRoutes(router)

	postHandler := posts.NewPostHandler(store, templates, images)
	if s.redis != nil {
		postHandler.WithCache(posts.NewRedisIndexCache(s.redis, s.cfg.IndexCacheTTL))
	}
	postHandler.RegisterRoutes(router)

	return chain(router, sessions, templates), nil
}

// chain wraps the router as: access log, gzip, panic recovery, session user.
func chain(router http.Handler, sessions *utils.Sessions, rnd web.Renderer) http.Handler {
	handler := sessions.Middleware(router)
	handler = web.Recoverer(rnd)(handler)
	handler = handlers.CompressHandler(handler)
	return handlers.CombinedLoggingHandler(os.Stdout, handler)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *APIServer) Run(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              s.address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("Server running at", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// mediaHandler serves uploaded files. Directories and missing files get the
// regular 404 page.
func mediaHandler(root string, rnd web.Renderer) http.Handler {
	files := http.StripPrefix(utils.MediaPrefix, http.FileServer(http.Dir(root)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + strings.TrimPrefix(r.URL.Path, utils.MediaPrefix))
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil || info.IsDir() {
			web.NotFound(rnd, w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
