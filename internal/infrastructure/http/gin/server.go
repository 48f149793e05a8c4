package gin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	ginlib "github.com/gin-gonic/gin"

	"meal_storefront/internal/config"
	"meal_storefront/pkg/logger"
)

type Server struct {
	engine *ginlib.Engine
	addr   string
	logger logger.Logger
}

func NewEngine(env string, log logger.Logger) *ginlib.Engine {
	if env == "production" || env == "prod" {
		ginlib.SetMode(ginlib.ReleaseMode)
	}
	r := ginlib.New()
	r.Use(ginlib.Recovery())
	r.Use(RequestContext())
	r.Use(AccessLog(log))
	return r
}

func NewServer(cfg config.ServerConfig, engine *ginlib.Engine, log logger.Logger) *Server {
	return &Server{
		engine: engine,
		addr:   cfg.Address(),
		logger: log,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	if s.engine == nil {
		return fmt.Errorf("gin engine is nil")
	}

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", logger.String("addr", s.addr))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
