package diagnostics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kbukum/iocboot/component"
	"github.com/kbukum/iocboot/logger"
)

const componentName = "diagnostics"

var (
	_ component.Component     = (*Server)(nil)
	_ component.Describable   = (*Server)(nil)
	_ component.RouteProvider = (*Server)(nil)
)

// Server is the diagnostics HTTP server. It is a component.Component so the
// application starts and stops it with the rest of its infrastructure.
type Server struct {
	cfg    Config
	engine *gin.Engine
	log    *logger.Logger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

// New creates a server with the diagnostics routes mounted under
// cfg.BasePath. cfg must have defaults applied.
func New(cfg Config, src Source, log *logger.Logger) *Server {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{cfg: cfg, engine: gin.New(), log: log.WithComponent(componentName)}
	s.engine.Use(recovery(s.log), requestLogger(s.log))

	g := s.engine.Group(cfg.BasePath)
	g.GET("/container", Registrations(src))
	g.GET("/modules", Modules(src))
	g.GET("/health", Health(src))
	g.GET("/version", Version())
	return s
}

// Handler returns the HTTP handler, for tests and custom mounting.
func (s *Server) Handler() http.Handler { return s.engine }

// Name returns the component name.
func (s *Server) Name() string { return componentName }

// Start binds the port and serves in the background. It returns once the
// listener is bound. A disabled server does nothing.
func (s *Server) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("diagnostics failed to bind %s: %w", addr, err)
	}
	s.listener = ln
	s.srv = &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Error("diagnostics server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}(s.srv)

	s.log.Info("diagnostics server started", logger.Fields("addr", ln.Addr().String()))
	return nil
}

// Stop shuts the server down within the configured timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	s.srv, s.listener = nil, nil
	if err != nil {
		return fmt.Errorf("diagnostics shutdown: %w", err)
	}
	s.log.Info("diagnostics server stopped")
	return nil
}

// Addr returns the bound address, or "" when not serving.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Health reports healthy while serving, or when disabled.
func (s *Server) Health(ctx context.Context) component.Health {
	h := component.Health{Name: componentName, Status: component.StatusHealthy}
	switch {
	case !s.cfg.Enabled:
		h.Message = "disabled"
	case s.Addr() == "":
		h.Status = component.StatusUnhealthy
		h.Message = "not serving"
	}
	return h
}

// Describe returns summary information for the startup summary.
func (s *Server) Describe() component.Description {
	details := fmt.Sprintf("%s:%d%s", s.cfg.Host, s.cfg.Port, s.cfg.BasePath)
	if !s.cfg.Enabled {
		details = "disabled"
	}
	return component.Description{Name: "Diagnostics", Type: "server", Details: details, Port: s.cfg.Port}
}

// Routes lists the mounted routes in path order.
func (s *Server) Routes() []component.Route {
	info := s.engine.Routes()
	routes := make([]component.Route, 0, len(info))
	for _, r := range info {
		routes = append(routes, component.Route{Method: r.Method, Path: r.Path, Handler: handlerName(r.Handler)})
	}
	slices.SortFunc(routes, func(a, b component.Route) int { return strings.Compare(a.Path, b.Path) })
	return routes
}

// handlerName shortens Gin's handler names:
// "github.com/kbukum/iocboot/diagnostics.Health.func1" becomes "Health".
func handlerName(full string) string {
	name := strings.TrimSuffix(full, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	parts := strings.Split(name, ".")
	for i := len(parts) - 1; i > 0; i-- {
		if !strings.HasPrefix(parts[i], "func") {
			return strings.Trim(parts[i], "(*)")
		}
	}
	return name
}
