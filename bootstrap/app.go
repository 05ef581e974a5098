package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/iocboot/component"
	"github.com/kbukum/iocboot/di"
	"github.com/kbukum/iocboot/ioc"
	"github.com/kbukum/iocboot/logger"
	"github.com/kbukum/iocboot/module"
	"github.com/kbukum/iocboot/observability"
)

// App is an application with uniform lifecycle management. C is the config
// type; any struct embedding config.ServiceConfig satisfies Config.
type App[C Config] struct {
	Name         string
	Version      string
	Cfg          C
	Bootstrapper *ioc.Bootstrapper
	Components   *component.Registry
	Logger       *logger.Logger
	Summary      *Summary

	gracefulTimeout time.Duration
	hosted          bool
	private         bool
	telemetry       observability.ShutdownFunc
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates an application from a typed config. It applies defaults,
// validates the config and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
		hosted:          base.Container.Hosted,
		private:         o.private,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	app.Components = component.NewRegistry(app.Logger.WithComponent("components"))

	iocOpts := append(base.Container.Options(),
		ioc.WithLogger(app.Logger.WithComponent("ioc")),
		ioc.WithBindings(app.seed),
	)
	app.Bootstrapper = ioc.New(append(iocOpts, o.iocOptions...)...)

	app.Summary = NewSummary(base.Name, base.Version)
	if o.summaryOut != nil {
		app.Summary.SetOutput(o.summaryOut)
	}
	return app, nil
}

// RegisterComponent adds an infrastructure component. Components start before
// the container is built and stop after it is closed.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback for the configure phase, which runs once
// the container is built.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// seed binds the config, the logger and every registered component into the
// builder ahead of the registrars.
func (a *App[C]) seed(b *di.Builder) error {
	if err := b.BindValue(reflect.TypeOf(a.Cfg), a.Cfg); err != nil {
		return err
	}
	if err := di.BindInstance(b, a.Logger); err != nil {
		return err
	}
	for _, c := range a.Components.All() {
		if err := b.BindValue(reflect.TypeOf(c), c); err != nil {
			return err
		}
	}
	return nil
}

// Container returns the built container.
func (a *App[C]) Container() (*di.Container, error) {
	return a.Bootstrapper.Container()
}

// Modules returns the modules discovered by the container.
func (a *App[C]) Modules() []module.Module {
	return a.Bootstrapper.Modules()
}

// Health reports the container state together with every component.
func (a *App[C]) Health(ctx context.Context) *component.Report {
	report := component.NewReport(a.Name, a.Version)
	h := component.Health{Name: "container", Status: component.StatusHealthy}
	if state := a.Bootstrapper.State(); state != ioc.StateBuilt {
		h.Status = component.StatusUnhealthy
		h.Message = state.String()
	} else if c, err := a.Bootstrapper.Container(); err == nil {
		h.Details = map[string]string{"bindings": fmt.Sprint(c.Len())}
	}
	report.Add(h)
	for _, ch := range a.Components.HealthAll(ctx) {
		report.Add(ch)
	}
	return report
}

// ReadyCheck fails when the container or any component is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	report := a.Health(ctx)
	if report.Healthy() {
		return nil
	}
	var issues []string
	for _, h := range report.Components {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		issues = append(issues, detail)
	}
	return fmt.Errorf("unhealthy components: %s", strings.Join(issues, ", "))
}

// Run executes the full lifecycle of a long-running service and blocks until
// a shutdown signal or ctx is done.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}
	a.Logger.Info("application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)
	return a.stop()
}

// RunTask runs task with the full bootstrap lifecycle and shuts down when it
// returns. SIGINT and SIGTERM cancel the task's context.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	taskCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	taskErr := task(taskCtx)
	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// Start performs the startup sequence without blocking. On failure everything
// started so far is stopped again.
func (a *App[C]) Start(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		if stopErr := a.stop(); stopErr != nil {
			a.Logger.Warn("cleanup after failed startup reported errors", logger.Fields(logger.FieldError, stopErr.Error()))
		}
		return err
	}
	return nil
}

func (a *App[C]) startup(ctx context.Context) error {
	start := time.Now()
	a.Logger.Info("starting application", logger.Fields("name", a.Name, "version", a.Version))

	shutdown, err := observability.Setup(ctx, a.Cfg.GetServiceConfig().Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry setup failed: %w", err)
	}
	a.telemetry = shutdown

	a.Logger.Info("phase 1: starting components")
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	a.Logger.Info("phase 2: building container", logger.Fields("hosted", a.hosted))
	if !a.private {
		if err := ioc.SetDefault(a.Bootstrapper); err != nil {
			return fmt.Errorf("publishing container failed: %w", err)
		}
	}
	if err := a.Bootstrapper.Initialize(ctx, a.hosted); err != nil {
		return fmt.Errorf("container initialization failed: %w", err)
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	if err := a.configure(ctx); err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.DisplaySummary(ctx)
	return nil
}

// DisplaySummary prints the startup summary collected from the components
// and the container.
func (a *App[C]) DisplaySummary(ctx context.Context) {
	a.Summary.Collect(a.Components, a.Bootstrapper)
	a.Summary.Display(a.Health(ctx))
}

func (a *App[C]) configure(ctx context.Context) error {
	if len(a.onConfigure) == 0 {
		return nil
	}
	a.Logger.Info("phase 3: running configuration callbacks", logger.Fields(logger.FieldCount, len(a.onConfigure)))
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// WaitForSignal blocks until SIGINT, SIGTERM or ctx cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("context canceled, shutting down")
		return nil
	}
}

// Shutdown performs graceful shutdown. Use it with Start when managing your
// own lifecycle.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.stop()
}

// stop runs the stop hooks, closes the container's singletons, stops the
// components in reverse order and flushes telemetry.
func (a *App[C]) stop() error {
	a.Logger.Info("shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var errs []error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook error", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}
	if err := a.Bootstrapper.Close(); err != nil {
		a.Logger.Error("container close error", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("component shutdown error", logger.Fields(logger.FieldError, err.Error()))
		errs = append(errs, err)
	}
	if a.telemetry != nil {
		if err := a.telemetry(ctx); err != nil {
			a.Logger.Warn("telemetry shutdown error", logger.Fields(logger.FieldError, err.Error()))
		}
		a.telemetry = nil
	}

	a.Logger.Info("application shutdown complete")
	return stderrors.Join(errs...)
}
