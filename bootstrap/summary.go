package bootstrap

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/kbukum/iocboot/component"
	"github.com/kbukum/iocboot/di"
	"github.com/kbukum/iocboot/ioc"
)

// InfrastructureInfo describes a component in the summary.
type InfrastructureInfo struct {
	Name    string
	Type    string
	Details string
	Port    int
}

// Summary collects and prints what the application started with.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer

	infrastructure []InfrastructureInfo
	routes         []component.Route
	modules        []string
	bindings       []di.RegistrationInfo
}

// NewSummary creates a summary that prints to stdout.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version, out: os.Stdout}
}

// SetOutput redirects the printed summary.
func (s *Summary) SetOutput(w io.Writer) { s.out = w }

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) { s.startupDuration = d }

// Collect snapshots the components and, when built, the container.
func (s *Summary) Collect(registry *component.Registry, b *ioc.Bootstrapper) {
	s.infrastructure, s.routes, s.modules, s.bindings = nil, nil, nil, nil

	if registry != nil {
		for _, c := range registry.All() {
			info := InfrastructureInfo{Name: c.Name()}
			if d, ok := c.(component.Describable); ok {
				desc := d.Describe()
				if desc.Name != "" {
					info.Name = desc.Name
				}
				info.Type, info.Details, info.Port = desc.Type, desc.Details, desc.Port
			}
			s.infrastructure = append(s.infrastructure, info)
			if rp, ok := c.(component.RouteProvider); ok {
				s.routes = append(s.routes, rp.Routes()...)
			}
		}
	}

	if b == nil {
		return
	}
	for _, m := range b.Modules() {
		s.modules = append(s.modules, m.Name)
	}
	if c, err := b.Container(); err == nil {
		s.bindings = c.Registrations()
	}
}

// Infrastructure returns the collected components.
func (s *Summary) Infrastructure() []InfrastructureInfo { return s.infrastructure }

// Bindings returns the collected container bindings.
func (s *Summary) Bindings() []di.RegistrationInfo { return s.bindings }

// Display prints the summary followed by the health report.
func (s *Summary) Display(report *component.Report) {
	w := s.out
	fmt.Fprintf(w, "\n%s %s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if len(s.infrastructure) > 0 {
		fmt.Fprintf(w, "\nInfrastructure\n")
		for i, inf := range s.infrastructure {
			details := inf.Details
			if inf.Type != "" {
				details = "[" + inf.Type + "] " + details
			}
			fmt.Fprintf(w, "   %s %s: %s\n", branch(i, len(s.infrastructure)), inf.Name, strings.TrimSpace(details))
		}
	}

	if len(s.modules) > 0 {
		fmt.Fprintf(w, "\nModules (%d)\n", len(s.modules))
		for i, m := range s.modules {
			fmt.Fprintf(w, "   %s %s\n", branch(i, len(s.modules)), m)
		}
	}

	if len(s.bindings) > 0 {
		fmt.Fprintf(w, "\nBindings (%d)\n", len(s.bindings))
		for i, b := range s.bindings {
			flags := b.Lifetime.String()
			if b.Eager {
				flags += ", eager"
			}
			if b.Overrides > 0 {
				flags += fmt.Sprintf(", overridden %dx", b.Overrides)
			}
			fmt.Fprintf(w, "   %s %s (%s, %s)\n", branch(i, len(s.bindings)), b.Contract, b.Kind, flags)
		}
	}

	if len(s.routes) > 0 {
		fmt.Fprintf(w, "\nRoutes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			fmt.Fprintf(w, "   %s %-7s %s -> %s\n", branch(i, len(s.routes)), r.Method, r.Path, r.Handler)
		}
	}

	if report != nil && len(report.Components) > 0 {
		fmt.Fprintf(w, "\nHealth: %s\n", report.Status)
		for i, h := range report.Components {
			msg := ""
			if h.Message != "" {
				msg = " (" + h.Message + ")"
			}
			fmt.Fprintf(w, "   %s %s: %s%s\n", branch(i, len(report.Components)), h.Name, h.Status, msg)
		}
	}
	fmt.Fprintln(w)
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}
