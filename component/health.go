package component

// Report aggregates the health of a service and its components. The worst
// component status wins.
type Report struct {
	Service    string       `json:"service"`
	Version    string       `json:"version,omitempty"`
	Status     HealthStatus `json:"status"`
	Components []Health     `json:"components,omitempty"`
}

// NewReport creates a healthy report with no components.
func NewReport(service, version string) *Report {
	return &Report{Service: service, Version: version, Status: StatusHealthy}
}

// Add appends h and degrades the overall status if needed.
func (r *Report) Add(h Health) {
	r.Components = append(r.Components, h)

	switch h.Status {
	case StatusUnhealthy:
		r.Status = StatusUnhealthy
	case StatusDegraded:
		if r.Status != StatusUnhealthy {
			r.Status = StatusDegraded
		}
	}
}

// Healthy reports whether no component is degraded or unhealthy.
func (r *Report) Healthy() bool { return r.Status == StatusHealthy }
