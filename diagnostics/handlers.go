package diagnostics

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/iocboot/component"
	"github.com/kbukum/iocboot/di"
	"github.com/kbukum/iocboot/errors"
	"github.com/kbukum/iocboot/module"
	"github.com/kbukum/iocboot/version"
)

// Source supplies the state the endpoints report on.
type Source interface {
	Container() (*di.Container, error)
	Modules() []module.Module
	Health(ctx context.Context) *component.Report
}

// ModuleView is the JSON form of a discovered module.
type ModuleView struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

// DataResponse is the success envelope.
type DataResponse struct {
	Data any `json:"data"`
}

// RespondWithError writes err as an error body. Errors that are not an
// AppError become INTERNAL_ERROR.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Internal(err)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK sends a 200 response wrapping data.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, DataResponse{Data: data})
}

// Registrations lists the bindings of the built container.
func Registrations(src Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctr, err := src.Container()
		if err != nil {
			RespondWithError(c, err)
			return
		}
		RespondOK(c, ctr.Registrations())
	}
}

// Modules lists the candidate modules of the last discovery.
func Modules(src Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := src.Container(); err != nil {
			RespondWithError(c, err)
			return
		}
		mods := src.Modules()
		views := make([]ModuleView, len(mods))
		for i, m := range mods {
			types := make([]string, len(m.Types))
			for j, t := range m.Types {
				types[j] = t.String()
			}
			views[i] = ModuleView{Name: m.Name, Types: types}
		}
		RespondOK(c, views)
	}
}

// Health reports aggregated health; unhealthy services answer 503.
func Health(src Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := src.Health(c.Request.Context())
		status := http.StatusOK
		if report.Status == component.StatusUnhealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":     report.Status,
			"service":    report.Service,
			"version":    report.Version,
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"components": report.Components,
		})
	}
}

// Version reports build information.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondOK(c, version.GetVersionInfo())
	}
}
