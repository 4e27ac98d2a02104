package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayoon-dev/homeroom-api/internal/service"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Classes  *ClassHandler
	Students *StudentHandler
	Print    *PrintHandler
	Settings *SettingsHandler
	Metrics  *service.MetricsService
}

// Register mounts all routes under the API prefix.
func Register(r *gin.Engine, prefix string, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	api := r.Group(prefix)

	classes := api.Group("/classes")
	classes.GET("", h.Classes.List)
	classes.POST("", h.Classes.Create)
	classes.GET("/:id", h.Classes.Get)
	classes.PUT("/:id", h.Classes.Update)
	classes.DELETE("/:id", h.Classes.Delete)

	classes.GET("/:id/students", h.Students.List)
	classes.POST("/:id/students", h.Students.Create)
	classes.PUT("/:id/students", h.Students.Replace)
	classes.PATCH("/:id/students", h.Students.Autosave)
	classes.POST("/:id/students/import", h.Students.ImportPaste)
	classes.GET("/:id/students/export", h.Students.ExportCSV)

	students := api.Group("/students")
	students.PUT("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)

	api.POST("/paste/preview", h.Students.PastePreview)

	printing := api.Group("/print")
	printing.GET("/templates", h.Print.Templates)
	printing.GET("/profile", h.Print.Profile)
	printing.PUT("/profile", h.Print.SaveProfile)
	printing.PUT("/profiles/:id/offset", h.Print.UpdateOffset)
	printing.POST("/render", h.Print.Render)

	settings := api.Group("/settings")
	settings.GET("/:key", h.Settings.Get)
	settings.PUT("/:key", h.Settings.Set)
}
