package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/task-manager-api/internal/interface/http"
)

// TaskModule wires the task routes. All of them require a bearer token.
type TaskModule struct {
	Handler *handlers.TaskHandler
	Auth    gin.HandlerFunc
	Limits  Limits
}

func NewTaskModule(h *handlers.TaskHandler, auth gin.HandlerFunc, limits Limits) *TaskModule {
	return &TaskModule{Handler: h, Auth: auth, Limits: limits}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.Use(m.Auth, m.Limits.perUser())
	{
		tasks.POST("", m.Handler.Create)
		tasks.GET("", m.Handler.List)
		tasks.GET("/search", m.Handler.Search)
		tasks.GET("/:id", m.Handler.Get)
		tasks.PATCH("/:id", m.Handler.Update)
		tasks.DELETE("/:id", m.Handler.Delete)
	}
}
