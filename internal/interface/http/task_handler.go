package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/task-manager-api/internal/application"
	"github.com/oksasatya/task-manager-api/internal/interface/middleware"
	"github.com/oksasatya/task-manager-api/pkg/response"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

// createTaskRequest has no owner field: the owner is always the caller.
type createTaskRequest struct {
	Description string `json:"description" binding:"required"`
	Completed   bool   `json:"completed"`
}

// Create POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), middleware.CurrentUser(c).ID, application.CreateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

// List GET /tasks?completed=true&limit=10&skip=20&sortBy=createdAt:desc
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.Svc.List(c.Request.Context(), middleware.CurrentUser(c).ID, application.ListQuery{
		Completed: c.Query("completed"),
		Limit:     c.Query("limit"),
		Skip:      c.Query("skip"),
		SortBy:    c.Query("sortBy"),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tasks)
}

// Search GET /tasks/search?q=milk&size=10
func (h *TaskHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	tasks, err := h.Svc.Search(c.Request.Context(), middleware.CurrentUser(c).ID, c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, tasks)
}

// Get GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	t, err := h.Svc.Get(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

// Update PATCH /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", map[string]string{"payload": "unreadable body"})
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id"), body)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

// Delete DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	t, err := h.Svc.Delete(c.Request.Context(), middleware.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}
