package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/drag"
	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/service"
	"github.com/BuzzLyutic/taskboard/internal/view"
	"github.com/BuzzLyutic/taskboard/pkg/respond"
)

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req model.TaskForm
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	u, _ := UserFrom(r.Context())
	task, err := h.service.Create(r.Context(), req, u.ID)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/tasks/"+task.ID)
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	task, err := h.service.Get(u.ID, chi.URLParam(r, "id"))
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	u, _ := UserFrom(r.Context())
	respond.JSON(w, r, http.StatusOK, h.service.List(u.ID, c))
}

func (h *TaskHandler) Board(w http.ResponseWriter, r *http.Request) {
	c, ok := h.criteria(w, r)
	if !ok {
		return
	}
	u, _ := UserFrom(r.Context())
	respond.JSON(w, r, http.StatusOK, h.service.Board(u.ID, c))
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch model.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	u, _ := UserFrom(r.Context())
	task, err := h.service.Update(r.Context(), u.ID, chi.URLParam(r, "id"), patch)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

type statusRequest struct {
	Status model.Status `json:"status"`
}

func (h *TaskHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	u, _ := UserFrom(r.Context())
	task, err := h.service.SetStatus(r.Context(), u.ID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

// Delete answers 204 whether or not the caller owned such a task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFrom(r.Context())
	h.service.Delete(r.Context(), u.ID, chi.URLParam(r, "id"))
	respond.NoContent(w, r)
}

// ReplaceAll swaps the caller's own tasks for the request body.
func (h *TaskHandler) ReplaceAll(w http.ResponseWriter, r *http.Request) {
	var tasks []model.Task
	if err := json.NewDecoder(r.Body).Decode(&tasks); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	u, _ := UserFrom(r.Context())
	if err := h.service.ReplaceAll(r.Context(), u.ID, tasks); err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.NoContent(w, r)
}

type dropRequest struct {
	TaskID string           `json:"taskId"`
	Over   *drag.DropTarget `json:"over"`
}

type dropResponse struct {
	Moved bool       `json:"moved"`
	Task  model.Task `json:"task"`
}

// Drop replays a finished drag gesture: the dragged card and whatever it
// was released over.
func (h *TaskHandler) Drop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}

	u, _ := UserFrom(r.Context())
	task, err := h.service.Get(u.ID, req.TaskID)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}

	p := drag.NewProtocol(h.service.StatusSetter(u.ID), h.logger)
	if err := p.Start(task); err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	moved, err := p.Drop(r.Context(), req.Over)
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}

	if moved {
		task, err = h.service.Get(u.ID, req.TaskID)
		if err != nil {
			handleErrors(w, r, h.logger, err)
			return
		}
	}
	respond.JSON(w, r, http.StatusOK, dropResponse{Moved: moved, Task: task})
}

func (h *TaskHandler) criteria(w http.ResponseWriter, r *http.Request) (model.Criteria, bool) {
	q := r.URL.Query()
	c, err := view.ParseCriteria(q.Get("search"), q.Get("status"), q.Get("priority"), q.Get("sortBy"), q.Get("sortOrder"))
	if err != nil {
		handleErrors(w, r, h.logger, err)
		return model.Criteria{}, false
	}
	return c, true
}
