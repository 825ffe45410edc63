package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/service"
	"github.com/BuzzLyutic/taskboard/pkg/respond"
)

type ThemeHandler struct {
	service *service.ThemeService
	logger  *zap.Logger
}

func NewThemeHandler(srv *service.ThemeService, logger *zap.Logger) *ThemeHandler {
	return &ThemeHandler{service: srv, logger: logger}
}

type themeBody struct {
	Theme model.Theme `json:"theme"`
}

func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, themeBody{Theme: h.service.Get(r.Context())})
}

func (h *ThemeHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req themeBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.service.Set(r.Context(), req.Theme); err != nil {
		handleErrors(w, r, h.logger, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, req)
}

func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, themeBody{Theme: h.service.Toggle(r.Context())})
}
