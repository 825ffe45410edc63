package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/identity"
	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/repo"
	"github.com/BuzzLyutic/taskboard/internal/service"
	"github.com/BuzzLyutic/taskboard/pkg/respond"
)

func handleErrors(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Fields(w, r, http.StatusBadRequest, "validation error", verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, repo.ErrInvalidTask), errors.Is(err, repo.ErrDuplicateID):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, identity.ErrDuplicateEmail):
		respond.Error(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, identity.ErrInvalidCredentials), errors.Is(err, identity.ErrInvalidToken):
		respond.Error(w, r, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
