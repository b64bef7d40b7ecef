package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/joseph-ayodele/condo-contacts/internal/common"
	"github.com/joseph-ayodele/condo-contacts/internal/oracle"
)

// errorBody is the wire shape of every failure.
type errorBody struct {
	Erro       string `json:"erro"`
	Detalhes   string `json:"detalhes,omitempty"`
	RawPreview string `json:"raw_preview,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status and an errorBody. Unexpected errors carry their
// text in detalhes; oracle parse failures carry the raw preview.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := common.HTTPStatus(err)
	body := errorBody{Erro: "erro interno"}

	var appErr *common.AppError
	if errors.As(err, &appErr) {
		body.Erro = appErr.Message
	}
	var pe *oracle.ParseError
	if errors.As(err, &pe) {
		body.RawPreview = pe.Preview
		if pe.Cause != nil {
			body.Detalhes = pe.Cause.Error()
		}
	}
	if status == http.StatusInternalServerError {
		body.Detalhes = err.Error()
	}

	log := common.LoggerFromContext(r.Context(), logger)
	if status >= http.StatusInternalServerError {
		log.Error("http.error", "path", r.URL.Path, "status", status, "code", common.ErrorCode(err), "error", err)
	} else {
		log.Warn("http.error", "path", r.URL.Path, "status", status, "code", common.ErrorCode(err), "error", err)
	}
	writeJSON(w, status, body)
}

func badRequest(code, msg string) error {
	return common.NewAppError(code, msg, common.ErrInvalidInput)
}
