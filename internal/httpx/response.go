package httpx

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/AngelCh415/wb-ads-dashboard/internal/wbapi"
)

// envelope is the body of every /api response. Validation failures carry
// code, upstream and auth failures carry status and, when known, endpoint.
type envelope struct {
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Message  string `json:"message,omitempty"`
	Status   int    `json:"status,omitempty"`
	Code     int    `json:"code,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	_ = enc.Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, data any, msg string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Message: msg})
}

// badRequest reports an input error before any upstream call.
func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, envelope{Code: http.StatusBadRequest, Message: msg})
}

// writeError normalizes err and writes it. Internal details stay in the log.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	apiErr := wbapi.Normalize(err)
	if apiErr.Status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err), zap.Int("status", apiErr.Status), zap.String("endpoint", apiErr.Endpoint))
	} else {
		log.Warn("request rejected", zap.Error(err), zap.Int("status", apiErr.Status), zap.String("endpoint", apiErr.Endpoint))
	}
	writeJSON(w, apiErr.Status, envelope{
		Status:   apiErr.Status,
		Message:  apiErr.Message,
		Endpoint: apiErr.Endpoint,
	})
}
