package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AngelCh415/wb-ads-dashboard/internal/campaigns"
	"github.com/AngelCh415/wb-ads-dashboard/internal/observability"
	"github.com/AngelCh415/wb-ads-dashboard/internal/utils"
	"github.com/AngelCh415/wb-ads-dashboard/internal/wbapi"
)

const (
	apiKeyHeader = "x-api-key"
	dateLayout   = "2006-01-02"
	maxBodyBytes = 1 << 20
)

type apiKeyCtx struct{}

var errNotNumber = errors.New("not a number")

// handlers builds a campaigns.Service per request, scoped to the caller's key.
type handlers struct {
	clients          *wbapi.Factory
	log              *zap.Logger
	metrics          observability.MetricsRegistry
	chunkConcurrency int
}

// requireAPIKey rejects requests without x-api-key before anything else runs.
func requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get(apiKeyHeader))
		if key == "" {
			writeJSON(w, http.StatusUnauthorized, envelope{Status: http.StatusUnauthorized, Message: "API key is required"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), apiKeyCtx{}, key)))
	})
}

func (h *handlers) service(r *http.Request) (*campaigns.Service, *zap.Logger) {
	key, _ := r.Context().Value(apiKeyCtx{}).(string)
	log := utils.WithRID(h.log, r.Context())
	return campaigns.NewService(h.clients.ForKey(key), log, h.metrics, h.chunkConcurrency), log
}

type dateRange struct {
	BeginDate string `json:"beginDate"`
	EndDate   string `json:"endDate"`
}

type clusterQuery struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	NmID flexible `json:"nm_id"`
}

// flexible accepts a JSON number or a numeric string.
type flexible struct {
	set   bool
	value int64
}

func (f *flexible) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, ok := wbapi.AsInt(raw)
	if !ok {
		return fmt.Errorf("%w: %s", errNotNumber, b)
	}
	f.set, f.value = true, v
	return nil
}

// validateDates requires both dates in YYYY-MM-DD with begin not after end.
func validateDates(begin, end, beginName, endName string) string {
	if begin == "" || end == "" {
		return fmt.Sprintf("%s and %s are required", beginName, endName)
	}
	b, err1 := time.Parse(dateLayout, begin)
	e, err2 := time.Parse(dateLayout, end)
	if err1 != nil || err2 != nil {
		return fmt.Sprintf("%s and %s must be dates in YYYY-MM-DD format", beginName, endName)
	}
	if b.After(e) {
		return fmt.Sprintf("%s must not be after %s", beginName, endName)
	}
	return ""
}

// decodeBody reads a JSON object into dst. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	return json.Unmarshal(b, dst)
}

func campaignID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (h *handlers) validateKey(w http.ResponseWriter, r *http.Request) {
	svc, log := h.service(r)
	b, err := svc.Balance(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeMessage(w, b, "API key is valid")
}

func (h *handlers) balance(w http.ResponseWriter, r *http.Request) {
	svc, log := h.service(r)
	b, err := svc.Balance(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeData(w, b)
}

func (h *handlers) listCampaigns(w http.ResponseWriter, r *http.Request) {
	svc, log := h.service(r)
	cs, err := svc.ListCampaigns(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeData(w, cs)
}

func (h *handlers) listCampaignsWithStats(w http.ResponseWriter, r *http.Request) {
	var in dateRange
	if err := decodeBody(r, &in); err != nil {
		badRequest(w, "Invalid JSON body")
		return
	}
	if msg := validateDates(in.BeginDate, in.EndDate, "beginDate", "endDate"); msg != "" {
		badRequest(w, msg)
		return
	}
	svc, log := h.service(r)
	out, err := svc.ListCampaignsWithStats(r.Context(), in.BeginDate, in.EndDate)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeData(w, out)
}

func (h *handlers) overview(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		badRequest(w, "campaign id must be a positive integer")
		return
	}
	var in dateRange
	if err := decodeBody(r, &in); err != nil {
		badRequest(w, "Invalid JSON body")
		return
	}
	h.campaignStats(w, r, id, in)
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		badRequest(w, "campaign id must be a positive integer")
		return
	}
	q := r.URL.Query()
	h.campaignStats(w, r, id, dateRange{BeginDate: q.Get("beginDate"), EndDate: q.Get("endDate")})
}

func (h *handlers) campaignStats(w http.ResponseWriter, r *http.Request, id int64, in dateRange) {
	if msg := validateDates(in.BeginDate, in.EndDate, "beginDate", "endDate"); msg != "" {
		badRequest(w, msg)
		return
	}
	svc, log := h.service(r)
	stats, err := svc.CampaignStats(r.Context(), id, in.BeginDate, in.EndDate)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeData(w, stats)
}

func (h *handlers) clusters(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		badRequest(w, "campaign id must be a positive integer")
		return
	}
	var in clusterQuery
	if err := decodeBody(r, &in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.Is(err, errNotNumber) || errors.As(err, &typeErr) {
			badRequest(w, "nm_id must be a number")
			return
		}
		badRequest(w, "Invalid JSON body")
		return
	}
	if in.From == "" || in.To == "" || !in.NmID.set || in.NmID.value == 0 {
		badRequest(w, "from, to, and nm_id are required")
		return
	}
	if msg := validateDates(in.From, in.To, "from", "to"); msg != "" {
		badRequest(w, msg)
		return
	}
	svc, log := h.service(r)
	out, err := svc.Clusters(r.Context(), id, in.NmID.value, in.From, in.To)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeData(w, out)
}

func (h *handlers) manualKeywords(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		badRequest(w, "campaign id must be a positive integer")
		return
	}
	svc, log := h.service(r)
	out, err := svc.ManualKeywords(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeData(w, out)
}

func (h *handlers) autoStats(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(r)
	if !ok {
		badRequest(w, "campaign id must be a positive integer")
		return
	}
	svc, log := h.service(r)
	out, err := svc.AutoStats(r.Context(), id)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeData(w, out)
}

func (h *handlers) searchOverview(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if err := decodeBody(r, &body); err != nil {
		badRequest(w, "Invalid JSON body")
		return
	}
	if len(body) == 0 {
		body = json.RawMessage("{}")
	}
	svc, log := h.service(r)
	out, err := svc.SearchReport(r.Context(), body)
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeData(w, out)
}
