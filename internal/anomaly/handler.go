package anomaly

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"madnotify/internal/notifier"
	"madnotify/pkg/isotime"
	"madnotify/pkg/logx"
)

// maxBodyBytes bounds the inbound payload; anomaly events are tiny.
const maxBodyBytes = 1 << 20

var errEmptyMessage = errors.New("rendered message is empty")

// Dispatcher is the delivery side of the pipeline. Its result feeds logs
// only; the HTTP response never depends on it.
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) notifier.Result
}

// Handler serves the event ingress API. Each request runs the full
// pipeline independently: validate, normalize, render, dispatch.
type Handler struct {
	dispatcher Dispatcher
	log        logx.Logger
}

func NewHandler(dispatcher Dispatcher, log logx.Logger) *Handler {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Handler{dispatcher: dispatcher, log: log}
}

// Register mounts the ingress routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/anomalies", h.handleAnomaly)
	mux.HandleFunc("GET /health", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleAnomaly(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.log.Error("failed reading request body", logx.Err(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		h.log.Error("invalid JSON in request", logx.Err(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := ev.Validate(); err != nil {
		h.log.Error("event validation failed", logx.Err(err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.log.Info("anomaly event received",
		logx.String("id", string(ev.ID)),
		logx.String("action", string(ev.Action)),
		logx.String("anomaly_type", string(ev.AnomalyType)),
		logx.String("metric", string(ev.MetricName)))

	// Past this point the event is accepted: normalization, rendering and
	// dispatch failures are logged but never reported to the caller, whose
	// job ended at "accepted for processing".
	if err := h.process(r.Context(), &ev); err != nil {
		h.log.Error("anomaly processing failed", logx.String("id", string(ev.ID)), logx.Err(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *Handler) process(ctx context.Context, ev *Event) error {
	start, startOK := h.displayTime(string(ev.ID), "start_time", ev.StartTime)
	end, endOK := h.displayTime(string(ev.ID), "end_time", ev.EndTime)

	fields := Fields{
		AnomalyType: string(ev.AnomalyType),
		MetricName:  string(ev.MetricName),
		StartTime:   start.display,
		EndTime:     end.display,
		Description: string(ev.Description),
		Score:       ev.Score,
	}

	phase := ev.Phase()
	if phase == PhaseEnd {
		fields.Duration = durationUnknown
		if startOK && endOK {
			fields.Duration = formatDuration(end.instant.Sub(start.instant))
		}
	}

	text := Render(phase, fields)
	if strings.TrimSpace(text) == "" {
		// Cannot happen with the bundled templates; kept as the one render
		// failure that is a genuine internal fault.
		return errEmptyMessage
	}

	res := h.dispatcher.Dispatch(ctx, text)
	if res.Delivered() {
		h.log.Info("anomaly notification sent",
			logx.String("id", string(ev.ID)), logx.String("phase", string(phase)))
	}
	return nil
}

type normalizedTime struct {
	display string
	instant time.Time
}

// displayTime normalizes one timestamp field. A malformed value is a soft
// failure: it is logged and downgraded to a placeholder, never aborting
// the pipeline.
func (h *Handler) displayTime(id, field string, raw flexString) (normalizedTime, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return normalizedTime{display: ""}, false
	}
	t, err := isotime.Parse(s)
	if err != nil {
		h.log.Error("timestamp normalization failed",
			logx.String("id", id), logx.String("field", field), logx.Err(err))
		return normalizedTime{display: timeInvalid}, false
	}
	return normalizedTime{display: isotime.Format(t), instant: t}, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
