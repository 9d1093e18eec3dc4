package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"demand-tracker/internal/domain"
	"demand-tracker/internal/ports"
	"demand-tracker/internal/report"
	"demand-tracker/internal/usecase"
)

// maxUploadBytes bounds the multipart memory buffer for demand saves.
const maxUploadBytes = 32 << 20

// Handler builds the full HTTP API.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/demands/", http.StatusSeeOther)
	})

	mux.HandleFunc("GET /demands/{$}", a.handleDashboard)
	mux.HandleFunc("GET /demands/{id}", a.handleDemandDetail)
	mux.HandleFunc("POST /demands/save", a.handleSaveDemand)
	mux.HandleFunc("GET /demands/prioritize/{id}", a.handlePrioritize)
	mux.HandleFunc("GET /demands/attachment/{id}", a.handleAttachmentDownload)
	mux.HandleFunc("POST /demands/update_priorities", a.handleUpdatePriorities)

	mux.HandleFunc("GET /tracker/{$}", a.handleTracker)
	mux.HandleFunc("POST /tracker/log_work", a.handleLogWork)

	mux.HandleFunc("GET /reports/{$}", a.handleReports)
	mux.HandleFunc("POST /reports/export", a.handleExportReport)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return loggingMiddleware(a.log, c.Handler(mux))
}

// HTTPServer returns a configured http.Server serving the API. Call
// ListenAndServe on it in a goroutine and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	srv := &http.Server{Addr: addr, Handler: a.Handler()}
	a.log.Info("http server configured", slog.String("addr", addr))
	return srv
}

// GET /demands/?view=prioritize|all
func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	if view == "" {
		view = ports.ViewPrioritize
	}
	demands, err := a.demands.Dashboard(r.Context(), view)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"demands":      emptyIfNil(demands),
		"current_view": view,
	})
}

// GET /demands/{id} — id 0 is the "new demand" sentinel and renders the
// empty state, never a not-found error.
func (a *App) handleDemandDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if id == 0 {
		writeJSON(w, http.StatusOK, usecase.DemandDetail{
			Attachments: []domain.Attachment{},
			WorkHistory: []domain.WorkLog{},
		})
		return
	}
	detail, err := a.demands.Detail(r.Context(), id)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if detail.Attachments == nil {
		detail.Attachments = []domain.Attachment{}
	}
	if detail.WorkHistory == nil {
		detail.WorkHistory = []domain.WorkLog{}
	}
	writeJSON(w, http.StatusOK, detail)
}

// POST /demands/save — multipart form with optional attachment files.
// Redirects to the detail page on update, to prioritization on create.
func (a *App) handleSaveDemand(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "Formulário inválido."})
		return
	}

	in := usecase.SaveDemandInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Status:      r.FormValue("status"),
	}
	if v := r.FormValue("demand_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "ID de demanda inválido."})
			return
		}
		in.ID = id
	}
	if v := r.FormValue("estimated_hours"); v != "" {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "Horas estimadas inválidas."})
			return
		}
		in.EstimatedHours = &h
	}

	var files []usecase.FileUpload
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["attachments"] {
			f, err := fh.Open()
			if err != nil {
				a.log.Warn("attachment unreadable", slog.String("filename", fh.Filename), slog.String("error", err.Error()))
				continue
			}
			defer f.Close()
			files = append(files, usecase.FileUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Body:        f,
			})
		}
	}

	res, err := a.demands.Save(r.Context(), in, files)
	if err != nil {
		a.writeError(w, err)
		return
	}
	target := fmt.Sprintf("/demands/%d", res.ID)
	if res.Created {
		target = fmt.Sprintf("/demands/prioritize/%d", res.ID)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// GET /demands/prioritize/{id} — active demands plus the freshly created id.
func (a *App) handlePrioritize(w http.ResponseWriter, r *http.Request) {
	newID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	demands, err := a.demands.PrioritizeView(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"demands":       emptyIfNil(demands),
		"new_demand_id": newID,
	})
}

// GET /demands/attachment/{id} — redirect to a short-lived download URL.
func (a *App) handleAttachmentDownload(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	url, err := a.demands.AttachmentDownloadURL(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, statusResponse{Status: "error", Message: "Arquivo não encontrado."})
			return
		}
		a.writeError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// POST /demands/update_priorities — JSON {"ordered_ids": [id, ...]}.
func (a *App) handleUpdatePriorities(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OrderedIDs []int64 `json:"ordered_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "Lista de IDs inválida."})
		return
	}
	if err := a.demands.UpdatePriorities(r.Context(), body.OrderedIDs); err != nil {
		switch {
		case domain.IsValidation(err):
			writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "Lista contém IDs inexistentes."})
		default:
			writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "Erro ao atualizar prioridades: " + err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Prioridades atualizadas."})
}

// GET /tracker/ — pending demands for the allocation picker.
func (a *App) handleTracker(w http.ResponseWriter, r *http.Request) {
	pending, err := a.tracker.PendingDemands(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pending_demands": emptyIfNil(pending),
	})
}

// POST /tracker/log_work — records one session and its allocations.
func (a *App) handleLogWork(w http.ResponseWriter, r *http.Request) {
	var in usecase.LogWorkInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "Dados incompletos."})
		return
	}
	if _, err := a.tracker.LogWork(r.Context(), in); err != nil {
		if domain.IsValidation(err) {
			writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "Erro no servidor: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, statusResponse{Status: "success", Message: "Log de trabalho salvo."})
}

// GET /reports/?start_date&end_date
func (a *App) handleReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sessions, err := a.reports.Sessions(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": emptyIfNil(sessions),
	})
}

// POST /reports/export — xlsx download of the filtered work logs.
func (a *App) handleExportReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: "Formulário inválido."})
		return
	}
	b, filename, err := a.reports.Export(r.Context(), r.FormValue("start_date"), r.FormValue("end_date"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses: validation → 400,
// missing entity → 404, anything else → 500 with the cause message.
func (a *App) writeError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, statusResponse{Status: "error", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, statusResponse{Status: "error", Message: "Registro não encontrado."})
	default:
		a.log.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, statusResponse{Status: "error", Message: "Erro no servidor: " + err.Error()})
	}
}

// emptyIfNil keeps empty lists rendering as [] instead of null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// loggingMiddleware provides basic request logging with a per-request id.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		next.ServeHTTP(w, r)
		log.Info("http request",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Duration("dur", time.Since(start)),
		)
	})
}
