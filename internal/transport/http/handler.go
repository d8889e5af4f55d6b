package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/kitikazis/ELAC-Lectura/internal/app"
	"github.com/kitikazis/ELAC-Lectura/internal/domain"
)

// Handler exposes the admin JSON API and the student websocket flow.
type Handler struct {
	admin       *app.AdminService
	codes       *app.RoomCodeManager
	readingTime time.Duration
	ws          *WSHandler
}

func NewHandler(admin *app.AdminService, codes *app.RoomCodeManager, readingTime time.Duration) *Handler {
	h := &Handler{admin: admin, codes: codes, readingTime: readingTime}
	h.ws = NewWSHandler(codes, readingTime)
	return h
}

// Routes wires every endpoint onto a mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/login", h.handleLogin)
	mux.HandleFunc("/api/categories", h.handleCategories)
	mux.HandleFunc("/api/categories/", h.handleCategory)
	mux.HandleFunc("/api/room-code", h.handleRoomCode)
	mux.HandleFunc("/api/export", h.handleExport)
	mux.HandleFunc("/api/import", h.handleImport)
	mux.HandleFunc("/ws", h.ws.ServeWS)
	return mux
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	role, err := h.admin.Login(req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"role": role.String()})
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		categories, err := h.admin.ListCategories(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
	case http.MethodPost:
		var req createCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		category, err := h.admin.CreateCategory(r.Context(), req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, category)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type saveContentRequest struct {
	ReadingText string            `json:"readingText"`
	Questions   []domain.Question `json:"questions"`
}

// handleCategory covers /api/categories/{key} plus the /select and /content
// sub-actions for the working category.
func (h *Handler) handleCategory(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Path[len("/api/categories/"):]
	var action string
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			key, action = key[:i], key[i+1:]
			break
		}
	}
	if key == "" {
		http.Error(w, "missing category key", http.StatusBadRequest)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		category, err := h.admin.GetCategory(r.Context(), key)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, category)
	case action == "" && r.Method == http.MethodDelete:
		if err := h.admin.DeleteCategory(r.Context(), key); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case action == "select" && r.Method == http.MethodPost:
		category, err := h.admin.SelectCategory(r.Context(), key)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, category)
	case action == "content" && r.Method == http.MethodPut:
		selected, _ := h.admin.Selected()
		if selected != key {
			writeError(w, fmt.Errorf("%w: category %s is not selected", domain.ErrInvalidState, key))
			return
		}
		var req saveContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := h.admin.SaveContent(r.Context(), req.ReadingText, req.Questions); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleRoomCode(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		code, err := h.admin.GenerateCode(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, code)
	case http.MethodGet:
		code, ok := h.codes.Active()
		if !ok {
			writeError(w, domain.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"code":       code.Code,
			"expires_at": code.ExpiresAt,
			"remaining":  app.FormatRemaining(h.codes.Remaining()),
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", app.ExportFilename(time.Now())))
	if err := h.admin.ExportBackup(r.Context(), w); err != nil {
		log.Printf("export failed: %v", err)
	}
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.admin.ImportBackup(r.Context(), r.Body); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Expired is reported with
// its own message so students learn why entry failed.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrExpired):
		status = http.StatusGone
	case errors.Is(err, domain.ErrDuplicateKey):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrImportFormat):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrBadCredentials):
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
