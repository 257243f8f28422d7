package forge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/VisuaForge/VF-Backend/internal/images"
	"github.com/VisuaForge/VF-Backend/internal/plans"
	"github.com/VisuaForge/VF-Backend/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// maxUploadBytes caps the edit upload (the UI advertises "up to 10MB").
const maxUploadBytes = 10 << 20

// Generator is the webhook contract the handlers depend on.
type Generator interface {
	Generate(ctx context.Context, idea, style string) (Result, error)
	Edit(ctx context.Context, instruction, filename string, image io.Reader) (Result, error)
}

// Recorder persists successful generations.
type Recorder interface {
	Insert(ctx context.Context, rec *images.GeneratedImage) error
}

// QuotaKeeper enforces the per-user daily generation cap.
type QuotaKeeper interface {
	Consume(ctx context.Context, userID string) error
}

// Handler serves the generation and editing endpoints.
type Handler struct {
	forge   Generator
	records Recorder
	quota   QuotaKeeper
	styles  plans.Config
}

func NewHandler(forge Generator, records Recorder, quota QuotaKeeper, styles plans.Config) *Handler {
	return &Handler{
		forge:   forge,
		records: records,
		quota:   quota,
		styles:  styles,
	}
}

type generateRequest struct {
	Idea  string `json:"idea"`
	Style string `json:"style"`
}

type forgeResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	ImageURL string `json:"image_url"`
	Message  string `json:"message,omitempty"`
}

// GenerateHandler asks the webhook for a new image and, only on success,
// records exactly one history row for the submitting user.
func (h *Handler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}
	if req.Idea == "" {
		http.Error(w, "An idea prompt is required", http.StatusBadRequest)
		return
	}
	if req.Style == "" {
		req.Style = plans.DefaultStyleKey
	}
	if !h.styles.HasStyle(req.Style) {
		http.Error(w, "Unknown style", http.StatusBadRequest)
		return
	}

	if err := h.quota.Consume(r.Context(), userID); err != nil {
		if errors.Is(err, plans.ErrQuotaExceeded) {
			http.Error(w, "Daily generation quota exceeded", http.StatusTooManyRequests)
			return
		}
		http.Error(w, "Failed to check quota", http.StatusInternalServerError)
		return
	}

	result, err := h.forge.Generate(r.Context(), req.Idea, req.Style)
	if err != nil {
		http.Error(w, "Image generation failed", http.StatusBadGateway)
		return
	}

	rec := &images.GeneratedImage{
		ID:       uuid.New(),
		UserID:   userID,
		ImageURL: result.ImageURL,
		Prompt:   &req.Idea,
		Style:    &req.Style,
		Mode:     ModeGenerate,
		Tags:     pq.StringArray{ModeGenerate, req.Style},
	}
	if err := h.records.Insert(r.Context(), rec); err != nil {
		http.Error(w, "Failed to record generated image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(forgeResponse{
		ID:       rec.ID.String(),
		Status:   result.Status,
		ImageURL: result.ImageURL,
		Message:  result.Message,
	})
}

// EditHandler forwards an uploaded image plus an instruction to the webhook,
// with the same success/failure semantics as generation.
func (h *Handler) EditHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Upload too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}

	instruction := r.FormValue("instruction")
	if instruction == "" {
		http.Error(w, "An edit instruction is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "An image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := h.quota.Consume(r.Context(), userID); err != nil {
		if errors.Is(err, plans.ErrQuotaExceeded) {
			http.Error(w, "Daily generation quota exceeded", http.StatusTooManyRequests)
			return
		}
		http.Error(w, "Failed to check quota", http.StatusInternalServerError)
		return
	}

	result, err := h.forge.Edit(r.Context(), instruction, header.Filename, file)
	if err != nil {
		http.Error(w, "Image edit failed", http.StatusBadGateway)
		return
	}

	rec := &images.GeneratedImage{
		ID:       uuid.New(),
		UserID:   userID,
		ImageURL: result.ImageURL,
		Prompt:   &instruction,
		Mode:     ModeEdit,
		Tags:     pq.StringArray{ModeEdit},
	}
	if err := h.records.Insert(r.Context(), rec); err != nil {
		http.Error(w, "Failed to record edited image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(forgeResponse{
		ID:       rec.ID.String(),
		Status:   result.Status,
		ImageURL: result.ImageURL,
		Message:  result.Message,
	})
}

// StylesHandler returns the public style catalog.
func (h *Handler) StylesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.styles.Styles)
}
