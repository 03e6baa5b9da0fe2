package comment

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"elearn-system/internal/auth"
	"elearn-system/internal/httpx"
	"elearn-system/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userUUID, ok := auth.RequesterUUID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := h.service.Create(req, userUUID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, comment)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	comment, err := h.service.GetByUUID(vars["uuid"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, comment)
}

func (h *Handler) GetByCourse(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	comments, err := h.service.ListByCourse(vars["uuid"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, comments)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userUUID, ok := auth.RequesterUUID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)

	if err := h.service.Delete(vars["uuid"], userUUID); err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
