package course

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

	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	course, err := h.service.Create(req, userUUID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, course)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	course, err := h.service.GetByUUID(vars["uuid"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, course)
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.GetAll()
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, courses)
}

func (h *Handler) GetByTag(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	courses, err := h.service.GetByTag(vars["tag"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, courses)
}

func (h *Handler) GetByCreator(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	courses, err := h.service.GetByCreator(vars["uuid"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, courses)
}

func (h *Handler) GetByStudent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	courses, err := h.service.GetByStudent(vars["uuid"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, courses)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var patch models.UpdateCoursePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	course, err := h.service.Update(vars["uuid"], patch)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, course)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.Delete(vars["uuid"]); err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	userUUID, ok := auth.RequesterUUID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)

	course, err := h.service.Enroll(vars["uuid"], userUUID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, course)
}
