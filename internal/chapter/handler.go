package chapter

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
	var req models.CreateChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	chapter, err := h.service.Create(req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, chapter)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	chapter, err := h.service.GetByUUID(vars["uuid"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chapter)
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.service.GetAll()
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chapters)
}

func (h *Handler) GetByCourse(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	chapters, err := h.service.GetByCourse(vars["uuid"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chapters)
}

// GetQuiz resolves the chapter's quiz. The correct options are only included
// for the quiz owner.
func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	userUUID, _ := auth.RequesterUUID(r)
	vars := mux.Vars(r)

	quiz, err := h.service.FindQuizOfChapter(vars["uuid"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if quiz == nil {
		httpx.WriteJSON(w, http.StatusOK, nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, quiz.ToDTO(quiz.CreatorID == userUUID))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var patch models.UpdateChapterPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	chapter, err := h.service.Update(vars["uuid"], patch)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chapter)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.Delete(vars["uuid"]); err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
