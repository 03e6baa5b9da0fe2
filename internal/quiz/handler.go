package quiz

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

	var req models.CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	quiz, err := h.service.Create(req, userUUID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, quiz)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userUUID, _ := auth.RequesterUUID(r)
	vars := mux.Vars(r)

	quiz, err := h.service.GetByUUID(vars["uuid"])
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, quiz.ToDTO(quiz.CreatorID == userUUID))
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	userUUID, _ := auth.RequesterUUID(r)

	if chapterUUID := r.URL.Query().Get("chapter"); chapterUUID != "" {
		quiz, err := h.service.GetByChapter(chapterUUID)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, quiz.ToDTO(quiz.CreatorID == userUUID))
		return
	}

	quizzes, err := h.service.GetAll()
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	dtos := make([]models.QuizDTO, len(quizzes))
	for i, quiz := range quizzes {
		dtos[i] = quiz.ToDTO(quiz.CreatorID == userUUID)
	}

	httpx.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var patch models.UpdateQuizPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	quiz, err := h.service.Update(vars["uuid"], patch)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, quiz)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if err := h.service.Delete(vars["uuid"]); err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userUUID, ok := auth.RequesterUUID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)

	var req models.SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	attempt, err := h.service.Submit(vars["uuid"], userUUID, req.Answers)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, attempt)
}

// Attempts lists every stored attempt for a quiz, optionally filtered to a
// single user via ?user=<uuid>.
func (h *Handler) Attempts(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var attempts []models.QuizAnswer
	var err error
	if userUUID := r.URL.Query().Get("user"); userUUID != "" {
		attempts, err = h.service.ListAttemptsByUser(vars["uuid"], userUUID)
	} else {
		attempts, err = h.service.ListAttempts(vars["uuid"])
	}
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, attempts)
}
