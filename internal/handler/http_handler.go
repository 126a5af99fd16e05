package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Krimson/fatigue-guard/internal/cognitive"
	"github.com/Krimson/fatigue-guard/internal/eligibility"
	"github.com/Krimson/fatigue-guard/internal/repository"
	"github.com/Krimson/fatigue-guard/internal/service"
	"github.com/Krimson/fatigue-guard/internal/session"
)

// HTTPHandler связывает HTTP API с сервисами анализа и тестирования
type HTTPHandler struct {
	analysis *service.AnalysisService
	sessions *session.Manager
	checker  *eligibility.Checker
	history  HistoryRepository
}

// HistoryRepository — история тестов для списка когнитивных тестов
type HistoryRepository interface {
	TestHistory(ctx context.Context, employeeID string) ([]repository.TestRecord, error)
}

// NewHTTPHandler создаёт обработчик API
func NewHTTPHandler(analysis *service.AnalysisService, sessions *session.Manager, checker *eligibility.Checker, history HistoryRepository) *HTTPHandler {
	return &HTTPHandler{
		analysis: analysis,
		sessions: sessions,
		checker:  checker,
		history:  history,
	}
}

// RegisterRoutes регистрирует маршруты в роутере
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/status", h.Status).Methods("GET")

	api.HandleFunc("/fatigue/analyze", h.AnalyzeVideo).Methods("POST")
	api.HandleFunc("/fatigue/analyze-flight", h.AnalyzeFlight).Methods("POST")
	api.HandleFunc("/fatigue/save-recording", h.SaveRecording).Methods("POST")
	api.HandleFunc("/fatigue/feedback", h.SaveFeedback).Methods("POST")
	api.HandleFunc("/fatigue/results/{id}", h.GetAnalysis).Methods("GET")

	api.HandleFunc("/cognitive-tests", h.ListCognitiveTests).Methods("GET")
	api.HandleFunc("/tests/start", h.StartTest).Methods("POST")
	api.HandleFunc("/tests/submit", h.SubmitTest).Methods("POST")
	api.HandleFunc("/tests/results/{id}", h.GetTestResult).Methods("GET")

	api.HandleFunc("/eligibility/{employee_id}", h.CheckEligibility).Methods("GET")
}

// Status возвращает состояние сервиса
// @Summary Статус сервиса
// @Tags Service
// @Produce json
// @Success 200 {object} map[string]string
// @Router /status [get]
func (h *HTTPHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "fatigue-guard",
	})
}

// AnalyzeVideo анализирует загруженную видеозапись
// @Summary Анализ усталости по видеозаписи
// @Description Принимает видеофайл, прогоняет его через пайплайн распознавания усталости и сохраняет результат
// @Tags Fatigue
// @Accept multipart/form-data
// @Produce json
// @Param video formData file true "Видеозапись (webm или mp4)"
// @Param employee_id formData string true "ID сотрудника"
// @Success 200 {object} repository.FatigueRecord "Результат анализа"
// @Failure 400 {object} map[string]string "Неверный запрос"
// @Failure 500 {object} map[string]string "Ошибка обработки"
// @Router /fatigue/analyze [post]
func (h *HTTPHandler) AnalyzeVideo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse form: "+err.Error())
		return
	}

	employeeID := r.FormValue("employee_id")
	if employeeID == "" {
		respondError(w, http.StatusBadRequest, "employee_id is required")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to get video file: "+err.Error())
		return
	}
	defer file.Close()

	rec, err := h.analysis.AnalyzeUpload(r.Context(), employeeID, file, header.Filename)
	if err != nil {
		log.Printf("[ERROR] [API] Analyze upload failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

type analyzeFlightRequest struct {
	FlightID   string `json:"flight_id"`
	EmployeeID string `json:"employee_id"`
}

// AnalyzeFlight анализирует запись видеонаблюдения рейса
// @Summary Анализ усталости по записи рейса
// @Tags Fatigue
// @Accept json
// @Produce json
// @Param request body analyzeFlightRequest true "Рейс и сотрудник"
// @Success 200 {object} repository.FatigueRecord "Результат анализа"
// @Failure 400 {object} map[string]string "Неверный запрос"
// @Failure 404 {object} map[string]string "Рейс не найден"
// @Router /fatigue/analyze-flight [post]
func (h *HTTPHandler) AnalyzeFlight(w http.ResponseWriter, r *http.Request) {
	var req analyzeFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FlightID == "" || req.EmployeeID == "" {
		respondError(w, http.StatusBadRequest, "flight_id and employee_id are required")
		return
	}

	rec, err := h.analysis.AnalyzeFlight(r.Context(), req.FlightID, req.EmployeeID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Flight not found")
		return
	}
	if err != nil {
		log.Printf("[ERROR] [API] Analyze flight failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// SaveRecording сохраняет видеозапись без анализа
// @Summary Сохранить видеозапись
// @Tags Fatigue
// @Accept multipart/form-data
// @Produce json
// @Param video formData file true "Видеозапись"
// @Success 200 {object} map[string]string "Путь сохранённого файла"
// @Failure 400 {object} map[string]string "Неверный запрос"
// @Router /fatigue/save-recording [post]
func (h *HTTPHandler) SaveRecording(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to get video file: "+err.Error())
		return
	}
	defer file.Close()

	path, err := h.analysis.SaveRecording(r.Context(), file, header.Filename)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save recording: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"video_path": path})
}

type feedbackRequest struct {
	AnalysisID string  `json:"analysis_id"`
	Score      float64 `json:"score"`
}

// SaveFeedback сохраняет оценку точности анализа
// @Summary Обратная связь по анализу
// @Tags Fatigue
// @Accept json
// @Produce json
// @Param request body feedbackRequest true "Оценка точности [0,1]"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Неверный запрос"
// @Failure 404 {object} map[string]string "Анализ не найден"
// @Router /fatigue/feedback [post]
func (h *HTTPHandler) SaveFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AnalysisID == "" {
		respondError(w, http.StatusBadRequest, "analysis_id is required")
		return
	}

	err := h.analysis.SaveFeedback(r.Context(), req.AnalysisID, req.Score)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Analysis not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// GetAnalysis возвращает сохранённый результат анализа
// @Summary Результат анализа
// @Tags Fatigue
// @Produce json
// @Param id path string true "ID анализа"
// @Success 200 {object} repository.FatigueRecord
// @Failure 404 {object} map[string]string "Анализ не найден"
// @Router /fatigue/results/{id} [get]
func (h *HTTPHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.analysis.GetAnalysis(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Analysis not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// ListCognitiveTests возвращает типы тестов и историю сотрудника
// @Summary Список когнитивных тестов
// @Tags Cognitive
// @Produce json
// @Param employee_id query string false "ID сотрудника для истории"
// @Success 200 {object} map[string]interface{}
// @Router /cognitive-tests [get]
func (h *HTTPHandler) ListCognitiveTests(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"test_types": cognitive.TestTypes(),
	}

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		history, err := h.history.TestHistory(r.Context(), employeeID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["history"] = history
	}

	respondJSON(w, http.StatusOK, resp)
}

type startTestRequest struct {
	EmployeeID string `json:"employee_id"`
	TestType   string `json:"test_type"`
	Legacy     bool   `json:"legacy,omitempty"`
}

// StartTest открывает сессию когнитивного теста
// @Summary Начать тест
// @Description Создаёт сессию теста с вопросами. Правильные ответы клиенту не передаются.
// @Tags Cognitive
// @Accept json
// @Produce json
// @Param request body startTestRequest true "Сотрудник и тип теста"
// @Success 200 {object} session.StartedSession "Сессия с вопросами"
// @Failure 400 {object} map[string]string "Неизвестный тип теста"
// @Failure 429 {object} map[string]interface{} "Пауза между тестами не истекла"
// @Router /tests/start [post]
func (h *HTTPHandler) StartTest(w http.ResponseWriter, r *http.Request) {
	var req startTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.EmployeeID == "" {
		respondError(w, http.StatusBadRequest, "employee_id is required")
		return
	}

	started, err := h.sessions.Create(r.Context(), req.EmployeeID, req.TestType, req.Legacy)
	if err != nil {
		var cdErr *cognitive.CooldownError
		switch {
		case errors.Is(err, cognitive.ErrInvalidTestType):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &cdErr):
			respondJSON(w, http.StatusTooManyRequests, map[string]interface{}{
				"error":               "Test cooldown active",
				"retry_after_seconds": int(cdErr.RetryAfter.Seconds()),
			})
		default:
			log.Printf("[ERROR] [API] Start test failed: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to start test")
		}
		return
	}

	respondJSON(w, http.StatusOK, started)
}

type submitTestRequest struct {
	SessionID string             `json:"session_id"`
	Answers   map[string]string  `json:"answers"`
	Timings   map[string]float64 `json:"timings,omitempty"`
}

// SubmitTest принимает ответы по сессии
// @Summary Сдать тест
// @Description Оценивает ответы и сохраняет результат. Сессия одноразовая: повторная сдача отклоняется.
// @Description Ответ содержит только итог; разбор с эталонными ответами доступен по /tests/results/{id}.
// @Tags Cognitive
// @Accept json
// @Produce json
// @Param request body submitTestRequest true "Ответы по сессии"
// @Success 200 {object} session.Summary "Итог теста"
// @Failure 400 {object} map[string]string "Неверный запрос"
// @Failure 404 {object} map[string]string "Сессия не найдена или уже сдана"
// @Failure 410 {object} map[string]string "Время теста истекло"
// @Router /tests/submit [post]
func (h *HTTPHandler) SubmitTest(w http.ResponseWriter, r *http.Request) {
	var req submitTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	sum, err := h.sessions.Submit(r.Context(), req.SessionID, req.Answers, req.Timings)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrSessionNotFound):
			respondError(w, http.StatusNotFound, "Session not found or already submitted")
		case errors.Is(err, session.ErrSessionExpired):
			respondError(w, http.StatusGone, "Test time limit exceeded")
		default:
			log.Printf("[ERROR] [API] Submit test failed: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to submit test")
		}
		return
	}

	respondJSON(w, http.StatusOK, sum)
}

// GetTestResult возвращает сохранённый результат теста
// @Summary Результат теста
// @Tags Cognitive
// @Produce json
// @Param id path string true "ID результата"
// @Success 200 {object} repository.TestRecord
// @Failure 404 {object} map[string]string "Результат не найден"
// @Router /tests/results/{id} [get]
func (h *HTTPHandler) GetTestResult(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rec, err := h.sessions.Result(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Test result not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, rec)
}

// CheckEligibility проверяет допуск сотрудника к полёту
// @Summary Допуск к полёту
// @Tags Eligibility
// @Produce json
// @Param employee_id path string true "ID сотрудника"
// @Success 200 {object} eligibility.Verdict
// @Router /eligibility/{employee_id} [get]
func (h *HTTPHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	employeeID := mux.Vars(r)["employee_id"]

	verdict, err := h.checker.Check(r.Context(), employeeID)
	if err != nil {
		log.Printf("[ERROR] [API] Eligibility check failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Eligibility check failed")
		return
	}

	respondJSON(w, http.StatusOK, verdict)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[ERROR] Failed to encode JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": status,
	})
}
