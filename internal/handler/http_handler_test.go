package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krimson/fatigue-guard/internal/cognitive"
	"github.com/Krimson/fatigue-guard/internal/eligibility"
	"github.com/Krimson/fatigue-guard/internal/repository"
	"github.com/Krimson/fatigue-guard/internal/session"
)

// fakeRepo покрывает интерфейсы менеджера сессий, допуска и истории
type fakeRepo struct {
	saved    []*repository.TestRecord
	lastTime map[string]time.Time
	scores   []float64
	fatigue  float64
	medical  *repository.MedicalCheck
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{lastTime: make(map[string]time.Time)}
}

func (r *fakeRepo) SaveTestResult(_ context.Context, rec *repository.TestRecord) error {
	r.saved = append(r.saved, rec)
	r.lastTime[rec.EmployeeID+"/"+rec.TestType] = rec.CompletedAt
	return nil
}

func (r *fakeRepo) GetTestResult(_ context.Context, id string) (*repository.TestRecord, error) {
	for _, rec := range r.saved {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRepo) LastTestTime(_ context.Context, employeeID, testType string) (time.Time, error) {
	return r.lastTime[employeeID+"/"+testType], nil
}

func (r *fakeRepo) TestHistory(_ context.Context, employeeID string) ([]repository.TestRecord, error) {
	var out []repository.TestRecord
	for i := len(r.saved) - 1; i >= 0; i-- {
		if r.saved[i].EmployeeID == employeeID {
			out = append(out, *r.saved[i])
		}
	}
	return out, nil
}

func (r *fakeRepo) LastCognitiveScores(_ context.Context, _ string, limit int) ([]float64, error) {
	if len(r.scores) > limit {
		return r.scores[:limit], nil
	}
	return r.scores, nil
}

func (r *fakeRepo) LatestFatigueScore(_ context.Context, _ string) (float64, error) {
	return r.fatigue, nil
}

func (r *fakeRepo) LatestMedicalCheck(_ context.Context, _ string) (*repository.MedicalCheck, error) {
	if r.medical == nil {
		return nil, repository.ErrNotFound
	}
	return r.medical, nil
}

func newTestRouter(t *testing.T, repo *fakeRepo) *mux.Router {
	t.Helper()

	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(store.Stop)

	manager := session.NewManager(store, cognitive.NewGenerator(rand.New(rand.NewSource(3))), repo, nil, session.Config{})
	checker := eligibility.NewChecker(repo)

	h := NewHTTPHandler(nil, manager, checker, repo)
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestStatusEndpoint(t *testing.T) {
	router := newTestRouter(t, newFakeRepo())

	rr := doJSON(t, router, http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"ok"`)
}

func TestStartTestHidesAnswers(t *testing.T) {
	router := newTestRouter(t, newFakeRepo())

	rr := doJSON(t, router, http.MethodPost, "/api/tests/start", map[string]any{
		"employee_id": "emp-1",
		"test_type":   "attention",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var started session.StartedSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &started))
	assert.Len(t, started.Questions, 10)
	assert.NotEmpty(t, started.SessionID)

	// тело ответа не содержит правильных ответов
	assert.False(t, strings.Contains(rr.Body.String(), "correct_answer"))
}

func TestStartTestInvalidType(t *testing.T) {
	router := newTestRouter(t, newFakeRepo())

	rr := doJSON(t, router, http.MethodPost, "/api/tests/start", map[string]any{
		"employee_id": "emp-1",
		"test_type":   "levitation",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStartTestCooldown(t *testing.T) {
	repo := newFakeRepo()
	// последний тест только что завершён
	repo.lastTime["emp-1/memory"] = time.Now().Add(-time.Minute)

	router := newTestRouter(t, repo)

	rr := doJSON(t, router, http.MethodPost, "/api/tests/start", map[string]any{
		"employee_id": "emp-1",
		"test_type":   "memory",
	})
	require.Equal(t, http.StatusTooManyRequests, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	retry, ok := resp["retry_after_seconds"].(float64)
	require.True(t, ok)
	assert.InDelta(t, 540, retry, 5)
}

func TestSubmitFlow(t *testing.T) {
	repo := newFakeRepo()
	router := newTestRouter(t, repo)

	rr := doJSON(t, router, http.MethodPost, "/api/tests/start", map[string]any{
		"employee_id": "emp-1",
		"test_type":   "reaction",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var started session.StartedSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &started))

	// ответы на все вопросы теста на реакцию
	answers := map[string]string{}
	for _, q := range started.Questions {
		answers[q.ID] = "hit"
	}

	rr = doJSON(t, router, http.MethodPost, "/api/tests/submit", map[string]any{
		"session_id": started.SessionID,
		"answers":    answers,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var sum session.Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sum))
	assert.Equal(t, 100.0, sum.Score)
	assert.Equal(t, 10, sum.Correct)
	assert.Equal(t, 10, sum.Total)

	// повторная сдача той же сессии
	rr = doJSON(t, router, http.MethodPost, "/api/tests/submit", map[string]any{
		"session_id": started.SessionID,
		"answers":    answers,
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// сохранённый результат доступен по id
	rr = doJSON(t, router, http.MethodGet, "/api/tests/results/"+sum.TestID, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSubmitResponseHidesAnswers(t *testing.T) {
	router := newTestRouter(t, newFakeRepo())

	rr := doJSON(t, router, http.MethodPost, "/api/tests/start", map[string]any{
		"employee_id": "emp-1",
		"test_type":   "attention",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var started session.StartedSession
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &started))

	// сдача без единого ответа: все вопросы ошибочны, но итог
	// не раскрывает ни эталонные ответы, ни список ошибок
	rr = doJSON(t, router, http.MethodPost, "/api/tests/submit", map[string]any{
		"session_id": started.SessionID,
		"answers":    map[string]string{},
	})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "correct_answer")
	assert.NotContains(t, rr.Body.String(), "mistakes")

	var sum session.Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sum))
	assert.Equal(t, 0.0, sum.Score)
	assert.Equal(t, 10, sum.Total)

	// полный разбор с эталонными ответами остаётся за отдельным запросом
	rr = doJSON(t, router, http.MethodGet, "/api/tests/results/"+sum.TestID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var rec repository.TestRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Len(t, rec.Mistakes, 10)
}

func TestSubmitUnknownSession(t *testing.T) {
	router := newTestRouter(t, newFakeRepo())

	rr := doJSON(t, router, http.MethodPost, "/api/tests/submit", map[string]any{
		"session_id": "ghost",
		"answers":    map[string]string{},
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTestResultNotFound(t *testing.T) {
	router := newTestRouter(t, newFakeRepo())

	rr := doJSON(t, router, http.MethodGet, "/api/tests/results/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListCognitiveTests(t *testing.T) {
	router := newTestRouter(t, newFakeRepo())

	rr := doJSON(t, router, http.MethodGet, "/api/cognitive-tests", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	types, ok := resp["test_types"].([]any)
	require.True(t, ok)
	assert.Len(t, types, 4)
}

func TestEligibilityEndpoint(t *testing.T) {
	repo := newFakeRepo()
	repo.scores = []float64{90, 85, 80}
	repo.fatigue = 0.2
	repo.medical = &repository.MedicalCheck{
		EmployeeID: "emp-1",
		Status:     repository.MedicalPassed,
		ExpiryDate: time.Now().AddDate(1, 0, 0),
	}

	router := newTestRouter(t, repo)

	rr := doJSON(t, router, http.MethodGet, "/api/eligibility/emp-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var verdict eligibility.Verdict
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &verdict))
	assert.True(t, verdict.Eligible)
}
