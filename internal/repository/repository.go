package repository

import (
	"errors"
	"time"

	"github.com/Krimson/fatigue-guard/internal/cognitive"
)

// ErrNotFound возвращается, когда запрошенная запись отсутствует
var ErrNotFound = errors.New("record not found")

// FatigueRecord — сохранённый результат анализа усталости
type FatigueRecord struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employee_id"`
	FlightID      string    `json:"flight_id,omitempty"`
	VideoPath     string    `json:"video_path,omitempty"`
	Level         string    `json:"fatigue_level"`
	Score         float64   `json:"fatigue_score"`
	Percent       float64   `json:"fatigue_percent"`
	FramesTotal   int       `json:"frames_total"`
	FeedbackScore *float64  `json:"feedback_score,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TestRecord — сохранённый результат когнитивного теста
type TestRecord struct {
	ID          string                             `json:"id"`
	EmployeeID  string                             `json:"employee_id"`
	TestType    string                             `json:"test_type"`
	Score       float64                            `json:"score"`
	Correct     int                                `json:"correct"`
	Total       int                                `json:"total"`
	Mistakes    []cognitive.Mistake                `json:"mistakes"`
	Details     map[string]cognitive.TypeBreakdown `json:"details"`
	CooldownEnd time.Time                          `json:"cooldown_end"`
	CompletedAt time.Time                          `json:"completed_at"`
}

// MedicalCheck — запись о медосмотре сотрудника
type MedicalCheck struct {
	EmployeeID string    `json:"employee_id"`
	Status     string    `json:"status"`
	CheckDate  time.Time `json:"check_date"`
	ExpiryDate time.Time `json:"expiry_date"`
}

// Статусы медосмотра
const (
	MedicalPassed              = "passed"
	MedicalConditionallyPassed = "conditionally_passed"
	MedicalFailed              = "failed"
)
