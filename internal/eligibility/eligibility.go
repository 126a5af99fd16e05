package eligibility

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Krimson/fatigue-guard/internal/repository"
)

// Пороговые значения допуска к полёту
const (
	minCognitiveScores = 3
	minCognitiveMean   = 75.0
	maxFatigueScore    = 0.7
)

// Repository — история сотрудника, нужная для проверки допуска
type Repository interface {
	LastCognitiveScores(ctx context.Context, employeeID string, limit int) ([]float64, error)
	LatestFatigueScore(ctx context.Context, employeeID string) (float64, error)
	LatestMedicalCheck(ctx context.Context, employeeID string) (*repository.MedicalCheck, error)
}

// Requirement — результат проверки одного требования допуска
type Requirement struct {
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// Verdict — итоговое решение о допуске с расшифровкой по требованиям
type Verdict struct {
	EmployeeID string                 `json:"employee_id"`
	Eligible   bool                   `json:"eligible"`
	Checks     map[string]Requirement `json:"checks"`
}

// Checker принимает решение о допуске экипажа к полёту
type Checker struct {
	repo Repository

	// clock подменяется в тестах
	clock func() time.Time
}

// NewChecker создаёт проверку допуска
func NewChecker(repo Repository) *Checker {
	return &Checker{repo: repo, clock: time.Now}
}

// Check проверяет все требования допуска. Отсутствие данных по требованию
// трактуется как непройденное требование, а не как ошибка.
func (c *Checker) Check(ctx context.Context, employeeID string) (*Verdict, error) {
	verdict := &Verdict{
		EmployeeID: employeeID,
		Checks:     make(map[string]Requirement),
	}

	cognitive, err := c.checkCognitive(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	verdict.Checks["cognitive"] = cognitive

	fatigue, err := c.checkFatigue(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	verdict.Checks["fatigue"] = fatigue

	medical, err := c.checkMedical(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	verdict.Checks["medical"] = medical

	verdict.Eligible = cognitive.Passed && fatigue.Passed && medical.Passed

	log.Printf("[INFO] [ELIGIBILITY] employee=%s eligible=%t cognitive=%t fatigue=%t medical=%t",
		employeeID, verdict.Eligible, cognitive.Passed, fatigue.Passed, medical.Passed)
	return verdict, nil
}

func (c *Checker) checkCognitive(ctx context.Context, employeeID string) (Requirement, error) {
	scores, err := c.repo.LastCognitiveScores(ctx, employeeID, minCognitiveScores)
	if err != nil {
		return Requirement{}, fmt.Errorf("cognitive scores: %w", err)
	}

	if len(scores) < minCognitiveScores {
		return Requirement{
			Passed: false,
			Detail: fmt.Sprintf("недостаточно тестов: %d из %d", len(scores), minCognitiveScores),
		}, nil
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))

	return Requirement{
		Passed: mean >= minCognitiveMean,
		Detail: fmt.Sprintf("средний балл %.1f при пороге %.0f", mean, minCognitiveMean),
	}, nil
}

func (c *Checker) checkFatigue(ctx context.Context, employeeID string) (Requirement, error) {
	score, err := c.repo.LatestFatigueScore(ctx, employeeID)
	if errors.Is(err, repository.ErrNotFound) {
		return Requirement{Passed: false, Detail: "нет данных об усталости"}, nil
	}
	if err != nil {
		return Requirement{}, fmt.Errorf("fatigue score: %w", err)
	}

	return Requirement{
		Passed: score < maxFatigueScore,
		Detail: fmt.Sprintf("оценка усталости %.2f при пороге %.1f", score, maxFatigueScore),
	}, nil
}

func (c *Checker) checkMedical(ctx context.Context, employeeID string) (Requirement, error) {
	check, err := c.repo.LatestMedicalCheck(ctx, employeeID)
	if errors.Is(err, repository.ErrNotFound) {
		return Requirement{Passed: false, Detail: "нет данных о медосмотре"}, nil
	}
	if err != nil {
		return Requirement{}, fmt.Errorf("medical check: %w", err)
	}

	if check.Status != repository.MedicalPassed && check.Status != repository.MedicalConditionallyPassed {
		return Requirement{Passed: false, Detail: fmt.Sprintf("медосмотр не пройден: %s", check.Status)}, nil
	}

	today := c.clock().Truncate(24 * time.Hour)
	if check.ExpiryDate.Before(today) {
		return Requirement{Passed: false, Detail: "срок действия медосмотра истёк"}, nil
	}

	return Requirement{Passed: true, Detail: fmt.Sprintf("медосмотр действителен до %s", check.ExpiryDate.Format("2006-01-02"))}, nil
}
