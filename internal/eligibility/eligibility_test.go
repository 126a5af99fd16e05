package eligibility

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krimson/fatigue-guard/internal/repository"
)

// fakeHistory подставляет историю сотрудника
type fakeHistory struct {
	scores  []float64
	fatigue float64
	noData  bool
	medical *repository.MedicalCheck
}

func (f *fakeHistory) LastCognitiveScores(_ context.Context, _ string, limit int) ([]float64, error) {
	if len(f.scores) > limit {
		return f.scores[:limit], nil
	}
	return f.scores, nil
}

func (f *fakeHistory) LatestFatigueScore(_ context.Context, _ string) (float64, error) {
	if f.noData {
		return 0, repository.ErrNotFound
	}
	return f.fatigue, nil
}

func (f *fakeHistory) LatestMedicalCheck(_ context.Context, _ string) (*repository.MedicalCheck, error) {
	if f.medical == nil {
		return nil, repository.ErrNotFound
	}
	return f.medical, nil
}

func validMedical() *repository.MedicalCheck {
	return &repository.MedicalCheck{
		EmployeeID: "emp-1",
		Status:     repository.MedicalPassed,
		CheckDate:  time.Now().AddDate(0, -1, 0),
		ExpiryDate: time.Now().AddDate(1, 0, 0),
	}
}

func TestEligible(t *testing.T) {
	checker := NewChecker(&fakeHistory{
		scores:  []float64{80, 90, 76},
		fatigue: 0.4,
		medical: validMedical(),
	})

	verdict, err := checker.Check(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.True(t, verdict.Eligible)
	for name, req := range verdict.Checks {
		assert.True(t, req.Passed, "check %s", name)
	}
}

func TestNotEnoughTests(t *testing.T) {
	checker := NewChecker(&fakeHistory{
		scores:  []float64{100, 100},
		fatigue: 0.1,
		medical: validMedical(),
	})

	verdict, err := checker.Check(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.False(t, verdict.Eligible)
	assert.False(t, verdict.Checks["cognitive"].Passed)
}

func TestLowMeanScore(t *testing.T) {
	// среднее 74.9 ниже порога 75
	checker := NewChecker(&fakeHistory{
		scores:  []float64{74.9, 74.9, 74.9},
		fatigue: 0.1,
		medical: validMedical(),
	})

	verdict, err := checker.Check(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.False(t, verdict.Checks["cognitive"].Passed)

	// ровно на пороге допуск проходит
	checker = NewChecker(&fakeHistory{
		scores:  []float64{75, 75, 75},
		fatigue: 0.1,
		medical: validMedical(),
	})
	verdict, err = checker.Check(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.True(t, verdict.Checks["cognitive"].Passed)
}

func TestHighFatigue(t *testing.T) {
	checker := NewChecker(&fakeHistory{
		scores:  []float64{90, 90, 90},
		fatigue: 0.7,
		medical: validMedical(),
	})

	verdict, err := checker.Check(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.False(t, verdict.Eligible)
	assert.False(t, verdict.Checks["fatigue"].Passed)
}

func TestNoFatigueData(t *testing.T) {
	checker := NewChecker(&fakeHistory{
		scores:  []float64{90, 90, 90},
		noData:  true,
		medical: validMedical(),
	})

	// отсутствие данных не ошибка, а непройденное требование
	verdict, err := checker.Check(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.False(t, verdict.Checks["fatigue"].Passed)
}

func TestExpiredMedical(t *testing.T) {
	med := validMedical()
	med.ExpiryDate = time.Now().AddDate(0, 0, -1)

	checker := NewChecker(&fakeHistory{
		scores:  []float64{90, 90, 90},
		fatigue: 0.2,
		medical: med,
	})

	verdict, err := checker.Check(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.False(t, verdict.Checks["medical"].Passed)
}

func TestFailedMedical(t *testing.T) {
	med := validMedical()
	med.Status = repository.MedicalFailed

	checker := NewChecker(&fakeHistory{
		scores:  []float64{90, 90, 90},
		fatigue: 0.2,
		medical: med,
	})

	verdict, err := checker.Check(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.False(t, verdict.Checks["medical"].Passed)
}

func TestConditionallyPassedMedical(t *testing.T) {
	med := validMedical()
	med.Status = repository.MedicalConditionallyPassed

	checker := NewChecker(&fakeHistory{
		scores:  []float64{90, 90, 90},
		fatigue: 0.2,
		medical: med,
	})

	verdict, err := checker.Check(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.True(t, verdict.Checks["medical"].Passed)
}
