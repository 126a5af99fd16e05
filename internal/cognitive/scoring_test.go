package cognitive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoringItems() []Item {
	return []Item{
		{ID: "q1", Type: ItemMath, Question: "Сколько будет 2 + 2?", CorrectAnswer: "4"},
		{ID: "q2", Type: ItemMath, Question: "Сколько будет 3 + 3?", CorrectAnswer: "6"},
		{ID: "q3", Type: ItemLogic, Question: "Верно ли заключение?", CorrectAnswer: "Да"},
		{ID: "q4", Type: ItemLogic, Question: "Верно ли заключение?", CorrectAnswer: "Нет"},
	}
}

func TestScoreExact(t *testing.T) {
	items := scoringItems()

	result := Score(items, map[string]string{
		"q1": "4",
		"q2": "7",
		"q3": "Да",
		"q4": "Да",
	}, nil)

	assert.Equal(t, 2, result.Correct)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 50.0, result.Score)
	require.Len(t, result.Mistakes, 2)
	assert.Equal(t, "q2", result.Mistakes[0].QuestionID)
	assert.Equal(t, "q4", result.Mistakes[1].QuestionID)
}

func TestScoreTrimsWhitespace(t *testing.T) {
	items := scoringItems()[:1]

	result := Score(items, map[string]string{"q1": "  4  "}, nil)
	assert.Equal(t, 100.0, result.Score)
}

func TestScoreMissingAnswers(t *testing.T) {
	items := scoringItems()

	// пустая карта ответов: каждый вопрос ошибка, не сбой
	result := Score(items, map[string]string{}, nil)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 0, result.Correct)
	require.Len(t, result.Mistakes, 4)
	for _, m := range result.Mistakes {
		assert.Equal(t, NoAnswer, m.GivenAnswer)
	}
}

func TestScoreEmptyItems(t *testing.T) {
	result := Score(nil, map[string]string{"q1": "4"}, nil)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Mistakes)
}

func TestScoreBreakdownByType(t *testing.T) {
	items := scoringItems()

	result := Score(items, map[string]string{
		"q1": "4",
		"q2": "6",
		"q3": "Нет",
		"q4": "Да",
	}, map[string]float64{
		"q1": 2.0,
		"q2": 4.0,
		"q3": 1.5,
		"q4": 2.5,
	})

	math := result.Details[ItemMath]
	assert.Equal(t, 2, math.Total)
	assert.Equal(t, 2, math.Correct)
	assert.Equal(t, 100.0, math.Accuracy)
	assert.Equal(t, 3.0, math.AvgResponseTime)

	logic := result.Details[ItemLogic]
	assert.Equal(t, 2, logic.Total)
	assert.Equal(t, 0, logic.Correct)
	assert.Equal(t, 0.0, logic.Accuracy)
	assert.Equal(t, 2.0, logic.AvgResponseTime)
}

func TestScoreExtraAnswersIgnored(t *testing.T) {
	items := scoringItems()[:2]

	result := Score(items, map[string]string{
		"q1":      "4",
		"q2":      "6",
		"unknown": "что-то",
	}, nil)

	assert.Equal(t, 100.0, result.Score)
	assert.Empty(t, result.Mistakes)
}
