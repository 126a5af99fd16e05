package cognitive

import (
	"math"
	"strings"
)

// NoAnswer — сигнальное значение для вопроса, оставшегося без ответа
const NoAnswer = "__no_answer__"

// Mistake описывает одну ошибку в порядке следования вопросов
type Mistake struct {
	QuestionID    string `json:"question_id"`
	QuestionType  string `json:"question_type"`
	Question      string `json:"question"`
	GivenAnswer   string `json:"given_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// TypeBreakdown — статистика по одному подтипу заданий
type TypeBreakdown struct {
	Total           int     `json:"total"`
	Correct         int     `json:"correct"`
	Accuracy        float64 `json:"accuracy"`
	AvgResponseTime float64 `json:"avg_response_time"`
}

// TestResult — итог проверки ответов
type TestResult struct {
	Score    float64                  `json:"score"`
	Correct  int                      `json:"correct"`
	Total    int                      `json:"total"`
	Mistakes []Mistake                `json:"mistakes"`
	Details  map[string]TypeBreakdown `json:"details"`
}

// Score сверяет ответы с эталоном. Ответы сравниваются строго после
// обрезки пробелов. Отсутствующий ответ засчитывается как ошибка,
// а не как сбой. timings может быть nil.
func Score(items []Item, answers map[string]string, timings map[string]float64) *TestResult {
	result := &TestResult{
		Total:    len(items),
		Mistakes: []Mistake{},
		Details:  make(map[string]TypeBreakdown),
	}

	timeSums := make(map[string]float64)
	timeCounts := make(map[string]int)

	for _, item := range items {
		given, ok := answers[item.ID]
		if !ok || strings.TrimSpace(given) == "" {
			given = NoAnswer
		}

		correct := strings.TrimSpace(given) == strings.TrimSpace(item.CorrectAnswer)

		bd := result.Details[item.Type]
		bd.Total++
		if correct {
			bd.Correct++
			result.Correct++
		} else {
			result.Mistakes = append(result.Mistakes, Mistake{
				QuestionID:    item.ID,
				QuestionType:  item.Type,
				Question:      item.Question,
				GivenAnswer:   given,
				CorrectAnswer: item.CorrectAnswer,
			})
		}
		result.Details[item.Type] = bd

		if t, ok := timings[item.ID]; ok {
			timeSums[item.Type] += t
			timeCounts[item.Type]++
		}
	}

	for kind, bd := range result.Details {
		bd.Accuracy = round1(100 * float64(bd.Correct) / float64(bd.Total))
		if n := timeCounts[kind]; n > 0 {
			bd.AvgResponseTime = round1(timeSums[kind] / float64(n))
		}
		result.Details[kind] = bd
	}

	if result.Total > 0 {
		result.Score = round1(100 * float64(result.Correct) / float64(result.Total))
	}
	return result
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
