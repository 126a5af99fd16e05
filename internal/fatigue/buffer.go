package fatigue

import "math"

// Уровни усталости по среднему значению буфера
const (
	LevelNoData = "No data"
	LevelLow    = "Low"
	LevelMedium = "Medium"
	LevelHigh   = "High"
)

// Пороговые значения среднего для уровней усталости
const (
	lowThreshold  = 0.3
	highThreshold = 0.7
)

// Result — итоговая оценка усталости по окну наблюдений
type Result struct {
	Level   string  `json:"fatigue_level"`
	Score   float64 `json:"fatigue_score"`
	Percent float64 `json:"fatigue_percent"`
}

// Buffer хранит последние N покадровых оценок усталости.
// При переполнении самая старая оценка вытесняется.
type Buffer struct {
	size   int
	scores []float64
}

// NewBuffer создаёт буфер на size последних оценок
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = 15
	}
	return &Buffer{
		size:   size,
		scores: make([]float64, 0, size),
	}
}

// Push добавляет оценку, вытесняя самую старую при заполненном буфере
func (b *Buffer) Push(score float64) {
	if len(b.scores) == b.size {
		copy(b.scores, b.scores[1:])
		b.scores = b.scores[:b.size-1]
	}
	b.scores = append(b.scores, score)
}

// Len возвращает текущее число оценок в буфере
func (b *Buffer) Len() int {
	return len(b.scores)
}

// Mean возвращает среднее по буферу, 0 для пустого буфера
func (b *Buffer) Mean() float64 {
	if len(b.scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range b.scores {
		sum += s
	}
	return sum / float64(len(b.scores))
}

// Reset очищает буфер
func (b *Buffer) Reset() {
	b.scores = b.scores[:0]
}

// Result возвращает итоговую оценку по текущему содержимому буфера.
// Пустой буфер означает, что ни одно лицо не было классифицировано.
func (b *Buffer) Result() Result {
	if len(b.scores) == 0 {
		return Result{Level: LevelNoData, Score: 0, Percent: 0}
	}

	mean := b.Mean()
	return Result{
		Level:   levelFor(mean),
		Score:   round(mean, 2),
		Percent: round(mean*100, 1),
	}
}

func levelFor(mean float64) string {
	switch {
	case mean < lowThreshold:
		return LevelLow
	case mean < highThreshold:
		return LevelMedium
	default:
		return LevelHigh
	}
}

func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
