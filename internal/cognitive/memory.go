package cognitive

import (
	"fmt"
	"strconv"
	"strings"
)

var wordPool = []string{
	"штурвал", "компас", "высота", "курс", "топливо", "шасси",
	"диспетчер", "полоса", "ангар", "радар", "закрылки", "эшелон",
}

var imagePool = []string{"🛩", "🌤", "🧭", "⛽", "🗺", "🎧", "🌙", "⚙"}

var pairLeft = []string{"A", "B", "C", "D"}

// sequenceItem: запомнить и воспроизвести последовательность цифр
func (g *Generator) sequenceItem() Item {
	length := 5
	digits := make([]int, length)
	parts := make([]string, length)
	for i := range digits {
		digits[i] = g.rng.Intn(10)
	}
	// перестановки должны отличаться от исходной последовательности
	if digits[0] == digits[length-1] {
		digits[length-1] = (digits[length-1] + 1) % 10
	}
	for i := range digits {
		parts[i] = strconv.Itoa(digits[i])
	}
	correct := strings.Join(parts, ",")

	// варианты: исходная последовательность и три перестановки
	options := []string{correct}
	for len(options) < 4 {
		perm := g.rng.Perm(length)
		shuffled := make([]string, length)
		for i, p := range perm {
			shuffled[i] = parts[p]
		}
		candidate := strings.Join(shuffled, ",")
		if candidate != correct {
			options = append(options, candidate)
		}
	}
	g.shuffleOptions(options)

	return Item{
		Type:          ItemSequence,
		Question:      "Запомните последовательность цифр и выберите её",
		Options:       options,
		CorrectAnswer: correct,
		Payload: map[string]any{
			"sequence": digits,
			"delay_ms": 3000,
		},
	}
}

// wordsItem: запомнить список слов, затем указать показанное слово
func (g *Generator) wordsItem() Item {
	perm := g.rng.Perm(len(wordPool))
	shown := make([]string, 4)
	for i := 0; i < 4; i++ {
		shown[i] = wordPool[perm[i]]
	}
	correct := shown[g.rng.Intn(len(shown))]

	// дистракторы из того же пула, не входившие в показанный список
	options := []string{correct}
	for i := 4; i < len(perm) && len(options) < 4; i++ {
		options = append(options, wordPool[perm[i]])
	}
	g.shuffleOptions(options)

	return Item{
		Type:          ItemWords,
		Question:      "Какое из этих слов было в показанном списке?",
		Options:       options,
		CorrectAnswer: correct,
		Payload: map[string]any{
			"words":    shown,
			"delay_ms": 4000,
		},
	}
}

// imagesItem: запомнить набор изображений, затем указать показанное
func (g *Generator) imagesItem() Item {
	perm := g.rng.Perm(len(imagePool))
	shown := make([]string, 3)
	for i := 0; i < 3; i++ {
		shown[i] = imagePool[perm[i]]
	}
	correct := shown[g.rng.Intn(len(shown))]

	options := []string{correct}
	for i := 3; i < len(perm) && len(options) < 4; i++ {
		options = append(options, imagePool[perm[i]])
	}
	g.shuffleOptions(options)

	return Item{
		Type:          ItemImages,
		Question:      "Какое из этих изображений было показано?",
		Options:       options,
		CorrectAnswer: correct,
		Payload: map[string]any{
			"images":   shown,
			"delay_ms": 3000,
		},
	}
}

// pairsItem: запомнить пары буква-число и восстановить соответствие
func (g *Generator) pairsItem() Item {
	perm := g.rng.Perm(len(pairLeft))
	keys := make([]string, len(pairLeft))
	pairs := make(map[string]int, len(pairLeft))
	for i, letter := range pairLeft {
		num := perm[i] + 1
		pairs[letter] = num
		keys[i] = fmt.Sprintf("%s-%d", letter, num)
	}

	return Item{
		Type:          ItemPairs,
		Question:      "Запомните пары и восстановите соответствие",
		CorrectAnswer: joinKeys(keys),
		Payload: map[string]any{
			"pairs":    pairs,
			"delay_ms": 5000,
		},
	}
}

// matrixItem: запомнить подсвеченные ячейки матрицы
func (g *Generator) matrixItem() Item {
	size := 4
	cells := 4

	perm := g.rng.Perm(size * size)[:cells]
	keys := make([]string, cells)
	for i, p := range perm {
		keys[i] = posKey(p/size, p%size)
	}

	return Item{
		Type:          ItemMatrix,
		Question:      "Запомните подсвеченные ячейки и отметьте их",
		CorrectAnswer: joinKeys(keys),
		Payload: map[string]any{
			"size":            size,
			"highlighted":     keys,
			"delay_ms":        3000,
			"multiple_select": true,
		},
	}
}
