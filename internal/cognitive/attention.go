package cognitive

import (
	"fmt"
	"strconv"
)

var differencePool = [][]string{
	{"самолёт", "самолёт", "самолёт", "самолет"},
	{"полёт", "полёт", "пилот", "полёт"},
	{"экипаж", "экипаж", "экипаж", "экипаж."},
	{"взлёт", "взлёт", "взлет", "взлёт"},
	{"маршрут", "маршрут", "маршрyт", "маршрут"},
}

var countSymbols = []string{"✈", "●", "▲", "■", "★"}

// differenceItem: найти слово, отличающееся от остальных
func (g *Generator) differenceItem() Item {
	row := differencePool[g.rng.Intn(len(differencePool))]

	correct := ""
	seen := map[string]int{}
	for _, w := range row {
		seen[w]++
	}
	for w, n := range seen {
		if n == 1 {
			correct = w
		}
	}

	options := append([]string(nil), row...)
	g.shuffleOptions(options)

	return Item{
		Type:          ItemDifference,
		Question:      "Какое слово отличается от остальных?",
		Options:       options,
		CorrectAnswer: correct,
	}
}

// countItem: посчитать вхождения целевого символа в сетке
func (g *Generator) countItem() Item {
	target := countSymbols[g.rng.Intn(len(countSymbols))]
	size := 5

	grid := make([][]string, size)
	count := 0
	for r := 0; r < size; r++ {
		grid[r] = make([]string, size)
		for c := 0; c < size; c++ {
			sym := countSymbols[g.rng.Intn(len(countSymbols))]
			grid[r][c] = sym
			if sym == target {
				count++
			}
		}
	}

	return Item{
		Type:          ItemCount,
		Question:      fmt.Sprintf("Сколько раз символ %s встречается в сетке?", target),
		Options:       g.numericOptions(count),
		CorrectAnswer: strconv.Itoa(count),
		Payload: map[string]any{
			"grid":   grid,
			"target": target,
		},
	}
}

// patternItem: продолжить арифметическую последовательность
func (g *Generator) patternItem() Item {
	start := g.rng.Intn(10) + 1
	step := g.rng.Intn(5) + 2

	seq := make([]int, 4)
	for i := range seq {
		seq[i] = start + i*step
	}
	next := start + 4*step

	return Item{
		Type:          ItemPattern,
		Question:      fmt.Sprintf("Продолжите последовательность: %d, %d, %d, %d, ...", seq[0], seq[1], seq[2], seq[3]),
		Options:       g.numericOptions(next),
		CorrectAnswer: strconv.Itoa(next),
		Payload:       map[string]any{"sequence": seq},
	}
}

// selectItem: выбрать все чётные числа из набора
func (g *Generator) selectItem() Item {
	pool := g.rng.Perm(50)[:8]
	numbers := make([]int, len(pool))
	var even []int
	for i, v := range pool {
		n := v + 1
		numbers[i] = n
		if n%2 == 0 {
			even = append(even, n)
		}
	}

	// в наборе должно быть хотя бы одно чётное число
	if len(even) == 0 {
		numbers[0]++
		even = append(even, numbers[0])
	}

	options := make([]string, len(numbers))
	for i, n := range numbers {
		options[i] = strconv.Itoa(n)
	}

	return Item{
		Type:          ItemSelect,
		Question:      "Выберите все чётные числа",
		Options:       options,
		CorrectAnswer: joinInts(even),
		Payload:       map[string]any{"multiple_select": true},
	}
}

// matrixSelectionItem: отметить все ячейки с целевым символом
func (g *Generator) matrixSelectionItem() Item {
	target := countSymbols[g.rng.Intn(len(countSymbols))]
	size := 4

	grid := make([][]string, size)
	var keys []string
	for r := 0; r < size; r++ {
		grid[r] = make([]string, size)
		for c := 0; c < size; c++ {
			sym := countSymbols[g.rng.Intn(len(countSymbols))]
			grid[r][c] = sym
			if sym == target {
				keys = append(keys, posKey(r, c))
			}
		}
	}

	if len(keys) == 0 {
		grid[0][0] = target
		keys = append(keys, posKey(0, 0))
	}

	return Item{
		Type:          ItemMatrixSelection,
		Question:      fmt.Sprintf("Отметьте все ячейки с символом %s", target),
		CorrectAnswer: joinKeys(keys),
		Payload: map[string]any{
			"grid":            grid,
			"target":          target,
			"multiple_select": true,
		},
	}
}
