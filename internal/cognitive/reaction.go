package cognitive

// Ожидаемый ответ задания на реакцию: нажатие по появлению стимула
const reactionAnswer = "hit"

// reactionItem: нажать как можно быстрее после появления стимула.
// Точность здесь бинарная, основная метрика — время ответа.
func (g *Generator) reactionItem() Item {
	delay := 1000 + g.rng.Intn(3000)
	stimulus := countSymbols[g.rng.Intn(len(countSymbols))]

	return Item{
		Type:          ItemReaction,
		Question:      "Нажмите, как только появится символ",
		CorrectAnswer: reactionAnswer,
		Payload: map[string]any{
			"stimulus": stimulus,
			"delay_ms": delay,
		},
	}
}
