package cognitive

import (
	"fmt"
	"strconv"
)

type logicStatement struct {
	text   string
	answer string
}

var logicPool = []logicStatement{
	{"Все пилоты проходят медосмотр. Иванов — пилот. Иванов проходит медосмотр.", "Да"},
	{"Если рейс задержан, экипаж ждёт. Рейс не задержан. Значит, экипаж не ждёт.", "Нет"},
	{"Ни один вылет не разрешён без плана полёта. Этот вылет разрешён. У него есть план полёта.", "Да"},
	{"Некоторые штурманы говорят по-английски. Петров — штурман. Петров говорит по-английски.", "Нет"},
	{"Все борта этой авиакомпании белые. Этот борт не белый. Он не принадлежит этой авиакомпании.", "Да"},
}

var categoryPool = []struct {
	items []string
	odd   string
}{
	{[]string{"штурвал", "закрылки", "шасси", "диспетчер"}, "диспетчер"},
	{[]string{"дождь", "туман", "гроза", "ангар"}, "ангар"},
	{[]string{"взлёт", "посадка", "руление", "компас"}, "компас"},
}

// logicItem: оценить истинность силлогизма
func (g *Generator) logicItem() Item {
	s := logicPool[g.rng.Intn(len(logicPool))]

	return Item{
		Type:          ItemLogic,
		Question:      fmt.Sprintf("Верно ли заключение? %s", s.text),
		Options:       []string{"Да", "Нет"},
		CorrectAnswer: s.answer,
	}
}

// mathItem: устный счёт
func (g *Generator) mathItem() Item {
	a := g.rng.Intn(40) + 10
	b := g.rng.Intn(40) + 10

	var question string
	var answer int
	if g.rng.Intn(2) == 0 {
		question = fmt.Sprintf("Сколько будет %d + %d?", a, b)
		answer = a + b
	} else {
		question = fmt.Sprintf("Сколько будет %d - %d?", a+b, b)
		answer = a
	}

	return Item{
		Type:          ItemMath,
		Question:      question,
		Options:       g.numericOptions(answer),
		CorrectAnswer: strconv.Itoa(answer),
	}
}

// mixedItem: исключить лишнее по категории
func (g *Generator) mixedItem() Item {
	c := categoryPool[g.rng.Intn(len(categoryPool))]

	options := append([]string(nil), c.items...)
	g.shuffleOptions(options)

	return Item{
		Type:          ItemCognitiveMixed,
		Question:      "Какое слово лишнее?",
		Options:       options,
		CorrectAnswer: c.odd,
	}
}
