package cognitive

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidTestType возвращается при запросе неизвестного типа теста
var ErrInvalidTestType = errors.New("invalid test type")

// Типы когнитивных тестов
const (
	TestAttention = "attention"
	TestMemory    = "memory"
	TestReaction  = "reaction"
	TestCognitive = "cognitive"
)

// Подтипы заданий внутри тестов
const (
	ItemDifference      = "difference"
	ItemCount           = "count"
	ItemPattern         = "pattern"
	ItemSelect          = "select"
	ItemMatrixSelection = "matrix_selection"
	ItemSequence        = "sequence"
	ItemWords           = "words"
	ItemImages          = "images"
	ItemPairs           = "pairs"
	ItemMatrix          = "matrix"
	ItemReaction        = "reaction"
	ItemLogic           = "logic"
	ItemMath            = "math"
	ItemCognitiveMixed  = "cognitive"
)

// subTypes задаёт набор подтипов для каждого типа теста
var subTypes = map[string][]string{
	TestAttention: {ItemDifference, ItemCount, ItemPattern, ItemSelect, ItemMatrixSelection},
	TestMemory:    {ItemSequence, ItemWords, ItemImages, ItemPairs, ItemMatrix},
	TestReaction:  {ItemReaction},
	TestCognitive: {ItemLogic, ItemMath, ItemCognitiveMixed},
}

// TestTypes возвращает список поддерживаемых типов тестов
func TestTypes() []string {
	return []string{TestAttention, TestMemory, TestReaction, TestCognitive}
}

// ValidTestType проверяет, поддерживается ли тип теста
func ValidTestType(testType string) bool {
	_, ok := subTypes[testType]
	return ok
}

// Item — одно задание теста. CorrectAnswer никогда не покидает сервер.
type Item struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Question      string         `json:"question"`
	Options       []string       `json:"options,omitempty"`
	CorrectAnswer string         `json:"correct_answer"`
	Payload       map[string]any `json:"payload,omitempty"`
}

// ClientItem — проекция задания для клиента, без правильного ответа
type ClientItem struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Question string         `json:"question"`
	Options  []string       `json:"options,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// ForClient отбрасывает поля, раскрывающие ответ
func (it Item) ForClient() ClientItem {
	return ClientItem{
		ID:       it.ID,
		Type:     it.Type,
		Question: it.Question,
		Options:  it.Options,
		Payload:  it.Payload,
	}
}

// ProjectItems возвращает клиентскую проекцию списка заданий
func ProjectItems(items []Item) []ClientItem {
	out := make([]ClientItem, len(items))
	for i, it := range items {
		out[i] = it.ForClient()
	}
	return out
}

// joinInts кодирует набор чисел каноничной строкой: по возрастанию, через запятую
func joinInts(values []int) string {
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, v := range sorted {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// posKey кодирует позицию ячейки матрицы
func posKey(row, col int) string {
	return fmt.Sprintf("%d-%d", row, col)
}

// joinKeys кодирует набор ключей каноничной строкой: отсортировано, через запятую
func joinKeys(keys []string) string {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
