package cognitive

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Generator собирает задания когнитивных тестов.
// Источник случайности инжектируется, чтобы тесты были воспроизводимы.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator создаёт генератор с заданным источником случайности
func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate возвращает count заданий типа testType.
// Подтипы чередуются по кругу, при исчерпании набора повторяются.
func (g *Generator) Generate(testType string, count int) ([]Item, error) {
	kinds, ok := subTypes[testType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTestType, testType)
	}
	if count <= 0 {
		count = 10
	}

	items := make([]Item, 0, count)
	for i := 0; i < count; i++ {
		kind := kinds[i%len(kinds)]
		item := g.buildItem(kind)
		item.ID = uuid.New().String()
		items = append(items, item)
	}
	return items, nil
}

func (g *Generator) buildItem(kind string) Item {
	switch kind {
	case ItemDifference:
		return g.differenceItem()
	case ItemCount:
		return g.countItem()
	case ItemPattern:
		return g.patternItem()
	case ItemSelect:
		return g.selectItem()
	case ItemMatrixSelection:
		return g.matrixSelectionItem()
	case ItemSequence:
		return g.sequenceItem()
	case ItemWords:
		return g.wordsItem()
	case ItemImages:
		return g.imagesItem()
	case ItemPairs:
		return g.pairsItem()
	case ItemMatrix:
		return g.matrixItem()
	case ItemReaction:
		return g.reactionItem()
	case ItemLogic:
		return g.logicItem()
	case ItemMath:
		return g.mathItem()
	default:
		return g.mixedItem()
	}
}

// shuffleOptions перемешивает варианты ответа на месте
func (g *Generator) shuffleOptions(options []string) {
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
}

// numericOptions строит варианты вокруг правильного числа (off-by-one и off-by-two)
func (g *Generator) numericOptions(correct int) []string {
	options := []string{
		fmt.Sprintf("%d", correct),
		fmt.Sprintf("%d", correct+1),
		fmt.Sprintf("%d", correct-1),
		fmt.Sprintf("%d", correct+2),
	}
	g.shuffleOptions(options)
	return options
}
