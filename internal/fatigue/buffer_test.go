package fatigue

import "testing"

func TestBufferEviction(t *testing.T) {
	b := NewBuffer(3)
	for i := 0; i < 10; i++ {
		b.Push(float64(i))
	}

	if b.Len() != 3 {
		t.Fatalf("expected buffer capped at 3, got %d", b.Len())
	}

	// остаются три последние оценки: 7, 8, 9
	if got := b.Mean(); got != 8.0 {
		t.Errorf("expected mean 8.0 of last three scores, got %f", got)
	}
}

func TestBufferEmptyResult(t *testing.T) {
	b := NewBuffer(15)

	r := b.Result()
	if r.Level != LevelNoData {
		t.Errorf("expected level %q for empty buffer, got %q", LevelNoData, r.Level)
	}
	if r.Score != 0 || r.Percent != 0 {
		t.Errorf("expected zero score and percent, got %f / %f", r.Score, r.Percent)
	}
}

func TestBufferLevels(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64
		level  string
		score  float64
	}{
		{"low", []float64{0.1, 0.2, 0.3}, LevelLow, 0.2},
		{"medium", []float64{0.4, 0.5, 0.6}, LevelMedium, 0.5},
		{"high", []float64{0.7, 0.8, 0.9}, LevelHigh, 0.8},
		{"low boundary", []float64{0.3}, LevelMedium, 0.3},
		{"high boundary", []float64{0.7}, LevelHigh, 0.7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuffer(15)
			for _, s := range tc.scores {
				b.Push(s)
			}
			r := b.Result()
			if r.Level != tc.level {
				t.Errorf("expected level %q, got %q", tc.level, r.Level)
			}
			if r.Score != tc.score {
				t.Errorf("expected score %f, got %f", tc.score, r.Score)
			}
		})
	}
}

func TestBufferRounding(t *testing.T) {
	b := NewBuffer(15)
	b.Push(0.333)
	b.Push(0.333)
	b.Push(0.333)

	r := b.Result()
	if r.Score != 0.33 {
		t.Errorf("expected score rounded to 0.33, got %f", r.Score)
	}
	if r.Percent != 33.3 {
		t.Errorf("expected percent rounded to 33.3, got %f", r.Percent)
	}
}

func TestBufferReset(t *testing.T) {
	b := NewBuffer(5)
	b.Push(0.9)
	b.Reset()

	if b.Len() != 0 {
		t.Errorf("expected empty buffer after reset, got %d", b.Len())
	}
	if r := b.Result(); r.Level != LevelNoData {
		t.Errorf("expected %q after reset, got %q", LevelNoData, r.Level)
	}
}
