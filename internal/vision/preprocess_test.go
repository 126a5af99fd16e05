package vision

import (
	"image"
	"image/color"
	"testing"
)

func TestClipToFrame(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)

	// детекция частично за границей кадра
	det := Detection{X: 80, Y: 80, Width: 40, Height: 40, Confidence: 0.9}
	r, ok := ClipToFrame(det, bounds, 0)
	if !ok {
		t.Fatalf("expected detection to survive clipping")
	}
	if r.Max.X != 100 || r.Max.Y != 100 {
		t.Errorf("expected clip to frame edge, got %v", r)
	}

	// после обрезки остаётся меньше минимального размера
	tiny := Detection{X: 95, Y: 95, Width: 40, Height: 40, Confidence: 0.9}
	if _, ok := ClipToFrame(tiny, bounds, 0); ok {
		t.Errorf("expected tiny clipped box to be rejected")
	}

	// полностью за кадром
	outside := Detection{X: 200, Y: 200, Width: 50, Height: 50, Confidence: 0.9}
	if _, ok := ClipToFrame(outside, bounds, 0); ok {
		t.Errorf("expected out-of-frame box to be rejected")
	}
}

func TestClipToFrameCustomThreshold(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	det := Detection{X: 10, Y: 10, Width: 20, Height: 20, Confidence: 0.9}

	if _, ok := ClipToFrame(det, bounds, 0); !ok {
		t.Errorf("expected 20px box to pass the default threshold")
	}
	if _, ok := ClipToFrame(det, bounds, 25); ok {
		t.Errorf("expected 20px box to be rejected at a 25px threshold")
	}
}

func TestNormalizeRange(t *testing.T) {
	crop := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			crop.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}

	tensor := Normalize(crop)
	if len(tensor) != InputSize*InputSize*Channels {
		t.Fatalf("expected tensor of %d values, got %d", InputSize*InputSize*Channels, len(tensor))
	}
	for i, v := range tensor {
		if v < 0 || v > 1 {
			t.Fatalf("tensor[%d]=%f out of [0,1]", i, v)
		}
	}
}

func TestNormalizeUniform(t *testing.T) {
	crop := image.NewRGBA(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			crop.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	tensor := Normalize(crop)
	for i, v := range tensor {
		if v < 0.99 {
			t.Fatalf("expected white pixel near 1.0, tensor[%d]=%f", i, v)
		}
	}
}

func TestNormalizeKeepsColorChannels(t *testing.T) {
	// красный фрагмент: канал R у единицы, G и B у нуля
	crop := image.NewRGBA(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			crop.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	tensor := Normalize(crop)
	for p := 0; p < InputSize*InputSize; p++ {
		o := p * Channels
		if tensor[o] < 0.99 {
			t.Fatalf("expected red channel near 1.0 at pixel %d, got %f", p, tensor[o])
		}
		if tensor[o+1] > 0.01 || tensor[o+2] > 0.01 {
			t.Fatalf("expected green/blue channels near 0 at pixel %d, got %f/%f", p, tensor[o+1], tensor[o+2])
		}
	}
}

func TestFilterDetections(t *testing.T) {
	dets := []Detection{
		{X: 0, Y: 0, Width: 20, Height: 20, Confidence: 0.5},
		{X: 10, Y: 10, Width: 20, Height: 20, Confidence: 0.95},
		{X: 20, Y: 20, Width: 20, Height: 20, Confidence: 0.8},
	}

	kept := FilterDetections(dets, 0.7)
	if len(kept) != 2 {
		t.Fatalf("expected 2 detections above threshold, got %d", len(kept))
	}
	if kept[0].Confidence != 0.95 || kept[1].Confidence != 0.8 {
		t.Errorf("expected input order preserved, got %v", kept)
	}

	if kept := FilterDetections(dets, 0.99); len(kept) != 0 {
		t.Errorf("expected no detections above 0.99, got %d", len(kept))
	}

	if kept := FilterDetections(nil, 0.7); len(kept) != 0 {
		t.Errorf("expected no detections for empty input, got %d", len(kept))
	}
}
