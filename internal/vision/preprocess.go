package vision

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

const (
	// InputSize — сторона входного тензора классификатора
	InputSize = 48

	// Channels — число цветовых каналов входного тензора
	Channels = 3

	// MinBoxPx — детекции с шириной или высотой не больше этого порога отбрасываются
	MinBoxPx = 10
)

// ClipToFrame обрезает прямоугольник детекции по границам кадра.
// Возвращает false, если после обрезки область слишком мала для классификации.
// minPx <= 0 означает порог по умолчанию MinBoxPx.
func ClipToFrame(det Detection, bounds image.Rectangle, minPx int) (image.Rectangle, bool) {
	if minPx <= 0 {
		minPx = MinBoxPx
	}
	r := det.Rect().Intersect(bounds)
	if r.Dx() <= minPx || r.Dy() <= minPx {
		return image.Rectangle{}, false
	}
	return r, true
}

// CropFace вырезает область лица из кадра
func CropFace(frame *Frame, region image.Rectangle) (*image.RGBA, error) {
	if !region.In(frame.Image.Bounds()) {
		return nil, fmt.Errorf("region %v outside frame bounds %v", region, frame.Image.Bounds())
	}
	crop := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(crop, crop.Bounds(), frame.Image, region.Min, draw.Src)
	return crop, nil
}

// Normalize приводит фрагмент лица к входному тензору классификатора:
// bilinear resize до 48x48, три канала RGB построчно, пиксели в [0, 1].
func Normalize(crop *image.RGBA) []float32 {
	resized := image.NewRGBA(image.Rect(0, 0, InputSize, InputSize))
	draw.ApproxBiLinear.Scale(resized, resized.Bounds(), crop, crop.Bounds(), draw.Src, nil)

	tensor := make([]float32, InputSize*InputSize*Channels)
	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			i := resized.PixOffset(x, y)
			o := (y*InputSize + x) * Channels
			tensor[o] = float32(resized.Pix[i]) / 255.0
			tensor[o+1] = float32(resized.Pix[i+1]) / 255.0
			tensor[o+2] = float32(resized.Pix[i+2]) / 255.0
		}
	}
	return tensor
}

// FilterDetections отбрасывает детекции ниже порога minConfidence,
// сохраняя порядок остальных.
func FilterDetections(dets []Detection, minConfidence float64) []Detection {
	var out []Detection
	for _, d := range dets {
		if d.Confidence >= minConfidence {
			out = append(out, d)
		}
	}
	return out
}
