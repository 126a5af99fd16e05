package vision

import (
	"context"
	"errors"
	"image"
	"time"
)

var (
	// ErrModelLoad возвращается, если модель классификатора недоступна при старте
	ErrModelLoad = errors.New("fatigue model unavailable")

	// ErrSourceUnavailable возвращается, если видеоисточник не удалось открыть
	ErrSourceUnavailable = errors.New("video source unavailable")
)

// Frame представляет один декодированный кадр видеопотока
type Frame struct {
	Image     *image.RGBA
	Index     int
	Timestamp time.Time
}

// Detection представляет ограничивающий прямоугольник найденного лица
type Detection struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// Rect возвращает прямоугольник детекции в координатах изображения
func (d Detection) Rect() image.Rectangle {
	return image.Rect(d.X, d.Y, d.X+d.Width, d.Y+d.Height)
}

// FaceLocator находит лица на кадре
type FaceLocator interface {
	Detect(ctx context.Context, frame *Frame) ([]Detection, error)
}

// FrameClassifier оценивает усталость по нормализованному фрагменту лица.
// Возвращает значение в диапазоне [0, 1].
type FrameClassifier interface {
	Predict(ctx context.Context, tensor []float32) (float64, error)
}

// FrameSource выдаёт кадры видеопотока по одному.
// По окончании потока Read возвращает io.EOF.
type FrameSource interface {
	Read() (*Frame, error)
	Close() error
}
