package fatigue

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Krimson/fatigue-guard/internal/vision"
)

// Сигнальная оценка: долгое отсутствие лица трактуется как максимальная усталость
const absenceScore = 1.0

// Предел подряд идущих ошибок чтения, после которого поток считается оборванным
const maxReadFailures = 5

// Sample — одна обработанная точка потока для подписчиков прогресса
type Sample struct {
	FrameIndex int     `json:"frame_index"`
	Score      float64 `json:"score"`
	BufferMean float64 `json:"buffer_mean"`
	Level      string  `json:"level"`
}

// Options настраивают анализатор
type Options struct {
	BufferSize     int
	MinConfidence  float64
	MinBoxPx       int
	AbsenceTimeout time.Duration
	Stride         int
	MaxFrames      int

	// Clock подменяется в тестах
	Clock func() time.Time

	// OnSample вызывается после каждой принятой оценки
	OnSample func(Sample)
}

// Analyzer прогоняет видеопоток через детектор лиц и классификатор усталости,
// накапливая покадровые оценки в скользящем буфере
type Analyzer struct {
	locator    vision.FaceLocator
	classifier vision.FrameClassifier
	buffer     *Buffer
	opts       Options

	lastFaceSeen time.Time
	faceEverSeen bool
	framesRead   int
}

// NewAnalyzer создаёт анализатор с заданными зависимостями
func NewAnalyzer(locator vision.FaceLocator, classifier vision.FrameClassifier, opts Options) *Analyzer {
	if opts.BufferSize <= 0 {
		opts.BufferSize = 15
	}
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = 0.7
	}
	if opts.MinBoxPx <= 0 {
		opts.MinBoxPx = vision.MinBoxPx
	}
	if opts.AbsenceTimeout <= 0 {
		opts.AbsenceTimeout = 2 * time.Second
	}
	if opts.Stride <= 0 {
		opts.Stride = 5
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Analyzer{
		locator:    locator,
		classifier: classifier,
		buffer:     NewBuffer(opts.BufferSize),
		opts:       opts,
	}
}

// ProcessFrame обрабатывает один кадр: детекция, препроцессинг, классификация.
// Каждое лицо выше порога уверенности даёт отдельную оценку в буфере.
// Возвращает кадр с нанесённой разметкой. Отсутствие лица дольше порога
// добавляет в буфер сигнальную оценку 1.0.
func (a *Analyzer) ProcessFrame(ctx context.Context, frame *vision.Frame) (*image.RGBA, error) {
	now := a.opts.Clock()

	dets, err := a.locator.Detect(ctx, frame)
	if err != nil {
		return frame.Image, fmt.Errorf("detect frame %d: %w", frame.Index, err)
	}

	faces := vision.FilterDetections(dets, a.opts.MinConfidence)
	if len(faces) == 0 {
		a.handleAbsence(now, frame.Index)
		return frame.Image, nil
	}

	// лицо в кадре, даже если его область непригодна для классификации
	a.lastFaceSeen = now
	a.faceEverSeen = true

	annotated := frame.Image
	scored := false
	for _, det := range faces {
		region, ok := vision.ClipToFrame(det, annotated.Bounds(), a.opts.MinBoxPx)
		if !ok {
			continue
		}

		crop, err := vision.CropFace(frame, region)
		if err != nil {
			return annotated, fmt.Errorf("crop frame %d: %w", frame.Index, err)
		}

		score, err := a.classifier.Predict(ctx, vision.Normalize(crop))
		if err != nil {
			return annotated, fmt.Errorf("predict frame %d: %w", frame.Index, err)
		}

		a.push(score, frame.Index)
		drawBox(annotated, region, score)
		scored = true
	}
	if scored {
		drawLabel(annotated, fmt.Sprintf("Fatigue: %.2f", a.buffer.Mean()))
	}
	return annotated, nil
}

// handleAbsence фиксирует отсутствие лица: после absenceTimeout в буфер
// попадает сигнальная оценка
func (a *Analyzer) handleAbsence(now time.Time, frameIndex int) {
	if !a.faceEverSeen {
		a.lastFaceSeen = now
		a.faceEverSeen = true
		return
	}
	if now.Sub(a.lastFaceSeen) > a.opts.AbsenceTimeout {
		a.push(absenceScore, frameIndex)
	}
}

func (a *Analyzer) push(score float64, frameIndex int) {
	a.buffer.Push(score)
	if a.opts.OnSample != nil {
		mean := a.buffer.Mean()
		a.opts.OnSample(Sample{
			FrameIndex: frameIndex,
			Score:      score,
			BufferMean: mean,
			Level:      levelFor(mean),
		})
	}
}

// Run прогоняет источник кадров до конца потока или лимита кадров.
// Обрабатывается каждый stride-й кадр, ошибки отдельных кадров
// логируются и не прерывают анализ. Несколько ошибок чтения подряд
// трактуются как обрыв потока.
func (a *Analyzer) Run(ctx context.Context, source vision.FrameSource) (Result, error) {
	framesRead := 0
	readFailures := 0
	for {
		if a.opts.MaxFrames > 0 && framesRead >= a.opts.MaxFrames {
			break
		}
		if err := ctx.Err(); err != nil {
			return a.Finalize(), err
		}

		frame, err := source.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Printf("[WARN] [ANALYSIS] Frame read failed: %v", err)
			readFailures++
			if readFailures >= maxReadFailures {
				log.Printf("[WARN] [ANALYSIS] Source lost after %d consecutive read failures", readFailures)
				break
			}
			framesRead++
			continue
		}
		readFailures = 0

		if framesRead%a.opts.Stride == 0 {
			if _, err := a.ProcessFrame(ctx, frame); err != nil {
				log.Printf("[WARN] [ANALYSIS] Frame skipped: %v", err)
			}
		}
		framesRead++
	}
	a.framesRead = framesRead

	result := a.Finalize()
	log.Printf("[INFO] [ANALYSIS] Completed: frames=%d samples=%d level=%s score=%.2f",
		framesRead, a.buffer.Len(), result.Level, result.Score)
	return result, nil
}

// FramesRead возвращает число кадров, прочитанных последним запуском Run
func (a *Analyzer) FramesRead() int {
	return a.framesRead
}

// Finalize возвращает итоговую оценку по накопленному буферу
func (a *Analyzer) Finalize() Result {
	return a.buffer.Result()
}

// Reset очищает состояние перед повторным использованием
func (a *Analyzer) Reset() {
	a.buffer.Reset()
	a.faceEverSeen = false
}

func drawBox(img *image.RGBA, r image.Rectangle, score float64) {
	c := color.RGBA{G: 200, A: 255}
	if score >= 0.5 {
		c = color.RGBA{R: 200, A: 255}
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

func drawLabel(img *image.RGBA, text string) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(img.Bounds().Min.X+10, img.Bounds().Min.Y+20),
	}
	d.DrawString(text)
}
