package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/Krimson/fatigue-guard/internal/config"
	"github.com/Krimson/fatigue-guard/internal/fatigue"
	"github.com/Krimson/fatigue-guard/internal/vision"
)

// CLI-анализатор: прогоняет видеофайл или устройство захвата через
// пайплайн и печатает вердикт в терминал
func main() {
	videoPath := flag.String("video", "", "путь к видеофайлу или устройству захвата")
	stride := flag.Int("stride", 5, "обрабатывать каждый N-й кадр")
	maxFrames := flag.Int("max-frames", 0, "лимит кадров (0 - без лимита)")
	verbose := flag.Bool("v", false, "печатать каждую оценку")
	flag.Parse()

	if *videoPath == "" {
		fmt.Fprintln(os.Stderr, "usage: analyzer -video <path> [-stride N] [-max-frames N]")
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	classifier, err := vision.NewHTTPFrameClassifier(ctx, cfg.ClassifierURL)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	locator := vision.NewHTTPFaceLocator(cfg.DetectorURL, cfg.MinDetectionConfidence)

	source, err := vision.OpenVideo(cfg.FFmpegPath, *videoPath)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	defer source.Close()

	analyzer := fatigue.NewAnalyzer(locator, classifier, fatigue.Options{
		BufferSize:     cfg.BufferSize,
		MinConfidence:  cfg.MinDetectionConfidence,
		MinBoxPx:       cfg.MinFaceBoxPx,
		AbsenceTimeout: cfg.FaceAbsenceTimeout,
		Stride:         *stride,
		MaxFrames:      *maxFrames,
		OnSample: func(s fatigue.Sample) {
			if *verbose {
				fmt.Printf("frame %4d  score %.3f  mean %.3f  %s\n",
					s.FrameIndex, s.Score, s.BufferMean, s.Level)
			}
		},
	})

	result, err := analyzer.Run(ctx, source)
	if err != nil {
		log.Fatalf("[FATAL] Analysis failed: %v", err)
	}

	printVerdict(result, analyzer.FramesRead())
}

func printVerdict(result fatigue.Result, frames int) {
	bold := color.New(color.Bold)

	fmt.Println()
	bold.Println("=== Результат анализа ===")
	fmt.Printf("Кадров прочитано: %d\n", frames)
	fmt.Printf("Оценка: %.2f (%.1f%%)\n", result.Score, result.Percent)

	levelColor := map[string]*color.Color{
		fatigue.LevelLow:    color.New(color.FgGreen, color.Bold),
		fatigue.LevelMedium: color.New(color.FgYellow, color.Bold),
		fatigue.LevelHigh:   color.New(color.FgRed, color.Bold),
		fatigue.LevelNoData: color.New(color.FgWhite),
	}

	c, ok := levelColor[result.Level]
	if !ok {
		c = bold
	}
	fmt.Print("Уровень усталости: ")
	c.Println(result.Level)
}
