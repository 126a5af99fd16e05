package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Krimson/fatigue-guard/internal/config"
	"github.com/Krimson/fatigue-guard/internal/fatigue"
	"github.com/Krimson/fatigue-guard/internal/repository"
	"github.com/Krimson/fatigue-guard/internal/vision"
)

// AnalysisRepository — персистентность, нужная сервису анализа
type AnalysisRepository interface {
	SaveFatigueAnalysis(ctx context.Context, rec *repository.FatigueRecord) error
	GetFatigueAnalysis(ctx context.Context, id string) (*repository.FatigueRecord, error)
	UpdateFeedback(ctx context.Context, analysisID string, score float64) error
	FlightVideoPath(ctx context.Context, flightID string) (string, error)
}

// EventPublisher уведомляет внешние системы о завершённых анализах
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, rec *repository.FatigueRecord) error
}

// ProgressBroadcaster транслирует ход анализа подписчикам
type ProgressBroadcaster interface {
	BroadcastProgress(analysisID string, sample fatigue.Sample)
	BroadcastCompleted(analysisID string, result fatigue.Result)
}

// AnalysisService — оркестрация анализа усталости: сохранение записи,
// перекодирование, прогон пайплайна, персистентность и события
type AnalysisService struct {
	cfg        *config.Config
	locator    vision.FaceLocator
	classifier vision.FrameClassifier
	repo       AnalysisRepository
	publisher  EventPublisher
	hub        ProgressBroadcaster
}

// NewAnalysisService создаёт сервис. publisher и hub могут быть nil.
func NewAnalysisService(cfg *config.Config, locator vision.FaceLocator, classifier vision.FrameClassifier, repo AnalysisRepository, publisher EventPublisher, hub ProgressBroadcaster) *AnalysisService {
	return &AnalysisService{
		cfg:        cfg,
		locator:    locator,
		classifier: classifier,
		repo:       repo,
		publisher:  publisher,
		hub:        hub,
	}
}

// AnalyzeUpload сохраняет загруженную запись и прогоняет её через пайплайн
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, employeeID string, file io.Reader, filename string) (*repository.FatigueRecord, error) {
	path, err := s.saveUpload(file, filename)
	if err != nil {
		return nil, err
	}

	return s.analyzeFile(ctx, employeeID, "", path)
}

// AnalyzeFlight прогоняет через пайплайн запись видеонаблюдения рейса
func (s *AnalysisService) AnalyzeFlight(ctx context.Context, flightID, employeeID string) (*repository.FatigueRecord, error) {
	path, err := s.repo.FlightVideoPath(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("flight video: %w", err)
	}

	return s.analyzeFile(ctx, employeeID, flightID, path)
}

// SaveRecording сохраняет запись без анализа
func (s *AnalysisService) SaveRecording(_ context.Context, file io.Reader, filename string) (string, error) {
	return s.saveUpload(file, filename)
}

// SaveFeedback сохраняет пользовательскую оценку точности анализа
func (s *AnalysisService) SaveFeedback(ctx context.Context, analysisID string, score float64) error {
	if score < 0 || score > 1 {
		return fmt.Errorf("feedback score %f out of [0,1]", score)
	}
	return s.repo.UpdateFeedback(ctx, analysisID, score)
}

// GetAnalysis возвращает сохранённый результат анализа
func (s *AnalysisService) GetAnalysis(ctx context.Context, id string) (*repository.FatigueRecord, error) {
	return s.repo.GetFatigueAnalysis(ctx, id)
}

func (s *AnalysisService) analyzeFile(ctx context.Context, employeeID, flightID, path string) (*repository.FatigueRecord, error) {
	analysisID := uuid.New().String()

	source, err := vision.OpenVideo(s.cfg.FFmpegPath, path)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	analyzer := fatigue.NewAnalyzer(s.locator, s.classifier, fatigue.Options{
		BufferSize:     s.cfg.BufferSize,
		MinConfidence:  s.cfg.MinDetectionConfidence,
		MinBoxPx:       s.cfg.MinFaceBoxPx,
		AbsenceTimeout: s.cfg.FaceAbsenceTimeout,
		Stride:         s.cfg.FrameStride,
		MaxFrames:      s.cfg.MaxUploadFrames,
		OnSample: func(sample fatigue.Sample) {
			if s.hub != nil {
				s.hub.BroadcastProgress(analysisID, sample)
			}
		},
	})

	log.Printf("[INFO] [ANALYSIS] Started: id=%s employee=%s video=%s", analysisID, employeeID, path)

	result, err := analyzer.Run(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("analysis run: %w", err)
	}

	rec := &repository.FatigueRecord{
		ID:          analysisID,
		EmployeeID:  employeeID,
		FlightID:    flightID,
		VideoPath:   path,
		Level:       result.Level,
		Score:       result.Score,
		Percent:     result.Percent,
		FramesTotal: analyzer.FramesRead(),
		CreatedAt:   time.Now(),
	}

	if err := s.repo.SaveFatigueAnalysis(ctx, rec); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastCompleted(analysisID, result)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishAnalysisCompleted(ctx, rec); err != nil {
			log.Printf("[ERROR] [ANALYSIS] Failed to publish event: %v", err)
		}
	}

	return rec, nil
}

// saveUpload пишет запись в каталог загрузок, перекодируя webm в mp4
func (s *AnalysisService) saveUpload(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".webm"
	}

	rawPath := filepath.Join(s.cfg.UploadDir, uuid.New().String()+ext)
	out, err := os.Create(rawPath)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}

	if ext != ".webm" {
		return rawPath, nil
	}

	mp4Path := strings.TrimSuffix(rawPath, ext) + ".mp4"
	if err := vision.Transcode(s.cfg.FFmpegPath, rawPath, mp4Path); err != nil {
		// перекодирование не критично, анализ читает и webm
		log.Printf("[WARN] [ANALYSIS] Transcode failed, keeping original: %v", err)
		return rawPath, nil
	}

	if err := os.Remove(rawPath); err != nil {
		log.Printf("[WARN] [ANALYSIS] Failed to remove original upload: %v", err)
	}
	return mp4Path, nil
}
