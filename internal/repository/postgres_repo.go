package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresRepo реализует хранение результатов анализа и тестов в PostgreSQL
type PostgresRepo struct {
	db *sql.DB
}

// NewPostgresRepo создаёт репозиторий поверх готового соединения
func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

// NewPostgresRepoFromDSN создаёт репозиторий из строки подключения
func NewPostgresRepoFromDSN(dsn string) (*PostgresRepo, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresRepo{db: db}, nil
}

// Close закрывает соединение с БД
func (r *PostgresRepo) Close() error {
	return r.db.Close()
}

// ===== Анализ усталости =====

func (r *PostgresRepo) SaveFatigueAnalysis(ctx context.Context, rec *FatigueRecord) error {
	query := `
		INSERT INTO fatigue_analysis (id, employee_id, flight_id, video_path, fatigue_level, fatigue_score, fatigue_percent, frames_total, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.FlightID,
		rec.VideoPath,
		rec.Level,
		rec.Score,
		rec.Percent,
		rec.FramesTotal,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save fatigue analysis: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetFatigueAnalysis(ctx context.Context, id string) (*FatigueRecord, error) {
	query := `
		SELECT id, employee_id, COALESCE(flight_id, ''), video_path, fatigue_level, fatigue_score, fatigue_percent, frames_total, feedback_score, created_at
		FROM fatigue_analysis
		WHERE id = $1
	`

	var rec FatigueRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.FlightID,
		&rec.VideoPath,
		&rec.Level,
		&rec.Score,
		&rec.Percent,
		&rec.FramesTotal,
		&rec.FeedbackScore,
		&rec.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: analysis %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get fatigue analysis: %w", err)
	}
	return &rec, nil
}

// UpdateFeedback сохраняет пользовательскую оценку точности анализа
func (r *PostgresRepo) UpdateFeedback(ctx context.Context, analysisID string, score float64) error {
	query := `UPDATE fatigue_analysis SET feedback_score = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, analysisID, score)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check feedback update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: analysis %s", ErrNotFound, analysisID)
	}
	return nil
}

// LatestFatigueScore возвращает последнюю оценку усталости сотрудника
func (r *PostgresRepo) LatestFatigueScore(ctx context.Context, employeeID string) (float64, error) {
	query := `
		SELECT fatigue_score FROM fatigue_analysis
		WHERE employee_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var score float64
	err := r.db.QueryRowContext(ctx, query, employeeID).Scan(&score)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("%w: no fatigue analysis for %s", ErrNotFound, employeeID)
		}
		return 0, fmt.Errorf("failed to get latest fatigue score: %w", err)
	}
	return score, nil
}

// ===== Когнитивные тесты =====

func (r *PostgresRepo) SaveTestResult(ctx context.Context, rec *TestRecord) error {
	mistakesJSON, err := json.Marshal(rec.Mistakes)
	if err != nil {
		return fmt.Errorf("failed to marshal mistakes: %w", err)
	}
	detailsJSON, err := json.Marshal(rec.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal details: %w", err)
	}

	query := `
		INSERT INTO cognitive_tests (id, employee_id, test_type, score, correct, total, mistakes, details, cooldown_end, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID,
		rec.EmployeeID,
		rec.TestType,
		rec.Score,
		rec.Correct,
		rec.Total,
		mistakesJSON,
		detailsJSON,
		rec.CooldownEnd,
		rec.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save test result: %w", err)
	}
	return nil
}

func (r *PostgresRepo) GetTestResult(ctx context.Context, id string) (*TestRecord, error) {
	query := `
		SELECT id, employee_id, test_type, score, correct, total, mistakes, details, cooldown_end, completed_at
		FROM cognitive_tests
		WHERE id = $1
	`
	return r.scanTestRecord(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *PostgresRepo) scanTestRecord(row *sql.Row, id string) (*TestRecord, error) {
	var rec TestRecord
	var mistakesJSON, detailsJSON []byte

	err := row.Scan(
		&rec.ID,
		&rec.EmployeeID,
		&rec.TestType,
		&rec.Score,
		&rec.Correct,
		&rec.Total,
		&mistakesJSON,
		&detailsJSON,
		&rec.CooldownEnd,
		&rec.CompletedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: test result %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get test result: %w", err)
	}

	if err := json.Unmarshal(mistakesJSON, &rec.Mistakes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mistakes: %w", err)
	}
	if err := json.Unmarshal(detailsJSON, &rec.Details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal details: %w", err)
	}
	return &rec, nil
}

// TestHistory возвращает результаты тестов сотрудника, новые первыми
func (r *PostgresRepo) TestHistory(ctx context.Context, employeeID string) ([]TestRecord, error) {
	query := `
		SELECT id, employee_id, test_type, score, correct, total, mistakes, details, cooldown_end, completed_at
		FROM cognitive_tests
		WHERE employee_id = $1
		ORDER BY completed_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query test history: %w", err)
	}
	defer rows.Close()

	var history []TestRecord
	for rows.Next() {
		var rec TestRecord
		var mistakesJSON, detailsJSON []byte

		if err := rows.Scan(
			&rec.ID,
			&rec.EmployeeID,
			&rec.TestType,
			&rec.Score,
			&rec.Correct,
			&rec.Total,
			&mistakesJSON,
			&detailsJSON,
			&rec.CooldownEnd,
			&rec.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan test record: %w", err)
		}
		if err := json.Unmarshal(mistakesJSON, &rec.Mistakes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal mistakes: %w", err)
		}
		if err := json.Unmarshal(detailsJSON, &rec.Details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal details: %w", err)
		}
		history = append(history, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate test history: %w", err)
	}
	return history, nil
}

// LastTestTime возвращает время последнего теста данного типа.
// Нулевое время означает отсутствие истории.
func (r *PostgresRepo) LastTestTime(ctx context.Context, employeeID, testType string) (time.Time, error) {
	query := `
		SELECT completed_at FROM cognitive_tests
		WHERE employee_id = $1 AND test_type = $2
		ORDER BY completed_at DESC
		LIMIT 1
	`

	var completedAt time.Time
	err := r.db.QueryRowContext(ctx, query, employeeID, testType).Scan(&completedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get last test time: %w", err)
	}
	return completedAt, nil
}

// LastCognitiveScores возвращает последние limit итоговых баллов сотрудника
func (r *PostgresRepo) LastCognitiveScores(ctx context.Context, employeeID string, limit int) ([]float64, error) {
	query := `
		SELECT score FROM cognitive_tests
		WHERE employee_id = $1
		ORDER BY completed_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cognitive scores: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var s float64
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scores: %w", err)
	}
	return scores, nil
}

// ===== Медосмотры и рейсы =====

// LatestMedicalCheck возвращает последний медосмотр сотрудника
func (r *PostgresRepo) LatestMedicalCheck(ctx context.Context, employeeID string) (*MedicalCheck, error) {
	query := `
		SELECT employee_id, status, check_date, expiry_date
		FROM medical_checks
		WHERE employee_id = $1
		ORDER BY check_date DESC
		LIMIT 1
	`

	var check MedicalCheck
	err := r.db.QueryRowContext(ctx, query, employeeID).Scan(
		&check.EmployeeID,
		&check.Status,
		&check.CheckDate,
		&check.ExpiryDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: no medical check for %s", ErrNotFound, employeeID)
		}
		return nil, fmt.Errorf("failed to get medical check: %w", err)
	}
	return &check, nil
}

// FlightVideoPath возвращает путь к записи видеонаблюдения рейса
func (r *PostgresRepo) FlightVideoPath(ctx context.Context, flightID string) (string, error) {
	query := `SELECT video_path FROM flights WHERE id = $1`

	var path string
	err := r.db.QueryRowContext(ctx, query, flightID).Scan(&path)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("%w: flight %s", ErrNotFound, flightID)
		}
		return "", fmt.Errorf("failed to get flight video path: %w", err)
	}
	return path, nil
}
