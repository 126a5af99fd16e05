package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// HTTPFrameClassifier обращается к sidecar-сервису модели усталости по HTTP.
// Конструктор выполняет handshake: недоступная модель — фатальная ошибка.
type HTTPFrameClassifier struct {
	url    string
	client *http.Client
}

type predictRequest struct {
	Tensor   []float32 `json:"tensor"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Channels int       `json:"channels"`
}

type predictResponse struct {
	Score float64 `json:"score"`
}

// NewHTTPFrameClassifier создаёт клиента модели и проверяет её доступность
func NewHTTPFrameClassifier(ctx context.Context, url string) (*HTTPFrameClassifier, error) {
	c := &HTTPFrameClassifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}

	if err := c.handshake(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelLoad, err)
	}

	log.Printf("[MODEL] Classifier ready: %s", url)
	return c, nil
}

func (c *HTTPFrameClassifier) handshake(ctx context.Context) error {
	probe := make([]float32, InputSize*InputSize*Channels)
	if _, err := c.Predict(ctx, probe); err != nil {
		return err
	}
	return nil
}

// Predict возвращает оценку усталости [0, 1] для входного тензора
func (c *HTTPFrameClassifier) Predict(ctx context.Context, tensor []float32) (float64, error) {
	reqBody, err := json.Marshal(predictRequest{
		Tensor:   tensor,
		Width:    InputSize,
		Height:   InputSize,
		Channels: Channels,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return 0, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode predict response: %w", err)
	}

	if out.Score < 0 || out.Score > 1 {
		return 0, fmt.Errorf("score out of range: %f", out.Score)
	}
	return out.Score, nil
}
