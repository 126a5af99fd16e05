package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"net/http"
	"time"
)

// HTTPFaceLocator обращается к sidecar-сервису детекции лиц по HTTP.
// Кадр передаётся как base64 JPEG, ответ содержит список детекций.
type HTTPFaceLocator struct {
	url           string
	minConfidence float64
	client        *http.Client
}

type detectRequest struct {
	ImageData string `json:"image_data"`
	FrameIdx  int    `json:"frame_idx"`
}

type detectResponse struct {
	Faces []Detection `json:"faces"`
}

// NewHTTPFaceLocator создаёт клиента детектора.
// Детекции с уверенностью ниже minConfidence отбрасываются.
func NewHTTPFaceLocator(url string, minConfidence float64) *HTTPFaceLocator {
	return &HTTPFaceLocator{
		url:           url,
		minConfidence: minConfidence,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

// Detect отправляет кадр детектору и возвращает отфильтрованные детекции
func (l *HTTPFaceLocator) Detect(ctx context.Context, frame *Frame) ([]Detection, error) {
	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, frame.Image, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode frame %d: %w", frame.Index, err)
	}

	reqBody, err := json.Marshal(detectRequest{
		ImageData: base64.StdEncoding.EncodeToString(jpegBuf.Bytes()),
		FrameIdx:  frame.Index,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal detect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detector request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector returned status %d", resp.StatusCode)
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode detect response: %w", err)
	}

	filtered := make([]Detection, 0, len(out.Faces))
	for _, d := range out.Faces {
		if d.Confidence >= l.minConfidence {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}
