package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"net/http"
)

// Заглушка inference sidecar для локальной разработки:
// детектор возвращает одно лицо по центру кадра, классификатор
// возвращает случайную оценку усталости.
func main() {
	port := flag.String("port", "9090", "порт заглушки")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("/detect", handleDetect)
	mux.HandleFunc("/predict", handlePredict)

	log.Printf("[INFO] Inference stub listening on :%s", *port)
	if err := http.ListenAndServe(":"+*port, mux); err != nil {
		log.Fatalf("[FATAL] Stub server failed: %v", err)
	}
}

type detectRequest struct {
	ImageData string `json:"image_data"`
	FrameIdx  int    `json:"frame_idx"`
}

type detection struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

type detectResponse struct {
	Faces []detection `json:"faces"`
}

func handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request"}`, http.StatusBadRequest)
		return
	}

	if _, err := base64.StdEncoding.DecodeString(req.ImageData); err != nil {
		http.Error(w, `{"error": "invalid image data"}`, http.StatusBadRequest)
		return
	}

	log.Printf("Received detect request for frame %d", req.FrameIdx)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detectResponse{
		Faces: []detection{
			{X: 100, Y: 60, Width: 120, Height: 120, Confidence: 0.9},
		},
	})
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

func handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request"}`, http.StatusBadRequest)
		return
	}

	if req.Channels <= 0 {
		req.Channels = 1
	}
	if len(req.Tensor) != req.Width*req.Height*req.Channels {
		http.Error(w, `{"error": "tensor size mismatch"}`, http.StatusBadRequest)
		return
	}

	// случайная оценка между 0 и 1
	score := rand.Float64()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(predictResponse{Score: score})
}
