package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// Version is the service version reported by the root descriptor.
const Version = "1.0.0"

type infoResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Info handles GET / with a static service descriptor.
func Info(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(infoResponse{
		Message: "FotoKutu yükleme servisi",
		Version: Version,
		Endpoints: map[string]string{
			"upload": "POST /upload",
			"health": "GET /health",
		},
	})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
