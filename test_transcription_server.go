// Standalone mock of the whisper-style transcription endpoint for local
// testing. Run with: go run test_transcription_server.go -port 9000
// Point the stt url config at http://localhost:9000/v1/audio/transcriptions
// to exercise the full flow without a real API key.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
)

type transcriptionResponse struct {
	Text string `json:"text"`
}

var responseText = flag.String("text", "this is a mock transcription", "Transcript returned for every request")

func transcribeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(25 << 20); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	language := r.FormValue("language")
	model := r.FormValue("model")

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error getting audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	audioData, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Error reading audio file", http.StatusInternalServerError)
		return
	}

	log.Printf("transcription request: file=%s type=%s size=%d language=%q model=%q",
		header.Filename, header.Header.Get("Content-Type"), len(audioData), language, model)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transcriptionResponse{Text: *responseText})
}

func main() {
	port := flag.Int("port", 9000, "Port to listen on")
	flag.Parse()

	http.HandleFunc("/v1/audio/transcriptions", transcribeHandler)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Mock transcription server listening on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
