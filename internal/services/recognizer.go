// Audio recognition [Recognizer] implementation
//
// Submits the raw audio payload to a fingerprint recognition HTTP API and
// extracts the (title, artist) candidate from its JSON response.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/tabify/tabify/internal/shared"
)

const defaultRecognitionURL = "http://127.0.0.1:9090"

// recognitionResponse mirrors the track-candidate structure returned by the
// recognition service. All fields are optional; absence means "no match".
type recognitionResponse struct {
	Track struct {
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
	} `json:"track"`
}

// RecognitionService implements [Recognizer] against a recognition HTTP API.
type RecognitionService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRecognitionService creates a new recognition service client.
func NewRecognitionService(baseURL, apiKey string) *RecognitionService {
	if baseURL == "" {
		baseURL = defaultRecognitionURL
	}

	return &RecognitionService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
	}
}

// Name returns the service name.
func (r *RecognitionService) Name() string {
	return "Recognition"
}

// Identify reads the entire audio payload into memory and submits it for recognition.
//
// The call blocks for the duration of network I/O; transient failures surface
// immediately as [shared.ErrRecognitionFailed] with no local retry. A response
// missing the expected track fields is treated as [shared.ErrUnidentified]
// rather than a structural fault.
func (r *RecognitionService) Identify(ctx context.Context, audioPath string) (*TrackIdentity, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read audio payload: %v", shared.ErrRecognitionFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/recognize", bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrRecognitionFailed, err)
	}

	req.Header.Set("Content-Type", "application/octet-stream")
	if r.apiKey != "" {
		req.Header.Set("X-API-Key", r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrRecognitionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrRecognitionFailed, resp.StatusCode)
	}

	var payload recognitionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrRecognitionFailed, err)
	}

	if payload.Track.Title == "" || payload.Track.Subtitle == "" {
		return nil, shared.ErrUnidentified
	}

	return &TrackIdentity{
		Title:  payload.Track.Title,
		Artist: payload.Track.Subtitle,
	}, nil
}
