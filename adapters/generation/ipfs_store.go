package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/pathmint/waypoint/ports"
)

// IPFSStore pins artifact payloads through the IPFS HTTP API
type IPFSStore struct {
	apiURL string
	client *http.Client
}

// NewIPFSStore creates a content-addressable storage client against an
// IPFS API endpoint (e.g. http://localhost:5001)
func NewIPFSStore(apiURL string) *IPFSStore {
	return &IPFSStore{
		apiURL: apiURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

var _ ports.ArtifactStore = (*IPFSStore)(nil)

type addResponse struct {
	Hash string `json:"Hash"`
}

// Add pins the payload and returns its content identifier
func (s *IPFSStore) Add(ctx context.Context, payload []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "plan.json")
	if err != nil {
		return "", fmt.Errorf("failed to build add request: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return "", fmt.Errorf("failed to build add request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build add request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/api/v0/add?pin=true", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build add request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ipfs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ipfs returned %d: %s", resp.StatusCode, msg)
	}

	var added addResponse
	if err := json.NewDecoder(resp.Body).Decode(&added); err != nil {
		return "", fmt.Errorf("failed to decode ipfs response: %w", err)
	}
	if added.Hash == "" {
		return "", fmt.Errorf("ipfs returned no content id")
	}

	return added.Hash, nil
}
