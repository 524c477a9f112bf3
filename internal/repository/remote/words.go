package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"flashcards/internal/domain"
)

// maxBodySize caps the words feed
const maxBodySize = 8 << 20

// WordSource implements repository.WordSource over an HTTP JSON feed
type WordSource struct {
	url    string
	client *http.Client
	now    func() time.Time
}

// NewWordSource creates a source fetching the JSON array at rawURL
func NewWordSource(rawURL string, timeout time.Duration) *WordSource {
	return &WordSource{
		url:    rawURL,
		client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

// FetchWords downloads the word list, bypassing caches
func (s *WordSource) FetchWords(ctx context.Context) ([]domain.WordRecord, error) {
	reqURL, err := s.cacheBustedURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch words: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status fetching words: %s", resp.Status)
	}

	var words []domain.WordRecord
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&words); err != nil {
		return nil, fmt.Errorf("failed to decode words: %w", err)
	}

	return words, nil
}

// cacheBustedURL appends nocache=<unix millis> to the feed URL
func (s *WordSource) cacheBustedURL() (string, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return "", fmt.Errorf("invalid words url: %w", err)
	}
	q := u.Query()
	q.Set("nocache", strconv.FormatInt(s.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
