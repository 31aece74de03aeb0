package etymology

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultDatamuseURL = "https://api.datamuse.com"

// Speller returns the closest known spelling of a word. Implementations never
// fail: when no suggestion is available the word comes back unchanged.
type Speller interface {
	Correct(ctx context.Context, word string) Correction
}

// PassthroughSpeller never corrects anything.
type PassthroughSpeller struct{}

func (PassthroughSpeller) Correct(_ context.Context, word string) Correction {
	return Correction{Corrected: word}
}

type datamuseWord struct {
	Word string `json:"word"`
}

// DatamuseSpeller asks the Datamuse words API for the best spelling match.
type DatamuseSpeller struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewDatamuseSpeller(baseURL string, client *http.Client, logger *zap.Logger) *DatamuseSpeller {
	if baseURL == "" {
		baseURL = defaultDatamuseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatamuseSpeller{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

func (s *DatamuseSpeller) Correct(ctx context.Context, word string) Correction {
	suggestion, err := s.lookup(ctx, word)
	if err != nil {
		s.logger.Warn("spell-check failed, using input as is", zap.String("word", word), zap.Error(err))
		return Correction{Corrected: word}
	}
	if suggestion == "" {
		return Correction{Corrected: word}
	}
	return Correction{
		Corrected:    suggestion,
		WasCorrected: !strings.EqualFold(suggestion, word),
	}
}

func (s *DatamuseSpeller) lookup(ctx context.Context, word string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/words", nil)
	if err != nil {
		return "", err
	}
	q := req.URL.Query()
	q.Set("sp", word)
	q.Set("max", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("datamuse: unexpected status %d", resp.StatusCode)
	}

	var data []datamuseWord
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("datamuse: decode: %w", err)
	}
	if len(data) == 0 {
		return "", nil
	}
	return data[0].Word, nil
}
