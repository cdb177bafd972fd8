package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidGameCode is returned for game codes that are not 36-character ids.
var ErrInvalidGameCode = errors.New("quiz: game code must be 36 characters of [a-z0-9-]")

var gameCodePattern = regexp.MustCompile(`^[a-z0-9-]{36}$`)

// ValidGameCode reports whether code has the shape of a game id.
func ValidGameCode(code string) bool {
	return gameCodePattern.MatchString(code)
}

// Source loads a quiz before gameplay begins.
type Source interface {
	Load(ctx context.Context) (*Quiz, error)
}

// Parse decodes a quiz from YAML or JSON. Both the envelope form
// ({"quiz": [...]}) and a bare list of questions are accepted.
func Parse(data []byte) (*Quiz, error) {
	var q Quiz
	if err := yaml.Unmarshal(data, &q); err == nil {
		return &q, nil
	}

	var list []Question
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("quiz: cannot parse quiz data: %w", err)
	}
	return &Quiz{Questions: list}, nil
}

// FileSource reads a quiz from a YAML or JSON file.
type FileSource struct {
	Path string
}

// Load reads, parses and validates the file.
func (s FileSource) Load(_ context.Context) (*Quiz, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("quiz: cannot read %s: %w", s.Path, err)
	}
	return decodeNamed(s.Path, data)
}

// FSSource reads a quiz file from a filesystem, such as the embedded
// samples.
type FSSource struct {
	FS   fs.FS
	Name string
}

// Load reads, parses and validates the file.
func (s FSSource) Load(_ context.Context) (*Quiz, error) {
	data, err := fs.ReadFile(s.FS, s.Name)
	if err != nil {
		return nil, fmt.Errorf("quiz: cannot read %s: %w", s.Name, err)
	}
	return decodeNamed(s.Name, data)
}

// decodeNamed parses data and defaults the quiz id to the file stem.
func decodeNamed(name string, data []byte) (*Quiz, error) {
	q, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("quiz: %s: %w", name, err)
	}
	if q.ID == "" {
		q.ID = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// HTTPSource fetches a quiz from the quiz backend by game code.
type HTTPSource struct {
	BaseURL  string
	GameCode string
	Client   *http.Client
}

// Load requests {BaseURL}/api/quizzes/game/{GameCode}.
func (s HTTPSource) Load(ctx context.Context) (*Quiz, error) {
	if !ValidGameCode(s.GameCode) {
		return nil, ErrInvalidGameCode
	}

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	url := strings.TrimRight(s.BaseURL, "/") + "/api/quizzes/game/" + s.GameCode
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("quiz: cannot build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quiz: cannot fetch quiz: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("quiz: failed to fetch quiz: status %d", resp.StatusCode)
	}

	var q Quiz
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&q); err != nil {
		return nil, fmt.Errorf("quiz: cannot decode response: %w", err)
	}
	if q.ID == "" {
		q.ID = s.GameCode
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return &q, nil
}
