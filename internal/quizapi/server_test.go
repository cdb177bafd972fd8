package quizapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/quiz-runner/internal/quiz"
	"github.com/vovakirdan/quiz-runner/internal/storage"
	"github.com/vovakirdan/quiz-runner/quizzes"
)

const shippedCode = "0f8fad5b-d9cb-469f-a165-70867728950e"

type fakeResults struct {
	results []storage.Result
	err     error
	quizID  string
	limit   int
}

func (f *fakeResults) TopResults(quizID string, limit int) ([]storage.Result, error) {
	f.quizID, f.limit = quizID, limit
	return f.results, f.err
}

func newTestServer(t *testing.T, fsys fstest.MapFS, results ResultsReader) *httptest.Server {
	t.Helper()
	h := NewHandler(fsys, results, log.New(io.Discard))
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return srv
}

func TestShippedQuizRoundTrip(t *testing.T) {
	srv := httptest.NewServer(NewRouter(NewHandler(quizzes.FS, nil, log.New(io.Discard))))
	defer srv.Close()

	q, err := quiz.HTTPSource{BaseURL: srv.URL, GameCode: shippedCode}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, shippedCode, q.ID)
	assert.Equal(t, "Capitals", q.Title)
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 1, q.At(0).CorrectIndex())
}

func TestQuizByCode(t *testing.T) {
	yamlCode := "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	badCode := "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	srv := newTestServer(t, fstest.MapFS{
		yamlCode + ".yaml": {Data: []byte("quiz:\n  - question: Q?\n    answers:\n      - text: yes\n        correct: true\n")},
		badCode + ".json":  {Data: []byte(`{"quiz":[{"question":"?","answers":[{"text":"a"}]}]}`)},
	}, nil)

	t.Run("yaml file served as json", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/quizzes/game/" + yamlCode)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body["quiz"], 1)
	})

	tests := []struct {
		name   string
		code   string
		status int
	}{
		{"malformed code", "not-a-code", http.StatusBadRequest},
		{"unknown code", "cccccccc-cccc-cccc-cccc-cccccccccccc", http.StatusNotFound},
		{"invalid quiz", badCode, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/api/quizzes/game/" + tt.code)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, fstest.MapFS{}, nil)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestResultsByCode(t *testing.T) {
	t.Run("without a store", func(t *testing.T) {
		srv := newTestServer(t, fstest.MapFS{}, nil)
		resp, err := http.Get(srv.URL + "/api/quizzes/game/" + shippedCode + "/results")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("lists top results", func(t *testing.T) {
		fake := &fakeResults{results: []storage.Result{
			{QuizID: shippedCode, Player: "ann", Points: 10, Answered: 2, Total: 2, Completed: true},
		}}
		srv := newTestServer(t, fstest.MapFS{}, fake)
		resp, err := http.Get(srv.URL + "/api/quizzes/game/" + shippedCode + "/results?limit=5")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body []resultJSON
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "ann", body[0].Player)
		assert.True(t, body[0].Completed)
		assert.Equal(t, shippedCode, fake.quizID)
		assert.Equal(t, 5, fake.limit)
	})

	t.Run("store failure", func(t *testing.T) {
		srv := newTestServer(t, fstest.MapFS{}, &fakeResults{err: errors.New("disk gone")})
		resp, err := http.Get(srv.URL + "/api/quizzes/game/" + shippedCode + "/results")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
