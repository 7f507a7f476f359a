package exec_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/coderoom/internal/exec"
)

func newJudge0(t *testing.T, h http.HandlerFunc) *exec.Judge0 {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return exec.NewJudge0(func(o *exec.Judge0Options) {
		o.BaseURL = srv.URL
		o.APIKey = "secret"
	})
}

func TestJudge0Execute(t *testing.T) {
	j := newJudge0(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/submissions", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("base64_encoded"))
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		assert.Equal(t, "secret", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, exec.DefaultJudge0Host, r.Header.Get("x-rapidapi-host"))

		body, _ := io.ReadAll(r.Body)
		var sub exec.Submission
		require.NoError(t, json.Unmarshal(body, &sub))
		assert.Equal(t, exec.Submission{SourceCode: "print(1)", LanguageID: 71, Stdin: ""}, sub)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stdout":"1\n","stderr":null,"compile_output":null,"status":{"id":3}}`))
	})

	res, err := j.Execute(context.Background(), exec.Submission{SourceCode: "print(1)", LanguageID: 71})
	require.NoError(t, err)
	assert.Equal(t, exec.Result{Stdout: "1\n"}, res)
}

func TestJudge0RateLimited(t *testing.T) {
	j := newJudge0(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"Too many requests"}`))
	})
	_, err := j.Execute(context.Background(), exec.Submission{LanguageID: 63})
	assert.ErrorIs(t, err, exec.ErrRateLimited)
}

func TestJudge0ServerError(t *testing.T) {
	j := newJudge0(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})
	_, err := j.Execute(context.Background(), exec.Submission{LanguageID: 63})
	var se *exec.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.NotErrorIs(t, err, exec.ErrRateLimited)
}

func TestJudge0WithoutKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	j := exec.NewJudge0(func(o *exec.Judge0Options) { o.BaseURL = srv.URL })
	_, err := j.Execute(context.Background(), exec.Submission{LanguageID: 63})
	assert.ErrorIs(t, err, exec.ErrNotConfigured)
	assert.False(t, called)
}
