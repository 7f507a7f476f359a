package exec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// Client talks to the external code-execution backend.
type Client interface {
	Execute(ctx context.Context, sub Submission) (Result, error)
}

type Submission struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
}

type Result struct {
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
}

const DefaultJudge0Host = "judge0-ce.p.rapidapi.com"

// Judge0Options configure the RapidAPI-hosted Judge0 client.
type Judge0Options struct {
	BaseURL    string
	Host       string
	APIKey     string
	HTTPClient *http.Client
}

type Judge0 struct {
	opts Judge0Options
}

func NewJudge0(optFns ...func(o *Judge0Options)) *Judge0 {
	opts := Judge0Options{
		Host:       DefaultJudge0Host,
		HTTPClient: http.DefaultClient,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://" + opts.Host
	}
	return &Judge0{opts: opts}
}

// Execute submits synchronously (wait=true). A 429 answer is reported as
// ErrRateLimited so the gateway can back off.
func (j *Judge0) Execute(ctx context.Context, sub Submission) (Result, error) {
	if j.opts.APIKey == "" {
		return Result{}, ErrNotConfigured
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return Result{}, fmt.Errorf("encode submission: %w", err)
	}
	url := j.opts.BaseURL + "/submissions?base64_encoded=false&wait=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-key", j.opts.APIKey)
	req.Header.Set("x-rapidapi-host", j.opts.Host)

	resp, err := j.opts.HTTPClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("judge0 request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("judge0 read body: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return Result{}, fmt.Errorf("%w: %s", ErrRateLimited, bytes.TrimSpace(raw))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, fmt.Errorf("judge0 decode: %w", err)
	}
	return res, nil
}
