package fireflies

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Khushv4/fireApp/internal/platform/apierr"
	"github.com/Khushv4/fireApp/internal/platform/envutil"
	"github.com/Khushv4/fireApp/internal/platform/httpx"
	"github.com/Khushv4/fireApp/internal/platform/logger"
)

// Summary is the summary block of a Fireflies transcript.
type Summary struct {
	Overview     string `json:"overview"`
	ShortSummary string `json:"short_summary"`
	BulletGist   string `json:"bullet_gist,omitempty"`
}

// Sentence is one transcript sentence with speaker attribution and offsets.
type Sentence struct {
	Index       int     `json:"index"`
	Text        string  `json:"text"`
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	SpeakerName string  `json:"speaker_name"`
}

// Transcript is the upstream transcript shape. Date stays untyped because
// Fireflies returns it as an epoch-millisecond number, a string, or null;
// normalization happens in the sync layer. Raw keeps the upstream JSON
// verbatim so the read path can return it unmodified.
type Transcript struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Date      any        `json:"date"`
	Duration  float64    `json:"duration"`
	Sentences []Sentence `json:"sentences"`
	Summary   Summary    `json:"summary"`

	Raw json.RawMessage `json:"-"`
}

// Client talks to the Fireflies GraphQL API. One upstream query per call, no
// caching. By default nothing is retried; FIREFLIES_MAX_RETRIES can opt
// transient transport failures (408/429/5xx) into a retry loop.
type Client interface {
	// FetchTranscripts returns the raw `transcripts` JSON array for the most
	// recent transcripts, for pass-through listing.
	FetchTranscripts(ctx context.Context, limit int) (json.RawMessage, error)
	FetchTranscript(ctx context.Context, id string) (*Transcript, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("FIREFLIES_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing FIREFLIES_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("FIREFLIES_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.fireflies.ai"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeoutSec := envutil.GetEnvAsInt("FIREFLIES_TIMEOUT_SECONDS", 60, log)
	if timeoutSec <= 0 {
		timeoutSec = 60
	}
	maxRetries := envutil.GetEnvAsInt("FIREFLIES_MAX_RETRIES", 0, log)
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &client{
		log:        log.With("service", "FirefliesClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

const transcriptsQuery = `query Transcripts($limit: Int) {
  transcripts(limit: $limit) {
    id title date duration summary { overview short_summary }
  }
}`

const transcriptQuery = `query Transcript($id: String!) {
  transcript(id: $id) {
    id title date duration sentences { index text start_time end_time speaker_name }
    summary { overview short_summary bullet_gist }
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"errors"`
}

type firefliesHTTPError struct {
	StatusCode int
	Body       string
}

func (e *firefliesHTTPError) Error() string {
	return fmt.Sprintf("fireflies http %d: %s", e.StatusCode, e.Body)
}

func (e *firefliesHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) queryOnce(ctx context.Context, body graphqlRequest) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &firefliesHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) query(ctx context.Context, body graphqlRequest) (json.RawMessage, error) {
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, raw, err := c.queryOnce(ctx, body)
		if err == nil {
			var envelope graphqlResponse
			if uErr := json.Unmarshal(raw, &envelope); uErr != nil {
				return nil, apierr.UpstreamUnavailable(http.StatusBadGateway,
					fmt.Errorf("fireflies decode error: %w", uErr))
			}
			if len(envelope.Errors) > 0 {
				return nil, graphqlError(envelope)
			}
			return envelope.Data, nil
		}
		lastErr = err

		if attempt == c.maxRetries || !httpx.IsRetryableError(err) {
			break
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("Fireflies request retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}

	status := http.StatusBadGateway
	var he *firefliesHTTPError
	if errors.As(lastErr, &he) {
		status = he.StatusCode
	}
	return nil, apierr.UpstreamUnavailable(status, lastErr)
}

func graphqlError(envelope graphqlResponse) error {
	messages := make([]string, 0, len(envelope.Errors))
	notFound := false
	for _, e := range envelope.Errors {
		messages = append(messages, e.Message)
		if e.Code == "object_not_found" || strings.Contains(strings.ToLower(e.Message), "not found") {
			notFound = true
		}
	}
	err := fmt.Errorf("fireflies graphql error: %s", strings.Join(messages, "; "))
	if notFound {
		return apierr.NotFound(err)
	}
	return apierr.UpstreamUnavailable(http.StatusBadGateway, err)
}

func (c *client) FetchTranscripts(ctx context.Context, limit int) (json.RawMessage, error) {
	if limit <= 0 {
		limit = 25
	}
	data, err := c.query(ctx, graphqlRequest{
		Query:     transcriptsQuery,
		Variables: map[string]any{"limit": limit},
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Transcripts json.RawMessage `json:"transcripts"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, apierr.UpstreamUnavailable(http.StatusBadGateway,
			fmt.Errorf("fireflies decode error: %w", err))
	}
	if len(payload.Transcripts) == 0 || string(payload.Transcripts) == "null" {
		return json.RawMessage("[]"), nil
	}
	return payload.Transcripts, nil
}

func (c *client) FetchTranscript(ctx context.Context, id string) (*Transcript, error) {
	data, err := c.query(ctx, graphqlRequest{
		Query:     transcriptQuery,
		Variables: map[string]any{"id": id},
	})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Transcript json.RawMessage `json:"transcript"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, apierr.UpstreamUnavailable(http.StatusBadGateway,
			fmt.Errorf("fireflies decode error: %w", err))
	}
	if len(payload.Transcript) == 0 || string(payload.Transcript) == "null" {
		return nil, apierr.NotFound(fmt.Errorf("transcript %q not found upstream", id))
	}

	var t Transcript
	if err := json.Unmarshal(payload.Transcript, &t); err != nil {
		return nil, apierr.UpstreamUnavailable(http.StatusBadGateway,
			fmt.Errorf("fireflies decode error: %w", err))
	}
	t.Raw = payload.Transcript
	return &t, nil
}
