package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabrielmiguelok/livesite/pkg/logging"
)

// DefaultAPIURL is the form backend used when none is configured.
const DefaultAPIURL = "https://api.webline.ai"

// SubmitPath is appended to the API URL.
const SubmitPath = "/api/forms/submit"

var (
	ErrMissingFormID = errors.New(MsgMissingFormID)
	ErrRateLimited   = errors.New("forms: rate limited")
)

// Submission is a form post as sent by the browser.
type Submission struct {
	FormID   string            `json:"formId"`
	FormData map[string]string `json:"formData"`
}

// Submitter forwards form submissions to the form API.
type Submitter struct {
	apiURL  string
	client  *http.Client
	schemas *Registry
	limiter *ClientLimiter
	breaker *Breaker
	logger  logging.Logger
}

// SubmitterOption configures a Submitter.
type SubmitterOption func(*Submitter)

// WithHTTPClient sets the HTTP client used to reach the API.
func WithHTTPClient(c *http.Client) SubmitterOption {
	return func(s *Submitter) {
		s.client = c
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) SubmitterOption {
	return func(s *Submitter) {
		if d > 0 {
			s.client = &http.Client{Timeout: d}
		}
	}
}

// WithSchemas validates submissions for known form ids before posting.
func WithSchemas(r *Registry) SubmitterOption {
	return func(s *Submitter) {
		s.schemas = r
	}
}

// WithLimiter throttles submissions per client.
func WithLimiter(l *ClientLimiter) SubmitterOption {
	return func(s *Submitter) {
		s.limiter = l
	}
}

// WithBreaker sets the circuit breaker guarding the API.
func WithBreaker(b *Breaker) SubmitterOption {
	return func(s *Submitter) {
		s.breaker = b
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) SubmitterOption {
	return func(s *Submitter) {
		s.logger = l
	}
}

// NewSubmitter creates a submitter posting to apiURL. An empty apiURL uses
// DefaultAPIURL.
func NewSubmitter(apiURL string, opts ...SubmitterOption) *Submitter {
	apiURL = strings.TrimRight(strings.TrimSpace(apiURL), "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	s := &Submitter{
		apiURL:  apiURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: NewBreaker(DefaultBreakerConfig()),
		logger:  logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Endpoint returns the URL submissions are posted to.
func (s *Submitter) Endpoint() string {
	return s.apiURL + SubmitPath
}

// Circuit returns the state of the breaker guarding the API.
func (s *Submitter) Circuit() CircuitState {
	return s.breaker.State()
}

// Submit validates and forwards a submission on behalf of clientID. It
// always returns a Result fit to show the visitor; the error reports why a
// submission failed.
func (s *Submitter) Submit(ctx context.Context, clientID string, sub Submission) (Result, error) {
	formID := strings.TrimSpace(sub.FormID)
	if formID == "" {
		return failure("", MsgMissingFormID), ErrMissingFormID
	}

	if s.limiter != nil && !s.limiter.Allow(clientID) {
		return failure(formID, MsgTooMany), ErrRateLimited
	}

	data := sub.FormData
	if data == nil {
		data = map[string]string{}
	}
	if s.schemas != nil {
		if schema, ok := s.schemas.Get(formID); ok {
			if errs := schema.Validate(data); errs != nil {
				r := failure(formID, MsgInvalid)
				r.Errors = errs
				return r, fmt.Errorf("forms: %s: validation failed on %d fields", formID, len(errs))
			}
			data = schema.Clean(data)
		}
	}

	fields := make([]string, 0, len(data))
	for k := range data {
		fields = append(fields, k)
	}
	s.logger.Info("submitting form",
		logging.String("form_id", formID),
		logging.Any("fields", fields),
		logging.String("api_url", s.apiURL),
	)

	if err := s.breaker.Allow(); err != nil {
		return failure(formID, MsgTryAgain), err
	}

	resp, status, err := s.post(ctx, Submission{FormID: formID, FormData: data})
	if err != nil {
		s.breaker.RecordError()
		s.logger.Error("form submission error", logging.String("form_id", formID), logging.Err(err))
		return failure(formID, MsgTryAgain), err
	}

	if status >= http.StatusInternalServerError {
		s.breaker.RecordError()
	} else {
		s.breaker.RecordSuccess()
	}

	if status < 200 || status > 299 {
		msg := resp.Message
		if msg == "" {
			msg = MsgSubmissionFailed
		}
		s.logger.Warn("form submission rejected",
			logging.String("form_id", formID),
			logging.Int("status", status),
		)
		return failure(formID, msg), fmt.Errorf("forms: %s: api returned %d: %s", formID, status, msg)
	}

	s.logger.Info("form submitted",
		logging.String("form_id", formID),
		logging.String("submission_id", resp.SubmissionID),
	)
	return success(formID, resp), nil
}

func (s *Submitter) post(ctx context.Context, sub Submission) (apiResponse, int, error) {
	var out apiResponse

	body, err := json.Marshal(sub)
	if err != nil {
		return out, 0, fmt.Errorf("forms: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return out, 0, fmt.Errorf("forms: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return out, 0, fmt.Errorf("forms: post: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return out, res.StatusCode, fmt.Errorf("forms: read: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		// Error pages are often not JSON; report them as a plain failure.
		if res.StatusCode < 200 || res.StatusCode > 299 {
			return apiResponse{}, res.StatusCode, nil
		}
		return out, res.StatusCode, fmt.Errorf("forms: decode: %w", err)
	}
	return out, res.StatusCode, nil
}
