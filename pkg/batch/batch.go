// Package batch drives the asynchronous batch-export protocol against the
// UniProt batch endpoint: submit a multipart identifier list, follow the 302
// to the job-status location, poll until the export document is ready.
//
// The protocol is modeled as an explicit state machine with a counted poll
// budget. Each redirect hop is progress and resets the attempt counter; only
// a same-target still-processing response consumes budget. This makes
// termination provable: at most budget+1 polls per target, and a finite
// redirect chain ends in a terminal 200 or a classified failure.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/sequencetools/uniprot-client/pkg/client"
	"github.com/sequencetools/uniprot-client/pkg/logging"
)

// Prometheus metrics for batch operations.
var (
	submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniprot_batch_submissions_total",
		Help: "Total batch submissions by result",
	}, []string{"result"})

	pollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniprot_batch_polls_total",
		Help: "Total job-status polls",
	})

	redirectHopsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniprot_batch_redirect_hops_total",
		Help: "Total redirect hops observed while polling",
	})

	budgetExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniprot_batch_budget_exhausted_total",
		Help: "Total jobs abandoned after exhausting the poll retry budget",
	})
)

// Phase is a state of the retrieval state machine.
type Phase string

const (
	// PhaseSubmitting is the initial state: the multipart POST is in flight.
	PhaseSubmitting Phase = "submitting"

	// PhasePolling covers both redirect hops and same-target retries.
	PhasePolling Phase = "polling"

	// PhaseSucceeded is terminal: the export stream is available.
	PhaseSucceeded Phase = "succeeded"

	// PhaseFailed is terminal: a classified error was surfaced.
	PhaseFailed Phase = "failed"
)

// Config holds controller configuration.
type Config struct {
	// ExportFormat is the format directive sent with the submission.
	ExportFormat string

	// ExportMIME is the content type a terminal 200 must declare. A 200
	// with any other content type means no matching export was produced.
	ExportMIME string

	// PollInterval is the fixed wait between polls of the same target. The
	// service's advertised Retry-After hint is informational only.
	PollInterval time.Duration

	// PollBudget is the maximum number of still-processing responses
	// tolerated at a single polling target.
	PollBudget int
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{
		ExportFormat: "xml",
		ExportMIME:   "application/xml",
		PollInterval: 10 * time.Second,
		PollBudget:   50,
	}
}

// Controller owns one batch export at a time from submission to terminal
// success or failure.
type Controller struct {
	client *client.Client
	cfg    Config
	logger zerolog.Logger

	// sleep is replaced in tests to observe waits without real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewController creates a new batch job controller on top of the given
// client.
func NewController(c *client.Client, cfg Config) *Controller {
	if cfg.ExportFormat == "" {
		cfg.ExportFormat = "xml"
	}
	if cfg.ExportMIME == "" {
		cfg.ExportMIME = "application/xml"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if cfg.PollBudget <= 0 {
		cfg.PollBudget = 50
	}
	return &Controller{
		client: c,
		cfg:    cfg,
		logger: logging.NewLogger("batch-controller"),
		sleep:  sleepContext,
	}
}

// job tracks one in-flight batch export. It is owned exclusively by the
// controller and discarded on terminal success or failure.
type job struct {
	ids      []string
	phase    Phase
	target   string
	attempts int
	waitHint time.Duration
}

// SubmitAndRetrieve submits the identifier list for export and drives the
// job to completion, returning the export document stream. The caller owns
// the stream and must close it.
//
// An empty identifier list yields (nil, nil) with no network call: nothing
// to export is a success with a null result.
func (bc *Controller) SubmitAndRetrieve(ctx context.Context, ids []string) (io.ReadCloser, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	j := &job{ids: ids, phase: PhaseSubmitting}

	if err := bc.submit(ctx, j); err != nil {
		j.phase = PhaseFailed
		submissionsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}
	submissionsTotal.WithLabelValues("accepted").Inc()

	if j.waitHint > 0 {
		bc.logger.Debug().
			Dur("wait", j.waitHint).
			Msg("Honoring Retry-After before first poll")
		if err := bc.sleep(ctx, j.waitHint); err != nil {
			j.phase = PhaseFailed
			return nil, fmt.Errorf("wait before first poll: %w", err)
		}
	}

	return bc.poll(ctx, j)
}

// submit POSTs the identifier list as a multipart form and records the
// polling target from the redirect response. The identifier list travels
// through a temp file that is removed on every exit path.
func (bc *Controller) submit(ctx context.Context, j *job) error {
	tmp, err := os.CreateTemp("", "uniprot-ids-*.txt")
	if err != nil {
		return fmt.Errorf("create identifier payload: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	for _, id := range j.ids {
		if _, err := fmt.Fprintln(tmp, id); err != nil {
			return fmt.Errorf("write identifier payload: %w", err)
		}
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind identifier payload: %w", err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(tmp.Name()))
	if err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, tmp); err != nil {
		return fmt.Errorf("attach identifier payload: %w", err)
	}
	if err := form.WriteField("format", bc.cfg.ExportFormat); err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}

	bc.logger.Debug().
		Int("ids", len(j.ids)).
		Str("format", bc.cfg.ExportFormat).
		Msg("Submitting batch export")

	resp, err := bc.client.Post(ctx, bc.client.BatchURL(), form.FormDataContentType(), &body)
	if err != nil {
		return fmt.Errorf("submit batch job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound && resp.StatusCode != http.StatusSeeOther {
		return fmt.Errorf("%w: status %d", ErrSubmissionRejected, resp.StatusCode)
	}

	target, err := resolveLocation(resp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionRejected, err)
	}
	j.target = target
	j.waitHint = parseRetryAfter(resp.Header)

	bc.logger.Debug().
		Str("target", j.target).
		Msg("Batch job accepted")

	return nil
}

// poll re-enters the redirect/polling state until the job reaches a
// terminal phase.
func (bc *Controller) poll(ctx context.Context, j *job) (io.ReadCloser, error) {
	j.phase = PhasePolling

	for {
		resp, err := bc.client.Get(ctx, j.target)
		if err != nil {
			j.phase = PhaseFailed
			return nil, fmt.Errorf("poll job status: %w", err)
		}
		pollsTotal.Inc()

		// A Retry-After header means the job is still processing, whatever
		// the status code says. Only responses without it are classified
		// by status below.
		if resp.Header.Get("Retry-After") != "" {
			resp.Body.Close()

			j.attempts++
			if j.attempts > bc.cfg.PollBudget {
				j.phase = PhaseFailed
				budgetExhaustedTotal.Inc()
				return nil, fmt.Errorf("%w: %d still-processing responses at %s",
					ErrRetryBudgetExceeded, j.attempts, j.target)
			}

			bc.logger.Debug().
				Str("target", j.target).
				Int("attempts", j.attempts).
				Msg("Job still processing")

			if err := bc.sleep(ctx, bc.cfg.PollInterval); err != nil {
				j.phase = PhaseFailed
				return nil, fmt.Errorf("wait between polls: %w", err)
			}
			continue
		}

		switch resp.StatusCode {
		case http.StatusOK:
			mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
			if mediaType != bc.cfg.ExportMIME {
				resp.Body.Close()
				j.phase = PhaseFailed
				return nil, fmt.Errorf("%w: got content type %q", ErrEmptyExport, mediaType)
			}
			j.phase = PhaseSucceeded
			bc.logger.Info().
				Int("ids", len(j.ids)).
				Msg("Batch export ready")
			return resp.Body, nil

		case http.StatusFound:
			target, err := resolveLocation(resp)
			resp.Body.Close()
			if err != nil {
				j.phase = PhaseFailed
				return nil, &RetrievalError{StatusCode: http.StatusFound}
			}
			// A redirect hop is progress, not a failed attempt.
			j.target = target
			j.attempts = 0
			redirectHopsTotal.Inc()
			bc.logger.Debug().
				Str("target", j.target).
				Msg("Job redirected")

		default:
			status := resp.StatusCode
			resp.Body.Close()
			j.phase = PhaseFailed
			return nil, &RetrievalError{StatusCode: status}
		}
	}
}

// resolveLocation resolves the Location header against the request URL.
func resolveLocation(resp *http.Response) (string, error) {
	loc := resp.Header.Get("Location")
	if loc == "" {
		return "", fmt.Errorf("redirect without Location header")
	}
	u, err := resp.Request.URL.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("parse Location %q: %w", loc, err)
	}
	return u.String(), nil
}

// parseRetryAfter returns the Retry-After delay in seconds, or zero when the
// header is absent or malformed.
func parseRetryAfter(h http.Header) time.Duration {
	raw := h.Get("Retry-After")
	if raw == "" {
		return 0
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// sleepContext waits for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
