// Package dhlottery fetches draw results from the Donghaeng Lottery
// "getLottoNumber" endpoint.
package dhlottery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"lottocheck/domain/entities"
	"lottocheck/domain/interfaces"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.dhlottery.co.kr/common.do?method=getLottoNumber&drwNo="
	DefaultTimeout = 5 * time.Second

	maxBodyBytes = 64 << 10
	userAgent    = "lottocheck/1.0"
)

// Fetch outcomes reported to metrics
const (
	OutcomeSuccess   = "success"
	OutcomeNotFound  = "not_found"
	OutcomeTransport = "transport_error"
	OutcomeMalformed = "malformed"
)

var (
	kst = time.FixedZone("KST", 9*60*60)

	winningFields = [entities.TicketSize]string{"drwtNo1", "drwtNo2", "drwtNo3", "drwtNo4", "drwtNo5", "drwtNo6"}
)

// Config configures the client
type Config struct {
	BaseURL   string        // endpoint prefix; the draw number is appended
	Timeout   time.Duration // per-request budget
	RateLimit float64       // requests per second; <= 0 disables limiting
	Burst     int
}

// Client implements interfaces.DrawFetcher over HTTP
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    interfaces.MetricsRecorder
}

// NewClient creates a new draw client
func NewClient(cfg Config, httpClient *http.Client, metrics interfaces.MetricsRecorder) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if metrics == nil {
		metrics = interfaces.NoopMetrics{}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
		limiter:    limiter,
		metrics:    metrics,
	}
}

// FetchDraw issues one request for drawID and validates the payload.
func (c *Client) FetchDraw(ctx context.Context, drawID int) (*entities.DrawRecord, error) {
	if drawID <= 0 {
		return nil, fmt.Errorf("%w: %d", entities.ErrInvalidDrawID, drawID)
	}

	start := time.Now()
	record, err := c.fetch(ctx, drawID)
	outcome := outcomeOf(err)
	c.metrics.RecordDrawFetch(outcome, time.Since(start))

	log.WithFields(log.Fields{
		"draw_id":  drawID,
		"outcome":  outcome,
		"duration": time.Since(start),
	}).Debug("Fetched draw")

	return record, err
}

func (c *Client) fetch(ctx context.Context, drawID int) (*entities.DrawRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: draw %d: rate limiter: %w", entities.ErrTransport, drawID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+strconv.Itoa(drawID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: draw %d: build request: %w", entities.ErrTransport, drawID, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: draw %d: %w", entities.ErrTransport, drawID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: draw %d: unexpected status %d", entities.ErrTransport, drawID, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: draw %d: read body: %w", entities.ErrTransport, drawID, err)
	}

	return ParseDraw(drawID, body)
}

// ParseDraw interprets a response body for the requested draw.
//
// A body that is not JSON at all (maintenance pages, truncated reads) counts
// as a transport failure. JSON that reports "fail" is not found. JSON that
// reports success but breaks the payload contract is malformed.
func ParseDraw(drawID int, body []byte) (*entities.DrawRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: draw %d: response is not JSON", entities.ErrTransport, drawID)
	}

	payload := gjson.ParseBytes(body)
	if !payload.IsObject() {
		return nil, fmt.Errorf("%w: draw %d: response is not an object", entities.ErrMalformedResponse, drawID)
	}

	switch status := payload.Get("returnValue"); {
	case !status.Exists():
		return nil, fmt.Errorf("%w: draw %d: missing returnValue", entities.ErrMalformedResponse, drawID)
	case status.String() == "fail":
		return nil, fmt.Errorf("draw %d: %w", drawID, entities.ErrNotFound)
	case status.String() != "success":
		return nil, fmt.Errorf("%w: draw %d: unexpected returnValue %q", entities.ErrMalformedResponse, drawID, status.String())
	}

	id, err := intField(payload, "drwNo", true)
	if err != nil {
		return nil, fmt.Errorf("%w: draw %d: %w", entities.ErrMalformedResponse, drawID, err)
	}
	if int(id) != drawID {
		return nil, fmt.Errorf("%w: requested draw %d, received draw %d", entities.ErrMalformedResponse, drawID, id)
	}

	winning := make([]int, 0, entities.TicketSize)
	for _, field := range winningFields {
		n, err := intField(payload, field, true)
		if err != nil {
			return nil, fmt.Errorf("%w: draw %d: %w", entities.ErrMalformedResponse, drawID, err)
		}
		winning = append(winning, int(n))
	}

	bonus, err := intField(payload, "bnusNo", true)
	if err != nil {
		return nil, fmt.Errorf("%w: draw %d: %w", entities.ErrMalformedResponse, drawID, err)
	}

	details, err := parseDetails(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: draw %d: %w", entities.ErrMalformedResponse, drawID, err)
	}

	return entities.NewDrawRecord(drawID, winning, int(bonus), details)
}

func parseDetails(payload gjson.Result) (entities.DrawDetails, error) {
	var details entities.DrawDetails
	var err error

	if date := payload.Get("drwNoDate"); date.Exists() {
		details.DrawDate, err = time.ParseInLocation("2006-01-02", date.String(), kst)
		if err != nil {
			return details, fmt.Errorf("drwNoDate %q: %w", date.String(), err)
		}
	}
	if details.FirstPrizeAmount, err = intField(payload, "firstWinamnt", false); err != nil {
		return details, err
	}
	if details.FirstPrizeWinners, err = intField(payload, "firstPrzwnerCo", false); err != nil {
		return details, err
	}
	if details.TotalSales, err = intField(payload, "totSellamnt", false); err != nil {
		return details, err
	}
	return details, nil
}

// intField reads an integral JSON number. Optional fields that are absent
// read as zero.
func intField(payload gjson.Result, key string, required bool) (int64, error) {
	v := payload.Get(key)
	if !v.Exists() {
		if required {
			return 0, fmt.Errorf("missing %s", key)
		}
		return 0, nil
	}
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%s is not a number: %s", key, v.Raw)
	}
	if v.Num != math.Trunc(v.Num) || math.Abs(v.Num) > 1<<53 {
		return 0, fmt.Errorf("%s is not an integer: %s", key, v.Raw)
	}
	return int64(v.Num), nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, entities.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, entities.ErrMalformedResponse):
		return OutcomeMalformed
	default:
		return OutcomeTransport
	}
}
