package jobs

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL       = "https://api.apify.com"
	defaultActor = "apimaestro~linkedin-job-detail"
	userAgent    = "spigell/cv-tailor (spigelly@gmail.com)"

	contentType     = "application/json"
	contentEncoding = "gzip"

	// run-sync endpoints wait for the actor run to finish.
	defaultTimeout = 5 * time.Minute
)

// ApifyClient looks up job postings through an Apify actor run.
type ApifyClient struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	Actor      string
}

// NewApifyClient returns a client for the LinkedIn job detail actor.
func NewApifyClient(logger *zap.Logger, token string) *ApifyClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ApifyClient{
		token:  token,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
		UserAgent: userAgent,
		APIURL:    apiURL,
		Actor:     defaultActor,
	}
}

type actorInput struct {
	JobID []string `json:"job_id"`
}

type apifyError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Lookup runs the actor for the given identifiers and returns the decoded records.
// Every transport or decoding problem is reported as ErrLookupFailed.
func (c *ApifyClient) Lookup(ctx context.Context, ids []string) ([]Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	items, err := c.runActor(ctx, actorInput{JobID: ids})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	records, err := decodeItems(items)
	if err != nil {
		return nil, fmt.Errorf("%w: decode dataset items: %w", ErrLookupFailed, err)
	}

	c.logger.Debug("got job details from apify",
		zap.Strings("job_ids", ids),
		zap.Int("items", len(items)),
		zap.Int("records", len(records)),
	)

	return records, nil
}

func (c *ApifyClient) runActor(ctx context.Context, input actorInput) ([]map[string]any, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	actor := strings.ReplaceAll(strings.TrimSpace(c.Actor), "/", "~")
	if actor == "" {
		actor = defaultActor
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items", strings.TrimRight(c.APIURL, "/"), url.PathEscape(actor))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr apifyError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("bad status: %s: %s", resp.Status, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse dataset items: %w", err)
	}

	return items, nil
}

func (c *ApifyClient) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.Redacted()))
	return c.HTTPClient.Do(req)
}

func (c *ApifyClient) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	return io.ReadAll(reader)
}
