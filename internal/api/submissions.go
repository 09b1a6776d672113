package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// GetSubmissions lists the user's submissions for an assessment, newest
// first as the service orders them.
func (c *Client) GetSubmissions(ctx context.Context, course, asmt string) ([]Submission, error) {
	var subs []Submission
	path := fmt.Sprintf("/courses/%s/assessments/%s/submissions", course, asmt)
	if err := c.getJSON(ctx, path, nil, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

// GetFeedback fetches the grader feedback for one problem of one submission
// version.
func (c *Client) GetFeedback(ctx context.Context, course, asmt string, version int, problem string) (string, error) {
	path := fmt.Sprintf("/courses/%s/assessments/%s/submissions/%s/feedback",
		course, asmt, strconv.Itoa(version))
	extra := Params{{Key: "problem", Value: problem}}

	var doc struct {
		Feedback *string `json:"feedback"`
	}
	if err := c.getJSON(ctx, path, extra, &doc); err != nil {
		return "", err
	}
	if doc.Feedback == nil {
		return "", &ProtocolError{Endpoint: path, Field: "feedback"}
	}
	return *doc.Feedback, nil
}

// Submit uploads a handin file for an assessment and returns the new
// submission version. The upload is multipart rather than form-encoded, so
// it carries its own refresh-and-retry instead of going through request.
func (c *Client) Submit(ctx context.Context, course, asmt, filename string) (int, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return 0, fmt.Errorf("cannot read submission file: %w", err)
	}
	base := filepath.Base(filename)

	version, authFailed, err := c.submitOnce(ctx, course, asmt, base, content)
	if err != nil || !authFailed {
		return version, err
	}

	if err := c.refreshTokens(ctx); err != nil {
		return 0, ErrInvalidToken
	}
	version, authFailed, err = c.submitOnce(ctx, course, asmt, base, content)
	if err != nil {
		return 0, err
	}
	if authFailed {
		return 0, ErrInvalidToken
	}
	return version, nil
}

// submitOnce performs a single multipart upload. authFailed reports the
// authorization sentinel so the caller can refresh and retry exactly once.
func (c *Client) submitOnce(ctx context.Context, course, asmt, filename string, content []byte) (version int, authFailed bool, err error) {
	accessToken, _ := c.Tokens()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("access_token", accessToken); err != nil {
		return 0, false, fmt.Errorf("cannot build submission request: %w", err)
	}
	part, err := writer.CreateFormFile("submission[file]", filename)
	if err != nil {
		return 0, false, fmt.Errorf("cannot build submission request: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return 0, false, fmt.Errorf("cannot build submission request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, false, fmt.Errorf("cannot build submission request: %w", err)
	}

	path := c.apiPath(fmt.Sprintf("/courses/%s/assessments/%s/submit", course, asmt))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, body)
	if err != nil {
		return 0, false, fmt.Errorf("invalid request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	c.logRequest(http.MethodPost, path)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return 0, false, &TransportError{Op: "connect", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, false, &TransportError{Op: "read", Err: err}
	}

	var doc struct {
		Version int     `json:"version"`
		Error   *string `json:"error"`
	}
	if err := json.Unmarshal(respBody, &doc); err != nil {
		return 0, false, &ProtocolError{Endpoint: path, Err: err}
	}
	if doc.Error != nil {
		// Same policy as request: a 200 passes through even with the
		// sentinel text in the body.
		if resp.StatusCode != http.StatusOK && *doc.Error == authFailedMessage {
			return 0, true, nil
		}
		return 0, false, &APIError{StatusCode: resp.StatusCode, Message: *doc.Error}
	}
	if doc.Version == 0 {
		return 0, false, &ProtocolError{Endpoint: path, Field: "version"}
	}
	return doc.Version, false, nil
}
