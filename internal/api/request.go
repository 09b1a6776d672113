package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Method selects the HTTP method for a request. GET sends parameters as a
// query string, POST as an application/x-www-form-urlencoded body.
type Method int

const (
	MethodGet Method = iota
	MethodPost
)

// requestState is the per-request response sink. A response is either
// accumulated into body or, when download mode engages, streamed to a file
// under downloadDir. Exactly one of the two receives the bytes.
type requestState struct {
	downloadDir string
	nameHint    string

	statusCode int
	body       bytes.Buffer
	isDownload bool
	filename   string
	file       *os.File
}

func newRequestState() *requestState {
	return &requestState{}
}

// newDownloadState returns a sink that may divert the response to a file in
// dir. nameHint is used when the server does not supply a filename.
func newDownloadState(dir, nameHint string) *requestState {
	return &requestState{downloadDir: dir, nameHint: nameHint}
}

func (rs *requestState) considerDownload() bool { return rs.downloadDir != "" }

// FilePath returns the destination path of a diverted download, or "" when
// the response was buffered.
func (rs *requestState) FilePath() string {
	if !rs.isDownload {
		return ""
	}
	return filepath.Join(rs.downloadDir, rs.filename)
}

// classify inspects response headers before any of the body is consumed.
// When download mode is possible and the server attached a
// Content-Disposition header, the sink switches to file mode and opens the
// destination, truncating any previous content.
func (rs *requestState) classify(header http.Header) error {
	if !rs.considerDownload() {
		return nil
	}
	disposition := header.Get("Content-Disposition")
	if disposition == "" {
		return nil
	}

	name := rs.nameHint
	if _, mparams, err := mime.ParseMediaType(disposition); err == nil {
		if fn := mparams["filename"]; fn != "" {
			// Strip any path the server smuggled into the name.
			name = filepath.Base(fn)
		}
	}

	f, err := os.OpenFile(filepath.Join(rs.downloadDir, name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open download target: %w", err)
	}
	rs.isDownload = true
	rs.filename = name
	rs.file = f
	return nil
}

// reset returns the sink to its pre-request condition so the request can be
// reissued. A partially written download file is truncated, not left behind.
func (rs *requestState) reset() error {
	rs.body.Reset()
	rs.statusCode = 0
	if rs.file != nil {
		_ = rs.file.Close()
		rs.file = nil
	}
	if rs.isDownload {
		if err := os.Truncate(filepath.Join(rs.downloadDir, rs.filename), 0); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("cannot reset download target: %w", err)
		}
		rs.isDownload = false
		rs.filename = ""
	}
	return nil
}

func (rs *requestState) closeFile() {
	if rs.file != nil {
		_ = rs.file.Close()
		rs.file = nil
	}
}

// rawRequest performs a single HTTP exchange against path (relative to
// BaseURL) and fills rs. It returns the HTTP status code, or a
// *TransportError when the exchange failed below the HTTP layer.
func (c *Client) rawRequest(ctx context.Context, rs *requestState, path string, params Params, method Method) (int, error) {
	fullURL := c.BaseURL + path
	encoded := params.Encode()

	httpMethod := http.MethodGet
	var body io.Reader
	if method == MethodPost {
		httpMethod = http.MethodPost
		body = strings.NewReader(encoded)
	} else if encoded != "" {
		fullURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, fullURL, body)
	if err != nil {
		return 0, fmt.Errorf("invalid request for %s: %w", path, err)
	}
	if method == MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	c.logRequest(httpMethod, path)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return 0, &TransportError{Op: "connect", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	rs.statusCode = resp.StatusCode
	if err := rs.classify(resp.Header); err != nil {
		return 0, err
	}

	if rs.isDownload {
		_, copyErr := io.Copy(rs.file, resp.Body)
		closeErr := rs.file.Close()
		rs.file = nil
		if copyErr != nil {
			return 0, &TransportError{Op: "download", Err: copyErr}
		}
		if closeErr != nil {
			return 0, fmt.Errorf("cannot finalize download: %w", closeErr)
		}
		return resp.StatusCode, nil
	}

	if _, err := io.Copy(&rs.body, resp.Body); err != nil {
		return 0, &TransportError{Op: "read", Err: err}
	}
	return resp.StatusCode, nil
}

// errorDocument is the uniform business-error shape: {"error": "..."}.
type errorDocument struct {
	Error *string `json:"error"`
}

// errorMessage extracts the "error" field from a buffered JSON body.
// Downloaded responses never carry one.
func (rs *requestState) errorMessage() (string, bool) {
	if rs.isDownload {
		return "", false
	}
	var doc errorDocument
	if err := json.Unmarshal(rs.body.Bytes(), &doc); err != nil || doc.Error == nil {
		return "", false
	}
	return *doc.Error, true
}

func (rs *requestState) hasAuthFailure() bool {
	msg, ok := rs.errorMessage()
	return ok && msg == authFailedMessage
}

// decodeJSON unmarshals the buffered body into out, reporting a
// *ProtocolError when the body is not the JSON the endpoint guarantees.
func (rs *requestState) decodeJSON(endpoint string, out any) error {
	if err := json.Unmarshal(rs.body.Bytes(), out); err != nil {
		return &ProtocolError{Endpoint: endpoint, Err: err}
	}
	return nil
}
