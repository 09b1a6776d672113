package api

import (
	"context"
	"fmt"
)

// DownloadHandout fetches an assessment's handout into dir. Depending on
// how the assessment is configured the result is a downloaded file, an
// external URL, or nothing.
func (c *Client) DownloadHandout(ctx context.Context, dir, course, asmt string) (*Attachment, error) {
	path := fmt.Sprintf("/courses/%s/assessments/%s/handout", course, asmt)
	return c.downloadAttachment(ctx, dir, path, "handout")
}

// DownloadWriteup fetches an assessment's writeup into dir.
func (c *Client) DownloadWriteup(ctx context.Context, dir, course, asmt string) (*Attachment, error) {
	path := fmt.Sprintf("/courses/%s/assessments/%s/writeup", course, asmt)
	return c.downloadAttachment(ctx, dir, path, "writeup")
}

func (c *Client) downloadAttachment(ctx context.Context, dir, path, nameHint string) (*Attachment, error) {
	accessToken, _ := c.Tokens()
	params := Params{{Key: "access_token", Value: accessToken}}

	rs := newDownloadState(dir, nameHint)
	defer rs.closeFile()
	status, err := c.request(ctx, rs, c.apiPath(path), params, MethodGet, true)
	if err != nil {
		return nil, err
	}

	if rs.isDownload {
		return &Attachment{Format: AttachmentFile, Path: rs.FilePath()}, nil
	}

	if msg, ok := rs.errorMessage(); ok {
		return nil, &APIError{StatusCode: status, Message: msg}
	}

	var doc struct {
		URL string `json:"url"`
	}
	if err := rs.decodeJSON(path, &doc); err != nil {
		return nil, err
	}
	if doc.URL != "" {
		return &Attachment{Format: AttachmentURL, URL: doc.URL}, nil
	}
	return &Attachment{Format: AttachmentNone}, nil
}
