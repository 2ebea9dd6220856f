// Package cloudinary implements the media.Store interface against the
// Cloudinary upload/destroy REST API.
package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/hooked-app/hooked-backend/internal/media"
)

type Client struct {
	baseURL      string
	cloudName    string
	apiKey       string
	apiSecret    string
	uploadPreset string

	httpc *http.Client
	now   func() time.Time
}

type Options struct {
	BaseURL      string
	CloudName    string
	APIKey       string
	APISecret    string
	UploadPreset string

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

func New(opt Options) *Client {
	httpc := opt.HTTPClient
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		baseURL:      strings.TrimRight(opt.BaseURL, "/"),
		cloudName:    opt.CloudName,
		apiKey:       opt.APIKey,
		apiSecret:    opt.APISecret,
		uploadPreset: opt.UploadPreset,
		httpc:        httpc,
		now:          time.Now,
	}
}

// Upload posts the image as a multipart request with the configured upload
// preset and returns the hosted secure_url.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := w.WriteField("upload_preset", c.uploadPreset); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("upload"), &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("image upload failed (%s): %s", resp.Status, respBody)
	}

	var parsed struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil || parsed.SecureURL == "" {
		return "", fmt.Errorf("image upload response has no secure_url: %s", respBody)
	}

	return parsed.SecureURL, nil
}

// Delete derives the public id from the hosted URL, signs the destroy request
// and posts it as a form.
func (c *Client) Delete(ctx context.Context, imageURL string) error {
	publicID, err := PublicIDFromURL(imageURL)
	if err != nil {
		return err
	}

	ts := c.now().Unix()
	form := url.Values{
		"public_id": {publicID},
		"api_key":   {c.apiKey},
		"timestamp": {strconv.FormatInt(ts, 10)},
		"signature": {signature(publicID, ts, c.apiSecret)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("destroy"), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("image delete failed (%s): %s", resp.Status, destroyErrorMessage(respBody))
	}

	var parsed struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err == nil && parsed.Result != "" && parsed.Result != "ok" {
		return fmt.Errorf("image delete rejected: %s", parsed.Result)
	}

	return nil
}

func (c *Client) endpoint(action string) string {
	return fmt.Sprintf("%s/v1_1/%s/image/%s", c.baseURL, c.cloudName, action)
}

// destroyErrorMessage pulls the nested error.message field out of an API
// error body, falling back to the raw body.
func destroyErrorMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(body)
}

// PublicIDFromURL extracts the public id from a hosted image URL of the form
//
//	https://<host>/<cloud>/image/upload/<version>/<public_id>.<ext>
//
// where <version> is optional and <public_id> may contain folder segments.
func PublicIDFromURL(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", media.ErrBadImageURL, err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	uploadIdx := -1
	for i, seg := range segments {
		if seg == "upload" {
			uploadIdx = i
			break
		}
	}
	if uploadIdx < 0 || uploadIdx == len(segments)-1 {
		return "", fmt.Errorf("%w: no upload segment in %q", media.ErrBadImageURL, imageURL)
	}

	rest := segments[uploadIdx+1:]
	if isVersionSegment(rest[0]) {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return "", fmt.Errorf("%w: no public id in %q", media.ErrBadImageURL, imageURL)
	}

	publicID := strings.Join(rest, "/")
	publicID = strings.TrimSuffix(publicID, path.Ext(publicID))
	if publicID == "" {
		return "", fmt.Errorf("%w: empty public id in %q", media.ErrBadImageURL, imageURL)
	}

	return publicID, nil
}

func isVersionSegment(seg string) bool {
	if len(seg) < 2 || seg[0] != 'v' {
		return false
	}
	for _, r := range seg[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// signature is the SHA-1 hex digest over the sorted destroy parameters with
// the API secret appended.
func signature(publicID string, ts int64, secret string) string {
	payload := fmt.Sprintf("public_id=%s&timestamp=%d%s", publicID, ts, secret)
	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
