// Package fetch wraps an HTTP client with the platform session cookies, a
// browser-impersonating user agent and per-run transfer counters.
package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/packentu/gumarchive/internal/logger"
	"github.com/packentu/gumarchive/pkg/errors"
	"github.com/packentu/gumarchive/pkg/fsutil"
)

// Session cookie names used by the platform.
const (
	cookieAppSession = "_gumroad_app_session"
	cookieGUID       = "_gumroad_guid"
)

const streamChunkSize = 32 * 1024

// Counters accumulates transfer statistics over one run. The Client owns its
// counters exclusively; they are only ever touched from the single control
// goroutine driving the run.
type Counters struct {
	BytesRead       int64
	BytesSkipped    int64
	FilesDownloaded int
	FilesSkipped    int
}

// Client performs all HTTP traffic for a run. Requests carry the session
// cookies and the configured user agent unless explicitly issued without the
// session (store pages must not see the session cookies).
type Client struct {
	client     *http.Client
	userAgent  string
	appSession string
	guid       string
	counters   Counters
}

// NewClient creates a session-authenticated client. A zero timeout leaves the
// transport defaults in place.
func NewClient(appSession, guid, userAgent string, timeout time.Duration) (*Client, error) {
	if appSession == "" || guid == "" {
		return nil, errors.ErrMissingSession
	}
	return &Client{
		client:     &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		appSession: appSession,
		guid:       guid,
	}, nil
}

// Counters returns a snapshot of the transfer counters.
func (c *Client) Counters() Counters {
	return c.counters
}

// RecordSkip accounts for a file whose local copy already satisfied the
// remote resource.
func (c *Client) RecordSkip(size int64) {
	c.counters.BytesSkipped += size
	c.counters.FilesSkipped++
}

// HeadInfo issues a HEAD request following redirects and returns the reported
// content length and content type. A missing or malformed content-length is
// reported as 0, never as an error.
func (c *Client) HeadInfo(ctx context.Context, url string) (int64, string, error) {
	logger.Debugf("Getting HEAD from %s", url)
	resp, err := c.do(ctx, http.MethodHead, url, true)
	if err != nil {
		return 0, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	var size int64
	if v, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64); err == nil && v > 0 {
		size = v
	}
	return size, resp.Header.Get("Content-Type"), nil
}

// GetBytes issues an authenticated GET and returns the body. A 404 status is
// tolerated when allow404 is set; the body is returned as-is and the caller
// must decide what it means. Any other non-200 status is an HTTPError.
func (c *Client) GetBytes(ctx context.Context, url string, allow404 bool) ([]byte, error) {
	return c.getBytes(ctx, url, allow404, true)
}

// GetBytesNoSession is GetBytes without the session cookies attached. Store
// page URLs must not carry the session.
func (c *Client) GetBytesNoSession(ctx context.Context, url string, allow404 bool) ([]byte, error) {
	return c.getBytes(ctx, url, allow404, false)
}

func (c *Client) getBytes(ctx context.Context, url string, allow404, withSession bool) ([]byte, error) {
	logger.Debugf("Downloading %s", url)
	resp, err := c.do(ctx, http.MethodGet, url, withSession)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && !(allow404 && resp.StatusCode == http.StatusNotFound) {
		return nil, &errors.HTTPError{Status: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response body from %s", url)
	}
	c.counters.BytesRead += int64(len(body))
	c.counters.FilesDownloaded++
	return body, nil
}

// StreamToFile issues an authenticated GET and writes the body straight to
// destPath in chunks, never buffering the whole body in memory. The counters
// are updated as chunks land. A mid-body read failure wraps ErrTransient.
func (c *Client) StreamToFile(ctx context.Context, url, destPath string) (int64, error) {
	logger.Debugf("Downloading %s", url)
	resp, err := c.do(ctx, http.MethodGet, url, true)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, &errors.HTTPError{Status: resp.StatusCode, URL: url}
	}

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to create %s", destPath)
	}

	var total int64
	buf := make([]byte, streamChunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			written, writeErr := out.Write(buf[:n])
			total += int64(written)
			c.counters.BytesRead += int64(written)
			if writeErr != nil {
				_ = out.Close()
				return total, errors.Wrapf(writeErr, "failed to write %s", destPath)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = out.Close()
			return total, errors.Wrapf(errors.ErrTransient, "reading %s: %v", url, readErr)
		}
	}

	if err := out.Close(); err != nil {
		return total, errors.Wrapf(err, "failed to close %s", destPath)
	}
	c.counters.FilesDownloaded++
	return total, nil
}

func (c *Client) do(ctx context.Context, method, url string, withSession bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	if withSession {
		req.AddCookie(&http.Cookie{Name: cookieAppSession, Value: c.appSession})
		req.AddCookie(&http.Cookie{Name: cookieGUID, Value: c.guid})
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request to %s failed", url)
	}
	return resp, nil
}
