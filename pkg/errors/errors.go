// Package errors defines the error values shared across gumarchive.
package errors

import "fmt"

// Common error types.
var (
	// Config errors.
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrMissingSession    = fmt.Errorf("session cookies are not configured")

	// Fetch errors.
	ErrDownloadFailed = fmt.Errorf("download failed")
	ErrInvalidPath    = fmt.Errorf("invalid path")

	// ErrTransient marks a chunked-transfer failure in the middle of a
	// streaming body. Covers are retried once on it; everything else
	// propagates.
	ErrTransient = fmt.Errorf("transient transfer error")

	// ErrParse is returned when a page does not contain exactly one
	// embedded metadata block. The remote page structure no longer matches
	// assumptions, so this is fatal.
	ErrParse = fmt.Errorf("page metadata parse error")
)

// HTTPError is returned for a non-2xx response that is not a tolerated 404.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.Status, e.URL)
}

// SizeMismatchError reports content drift on a non-cover resource: the local
// file size no longer matches the remote size. The remote content has already
// been preserved at ErrorFile for manual comparison; the original at Path is
// untouched.
type SizeMismatchError struct {
	Path      string
	Existing  int64
	Remote    int64
	Written   int64
	ErrorFile string
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("size of file %q is %d, remote says %d, actual bytes downloaded %d to %q",
		e.Path, e.Existing, e.Remote, e.Written, e.ErrorFile)
}

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
