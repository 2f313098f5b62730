//go:generate mockgen -destination=./mocks/download.go . Fetcher,Manager

package download

import "context"

// Fetcher is the subset of the fetch client used by the download engine.
type Fetcher interface {
	// HeadInfo returns the remote content length (0 when unknown) and
	// content type for a URL.
	HeadInfo(ctx context.Context, url string) (int64, string, error)

	// StreamToFile writes the body of url straight to destPath and returns
	// the number of bytes written.
	StreamToFile(ctx context.Context, url, destPath string) (int64, error)

	// RecordSkip accounts for a file whose local copy already satisfied the
	// remote resource.
	RecordSkip(size int64)
}

// Manager decides, for each remote resource, whether a local copy already
// satisfies it, and if not, safely replaces or supplements it.
type Manager interface {
	EnsureDownloaded(ctx context.Context, res Resource) (Outcome, error)
}

// Resource is the identity of one remote thing to fetch. Values are transient
// arguments, owned by the caller for the duration of one call.
type Resource struct {
	// URL is the absolute download URL.
	URL string
	// Dir is the directory the file belongs in.
	Dir string
	// Name is the desired base file name, without extension.
	Name string
	// Ext is the file extension without the leading dot. When empty, the
	// extension is derived from the HEAD content type instead.
	Ext string
	// Size is the authoritative expected size in bytes when known; 0 means
	// unknown. A known size overrides the HEAD content-length, which may
	// reflect the compressed transfer size rather than the file size.
	Size int64
	// IsCover marks thumbnails and cover images. Their reported sizes
	// fluctuate without visible content change, so they get the keep-larger
	// policy instead of the fail-fast drift check, plus one retry on a
	// transient transfer error.
	IsCover bool
}

// Status classifies the outcome of one download decision.
type Status int

const (
	// StatusDownloaded means no local file existed and the remote content
	// was fetched.
	StatusDownloaded Status = iota
	// StatusReplaced means an existing local file was overwritten.
	StatusReplaced
	// StatusSkipped means the local copy already satisfied the resource.
	StatusSkipped
)

// SkipReason explains a StatusSkipped outcome.
type SkipReason string

const (
	// SkipUnchanged means the local size matched the remote size.
	SkipUnchanged SkipReason = "unchanged"
	// SkipKeepingLarger means a cover reported a size no smaller than the
	// local copy, which is kept.
	SkipKeepingLarger SkipReason = "keeping-larger"
)

// Outcome is the result of one download decision.
type Outcome struct {
	Status       Status
	Path         string
	BytesWritten int64
	OldSize      int64
	Reason       SkipReason
}
