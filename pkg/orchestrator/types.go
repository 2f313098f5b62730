//go:generate mockgen -destination=./mocks/orchestrator.go . Fetcher,Downloader

package orchestrator

import (
	"context"

	"github.com/packentu/gumarchive/pkg/download"
	"github.com/packentu/gumarchive/pkg/fetch"
	"github.com/packentu/gumarchive/pkg/page"
)

// Fetcher is the subset of the fetch client used by the orchestrator.
type Fetcher interface {
	// GetBytes issues an authenticated GET. A 404 is tolerated when allow404
	// is set.
	GetBytes(ctx context.Context, url string, allow404 bool) ([]byte, error)

	// GetBytesNoSession is GetBytes without the session cookies attached.
	GetBytesNoSession(ctx context.Context, url string, allow404 bool) ([]byte, error)

	// Counters returns a snapshot of the transfer counters.
	Counters() fetch.Counters
}

// Downloader handles per-resource idempotent downloads.
type Downloader interface {
	EnsureDownloaded(ctx context.Context, res download.Resource) (download.Outcome, error)
}

// Orchestrator ties the fetch client, the download engine and the page parser
// together for one archive run.
type Orchestrator struct {
	Fetch Fetcher
	DL    Downloader

	// Parser entry points, overridable in tests.
	ParseLibrary func(pageHTML []byte) (*page.Library, error)
	ParseProduct func(pageHTML []byte) (*page.Product, error)
}

// New creates an orchestrator wired to the production page parser.
func New(fetcher Fetcher, dl Downloader) *Orchestrator {
	return &Orchestrator{
		Fetch:        fetcher,
		DL:           dl,
		ParseLibrary: page.LibraryFromPageBytes,
		ParseProduct: page.ProductFromPageBytes,
	}
}

// Options control one archive run.
type Options struct {
	// OutputDir is the root everything is archived under. Must be non-empty.
	OutputDir string
	// LibraryURL is the authenticated listing page enumerating purchases.
	LibraryURL string
	// BaseURL prefixes the platform-relative download URLs of content items.
	BaseURL string
	// Domain is the host suffix a download URL must belong to; foreign URLs
	// are skipped, not downloaded.
	Domain string
}
