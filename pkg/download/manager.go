// Package download implements the idempotent download engine: given a remote
// resource and its expected identity, it decides whether the local copy
// already satisfies it, and if not, safely replaces or supplements it.
package download

import (
	"context"
	goerrors "errors"
	"os"
	"path/filepath"

	"github.com/packentu/gumarchive/internal/logger"
	"github.com/packentu/gumarchive/pkg/errors"
)

// ManagerImpl is the production download engine. It is strictly sequential:
// one HTTP request in flight at a time, and local file state is read from
// disk immediately before every decision so reruns observe the current state.
type ManagerImpl struct {
	fetcher Fetcher
}

// NewManager creates a download engine on top of the given fetcher.
func NewManager(fetcher Fetcher) *ManagerImpl {
	return &ManagerImpl{fetcher: fetcher}
}

// EnsureDownloaded applies the decision table:
//
//	no local file                          -> download
//	local size 0                           -> download (prior attempt failed)
//	local size == remote size              -> skip, counted as skipped
//	sizes differ, not cover                -> archive remote to error-*, fail
//	sizes differ, cover, remote >= local   -> skip, keep local
//	sizes differ, cover, remote < local    -> overwrite
//	remote size unknown                    -> overwrite unconditionally
func (m *ManagerImpl) EnsureDownloaded(ctx context.Context, res Resource) (Outcome, error) {
	// The HEAD content-length is of the compressed data if it is compressed,
	// which won't match the size of the file on disk; a caller-supplied size
	// is authoritative.
	remoteSize, contentType, err := m.fetcher.HeadInfo(ctx, res.URL)
	if err != nil {
		return Outcome{}, err
	}
	if res.Size != 0 {
		if res.Size != remoteSize {
			logger.Debugf("content-length=%d expected size=%d", remoteSize, res.Size)
		}
		remoteSize = res.Size
	}

	fileName := res.Name
	if ext := resolveExtension(res.Ext, contentType); ext != "" {
		fileName += ext
	}
	destPath := filepath.Join(res.Dir, fileName)

	existingSize := int64(-1)
	if info, statErr := os.Stat(destPath); statErr == nil {
		existingSize = info.Size()
	}

	if existingSize < 0 {
		logger.Debugf("File %q does not exist", destPath)
	} else {
		logger.Debugf("File %q exists with size %d", destPath, existingSize)
		if remoteSize != 0 {
			switch {
			case existingSize == 0:
				logger.Info("File is empty, downloading", logger.Fields{"file": destPath})
			case existingSize == remoteSize:
				logger.Infof("File %q exists with matching size %d, assuming unchanged, skipping download", destPath, remoteSize)
				m.fetcher.RecordSkip(remoteSize)
				return Outcome{Status: StatusSkipped, Path: destPath, OldSize: existingSize, Reason: SkipUnchanged}, nil
			default:
				// File size has changed, pray it does not change further...
				logger.Warnf("Size of file %q has changed from %d to %d", destPath, existingSize, remoteSize)
				if !res.IsCover {
					return m.archiveDrifted(ctx, res, destPath, fileName, existingSize, remoteSize)
				}
				if remoteSize >= existingSize {
					logger.Warn("The existing file is smaller, so keeping it", logger.Fields{"file": destPath})
					m.fetcher.RecordSkip(remoteSize)
					return Outcome{Status: StatusSkipped, Path: destPath, OldSize: existingSize, Reason: SkipKeepingLarger}, nil
				}
				logger.Warn("New file is smaller, so downloading it", logger.Fields{"file": destPath})
			}
		} else {
			// No verification is possible here and any revision history on
			// the path is destroyed by the overwrite.
			logger.Criticalf("Unknown download size of url %s, overwriting existing file %q with size %d", res.URL, destPath, existingSize)
		}
	}

	logger.Infof("Saving download to %q with size %d", destPath, remoteSize)

	written, err := m.stream(ctx, res, destPath)
	if err != nil {
		return Outcome{}, err
	}
	logger.Debugf("Downloaded %d bytes to file %q", written, destPath)

	if remoteSize != 0 && written != remoteSize {
		// The file is already on disk, so this is surfaced as a post-hoc
		// anomaly only.
		logger.Criticalf("Size of file %q was expected to be %d but %d bytes were written", destPath, remoteSize, written)
	}

	outcome := Outcome{Status: StatusDownloaded, Path: destPath, BytesWritten: written}
	if existingSize >= 0 {
		outcome.Status = StatusReplaced
		outcome.OldSize = existingSize
	}
	return outcome, nil
}

// archiveDrifted preserves the drifted remote content next to the untouched
// original and fails the run. For ordinary content files a size change means
// either corruption or a true content change that must not silently overwrite
// an archival copy.
func (m *ManagerImpl) archiveDrifted(ctx context.Context, res Resource, destPath, fileName string, existingSize, remoteSize int64) (Outcome, error) {
	errorPath := filepath.Join(res.Dir, "error-"+fileName)
	written, err := m.fetcher.StreamToFile(ctx, res.URL, errorPath)
	if err != nil {
		return Outcome{}, errors.Wrapf(err, "failed to preserve drifted content for %q", destPath)
	}
	return Outcome{}, &errors.SizeMismatchError{
		Path:      destPath,
		Existing:  existingSize,
		Remote:    remoteSize,
		Written:   written,
		ErrorFile: errorPath,
	}
}

// stream performs the transfer, retrying exactly once on a transient
// chunked-transfer failure when the resource is a cover.
func (m *ManagerImpl) stream(ctx context.Context, res Resource, destPath string) (int64, error) {
	retry := res.IsCover
	for {
		written, err := m.fetcher.StreamToFile(ctx, res.URL, destPath)
		if err == nil {
			return written, nil
		}
		if retry && goerrors.Is(err, errors.ErrTransient) {
			logger.Warn("Error during download, but it's a thumbnail/cover, so will try once more", logger.Fields{"url": res.URL})
			retry = false
			continue
		}
		return written, err
	}
}
