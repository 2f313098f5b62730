// Package orchestrator sequences one archive run: enumerate the library,
// persist its metadata, then walk every product downloading its thumbnail,
// covers, detail metadata, store page and content files.
package orchestrator

import (
	"context"
	_ "embed"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/packentu/gumarchive/internal/logger"
	"github.com/packentu/gumarchive/pkg/download"
	"github.com/packentu/gumarchive/pkg/errors"
	"github.com/packentu/gumarchive/pkg/fetch"
	"github.com/packentu/gumarchive/pkg/fsutil"
	"github.com/packentu/gumarchive/pkg/model"
	"github.com/packentu/gumarchive/pkg/page"
)

// File names persisted in the output tree.
const (
	LibraryHTMLFile     = "library.html"
	LibraryJSONFile     = "library.json"
	LibraryRawJSONFile  = "library-raw.json"
	ProductJSONFile     = "product.json"
	ProductRawJSONFile  = "product-raw.json"
	ProductPageHTMLFile = "product-page.html"
	ProductPageURLFile  = "product-page.url"
	GitignoreFile       = ".gitignore"
	ThumbnailBaseName   = "thumbnail"
)

// outputGitignore keeps the bulky binary payloads out of a git-tracked
// archive; the metadata files stay tracked so content drift shows up as
// diffs. It is overwritten on every run so changes to it propagate.
//
//go:embed output.gitignore
var outputGitignore []byte

// Run executes one archive run and returns the transfer counters accumulated
// so far, even when the run fails partway.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (fetch.Counters, error) {
	if opts.OutputDir == "" {
		return fetch.Counters{}, errors.Wrap(errors.ErrInvalidPath, "output directory is required")
	}

	runID := uuid.NewString()
	logger.Info("Starting archive run", logger.Fields{"run_id": runID, "output": opts.OutputDir})

	if err := fsutil.EnsureDir(opts.OutputDir); err != nil {
		return o.Fetch.Counters(), errors.Wrapf(err, "failed to create output directory %s", opts.OutputDir)
	}
	if err := fsutil.WriteFile(filepath.Join(opts.OutputDir, GitignoreFile), outputGitignore); err != nil {
		return o.Fetch.Counters(), errors.Wrap(err, "failed to write gitignore")
	}

	library, err := o.fetchLibrary(ctx, opts)
	if err != nil {
		return o.Fetch.Counters(), err
	}

	products := library.Products()
	logger.Infof("Found %d products", len(products))

	for i, product := range products {
		logger.Infof("[%d/%d] Downloading %q by %q", i+1, len(products), product.Name(), product.CreatorName())
		if err := o.archiveProduct(ctx, opts, product, i+1, len(products)); err != nil {
			return o.Fetch.Counters(), err
		}
	}

	logger.Success("Archive run complete", logger.Fields{"run_id": runID})
	return o.Fetch.Counters(), nil
}

// fetchLibrary downloads the library listing page and persists the page HTML
// plus the raw and formatted metadata blocks.
func (o *Orchestrator) fetchLibrary(ctx context.Context, opts Options) (*page.Library, error) {
	pageHTML, err := o.Fetch.GetBytes(ctx, opts.LibraryURL, false)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch library page")
	}
	if err := fsutil.WriteFile(filepath.Join(opts.OutputDir, LibraryHTMLFile), pageHTML); err != nil {
		return nil, err
	}

	library, err := o.ParseLibrary(pageHTML)
	if err != nil {
		return nil, err
	}
	if err := fsutil.WriteFile(filepath.Join(opts.OutputDir, LibraryRawJSONFile), []byte(library.RawJSON())); err != nil {
		return nil, err
	}
	formatted, err := library.FormattedJSON()
	if err != nil {
		return nil, err
	}
	if err := fsutil.WriteFile(filepath.Join(opts.OutputDir, LibraryJSONFile), []byte(formatted)); err != nil {
		return nil, err
	}
	return library, nil
}

func (o *Orchestrator) archiveProduct(ctx context.Context, opts Options, product model.ProductRecord, index, total int) error {
	productDir := filepath.Join(opts.OutputDir, product.CreatorProductPath())
	logger.Debugf("Initializing product %q by %q", product.Name(), product.CreatorName())
	if err := fsutil.EnsureDir(productDir); err != nil {
		return errors.Wrapf(err, "failed to create product directory %s", productDir)
	}

	if err := o.downloadThumbnail(ctx, productDir, product); err != nil {
		return err
	}
	if err := o.downloadCovers(ctx, opts, productDir, product); err != nil {
		return err
	}

	detail, err := o.fetchProductDetail(ctx, productDir, product)
	if err != nil {
		return err
	}

	compareProductNames(product.Name(), detail.Name())

	items := detail.ContentItems()
	logger.Infof("Downloading %d files for product %q by %q", len(items), product.Name(), product.CreatorName())
	for j, item := range items {
		logger.Infof("[%d/%d] (%d/%d) Downloading file %q for %q by %q",
			index, total, j+1, len(items), item.SanitizedFileName(), product.Name(), product.CreatorName())
		if err := o.archiveContentItem(ctx, opts, productDir, item); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) downloadThumbnail(ctx context.Context, productDir string, product model.ProductRecord) error {
	url := product.Product.ThumbnailURL
	if url == "" {
		return nil
	}
	// Thumbnails have the same problem as cover files, they'll randomly
	// change size.
	_, err := o.DL.EnsureDownloaded(ctx, download.Resource{
		URL:     url,
		Dir:     productDir,
		Name:    ThumbnailBaseName,
		IsCover: true,
	})
	return err
}

func (o *Orchestrator) downloadCovers(ctx context.Context, opts Options, productDir string, product model.ProductRecord) error {
	covers := product.Product.Covers
	if covers == nil {
		logger.Warnf("No covers block for product %q", product.Name())
		return nil
	}
	logger.Infof("Found %d covers for product %q", len(covers), product.Name())

	downloaded := 0
	for _, cover := range covers {
		if cover.IsExternal(opts.Domain) {
			logger.Infof("Skipping external cover url %s", cover.DownloadURL())
			continue
		}
		// Cover images will randomly change size for no reason, with no
		// visual difference; the engine's keep-larger policy handles that.
		name, ext := cover.FileNameAndExtension()
		outcome, err := o.DL.EnsureDownloaded(ctx, download.Resource{
			URL:     cover.DownloadURL(),
			Dir:     productDir,
			Name:    name,
			Ext:     ext,
			IsCover: true,
		})
		if err != nil {
			return err
		}
		if outcome.Status != download.StatusSkipped {
			downloaded++
		}
	}
	logger.Infof("Downloaded %d covers for product %q", downloaded, product.Name())
	return nil
}

// fetchProductDetail downloads the product's own detail page and persists the
// metadata blocks, the store page URL shortcut and the public store page.
func (o *Orchestrator) fetchProductDetail(ctx context.Context, productDir string, product model.ProductRecord) (*page.Product, error) {
	pageHTML, err := o.Fetch.GetBytes(ctx, product.DownloadPageURL(), false)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch product page for %q", product.Name())
	}

	detail, err := o.ParseProduct(pageHTML)
	if err != nil {
		return nil, err
	}
	if err := fsutil.WriteFile(filepath.Join(productDir, ProductRawJSONFile), []byte(detail.RawJSON())); err != nil {
		return nil, err
	}
	formatted, err := detail.FormattedJSON()
	if err != nil {
		return nil, err
	}
	if err := fsutil.WriteFile(filepath.Join(productDir, ProductJSONFile), []byte(formatted)); err != nil {
		return nil, err
	}

	shortcut := fmt.Sprintf("[InternetShortcut]\nURL=%s", detail.StorePageURL())
	if err := fsutil.WriteFile(filepath.Join(productDir, ProductPageURLFile), []byte(shortcut)); err != nil {
		return nil, err
	}

	// The store page is public and must not see the session cookies. It may
	// be gone by now, in which case the 404 body is what gets archived.
	storePath := filepath.Join(productDir, ProductPageHTMLFile)
	logger.Debugf("Downloading product store page %s to %s", detail.StorePageURL(), storePath)
	storeHTML, err := o.Fetch.GetBytesNoSession(ctx, detail.StorePageURL(), true)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch store page for %q", product.Name())
	}
	if err := fsutil.WriteFile(storePath, storeHTML); err != nil {
		return nil, err
	}
	return detail, nil
}

func (o *Orchestrator) archiveContentItem(ctx context.Context, opts Options, productDir string, item model.ContentItemRecord) error {
	downloadURL := item.FullDownloadURL(opts.BaseURL)
	if downloadURL == "" {
		if item.ExternalLinkURL != "" {
			logger.Warnf("File %q has an external url you will need to download manually %s", item.FileName, item.ExternalLinkURL)
		} else {
			logger.Warnf("File %q has no download url, skipping", item.FileName)
		}
		return nil
	}
	if item.ExternalLinkURL != "" {
		logger.Warnf("File %q also has an external URL you should check %s", item.FileName, item.ExternalLinkURL)
	}
	if !model.IsPlatformURL(downloadURL, opts.Domain) {
		logger.Warnf("File %q appears to have an external url you will need to check %s", item.FileName, downloadURL)
		return nil
	}

	// Files live under a directory named after the item id. This avoids
	// collisions between two items sharing a display name, or a file that
	// was replaced under the same name.
	itemDir := filepath.Join(productDir, item.ID)
	if err := fsutil.EnsureDir(itemDir); err != nil {
		return errors.Wrapf(err, "failed to create content item directory %s", itemDir)
	}

	_, err := o.DL.EnsureDownloaded(ctx, download.Resource{
		URL:  downloadURL,
		Dir:  itemDir,
		Name: item.SanitizedFileName(),
		Ext:  item.Extension,
		Size: item.FileSize,
	})
	return err
}

// compareProductNames warns when the library listing and the product's own
// page disagree about the product name. They should be identical.
func compareProductNames(nameFromLibrary, nameFromProduct string) {
	if nameFromLibrary != nameFromProduct {
		logger.Warnf("Product name on library page %q is different from the name on the product page %q",
			nameFromLibrary, nameFromProduct)
	}
}
