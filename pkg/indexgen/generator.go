// Package indexgen renders a browsable index.html over a previously archived
// output tree. It works purely from the persisted files and performs no
// network traffic, so it can be rerun at any time.
package indexgen

import (
	_ "embed"
	"html/template"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/packentu/gumarchive/internal/logger"
	"github.com/packentu/gumarchive/pkg/errors"
	"github.com/packentu/gumarchive/pkg/fsutil"
	"github.com/packentu/gumarchive/pkg/orchestrator"
	"github.com/packentu/gumarchive/pkg/page"
)

// IndexFile is the name of the rendered index in the output root.
const IndexFile = "index.html"

//go:embed index.gohtml
var indexTemplate string

// entry is one product row of the rendered index.
type entry struct {
	ThumbnailPath string
	Name          string
	Creator       string
	CreatorPage   string
	LocalPath     string
	LocalPathLink string
	ProductPage   string
	LocalCopyLink string
	DownloadPage  string
	DateUpdated   string
	DatePurchased string
}

// Generator renders the index. The filesystem is abstracted so tests can run
// against an in-memory tree.
type Generator struct {
	fs afero.Fs
}

// New creates a generator over the real filesystem.
func New() *Generator {
	return NewWithFs(afero.NewOsFs())
}

// NewWithFs creates a generator over the given filesystem.
func NewWithFs(fs afero.Fs) *Generator {
	return &Generator{fs: fs}
}

// Generate reads the persisted library and product metadata under outputDir
// and writes index.html next to them.
func (g *Generator) Generate(outputDir string) error {
	if outputDir == "" {
		return errors.Wrap(errors.ErrInvalidPath, "output directory is required")
	}

	libraryHTML, err := afero.ReadFile(g.fs, filepath.Join(outputDir, orchestrator.LibraryHTMLFile))
	if err != nil {
		return errors.Wrapf(err, "failed to read %s (run archive first)", orchestrator.LibraryHTMLFile)
	}
	library, err := page.LibraryFromPageBytes(libraryHTML)
	if err != nil {
		return err
	}

	products := library.Products()
	entries := make([]entry, 0, len(products))
	for _, product := range products {
		relativePath := product.CreatorProductPath()
		productDir := filepath.Join(outputDir, relativePath)

		rawJSON, err := afero.ReadFile(g.fs, filepath.Join(productDir, orchestrator.ProductRawJSONFile))
		if err != nil {
			return errors.Wrapf(err, "failed to read product metadata for %q", product.Name())
		}
		detail, err := page.ProductFromRawJSON(string(rawJSON))
		if err != nil {
			return err
		}

		thumbnailPath := "."
		if thumbnail := g.findThumbnail(productDir); thumbnail != "" {
			thumbnailPath = pathToLink(filepath.Join(relativePath, thumbnail))
		}

		entries = append(entries, entry{
			ThumbnailPath: thumbnailPath,
			Name:          product.Name(),
			Creator:       product.CreatorName(),
			CreatorPage:   product.CreatorProfileURL(),
			LocalPath:     relativePath,
			LocalPathLink: pathToLink(relativePath),
			ProductPage:   detail.StorePageURL(),
			LocalCopyLink: pathToLink(filepath.Join(relativePath, orchestrator.ProductPageHTMLFile)),
			DownloadPage:  product.DownloadPageURL(),
			DateUpdated:   product.Product.UpdatedAt,
			DatePurchased: detail.PurchaseDate(),
		})
	}

	tmpl, err := template.New(IndexFile).Parse(indexTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse index template")
	}
	var rendered strings.Builder
	if err := tmpl.Execute(&rendered, entries); err != nil {
		return errors.Wrap(err, "failed to render index")
	}

	indexPath := filepath.Join(outputDir, IndexFile)
	logger.Infof("Writing index of %d products to %q", len(entries), indexPath)
	return afero.WriteFile(g.fs, indexPath, []byte(rendered.String()), fsutil.FileModeDefault)
}

// findThumbnail locates the thumbnail file in a product directory. The
// extension varies with the upload, so it is matched by prefix.
func (g *Generator) findThumbnail(productDir string) string {
	matches, err := afero.Glob(g.fs, filepath.Join(productDir, orchestrator.ThumbnailBaseName+".*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	if len(matches) != 1 {
		logger.Warnf("Unexpected %d thumbnail files in %s: %v", len(matches), productDir, matches)
	}
	return filepath.Base(matches[0])
}

// pathToLink converts a relative filesystem path into a relative URL usable
// in an href, percent-escaping each segment.
func pathToLink(p string) string {
	segments := strings.Split(filepath.ToSlash(p), "/")
	escaped := make([]string, len(segments))
	for i, segment := range segments {
		escaped[i] = url.PathEscape(segment)
	}
	return path.Join(escaped...)
}
