// Package model holds the read-only views over the metadata records extracted
// from the platform's pages.
package model

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/packentu/gumarchive/internal/logger"
	"github.com/packentu/gumarchive/pkg/fsutil"
)

var subdomainPattern = regexp.MustCompile(`://([^./]+)\.`)

// CreatorRecord identifies the seller of a product.
type CreatorRecord struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
}

// CoverRecord is an image, video or embed shown on a product's public store
// page, as opposed to a purchasable content file.
//
// Observed fields: url points at the optimized rendition, original_url at the
// uploaded one. filetype is null for external embeds; type is "image",
// "video" or "oembed".
type CoverRecord struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	OriginalURL string `json:"original_url"`
	Type        string `json:"type"`
	FileType    string `json:"filetype"`
}

// DownloadURL returns the URL worth archiving (the original upload).
func (c CoverRecord) DownloadURL() string {
	return c.OriginalURL
}

// IsExternal reports whether the cover is hosted off-platform (e.g. a youtube
// embed) and therefore not downloadable here.
func (c CoverRecord) IsExternal(domain string) bool {
	return !IsPlatformURL(c.DownloadURL(), domain)
}

// FileNameAndExtension returns the local base name and extension for the
// cover. The cover id is used as the name; it is stable across runs.
func (c CoverRecord) FileNameAndExtension() (string, string) {
	return c.ID, c.FileType
}

// ProductRecord is one entry of the library listing: the product summary plus
// the purchase pointing at its download page. The listing does not contain
// the content-item list; that lives on the product's own detail page.
type ProductRecord struct {
	Product  ProductSummary  `json:"product"`
	Purchase PurchaseSummary `json:"purchase"`
}

// ProductSummary is the product block of a library entry.
type ProductSummary struct {
	Name         string         `json:"name"`
	CreatorID    string         `json:"creator_id"`
	Creator      *CreatorRecord `json:"creator"`
	ThumbnailURL string         `json:"thumbnail_url"`
	UpdatedAt    string         `json:"updated_at"`
	Covers       []CoverRecord  `json:"covers"`
}

// PurchaseSummary is the purchase block of a library entry.
type PurchaseSummary struct {
	DownloadURL string `json:"download_url"`
}

// Name returns the product's display name as shown on the library page.
func (p ProductRecord) Name() string {
	return p.Product.Name
}

// SanitizedName returns the product name reduced to a safe directory name.
func (p ProductRecord) SanitizedName() string {
	return fsutil.SanitizeNameASCII(p.Product.Name)
}

// DownloadPageURL returns the authenticated product detail page URL.
func (p ProductRecord) DownloadPageURL() string {
	return p.Purchase.DownloadURL
}

// CreatorName returns the creator's display name, falling back to the creator
// id when the creator block is absent.
func (p ProductRecord) CreatorName() string {
	if p.Product.Creator != nil {
		return p.Product.Creator.Name
	}
	logger.Warnf("The creator with ID %s for product %q has no name", p.Product.CreatorID, p.Name())
	return fmt.Sprintf("[id %s]", p.Product.CreatorID)
}

// CreatorProfileURL returns the creator's public profile URL, or "" when the
// creator block is absent.
func (p ProductRecord) CreatorProfileURL() string {
	if p.Product.Creator == nil {
		return ""
	}
	return p.Product.Creator.ProfileURL
}

// CreatorDirName returns the directory component identifying the creator.
// Creator names can have any length and any kind of wacky unicode characters,
// so the creator's sub-domain is preferred, with the display name as fallback.
func (p ProductRecord) CreatorDirName() string {
	var dirName string
	if p.Product.Creator != nil {
		if m := subdomainPattern.FindStringSubmatch(p.Product.Creator.ProfileURL); m != nil {
			dirName = m[1]
		} else {
			logger.Warnf("Was unable to find the creator sub-domain in URL %s", p.Product.Creator.ProfileURL)
		}
	}
	if dirName == "" {
		dirName = p.CreatorName()
	}
	return fsutil.SanitizeNameASCII(dirName)
}

// CreatorProductPath returns the relative directory for the product,
// <creator>/<product>, both sanitized.
func (p ProductRecord) CreatorProductPath() string {
	return filepath.Join(p.CreatorDirName(), p.SanitizedName())
}

// ContentItemRecord is one purchasable file belonging to a product. Its id is
// stable and distinct from the display file name, so it is used as the local
// directory name; two items sharing a display name cannot collide.
type ContentItemRecord struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	FileName        string `json:"file_name"`
	FileSize        int64  `json:"file_size"`
	Extension       string `json:"extension"`
	DownloadURL     string `json:"download_url"`
	ExternalLinkURL string `json:"external_link_url"`
}

// IsFile reports whether the item is a downloadable file. No other type has
// been observed so far.
func (c ContentItemRecord) IsFile() bool {
	return c.Type == "file"
}

// SanitizedFileName returns the display file name with a minimal amount of
// sanitization. If the creator uploaded the file under its own name this
// should be a no-op.
func (c ContentItemRecord) SanitizedFileName() string {
	return fsutil.SanitizeFileName(c.FileName)
}

// FullDownloadURL resolves the platform-relative download URL against the
// platform base. Returns "" when the item has no download URL.
func (c ContentItemRecord) FullDownloadURL(baseURL string) string {
	if c.DownloadURL == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + c.DownloadURL
}

// IsPlatformURL reports whether rawURL's host belongs to the given platform
// domain (the domain itself or any subdomain of it).
func IsPlatformURL(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == domain || strings.HasSuffix(host, "."+domain)
}
