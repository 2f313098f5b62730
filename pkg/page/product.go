package page

import (
	"encoding/json"

	"github.com/packentu/gumarchive/internal/logger"
	"github.com/packentu/gumarchive/pkg/errors"
	"github.com/packentu/gumarchive/pkg/model"
)

// Product is the parsed metadata block of a product's own detail page. Unlike
// the library listing, it carries the authoritative content-item list.
type Product struct {
	rawJSON string
	data    productData
}

type productData struct {
	Purchase struct {
		ProductName    string `json:"product_name"`
		ProductLongURL string `json:"product_long_url"`
		CreatedAt      string `json:"created_at"`
	} `json:"purchase"`
	Content struct {
		ContentItems []model.ContentItemRecord `json:"content_items"`
	} `json:"content"`
}

// ProductFromPageBytes extracts the product metadata block from the detail
// page HTML.
func ProductFromPageBytes(pageHTML []byte) (*Product, error) {
	raw, err := extractComponentJSON(pageHTML, productComponent)
	if err != nil {
		return nil, err
	}
	return ProductFromRawJSON(raw)
}

// ProductFromRawJSON builds a Product from a previously persisted raw JSON
// block.
func ProductFromRawJSON(raw string) (*Product, error) {
	var data productData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, errors.Wrap(errors.ErrParse, err.Error())
	}
	return &Product{rawJSON: raw, data: data}, nil
}

// RawJSON returns the metadata block exactly as found in the page.
func (p *Product) RawJSON() string {
	return p.rawJSON
}

// FormattedJSON returns the metadata block pretty-printed for diffing.
func (p *Product) FormattedJSON() (string, error) {
	return formatJSON(p.rawJSON)
}

// Name returns the product name as stated on the detail page. It should match
// the library listing but has been observed to drift.
func (p *Product) Name() string {
	return p.data.Purchase.ProductName
}

// StorePageURL returns the public-facing store page for the product.
func (p *Product) StorePageURL() string {
	return p.data.Purchase.ProductLongURL
}

// PurchaseDate returns the purchase timestamp as reported by the platform.
func (p *Product) PurchaseDate() string {
	return p.data.Purchase.CreatedAt
}

// ContentItems returns the product's downloadable file items. Non-file
// content is logged and dropped.
func (p *Product) ContentItems() []model.ContentItemRecord {
	items := make([]model.ContentItemRecord, 0, len(p.data.Content.ContentItems))
	for _, item := range p.data.Content.ContentItems {
		if !item.IsFile() {
			logger.Critical("Content item is not a file", logger.Fields{
				"file": item.FileName,
				"type": item.Type,
			})
			continue
		}
		if item.ExternalLinkURL != "" {
			logger.Warnf("Download %q has an external link %s", item.FileName, item.ExternalLinkURL)
		}
		items = append(items, item)
	}
	return items
}
