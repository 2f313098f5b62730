package page

import (
	"encoding/json"

	"github.com/packentu/gumarchive/pkg/errors"
	"github.com/packentu/gumarchive/pkg/model"
)

// Library is the parsed metadata block of the authenticated library listing
// page. It enumerates every purchased product.
type Library struct {
	rawJSON string
	data    libraryData
}

type libraryData struct {
	Results []model.ProductRecord `json:"results"`
}

// LibraryFromPageBytes extracts the library metadata block from the listing
// page HTML.
func LibraryFromPageBytes(pageHTML []byte) (*Library, error) {
	raw, err := extractComponentJSON(pageHTML, libraryComponent)
	if err != nil {
		return nil, err
	}
	return LibraryFromRawJSON(raw)
}

// LibraryFromRawJSON builds a Library from a previously persisted raw JSON
// block.
func LibraryFromRawJSON(raw string) (*Library, error) {
	var data libraryData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, errors.Wrap(errors.ErrParse, err.Error())
	}
	return &Library{rawJSON: raw, data: data}, nil
}

// RawJSON returns the metadata block exactly as found in the page.
func (l *Library) RawJSON() string {
	return l.rawJSON
}

// FormattedJSON returns the metadata block pretty-printed for diffing.
func (l *Library) FormattedJSON() (string, error) {
	return formatJSON(l.rawJSON)
}

// Products returns the purchased products in listing order.
func (l *Library) Products() []model.ProductRecord {
	return l.data.Results
}
