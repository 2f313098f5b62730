package model

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPlatformURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		domain   string
		expected bool
	}{
		{
			name:     "platform apex domain",
			url:      "https://gumroad.com/d/abc",
			domain:   "gumroad.com",
			expected: true,
		},
		{
			name:     "platform subdomain",
			url:      "https://app.gumroad.com/r/xyz",
			domain:   "gumroad.com",
			expected: true,
		},
		{
			name:     "foreign host",
			url:      "https://www.youtube.com/watch?v=abc",
			domain:   "gumroad.com",
			expected: false,
		},
		{
			name:     "lookalike host",
			url:      "https://notgumroad.com/d/abc",
			domain:   "gumroad.com",
			expected: false,
		},
		{
			name:     "relative url has no host",
			url:      "/d/abc",
			domain:   "gumroad.com",
			expected: false,
		},
		{
			name:     "unparseable url",
			url:      "://",
			domain:   "gumroad.com",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsPlatformURL(tt.url, tt.domain))
		})
	}
}

func TestCoverRecord(t *testing.T) {
	cover := CoverRecord{
		ID:          "cov-123",
		URL:         "https://public-files.gumroad.com/optimized.png",
		OriginalURL: "https://public-files.gumroad.com/original.png",
		Type:        "image",
		FileType:    "png",
	}

	assert.Equal(t, "https://public-files.gumroad.com/original.png", cover.DownloadURL())
	assert.False(t, cover.IsExternal("gumroad.com"))

	name, ext := cover.FileNameAndExtension()
	assert.Equal(t, "cov-123", name)
	assert.Equal(t, "png", ext)

	embed := CoverRecord{ID: "cov-yt", OriginalURL: "https://youtube.com/watch?v=x", Type: "oembed"}
	assert.True(t, embed.IsExternal("gumroad.com"))
}

func TestProductRecord_CreatorDirName(t *testing.T) {
	tests := []struct {
		name     string
		product  ProductRecord
		expected string
	}{
		{
			name: "subdomain from profile url",
			product: ProductRecord{Product: ProductSummary{
				Name:    "Some Product",
				Creator: &CreatorRecord{Name: "Wacky ★ Creator", ProfileURL: "https://wacky.gumroad.com/"},
			}},
			expected: "wacky",
		},
		{
			name: "fallback to creator name when no subdomain",
			product: ProductRecord{Product: ProductSummary{
				Name:    "Some Product",
				Creator: &CreatorRecord{Name: "Plain Creator", ProfileURL: "no-subdomain-here"},
			}},
			expected: "Plain Creator",
		},
		{
			name: "fallback to creator id when creator block absent",
			product: ProductRecord{Product: ProductSummary{
				Name:      "Some Product",
				CreatorID: "4711",
			}},
			expected: "[id 4711]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.product.CreatorDirName())
		})
	}
}

func TestProductRecord_CreatorProductPath(t *testing.T) {
	product := ProductRecord{Product: ProductSummary{
		Name:    "Mega Pack: Vol/2",
		Creator: &CreatorRecord{Name: "Somebody", ProfileURL: "https://somebody.gumroad.com/"},
	}}

	assert.Equal(t, filepath.Join("somebody", "Mega Pack Vol2"), product.CreatorProductPath())
}

func TestContentItemRecord(t *testing.T) {
	raw := `{
		"id": "item-1",
		"type": "file",
		"file_name": "big/model.blend",
		"file_size": 12345,
		"extension": "blend",
		"download_url": "/r/deadbeef",
		"external_link_url": null
	}`

	var item ContentItemRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &item))

	assert.True(t, item.IsFile())
	assert.Equal(t, "bigmodel.blend", item.SanitizedFileName())
	assert.Equal(t, int64(12345), item.FileSize)
	assert.Empty(t, item.ExternalLinkURL)
	assert.Equal(t, "https://app.gumroad.com/r/deadbeef", item.FullDownloadURL("https://app.gumroad.com"))
	assert.Equal(t, "https://app.gumroad.com/r/deadbeef", item.FullDownloadURL("https://app.gumroad.com/"))
}

func TestContentItemRecord_NoDownloadURL(t *testing.T) {
	item := ContentItemRecord{ID: "item-2", Type: "file", ExternalLinkURL: "https://drive.example.com/x"}
	assert.Empty(t, item.FullDownloadURL("https://app.gumroad.com"))
}

func TestProductRecord_LibraryJSONShape(t *testing.T) {
	raw := `{
		"product": {
			"name": "Asset Pack",
			"creator_id": "c1",
			"creator": {"name": "Maker", "profile_url": "https://maker.gumroad.com/"},
			"thumbnail_url": "https://public-files.gumroad.com/thumb.png",
			"updated_at": "2024-01-02T03:04:05Z",
			"covers": [{"id": "cov1", "original_url": "https://public-files.gumroad.com/c.png", "type": "image", "filetype": "png"}]
		},
		"purchase": {"download_url": "https://app.gumroad.com/d/abc"}
	}`

	var product ProductRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &product))

	assert.Equal(t, "Asset Pack", product.Name())
	assert.Equal(t, "Maker", product.CreatorName())
	assert.Equal(t, "https://app.gumroad.com/d/abc", product.DownloadPageURL())
	require.Len(t, product.Product.Covers, 1)
	assert.Equal(t, "cov1", product.Product.Covers[0].ID)
}
