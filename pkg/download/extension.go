package download

import "mime"

// preferredExtensions pins the extension used for content types with several
// registered ones, so repeated runs always resolve the same file name.
var preferredExtensions = map[string]string{
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"application/pdf": ".pdf",
	"application/zip": ".zip",
	"text/html":       ".html",
	"text/plain":      ".txt",
}

// resolveExtension returns the extension (with leading dot) for a resource.
// An explicit extension always wins; otherwise the extension is derived from
// the content type. Unknown or generic content types yield no extension.
func resolveExtension(explicit, contentType string) string {
	if explicit != "" {
		return "." + explicit
	}
	if contentType == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	if mediaType == "application/octet-stream" {
		return ""
	}
	if ext, ok := preferredExtensions[mediaType]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
