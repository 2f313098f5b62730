// Package page extracts the embedded JSON metadata blocks from the platform's
// HTML pages and exposes them as typed records.
//
// Each relevant page carries exactly one <script class="js-react-on-rails-component">
// element whose data-component-name identifies the block. Anything other than
// exactly one match means the remote page structure no longer matches
// assumptions, which is fatal.
package page

import (
	"bytes"
	"encoding/json"
	"strings"

	"golang.org/x/net/html"

	"github.com/packentu/gumarchive/pkg/errors"
)

const (
	componentClass   = "js-react-on-rails-component"
	libraryComponent = "LibraryPage"
	productComponent = "DownloadPageWithContent"
)

// extractComponentJSON returns the text of the single metadata script block
// with the given component name.
func extractComponentJSON(pageHTML []byte, componentName string) (string, error) {
	doc, err := html.Parse(bytes.NewReader(pageHTML))
	if err != nil {
		return "", errors.Wrap(err, "failed to parse page HTML")
	}

	var blocks []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && isComponentScript(n, componentName) {
			blocks = append(blocks, scriptText(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(blocks) != 1 {
		return "", errors.Wrapf(errors.ErrParse, "found %d %s blocks, expected 1", len(blocks), componentName)
	}
	return blocks[0], nil
}

func isComponentScript(n *html.Node, componentName string) bool {
	var hasClass, hasComponent bool
	for _, attr := range n.Attr {
		switch attr.Key {
		case "class":
			for _, class := range strings.Fields(attr.Val) {
				if class == componentClass {
					hasClass = true
				}
			}
		case "data-component-name":
			hasComponent = attr.Val == componentName
		}
	}
	return hasClass && hasComponent
}

func scriptText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// formatJSON pretty-prints a raw JSON document with 2-space indentation,
// leaving non-ASCII characters unescaped.
func formatJSON(raw string) (string, error) {
	var value interface{}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return "", errors.Wrap(errors.ErrParse, err.Error())
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return "", errors.Wrap(err, "failed to format JSON")
	}
	return buf.String(), nil
}
