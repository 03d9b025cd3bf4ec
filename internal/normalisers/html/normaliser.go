package html

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// NormaliseFile reads and normalises an HTML file from disk.
func (n *Normaliser) NormaliseFile(ctx context.Context, path string) (*domain.ParsedDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := n.NormaliseString(ctx, string(raw), filepath.Base(path))
	if err != nil {
		return nil, err
	}
	doc.FilePath = path

	return doc, nil
}

// NormaliseString normalises in-memory HTML. filename is recorded on the
// document and supplies the title fallback; FilePath is left empty.
func (n *Normaliser) NormaliseString(_ context.Context, rawHTML, filename string) (*domain.ParsedDocument, error) {
	title := extractTitle(rawHTML, filename)
	content := stripHTML(rawHTML)

	return &domain.ParsedDocument{
		Title:    title,
		Content:  content,
		Filename: filename,
	}, nil
}

// Pre-compiled regular expressions for HTML parsing performance.
var (
	titleTag     = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag  = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag       = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	navTag       = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	headerTag    = regexp.MustCompile(`(?is)<header[^>]*>.*?</header>`)
	footerTag    = regexp.MustCompile(`(?is)<footer[^>]*>.*?</footer>`)
	asideTag     = regexp.MustCompile(`(?is)<aside[^>]*>.*?</aside>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockBreaks  = regexp.MustCompile(`(?i)</?(p|div|br|hr|h[1-6]|li|ul|ol|tr|td|th|blockquote|pre|table|section|article)[^>]*>`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// extractTitle takes the <title> tag content or falls back to the
// filename with its extension removed.
func extractTitle(content, filename string) string {
	matches := titleTag.FindStringSubmatch(content)
	if len(matches) > 1 {
		title := strings.TrimSpace(html.UnescapeString(matches[1]))
		if title != "" {
			return title
		}
	}

	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// stripHTML removes non-content elements and tags, decodes entities, and
// flattens all whitespace to single spaces. Embedding and retrieval work
// on token proximity, so line structure carries no value here.
func stripHTML(content string) string {
	// Remove elements whose text is never document content
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")

	// Remove page chrome: navigation, headers, footers, sidebars
	content = navTag.ReplaceAllString(content, "")
	content = headerTag.ReplaceAllString(content, "")
	content = footerTag.ReplaceAllString(content, "")
	content = asideTag.ReplaceAllString(content, "")

	content = htmlComments.ReplaceAllString(content, "")

	// Separate block-level content so adjacent blocks don't run together
	content = blockBreaks.ReplaceAllString(content, " ")

	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	return strings.TrimSpace(whitespace.ReplaceAllString(content, " "))
}
