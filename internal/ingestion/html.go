package ingestion

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ArticleContentSelector is the container holding the body of an
// encyclopedia article.
const ArticleContentSelector = "#mw-content-text"

// ArticleBoilerplateSelectors lists the navigation boxes, reference lists,
// footers and info panels removed before the article text is read.
func ArticleBoilerplateSelectors() []string {
	return []string{
		".navbox",
		".reflist",
		".navigation-not-searchable",
		".printfooter",
		".infobox",
	}
}

// ExtractArticleText strips boilerplate from an HTML article and returns the
// trimmed text of its content container. A page without the container
// yields "" and no error.
func ExtractArticleText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", &ExtractionError{Format: "html", Message: "failed to parse document", Cause: err}
	}

	doc.Find(strings.Join(ArticleBoilerplateSelectors(), ", ")).Remove()

	content := doc.Find(ArticleContentSelector)
	if content.Length() == 0 {
		return "", nil
	}

	return strings.TrimSpace(content.First().Text()), nil
}
