package ingestion

import (
	"strings"
	"testing"

	"github.com/outliers/druknation/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractArticleText_StripsBoilerplate(t *testing.T) {
	html := testutil.ArticleHTML(`<p>The law of Bhutan derives from the Tsa Yig.</p>
<p>The Constitution was adopted in 2008.</p>`)

	text, err := ExtractArticleText(html)
	require.NoError(t, err)

	assert.Contains(t, text, "Tsa Yig")
	assert.Contains(t, text, "adopted in 2008")
	for _, noise := range []string{"Infobox panel", "Reference list", "Navigation box", "Retrieved from footer"} {
		assert.NotContains(t, text, noise)
	}
	// Outside the content container.
	assert.NotContains(t, text, "Main menu")
	assert.NotContains(t, text, "Page footer")
}

func TestExtractArticleText_Trimmed(t *testing.T) {
	html := `<html><body><div id="mw-content-text">

	   Royal Court of Justice

	</div></body></html>`

	text, err := ExtractArticleText(html)
	require.NoError(t, err)
	assert.Equal(t, "Royal Court of Justice", text)
}

func TestExtractArticleText_MissingContainer(t *testing.T) {
	html := `<html><body><main><p>Some unrelated page</p></main></body></html>`

	text, err := ExtractArticleText(html)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractArticleText_EmptyInput(t *testing.T) {
	text, err := ExtractArticleText("")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractArticleText_NestedBoilerplate(t *testing.T) {
	html := `<div id="mw-content-text"><div class="mw-parser-output">
<p>Judiciary</p>
<div class="navbox"><div class="navbox">Inner nav</div></div>
<ol class="references"><li>Kept reference text</li></ol>
</div></div>`

	text, err := ExtractArticleText(html)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Judiciary"))
	assert.NotContains(t, text, "Inner nav")
	assert.Contains(t, text, "Kept reference text")
}

func TestArticleBoilerplateSelectors(t *testing.T) {
	selectors := ArticleBoilerplateSelectors()
	assert.Contains(t, selectors, ".navbox")
	assert.Contains(t, selectors, ".reflist")
	assert.Contains(t, selectors, ".navigation-not-searchable")
	assert.Contains(t, selectors, ".printfooter")
	assert.Contains(t, selectors, ".infobox")
}
