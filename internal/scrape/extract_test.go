package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

const structuredPage = `<html><head>
<script type="application/ld+json">
{"@type":"ItemList","itemListElement":[
  {"position":1,"item":{"title":"squid game","rank":1}},
  {"position":2,"item":{"title":"SQUID GAME","tags":["title","drama"]}},
  {"position":3,"item":{"title":"the night agent","meta":{"title":"wednesday"}}}
]}
</script>
</head><body><img alt="Ignored Because Structured Wins"></body></html>`

func TestStructuredTitles(t *testing.T) {
	titles := StructuredTitles(parse(t, structuredPage))
	assert.Equal(t, []string{"Squid Game", "The Night Agent", "Wednesday"}, titles)
}

func TestStructuredTitles_NextData(t *testing.T) {
	page := `<html><body><script id="__NEXT_DATA__" type="application/json">` +
		`{"props":{"pageProps":{"rows":[{"title":"Dark"},{"title":"Ozark"},{"name":"not a title"}]}}}` +
		`</script></body></html>`
	assert.Equal(t, []string{"Dark", "Ozark"}, StructuredTitles(parse(t, page)))
}

func TestStructuredTitles_BrokenBlockIgnored(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{"title": "Half", </script>
<script type="application/ld+json">{"title": "whole"}</script>
</head></html>`
	assert.Equal(t, []string{"Whole"}, StructuredTitles(parse(t, page)))
}

const fallbackPage = `<html><head><title>Netflix Top 10</title></head><body>
<h1>Top 10 TV</h1>
<img alt="Wednesday" src="a.jpg">
<h3>Wednesday</h3>
<img alt="Ok">
<div aria-label="The Night Agent"><span>x</span></div>
<h2> Squid
   Game </h2>
<script>var title = "nope";</script>
<a title="Dark">link</a>
</body></html>`

func TestDescriptiveTitles(t *testing.T) {
	titles := DescriptiveTitles(parse(t, fallbackPage))
	assert.Equal(t, []string{"Wednesday", "The Night Agent", "Squid Game", "Dark"}, titles)
}

func TestExtract_FallsBackWhenStructuredEmpty(t *testing.T) {
	titles, strategy := Extract(parse(t, fallbackPage), DefaultStrategies)
	assert.Equal(t, "descriptive", strategy)
	assert.Equal(t, "Wednesday", titles[0])

	titles, strategy = Extract(parse(t, structuredPage), DefaultStrategies)
	assert.Equal(t, "structured", strategy)
	assert.Len(t, titles, 3)
}

func TestExtract_Nothing(t *testing.T) {
	titles, strategy := Extract(parse(t, `<html><body><p>hi</p></body></html>`), DefaultStrategies)
	assert.Empty(t, titles)
	assert.Equal(t, "", strategy)
}
