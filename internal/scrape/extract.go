package scrape

import (
	"encoding/json"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Strategy extracts ranked titles from a parsed page.
// An empty result means the strategy found nothing usable.
type Strategy struct {
	Name    string
	Extract func(doc *goquery.Document) []string
}

// DefaultStrategies are tried in order; the first non-empty result wins.
var DefaultStrategies = []Strategy{
	{Name: "structured", Extract: StructuredTitles},
	{Name: "descriptive", Extract: DescriptiveTitles},
}

// Extract runs the strategies in order and returns the first non-empty result
// together with the name of the strategy that produced it.
func Extract(doc *goquery.Document, strategies []Strategy) ([]string, string) {
	for _, st := range strategies {
		if titles := st.Extract(doc); len(titles) > 0 {
			return titles, st.Name
		}
	}
	return nil, ""
}

const structuredSelector = `script[type="application/ld+json"], script#__NEXT_DATA__`

// StructuredTitles reads embedded JSON data blocks and returns every string
// stored under a "title" key, title-cased and deduplicated case-insensitively.
// Blocks that fail to parse are ignored.
func StructuredTitles(doc *goquery.Document) []string {
	caser := cases.Title(language.Und)
	seen := map[string]bool{}
	titles := []string{}

	doc.Find(structuredSelector).Each(func(_ int, s *goquery.Selection) {
		raw, err := jsonTitles(s.Text())
		if err != nil {
			return
		}
		for _, t := range raw {
			t = caser.String(strings.TrimSpace(t))
			key := strings.ToLower(t)
			if t == "" || seen[key] {
				continue
			}
			seen[key] = true
			titles = append(titles, t)
		}
	})

	return titles
}

// jsonTitles walks a JSON document token by token so values come out in
// document order, which a map decode would lose.
func jsonTitles(data string) ([]string, error) {
	type frame struct {
		object    bool
		expectKey bool
		key       string
	}

	dec := json.NewDecoder(strings.NewReader(data))
	var stack []*frame
	var titles []string

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		var top *frame
		if len(stack) > 0 {
			top = stack[len(stack)-1]
		}

		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				if top != nil && top.object {
					top.expectKey = true
				}
				stack = append(stack, &frame{object: t == '{', expectKey: t == '{'})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
			}
		case string:
			if top != nil && top.object && top.expectKey {
				top.key = t
				top.expectKey = false
				continue
			}
			if top != nil && top.object {
				if top.key == "title" {
					titles = append(titles, t)
				}
				top.expectKey = true
			}
		default:
			if top != nil && top.object {
				top.expectKey = true
			}
		}
	}
	if len(stack) > 0 {
		return nil, io.ErrUnexpectedEOF
	}

	return titles, nil
}

var descriptiveAttrs = map[string]bool{
	"alt":        true,
	"title":      true,
	"aria-label": true,
}

var headingAtoms = map[atom.Atom]bool{
	atom.H2: true,
	atom.H3: true,
	atom.H4: true,
}

// DescriptiveTitles is the unstructured fallback. It walks the DOM in document
// order collecting descriptive attribute values and heading text, keeping the
// first occurrence of every distinct string longer than two characters.
func DescriptiveTitles(doc *goquery.Document) []string {
	seen := map[string]bool{}
	titles := []string{}

	add := func(s string) {
		s = strings.Join(strings.Fields(s), " ")
		if utf8.RuneCountInString(s) <= 2 || seen[s] {
			return
		}
		seen[s] = true
		titles = append(titles, s)
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			}
			for _, a := range n.Attr {
				if descriptiveAttrs[a.Key] {
					add(a.Val)
				}
			}
			if headingAtoms[n.DataAtom] {
				add(nodeText(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc.Nodes {
		walk(n)
	}

	return titles
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
