package receipt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/money"
)

var (
	// ErrUnrecognizedFormat means the document matches neither known
	// receipt layout. The document is skipped and the run continues.
	ErrUnrecognizedFormat = errors.New("document matches no known receipt layout")

	// ErrNoContent means the document has no line items and no HTML body
	// at all. The document is skipped and the run continues.
	ErrNoContent = errors.New("document has no extractable content")
)

// balanceTopUpPrefix marks line items that function as credits even though
// the vendor prints their price unsigned.
const balanceTopUpPrefix = "Money added to"

// canonicalTitles remaps known vendor-naming inconsistencies.
var canonicalTitles = map[string]string{
	"Premier (Automatic Renewal)": "Apple One Premier",
	"Premier":                     "Apple One Premier",
}

// layout is one known receipt template. A document is routed to the first
// layout whose marker selector is present; each layout implements the same
// extraction contract.
type layout struct {
	name    string
	marker  string
	extract func(doc *goquery.Document, fields *Fields, diags *Diagnostics)
}

var layouts = []layout{
	{name: "legacy", marker: legacyMarker, extract: extractLegacy},
	{name: "current", marker: modernMarker, extract: extractModern},
}

// Extract parses one document's markup into raw receipt fields. Fields with
// no located value are left empty rather than failing the document; only a
// document with no recognizable layout, or with neither line items nor any
// body text, is rejected outright.
func Extract(markup string) (*Fields, *Diagnostics, error) {
	diags := &Diagnostics{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, diags, fmt.Errorf("parsing document markup: %w", err)
	}

	for _, l := range layouts {
		if doc.Find(l.marker).Length() == 0 {
			continue
		}

		fields := &Fields{}
		l.extract(doc, fields, diags)
		negateBalanceTopUps(fields)

		if len(fields.Items) == 0 && strings.TrimSpace(doc.Find("body").Text()) == "" {
			return nil, diags, ErrNoContent
		}
		return fields, diags, nil
	}

	return nil, diags, ErrUnrecognizedFormat
}

func negateBalanceTopUps(fields *Fields) {
	for i := range fields.Items {
		if strings.HasPrefix(fields.Items[i].Title, balanceTopUpPrefix) {
			fields.Items[i].Price = fields.Items[i].Price.Neg()
		}
	}
}

func canonicalTitle(title string) string {
	if canonical, ok := canonicalTitles[title]; ok {
		return canonical
	}
	return title
}

// parseAmount parses the last whitespace-delimited token of text as a
// monetary amount. Empty text yields zero without a diagnostic; malformed
// text yields zero with a field-parse diagnostic.
func parseAmount(text, field string, diags *Diagnostics) money.Amount {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return money.Zero()
	}

	a, err := money.Parse(tokens[len(tokens)-1])
	if err != nil {
		diags.Errorf(CodeFieldParse, "parsing %s amount: %v", field, err)
		return money.Zero()
	}
	return a
}

// lastTextNode returns the final non-blank text node within the selection,
// in document order.
func lastTextNode(s *goquery.Selection) string {
	var last string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			last = n.Data
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return last
}

// leafCells returns the table cells matched by the predicate that do not
// contain a nested matching cell, so label lookups land on the innermost
// table of Apple's deeply nested layouts.
func leafCells(root *goquery.Selection, match func(*goquery.Selection) bool) *goquery.Selection {
	return root.Find("td").FilterFunction(func(_ int, cell *goquery.Selection) bool {
		if !match(cell) {
			return false
		}
		nested := cell.Find("td").FilterFunction(func(_ int, inner *goquery.Selection) bool {
			return match(inner)
		})
		return nested.Length() == 0
	})
}
