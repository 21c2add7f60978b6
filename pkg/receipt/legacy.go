package receipt

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/th-in-gs/IMAPAppleReceiptsToOFX/pkg/money"
)

// legacyMarker anchors the older desktop-oriented table layout.
const legacyMarker = "div.aapl-desktop-div"

// Identifier fields sit in a labelled table cell; the value is the last
// whitespace-delimited token of the cell's final text node. The rules are
// data so layout drift stays a data change, not a code change.
type legacyIdentifierRule struct {
	kind        fieldKind
	label       *regexp.Regexp
	wantMailbox bool
}

var legacyIdentifierRules = []legacyIdentifierRule{
	// The vendor separates label words with non-breaking spaces, which Go's
	// \s does not cover.
	{kind: fieldVendorAccount, label: regexp.MustCompile(`(?i)APPLE[\s\p{Zs}]+(ACCOUNT|ID)`), wantMailbox: true},
	{kind: fieldOrderID, label: regexp.MustCompile(`(?i)ORDER[\s\p{Zs}]+ID`)},
}

// Summary amounts sit in a row whose label cell's exact trimmed text equals
// the label; the amount is in the row's final cell.
type legacySummaryRule struct {
	kind  summaryKind
	label string
}

var legacySummaryRules = []legacySummaryRule{
	{kind: summarySubtotal, label: "Subtotal"},
	{kind: summaryTax, label: "Tax"},
	{kind: summaryTotal, label: "Total"},
}

func extractLegacy(doc *goquery.Document, fields *Fields, diags *Diagnostics) {
	container := doc.Find(legacyMarker).First()

	for _, rule := range legacyIdentifierRules {
		fields.setIdentifier(rule.kind, legacyIdentifier(container, rule, diags))
	}

	items := newItemList()
	container.Find("a.item-links").Each(func(_ int, link *goquery.Selection) {
		cell := link.Closest("td")
		if cell.Length() == 0 {
			return
		}

		title := strings.TrimSpace(cell.Find("span.title").First().Text())
		if title == "" {
			return
		}

		item := LineItem{
			Title:       canonicalTitle(title),
			Duration:    strings.TrimSpace(cell.Find("span.duration").First().Text()),
			RenewalNote: strings.TrimSpace(cell.Find("span.renewal").First().Text()),
		}

		if row := cell.Closest("tr"); row.Length() > 0 {
			item.Price = parseAmount(row.Find("td").Last().Text(), "item price", diags)
		}

		items.add(item)
	})
	fields.Items = items.items

	for _, rule := range legacySummaryRules {
		fields.setSummary(rule.kind, legacySummaryAmount(container, rule.label, diags))
	}
}

// legacyIdentifier locates the labelled cell and takes the last token of
// its final text node. An identifier with internal whitespace is a parse
// error for that field, not a fatal failure.
func legacyIdentifier(container *goquery.Selection, rule legacyIdentifierRule, diags *Diagnostics) string {
	cell := leafCells(container, func(s *goquery.Selection) bool {
		return rule.label.MatchString(s.Text())
	}).First()
	if cell.Length() == 0 {
		return ""
	}

	tokens := strings.Fields(lastTextNode(cell))
	if len(tokens) == 0 {
		diags.Errorf(CodeFieldParse, "label %q has no value text", rule.label)
		return ""
	}

	value := tokens[len(tokens)-1]
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		diags.Errorf(CodeFieldParse, "parsed identifier contains whitespace: %q", value)
		return ""
	}
	if rule.wantMailbox && !strings.Contains(value, "@") {
		diags.Errorf(CodeFieldParse, "parsed identifier is not a mailbox: %q", value)
		return ""
	}
	return value
}

func legacySummaryAmount(container *goquery.Selection, label string, diags *Diagnostics) money.Amount {
	cell := leafCells(container, func(s *goquery.Selection) bool {
		return strings.EqualFold(strings.TrimSpace(s.Text()), label)
	}).First()
	if cell.Length() == 0 {
		return money.Zero()
	}

	row := cell.Closest("tr")
	if row.Length() == 0 {
		return money.Zero()
	}
	return parseAmount(row.Find("td").Last().Text(), label, diags)
}
