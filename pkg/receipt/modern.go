package receipt

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// modernMarker anchors the current layout. The payment information
// container only appears in the newer template, so its presence doubles as
// the layout detection marker.
const modernMarker = "div.payment-information"

// Identifier and summary fields follow a "label paragraph, then value
// paragraph" structure in the current layout.
type modernParagraphRule struct {
	kind  fieldKind
	label string
}

var modernIdentifierRules = []modernParagraphRule{
	{kind: fieldOrderID, label: "Order ID:"},
	{kind: fieldVendorAccount, label: "Apple Account:"},
}

// appleTVTitle is printed without a distinguishing product name; the
// duration line carries the real one.
const appleTVTitle = "Apple TV"

func extractModern(doc *goquery.Document, fields *Fields, diags *Diagnostics) {
	paragraphs := doc.Find("p")
	for _, rule := range modernIdentifierRules {
		fields.setIdentifier(rule.kind, nextParagraphValue(paragraphs, rule.label))
	}

	items := newItemList()
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		// An item row's second cell holds title, duration and renewal
		// paragraphs, in that order. Anything else is layout chrome.
		ps := cells.Eq(1).Find("p")
		if ps.Length() < 3 {
			return
		}

		title := strings.TrimSpace(ps.Eq(0).Text())
		duration := strings.TrimSpace(ps.Eq(1).Text())
		if title == "" {
			return
		}
		if title == appleTVTitle && duration != "" {
			title = duration
		}

		items.add(LineItem{
			Title:       canonicalTitle(title),
			Duration:    duration,
			RenewalNote: strings.TrimSpace(ps.Eq(2).Text()),
			Price:       parseAmount(cells.Last().Text(), "item price", diags),
		})
	})
	fields.Items = items.items

	payment := doc.Find(modernMarker).First()
	paymentParagraphs := payment.Find("p")
	fields.Subtotal = parseAmount(nextParagraphValue(paymentParagraphs, "Subtotal"), "Subtotal", diags)
	fields.Tax = parseAmount(nextParagraphValue(paymentParagraphs, "Tax"), "Tax", diags)

	// The total's label varies by payment method, so it is located
	// structurally: the div immediately after the separator rule.
	totalDiv := payment.Find("hr").First().NextFiltered("div").First()
	if totalDiv.Length() > 0 {
		fields.Total = parseAmount(totalDiv.Text(), "Total", diags)
	}
}

// nextParagraphValue finds the paragraph whose text starts with label and
// returns the following paragraph's trimmed text.
func nextParagraphValue(paragraphs *goquery.Selection, label string) string {
	value := ""
	paragraphs.EachWithBreak(func(i int, p *goquery.Selection) bool {
		if !strings.HasPrefix(strings.TrimSpace(p.Text()), label) {
			return true
		}
		if i+1 < paragraphs.Length() {
			value = strings.TrimSpace(paragraphs.Eq(i + 1).Text())
		}
		return false
	})
	return value
}
