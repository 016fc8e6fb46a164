// Package testutil provides helpers for asserting against rendered HTML.
package testutil

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses the provided HTML payload into a goquery document.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// ItemIDs reads back the data-item-id attribute of every element matching
// selector, in document order.
func ItemIDs(t testing.TB, doc *goquery.Document, selector string) []int {
	t.Helper()

	var ids []int
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		raw, ok := sel.Attr("data-item-id")
		if !ok {
			t.Fatalf("element matching %q has no data-item-id", selector)
		}
		id, err := strconv.Atoi(raw)
		if err != nil {
			t.Fatalf("data-item-id %q is not an integer", raw)
		}
		ids = append(ids, id)
	})
	return ids
}
