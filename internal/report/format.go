// Package report renders an assessment for people: a text report with a bar
// chart of the location comparison, a JSON document, and the model
// assumptions shown next to every result.
package report

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Number formats v with thousands separators and the given decimals
// (e.g., Number(1755, 1) == "1,755.0").
func Number(v float64, decimals int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// Plain formats v with the shortest representation (e.g., 210, 1.35).
func Plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
