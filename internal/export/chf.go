package export

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var chfPrinter = message.NewPrinter(language.MustParse("de-CH"))

// CHF renders an amount in Swiss francs with the de-CH digit grouping,
// rounded to whole francs.
func CHF(amount float64) string {
	return chfPrinter.Sprintf("CHF %.0f", amount)
}
