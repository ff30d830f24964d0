package console

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/alfredjeanlab/sankalp/internal/model"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount formats n as rupees with digit grouping and at most two
// decimals.
func FormatAmount(n model.Number) string {
	return "₹" + printer.Sprint(number.Decimal(n.Float(), number.MaxFractionDigits(2)))
}
