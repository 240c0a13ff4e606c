package chart

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Formatter renders label text. Chart code never formats numbers itself.
type Formatter interface {
	Value(v float64) string
	Percent(fraction float64) string
}

// HumanFormatter groups thousands and trims trailing zeros.
type HumanFormatter struct {
	Prefix   string
	Decimals int
}

func (f HumanFormatter) Value(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + f.Prefix + humanize.CommafWithDigits(v, f.Decimals)
}

func (f HumanFormatter) Percent(fraction float64) string {
	if math.IsNaN(fraction) {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", fraction*100)
}

var defaultFormatter Formatter = HumanFormatter{Decimals: 2}
