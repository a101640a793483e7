package finance

import "strings"

// Simplified flat estimates, in percent.
var countryTaxRates = map[string]float64{
	"us": 25,
	"ca": 30,
	"uk": 20,
	"au": 32,
}

const DefaultTaxRatePct = 25

// CountryTaxRate returns the estimated tax rate in percent for a country
// code, falling back to DefaultTaxRatePct.
func CountryTaxRate(code string) float64 {
	if r, ok := countryTaxRates[strings.ToLower(strings.TrimSpace(code))]; ok {
		return r
	}
	return DefaultTaxRatePct
}

type TaxReserve struct {
	RatePct   float64 `json:"ratePct"`
	Monthly   float64 `json:"monthly"`
	Quarterly float64 `json:"quarterly"`
	Annual    float64 `json:"annual"`
}

// ComputeTaxReserve is how much to set aside from a monthly income.
func ComputeTaxReserve(monthlyIncome, ratePct float64) TaxReserve {
	monthly := monthlyIncome * ratePct / 100
	return TaxReserve{
		RatePct:   ratePct,
		Monthly:   RoundCurrency(monthly),
		Quarterly: RoundCurrency(monthly * 3),
		Annual:    RoundCurrency(monthly * 12),
	}
}
