package marketdata

import "strings"

// companySymbols maps covered company names to their Yahoo Finance tickers.
// Non-US listings carry their exchange suffix.
var companySymbols = []struct {
	Name   string
	Symbol string
}{
	{"NVIDIA", "NVDA"},
	{"TSMC", "TSM"},
	{"Intel", "INTC"},
	{"AMD", "AMD"},
	{"Qualcomm", "QCOM"},
	{"Broadcom", "AVGO"},
	{"Texas Instruments", "TXN"},
	{"ASML", "ASML"},
	{"Micron", "MU"},
	{"Analog Devices", "ADI"},
	{"Marvell", "MRVL"},
	{"KLA Corporation", "KLAC"},
	{"Applied Materials", "AMAT"},
	{"Lam Research", "LRCX"},
	{"MediaTek", "2454.TW"},
	{"SK Hynix", "000660.KS"},
	{"Samsung", "005930.KS"},
	{"Tokyo Electron", "8035.T"},
	{"SMIC", "0981.HK"},
	{"UMC", "UMC"},
}

// ResolveSymbol maps a company name or ticker to a Yahoo Finance symbol.
// A direct ticker match wins; otherwise the first company whose name
// contains the input (or vice versa) is used. Matching is case-insensitive.
func ResolveSymbol(company string) (string, bool) {
	if company == "" {
		return "", false
	}
	upper := strings.ToUpper(strings.TrimSpace(company))

	for _, cs := range companySymbols {
		if strings.ToUpper(cs.Symbol) == upper {
			return cs.Symbol, true
		}
	}
	for _, cs := range companySymbols {
		name := strings.ToUpper(cs.Name)
		if strings.Contains(name, upper) || strings.Contains(upper, name) {
			return cs.Symbol, true
		}
	}
	return "", false
}

// CoveredCompanies returns the company names the symbol table covers, in
// table order.
func CoveredCompanies() []string {
	out := make([]string, len(companySymbols))
	for i, cs := range companySymbols {
		out[i] = cs.Name
	}
	return out
}
