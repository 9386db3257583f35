package fields

import (
	"sort"
	"strings"
)

// List is an ordered allow-list of canonical field names.
type List []string

// Has reports whether name is in the list (exact match).
func (l List) Has(name string) bool {
	for _, f := range l {
		if f == name {
			return true
		}
	}
	return false
}

// Set returns the list as a lookup set.
func (l List) Set() map[string]struct{} {
	out := make(map[string]struct{}, len(l))
	for _, f := range l {
		out[f] = struct{}{}
	}
	return out
}

// Category names a statement allow-list.
type Category string

const (
	CategoryIncomeStatement Category = "income_statement"
	CategoryBalanceSheet    Category = "balance_sheet"
	CategoryCashFlow        Category = "cash_flow"
	CategoryInfo            Category = "info"
	CategoryQuarterlyIncome Category = "quarterly_income_statement"
	CategoryMonetary        Category = "monetary"
	CategoryPrice           Category = "price"
	CategoryIndex           Category = "index"
)

var IncomeStatement = List{
	"Tax Rate For Calcs",
	"Net Income From Continuing Operation Net Minority Interest",
	"Reconciled Depreciation",
	"EBITDA",
	"EBIT",
	"Interest Expense",
	"Interest Income",
	"Net Income From Continuing And Discontinued Operation",
	"Diluted Average Shares",
	"Basic Average Shares",
	"Diluted EPS",
	"Basic EPS",
	"Net Income Common Stockholders",
	"Net Income",
	"Net Income Including Noncontrolling Interests",
	"Tax Provision",
	"Pretax Income",
	"Operating Income",
	"Operating Expense",
	"Depreciation And Amortization In Income Statement",
	"Amortization",
	"Depreciation Income Statement",
	"Selling General And Administration",
	"Selling And Marketing Expense",
	"General And Administrative Expense",
	"Gross Profit",
	"Cost Of Revenue",
	"Total Revenue",
	"Operating Revenue",
}

var BalanceSheet = List{
	"Share Issued",
	"Net Debt",
	"Total Debt",
	"Tangible Book Value",
	"Working Capital",
	"Net Tangible Assets",
	"Capital Lease Obligations",
	"Common Stock Equity",
	"Stockholders Equity",
	"Other Equity Interest",
	"Retained Earnings",
	"Total Liabilities Net Minority Interest",
	"Other Non Current Liabilities",
	"Non Current Deferred Liabilities",
	"Long Term Debt And Capital Lease Obligation",
	"Long Term Debt",
	"Long Term Provisions",
	"Current Liabilities",
	"Current Debt And Capital Lease Obligation",
	"Current Debt",
	"Payables",
	"Dividends Payable",
	"Total Tax Payable",
	"Accounts Payable",
	"Total Assets",
	"Total Non Current Assets",
	"Other Non Current Assets",
	"Goodwill And Other Intangible Assets",
	"Other Intangible Assets",
	"Available For Sale Securities",
	"Trading Securities",
	"Goodwill",
	"Net PPE",
	"Current Assets",
	"Other Current Assets",
	"Inventory",
	"Other Receivables",
	"Taxes Receivable",
	"Accounts Receivable",
	"Gross Accounts Receivable",
	"Cash Cash Equivalents And Short Term Investments",
	"Other Short Term Investments",
	"Cash And Cash Equivalents",
	"Cash Equivalents",
}

var CashFlow = List{
	"Free Cash Flow",
	"Repayment Of Debt",
	"Issuance Of Debt",
	"Capital Expenditure",
	"Changes In Cash",
	"Financing Cash Flow",
	"Cash Dividends Paid",
	"Long Term Debt Payments",
	"Sale Of Investment",
	"Purchase Of Investment",
	"Net Business Purchase And Sale",
	"Sale Of Business",
	"Purchase Of Business",
	"Net PPE Purchase And Sale",
	"Capital Expenditure Reported",
	"Operating Cash Flow",
	"Change In Working Capital",
	"Change In Other Current Assets",
	"Change In Payable",
	"Change In Receivables",
	"Depreciation And Amortization",
	"Net Income From Continuing Operations",
}

var CompanyInfo = List{
	"website",
	"industry",
	"longBusinessSummary",
	"fullTimeEmployees",
	"previousClose",
	"open",
	"dayLow",
	"dayHigh",
	"dividendRate",
	"dividendYield",
	"payoutRatio",
	"beta",
	"volume",
	"marketCap",
	"fiftyTwoWeekLow",
	"fiftyTwoWeekHigh",
	"fiftyDayAverage",
	"twoHundredDayAverage",
	"currency",
	"sharesOutstanding",
	"heldPercentInsiders",
	"heldPercentInstitutions",
	"bookValue",
	"priceToBook",
	"trailingEps",
	"forwardEps",
	"lastSplitFactor",
	"lastSplitDate",
	"lastDividendDate",
	"quoteType",
	"currentPrice",
	"recommendationKey",
	"totalCash",
	"totalDebt",
	"quickRatio",
	"currentRatio",
	"debtToEquity",
	"returnOnAssets",
	"returnOnEquity",
	"grossProfits",
	"earningsGrowth",
	"revenueGrowth",
	"grossMargins",
	"ebitdaMargins",
	"operatingMargins",
	"financialCurrency",
	"shortName",
	"regularMarketPrice",
	"fullExchangeName",
	"epsCurrentYear",
	"priceEpsCurrentYear",
	"fiftyDayAverageChange",
}

var QuarterlyIncome = List{
	"Total Revenue",
	"Cost Of Revenue",
	"Gross Profit",
	"Selling General And Administration",
	"Depreciation And Amortization In Income Statement",
	"Operating Expense",
	"Other Operating Expense",
	"Operating Income",
	"Pretax Income",
	"Tax Provision",
	"Net Income Continuous Operations",
	"Net Income Including Noncontrolling Interests",
	"Net Income Common Stockholders",
	"Basic Average Shares",
	"Basic EPS",
	"Net Income From Continuing And Discontinued Operation",
	"Interest Expense",
	"Net Interest Income",
	"EBIT",
	"EBITDA",
	"Reconciled Cost Of Revenue",
	"Reconciled Depreciation",
	"Net Income From Continuing Operation Net Minority Interest",
	"Total Unusual Items Excluding Goodwill",
	"Normalized EBITDA",
}

// Monetary lists the fields converted between currencies. Share counts
// and ratios stay unconverted.
var Monetary = List{
	// income statement
	"Net Income From Continuing Operation Net Minority Interest",
	"EBITDA", "EBIT", "Interest Expense", "Interest Income",
	"Net Income From Continuing And Discontinued Operation",
	"Net Income Common Stockholders", "Net Income",
	"Net Income Including Noncontrolling Interests",
	"Tax Provision", "Operating Income", "Operating Expense",
	"Depreciation And Amortization In Income Statement",
	"Amortization", "Depreciation Income Statement",
	"Selling General And Administration", "Selling And Marketing Expense",
	"General And Administrative Expense", "Gross Profit",
	"Cost Of Revenue", "Total Revenue", "Operating Revenue",

	// balance sheet
	"Net Debt", "Total Debt", "Tangible Book Value", "Working Capital",
	"Net Tangible Assets", "Capital Lease Obligations",
	"Common Stock Equity", "Stockholders Equity", "Other Equity Interest",
	"Retained Earnings", "Total Liabilities Net Minority Interest",
	"Other Non Current Liabilities", "Long Term Debt And Capital Lease Obligation",
	"Long Term Debt", "Long Term Provisions", "Current Liabilities",
	"Current Debt And Capital Lease Obligation", "Current Debt",
	"Payables", "Dividends Payable", "Total Tax Payable",
	"Accounts Payable", "Total Assets", "Total Non Current Assets",
	"Other Non Current Assets", "Goodwill And Other Intangible Assets",
	"Other Intangible Assets", "Goodwill", "Net PPE", "Current Assets",
	"Other Current Assets", "Inventory", "Other Receivables",
	"Taxes Receivable", "Accounts Receivable", "Gross Accounts Receivable",
	"Cash Cash Equivalents And Short Term Investments",
	"Other Short Term Investments", "Cash And Cash Equivalents", "Cash Equivalents",

	// cash flow
	"Free Cash Flow", "Repayment Of Debt", "Issuance Of Debt",
	"Capital Expenditure", "Changes In Cash",
	"Financing Cash Flow", "Cash Dividends Paid", "Long Term Debt Payments", "Sale Of Investment",
	"Purchase Of Investment", "Net Business Purchase And Sale",
	"Sale Of Business", "Purchase Of Business", "Net PPE Purchase And Sale",
	"Capital Expenditure Reported", "Operating Cash Flow",
	"Change In Working Capital", "Change In Other Current Assets",
	"Change In Payable", "Change In Receivables",
	"Depreciation And Amortization", "Net Income From Continuing Operations",

	// info
	"bookValue", "totalCash", "totalDebt", "grossProfits",

	// quarterly
	"Pretax Income", "Net Income Continuous Operations",
	"Basic EPS", "Net Interest Income", "Reconciled Cost Of Revenue",
	"Reconciled Depreciation", "Total Unusual Items Excluding Goodwill",
	"Normalized EBITDA",
}

// PriceSnapshot is the latest-price snapshot taken from company info.
var PriceSnapshot = List{
	"currentPrice",
	"dayHigh",
	"dayLow",
	"fiftyTwoWeekHigh",
	"fiftyTwoWeekLow",
	"previousClose",
}

// IndexQuote is the per-index quote taken from index info.
var IndexQuote = List{
	"shortName",
	"fullExchangeName",
	"regularMarketPrice",
	"regularMarketPreviousClose",
	"regularMarketOpen",
	"regularMarketDayLow",
	"regularMarketDayHigh",
	"fiftyTwoWeekLow",
	"fiftyTwoWeekHigh",
	"fiftyDayAverage",
	"twoHundredDayAverage",
}

// Sets maps each category to its allow-list.
var Sets = map[Category]List{
	CategoryIncomeStatement: IncomeStatement,
	CategoryBalanceSheet:    BalanceSheet,
	CategoryCashFlow:        CashFlow,
	CategoryInfo:            CompanyInfo,
	CategoryQuarterlyIncome: QuarterlyIncome,
	CategoryMonetary:        Monetary,
	CategoryPrice:           PriceSnapshot,
	CategoryIndex:           IndexQuote,
}

// Lookup returns the allow-list for a category name.
func Lookup(name string) (List, error) {
	l, ok := Sets[Category(strings.TrimSpace(name))]
	if !ok {
		return nil, &UnknownCategoryError{Name: name, Available: availableCategories()}
	}
	return l, nil
}

// UnknownCategoryError reports an unknown allow-list name.
type UnknownCategoryError struct {
	Name      string
	Available []string
}

func (e *UnknownCategoryError) Error() string {
	return "unknown field category: " + e.Name + "; available: " + strings.Join(e.Available, ", ")
}

func availableCategories() []string {
	keys := make([]string, 0, len(Sets))
	for k := range Sets {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}
