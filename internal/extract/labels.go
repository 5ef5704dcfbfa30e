package extract

// Provider line-item labels drift across reporting vintages, so every
// concept resolves through an ordered candidate list. First reported
// label wins. New variants go here, not in the extraction logic.

var (
	revenueLabels = []string{
		"Total Revenue",
		"Operating Revenue",
	}

	grossProfitLabels = []string{
		"Gross Profit",
	}

	costOfRevenueLabels = []string{
		"Cost Of Revenue",
		"Cost of Revenue",
		"Cost Of Goods Sold",
		"Cost of Goods Sold",
		"Total Cost Of Revenue",
		"Total cost of revenue",
		"Cost Of Sales",
		"Cost of Sales",
	}

	operatingIncomeLabels = []string{
		"Operating Income",
		"Operating Income As Reported",
		"Total Operating Income As Reported",
	}

	operatingExpenseLabels = []string{
		"Operating Expense",
		"Operating Expenses",
		"Total Operating Expenses",
		"Total Operating Expense",
	}

	ebitLabels = []string{
		"EBIT",
	}

	pretaxIncomeLabels = []string{
		"Pretax Income",
		"Pre Tax Income",
		"Income Before Tax",
		"Earnings Before Tax",
		"Income Before Tax (EBT)",
	}

	interestExpenseLabels = []string{
		"Interest Expense",
		"Interest Expense Non Operating",
		"Interest Expense, Net",
		"Net Interest Expense",
	}

	netIncomeLabels = []string{
		"Net Income",
		"Net Income Common Stockholders",
	}

	totalAssetsLabels       = []string{"Total Assets"}
	currentAssetsLabels     = []string{"Current Assets"}
	totalLiabilitiesLabels  = []string{
		"Total Liabilities Net Minority Interest",
		"Total Liabilities",
	}
	currentLiabilitiesLabels = []string{"Current Liabilities"}
	totalDebtLabels          = []string{"Total Debt"}

	netAssetsLabels = []string{
		"Stockholders Equity",
		"Common Stock Equity",
		"Total Equity Gross Minority Interest",
	}

	operatingCashFlowLabels  = []string{"Operating Cash Flow"}
	freeCashFlowLabels       = []string{"Free Cash Flow"}
	capitalExpenditureLabels = []string{"Capital Expenditure"}

	cashAndEquivalentsLabels = []string{
		"Cash And Cash Equivalents",
		"Cash And Cash Equivalents And Short Term Investments",
		"Cash Cash Equivalents And Short Term Investments",
		"Cash And Short Term Investments",
		"Cash Financial",
	}

	dividendsPaidLabels = []string{
		"Cash Dividends Paid",
		"Common Stock Dividend Paid",
	}

	sharesIssuedLabels   = []string{"Share Issued"}
	treasurySharesLabels = []string{"Treasury Shares Number"}
	ordinarySharesLabels = []string{"Ordinary Shares Number"}

	// Average share counts are period averages, not period-end
	// snapshots, so they are the last resort only.
	averageSharesLabels = []string{
		"Diluted Average Shares",
		"Basic Average Shares",
		"Average Shares",
		"Diluted Shares Outstanding",
		"Ordinary Shares",
	}
)

// maxSharesOutstanding rejects share counts that cannot be real.
const maxSharesOutstanding = 1e12
