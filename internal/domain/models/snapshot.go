package models

// FinancialMetrics groups the named ratios used by the advisory narratives.
type FinancialMetrics struct {
	PERatio        float64 `json:"pe_ratio" bson:"pe_ratio"`
	DebtToEquity   float64 `json:"debt_to_equity" bson:"debt_to_equity"`
	CurrentRatio   float64 `json:"current_ratio" bson:"current_ratio"`
	QuickRatio     float64 `json:"quick_ratio" bson:"quick_ratio"`
	ReturnOnEquity float64 `json:"return_on_equity" bson:"return_on_equity"`
	ProfitMargin   float64 `json:"profit_margin" bson:"profit_margin"`
}

// AssetAllocation describes one asset class of the company portfolio.
// Allocation and Yield are fractions (0.25 means 25%).
type AssetAllocation struct {
	Value      float64 `json:"value" bson:"value"`
	Allocation float64 `json:"allocation" bson:"allocation"`
	Yield      float64 `json:"yield" bson:"yield"`
}

// CompanySnapshot is the read-only financial dataset of one advisory session.
// Revenue, Expenses and Profit are monthly and chronological. Profit is taken
// as provided and never reconciled against Revenue-Expenses.
type CompanySnapshot struct {
	Revenue     []float64                  `json:"revenue" bson:"revenue"`
	Expenses    []float64                  `json:"expenses" bson:"expenses"`
	Profit      []float64                  `json:"profit" bson:"profit"`
	Capital     float64                    `json:"capital" bson:"capital"`
	MarketCap   float64                    `json:"market_cap" bson:"market_cap"`
	Metrics     FinancialMetrics           `json:"metrics" bson:"metrics"`
	Portfolio   map[string]AssetAllocation `json:"portfolio,omitempty" bson:"portfolio,omitempty"`
	Industry    string                     `json:"industry,omitempty" bson:"industry,omitempty"`
	MarketShare float64                    `json:"market_share,omitempty" bson:"market_share,omitempty"`
}

// AllocationTotal sums the portfolio allocation fractions. A well-formed
// portfolio is close to 1.0 but nothing enforces it.
func (s CompanySnapshot) AllocationTotal() float64 {
	var total float64
	for _, asset := range s.Portfolio {
		total += asset.Allocation
	}
	return total
}

// DefaultSnapshot returns the demo company shown on the investor dashboard.
func DefaultSnapshot() CompanySnapshot {
	return CompanySnapshot{
		Revenue:   []float64{150000, 180000, 220000, 250000, 280000, 310000},
		Expenses:  []float64{120000, 140000, 160000, 180000, 200000, 220000},
		Profit:    []float64{30000, 40000, 60000, 70000, 80000, 90000},
		Capital:   500000,
		MarketCap: 2000000,
		Metrics: FinancialMetrics{
			PERatio:        15.8,
			DebtToEquity:   0.45,
			CurrentRatio:   2.1,
			QuickRatio:     1.8,
			ReturnOnEquity: 0.18,
			ProfitMargin:   0.25,
		},
		Portfolio: map[string]AssetAllocation{
			"actions":     {Value: 300000, Allocation: 0.4, Yield: 0.12},
			"obligations": {Value: 150000, Allocation: 0.2, Yield: 0.05},
			"immobilier":  {Value: 200000, Allocation: 0.25, Yield: 0.08},
			"crypto":      {Value: 50000, Allocation: 0.05, Yield: 0.25},
			"cash":        {Value: 100000, Allocation: 0.1, Yield: 0.02},
		},
		Industry:    "Technologie",
		MarketShare: 0.12,
	}
}
