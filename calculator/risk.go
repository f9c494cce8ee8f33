package calculator

// RiskBand is a rough label for how hard a required return is to earn.
type RiskBand string

const (
	Conservative   RiskBand = "conservative"
	Moderate       RiskBand = "moderate"
	Aggressive     RiskBand = "aggressive"
	VeryAggressive RiskBand = "very aggressive"
	Unrealistic    RiskBand = "unrealistic"
)

// ClassifyRate bands an annual rate in percent.
func ClassifyRate(pct float64) RiskBand {
	switch {
	case pct <= 4:
		return Conservative
	case pct <= 7:
		return Moderate
	case pct <= 10:
		return Aggressive
	case pct <= 15:
		return VeryAggressive
	default:
		return Unrealistic
	}
}
