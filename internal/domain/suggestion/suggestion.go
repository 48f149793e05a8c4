package suggestion

// Strategy names how a suggestion was derived.
type Strategy string

const (
	StrategyUserFrequency Strategy = "UserFrequency"
	StrategyCoOrdered     Strategy = "CoOrdered"
)

// Suggestion is a product worth offering for a quick reorder.
type Suggestion struct {
	ProductID   string   `json:"productId"`
	Title       string   `json:"title"`
	Score       float64  `json:"score"`
	Explanation string   `json:"explanation"`
	Strategy    Strategy `json:"strategy"`
}
