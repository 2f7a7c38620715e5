package verify

// Evaluate combines a declared claim with the classifier's assertion about it.
// The match flags come from the classifier, which was given the declared values
// in its prompt; unit-aware comparison ("300g" vs "0.3kg") is left to the model.
func Evaluate(req ClassificationRequest, assertion MatchAssertion) MatchResult {
	return MatchResult{
		Request:       req,
		CategoryMatch: assertion.CategoryMatch,
		QuantityMatch: assertion.QuantityMatch,
		Confidence:    assertion.Confidence,
	}
}

// Explain describes which declared fields the classifier agreed with.
func (m MatchResult) Explain() string {
	switch {
	case m.CategoryMatch && m.QuantityMatch:
		return "All details match the declaration."
	case m.CategoryMatch:
		return "Waste type matches but quantity differs from declaration."
	case m.QuantityMatch:
		return "Quantity matches but waste type differs from declaration."
	default:
		return "Neither waste type nor quantity match the declaration."
	}
}
