package enrichment

// Strategy is one pure extraction attempt over document text. Strategies are
// chained in priority order; the first one that reports ok wins.
type Strategy func(text string) (value string, ok bool)

func firstMatch(text string, chain []Strategy) (string, bool) {
	for _, s := range chain {
		if v, ok := s(text); ok {
			return v, true
		}
	}
	return "", false
}
