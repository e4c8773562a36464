package sepal

import "strings"

// SplitConditions partitions a token stream into the comparison
// sub-expressions it contains: a new sub-expression starts after each "and"
// or "or", and a standalone boolean literal closes the current one early.
// Parentheses are stripped, texts are trimmed, and fragments that are
// nothing but an operator symbol are dropped.
//
// The result is a pre-parse estimate used to enforce Limits.MaxConditions.
// It is a heuristic guard, not a grammar: it is never fed back into parsing
// and is not guaranteed to agree with the parser's exact operator count.
func SplitConditions(tokens []string) []string {
	var (
		conditions []string
		current    []string
	)

	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(current, " "))
		current = nil
		if text == "" {
			return
		}
		if _, isOp := LookupOp(text); isOp {
			// Degenerate split left a bare operator behind.
			return
		}
		conditions = append(conditions, text)
	}

	for _, tok := range tokens {
		switch tok {
		case "(", ")":
			// Grouping only; never part of a condition text.
		case "and", "or":
			flush()
		case "true", "false":
			current = append(current, tok)
			flush()
		default:
			current = append(current, tok)
		}
	}
	flush()

	return conditions
}
