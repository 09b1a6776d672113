package outfmt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// NormalizeExpression fixes shell-escaped operators in jq expressions.
// Zsh escapes ! to \! even in single quotes, breaking operators like !=.
func NormalizeExpression(expr string) string {
	return strings.ReplaceAll(expr, `\!`, `!`)
}

// ApplyQuery runs a jq expression over v. v is round-tripped through
// encoding/json first so gojq sees plain maps and slices rather than
// struct types.
func ApplyQuery(v any, expression string) (any, error) {
	if expression == "" {
		return v, nil
	}

	query, err := gojq.Parse(NormalizeExpression(expression))
	if err != nil {
		return nil, fmt.Errorf("invalid query expression: %w", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var plain any
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, err
	}

	iter := query.Run(plain)
	var results []any
	for {
		out, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := out.(error); ok {
			return nil, fmt.Errorf("query error: %w", err)
		}
		results = append(results, out)
	}

	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}
