package cmd

import "strings"

// suggestionThreshold is the largest edit distance still worth offering as
// a "did you mean" hint. Anything farther away is noise.
const suggestionThreshold = 3

// levenshtein returns the edit distance between a and b, computed over one
// reusable row.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	row := make([]int, lb+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= la; i++ {
		diag := i - 1
		row[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min(row[j]+1, row[j-1]+1, diag+cost)
			diag = row[j]
			row[j] = next
		}
	}
	return row[lb]
}

// suggestCommand picks the known command closest to the unknown input, or
// "" when nothing is within the suggestion threshold.
func suggestCommand(unknown string, commands []string) string {
	unknown = strings.ToLower(unknown)
	bestDist := suggestionThreshold + 1
	bestMatch := ""
	for _, candidate := range commands {
		d := levenshtein(unknown, strings.ToLower(candidate))
		if d < bestDist {
			bestDist = d
			bestMatch = candidate
		}
	}
	return bestMatch
}

// suggestFlag is suggestCommand for flag names. Dashes are stripped before
// comparing so "--quert" matches "--query", but the returned match keeps
// its original prefix for direct use in the hint.
func suggestFlag(unknown string, flags []string) string {
	stripped := strings.TrimLeft(unknown, "-")
	if stripped == "" {
		return ""
	}
	stripped = strings.ToLower(stripped)

	bestDist := suggestionThreshold + 1
	bestMatch := ""
	for _, flag := range flags {
		d := levenshtein(stripped, strings.ToLower(strings.TrimLeft(flag, "-")))
		if d < bestDist {
			bestDist = d
			bestMatch = flag
		}
	}
	return bestMatch
}
