package analysis

// Distribution summarizes a result's issues for dashboard rendering:
// counts per category and per kind.
type Distribution struct {
	ByCategory map[string]int    `json:"by_category"`
	ByKind     map[IssueKind]int `json:"by_kind"`
}

// Distribute tallies the issues of a result by category and kind.
func Distribute(issues []Issue) Distribution {
	dist := Distribution{
		ByCategory: make(map[string]int),
		ByKind:     make(map[IssueKind]int),
	}

	for _, issue := range issues {
		dist.ByCategory[issue.Category]++
		dist.ByKind[issue.Kind]++
	}

	return dist
}
