package queries

// DescribeQuery implements the describe() operation of spec §4.7: return
// the rendered manifest text a host embeds in a tool description.
type DescribeQuery struct{}

func (q DescribeQuery) Validate() error { return nil }

// DescribeResult is the rendered manifest string spec §4.7 names.
type DescribeResult struct {
	Manifest    string `json:"manifest"`
	GeneratedAt int64  `json:"generatedAt"`
	Stale       bool   `json:"stale"`
}
