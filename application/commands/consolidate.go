package commands

// ConsolidateCommand implements the consolidate() operation of spec §4.7.
// It takes no inputs, so Validate is trivially satisfied.
type ConsolidateCommand struct {
	Result ConsolidateResult `json:"-"`
}

func (c *ConsolidateCommand) Validate() error { return nil }

// ConsolidateResult is the count of items pruned.
type ConsolidateResult struct {
	Pruned int `json:"pruned"`
}
