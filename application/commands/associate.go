package commands

import "backend2/pkg/utils"

// AssociateCommand implements the associate() operation of spec §4.7.
type AssociateCommand struct {
	From     string  `json:"from" validate:"required,uuid"`
	To       string  `json:"to" validate:"required,uuid"`
	Relation string  `json:"relation" validate:"required,max=64"`
	Weight   float64 `json:"weight" validate:"min=0"`

	Result AssociateResult `json:"-"`
}

func (c *AssociateCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// AssociateResult is the updated edge snapshot.
type AssociateResult struct {
	From             string  `json:"from"`
	To               string  `json:"to"`
	Relation         string  `json:"relation"`
	Weight           float64 `json:"weight"`
	LastReinforcedAt int64   `json:"lastReinforcedAt"`
}
