package commands

import "backend2/pkg/utils"

// DecayCommand implements the decay() operation of spec §4.7. HalfLifeDays
// of zero means "use the policy default".
type DecayCommand struct {
	HalfLifeDays float64 `json:"halfLifeDays" validate:"min=0"`

	Result DecayResult `json:"-"`
}

func (c *DecayCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// DecayResult is the count of items decayed.
type DecayResult struct {
	Updated int `json:"updated"`
}
