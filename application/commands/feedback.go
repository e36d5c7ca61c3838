package commands

import "backend2/pkg/utils"

// FeedbackCommand implements the feedback() operation of spec §4.7.
type FeedbackCommand struct {
	ID      string `json:"id" validate:"required,uuid"`
	Outcome string `json:"outcome" validate:"required,oneof=success fail"`

	Result FeedbackResult `json:"-"`
}

func (c *FeedbackCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// FeedbackResult is the updated item snapshot spec §4.7 names.
type FeedbackResult struct {
	ID          string  `json:"id"`
	Energy      float64 `json:"energy"`
	Importance  float64 `json:"importance"`
	SuccessCount int64  `json:"successCount"`
	FailCount   int64   `json:"failCount"`
}
