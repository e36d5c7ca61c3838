package commands

import "backend2/pkg/utils"

// RememberCommand implements the remember() operation of spec §4.7. The
// zero value of Result is populated by RememberHandler.Handle once the
// command bus dispatches it — the same pointer-carries-its-own-result
// shape the teacher's command/query pairs use when a caller needs data
// back out of a write.
type RememberCommand struct {
	Text       string   `json:"text" validate:"required,min=1,max=20000"`
	Type       string   `json:"type" validate:"required"`
	Tags       []string `json:"tags" validate:"max=32,dive,max=64"`
	Importance float64  `json:"importance" validate:"min=0,max=1"`
	TTL        string   `json:"ttl"`
	Scope      string   `json:"scope" validate:"max=128"`

	Result RememberResult `json:"-"`
}

// Validate wires go-playground/validator's struct-tag validation in,
// mirroring the teacher's pkg/utils.ValidateStruct helper.
func (c *RememberCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// RememberResult is the id plus write-time-validator diagnostics spec
// §4.7 names for a successful remember().
type RememberResult struct {
	ID                 string   `json:"id"`
	AdjustedImportance float64  `json:"adjustedImportance"`
	Signals            []string `json:"signals,omitempty"`
	Confidence         float64  `json:"confidence"`
}
