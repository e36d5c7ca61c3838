package queries

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecallQuery_Validate(t *testing.T) {
	require.Error(t, RecallQuery{}.Validate())
	require.NoError(t, RecallQuery{Text: "canary"}.Validate())
}

func TestStatusQuery_Validate(t *testing.T) {
	require.NoError(t, StatusQuery{}.Validate())
}

func TestDescribeQuery_Validate(t *testing.T) {
	require.NoError(t, DescribeQuery{}.Validate())
}
