package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPercentageOverride(t *testing.T) {
	workspaceID := uuid.New()
	fundID := uuid.New()

	o, err := NewPercentageOverride(workspaceID, fundID, 2025, 7, decimal.NewFromInt(35))
	require.NoError(t, err)
	assert.Equal(t, OverrideKindPercentage, o.Kind)
	assert.True(t, o.Value.Equal(decimal.NewFromInt(35)))

	_, err = NewPercentageOverride(workspaceID, fundID, 2025, 7, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAllocation)

	_, err = NewPercentageOverride(workspaceID, fundID, 2025, 7, decimal.NewFromInt(101))
	assert.ErrorIs(t, err, ErrInvalidAllocation)
}

func TestNewAmountOverride(t *testing.T) {
	o, err := NewAmountOverride(uuid.New(), uuid.New(), 2025, 7, decimal.NewFromInt(250))
	require.NoError(t, err)
	assert.Equal(t, OverrideKindAmount, o.Kind)

	_, err = NewAmountOverride(uuid.New(), uuid.New(), 2025, 7, decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, ErrInvalidAllocation)
}
