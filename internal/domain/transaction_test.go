package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosting_BaseAmount(t *testing.T) {
	p := &Posting{
		Amount: decimal.RequireFromString("-800"),
		FxRate: decimal.RequireFromString("1.25"),
	}
	assert.True(t, p.BaseAmount().Equal(decimal.RequireFromString("-1000")))
}

func TestTransaction_JSONRoundTrip(t *testing.T) {
	fundID := uuid.New()
	tx := &Transaction{
		ID:          uuid.New(),
		WorkspaceID: uuid.New(),
		Payee:       "Landlord",
		Kind:        TransactionKindExpense,
		Status:      TransactionStatusReconciled,
		FundID:      &fundID,
		Postings: []*Posting{
			{AccountID: uuid.New(), Amount: decimal.RequireFromString("-950.50"), Currency: "USD", FxRate: decimal.NewFromInt(1)},
			{AccountID: uuid.New(), Amount: decimal.RequireFromString("950.50"), Currency: "USD", FxRate: decimal.NewFromInt(1)},
		},
	}

	data, err := json.Marshal(tx)
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, tx.ID, decoded.ID)
	assert.Equal(t, tx.Kind, decoded.Kind)
	require.NotNil(t, decoded.FundID)
	assert.Equal(t, fundID, *decoded.FundID)
	require.Len(t, decoded.Postings, 2)
	assert.True(t, decoded.Postings[0].Amount.Equal(tx.Postings[0].Amount))
}
