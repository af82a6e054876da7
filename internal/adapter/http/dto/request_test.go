package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/agentledger/internal/usecase"
)

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateAccountRequest{
		Name:       "Rafidain Bank",
		Category:   "banks",
		ParentCode: "5001",
		Currencies: []string{"IQD", "USD"},
	}

	got := req.ToUseCaseInput()
	assert.Equal(t, usecase.CreateAccountInput{
		Name:       "Rafidain Bank",
		Category:   "banks",
		ParentCode: "5001",
		Currencies: []string{"IQD", "USD"},
	}, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     any
		wantErr string
	}{
		{
			name: "valid account",
			req:  &CreateAccountRequest{Name: "Cash", Category: "cash_boxes", Currencies: []string{"IQD"}},
		},
		{
			name:    "account without currencies",
			req:     &CreateAccountRequest{Name: "Cash", Category: "cash_boxes"},
			wantErr: "CreateAccountRequest.Currencies: failed required",
		},
		{
			name:    "bad currency length",
			req:     &CreateAccountRequest{Name: "Cash", Category: "cash_boxes", Currencies: []string{"DINAR"}},
			wantErr: "CreateAccountRequest.Currencies[0]: failed len=3",
		},
		{
			name:    "entry with one line",
			req:     &PostEntryRequest{Currency: "IQD", Lines: []LineRequest{{AccountCode: "6001"}}},
			wantErr: "PostEntryRequest.Lines: failed min=2",
		},
		{
			name:    "line without account",
			req:     &PostEntryRequest{Currency: "IQD", Lines: []LineRequest{{AccountCode: "6001"}, {}}},
			wantErr: "PostEntryRequest.Lines[1].AccountCode: failed required",
		},
		{
			name: "posting to the same account",
			req: &TransferPostingRequest{
				TransferID: "t1", Currency: "IQD", FromAgentID: "a", ToAgentID: "b",
				FromAccountCode: "1001", ToAccountCode: "1001",
			},
			wantErr: "TransferPostingRequest.ToAccountCode: failed nefield=FromAccountCode",
		},
		{
			name: "bulletin with bad date",
			req: &ReplaceBulletinRequest{
				AgentID: "a", Currency: "IQD", Date: "01/05/2024",
				Tiers: []TierRequest{{Direction: "outgoing"}},
			},
			wantErr: "ReplaceBulletinRequest.Date: failed datetime=2006-01-02",
		},
		{
			name: "tier with unknown direction",
			req: &ReplaceBulletinRequest{
				AgentID: "a", Currency: "IQD", Date: "2024-05-01",
				Tiers: []TierRequest{{Direction: "sideways"}},
			},
			wantErr: "ReplaceBulletinRequest.Tiers[0].Direction: failed oneof=incoming outgoing",
		},
		{
			name: "revaluation with unknown operation",
			req: &RevaluationRequest{
				AccountCode: "5001", Currency: "IQD", OperationType: "transfer", Direction: "iqd_to_usd",
			},
			wantErr: "RevaluationRequest.OperationType: failed oneof=debit credit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostEntryRequest_DecodeAndConvert(t *testing.T) {
	body := `{
		"currency": "IQD",
		"description": "cash deposit",
		"lines": [
			{"account_code": "6001", "debit": "1500.25"},
			{"account_code": "2001", "credit": 1500.25}
		]
	}`

	var req PostEntryRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.NoError(t, Validate(&req))

	in := req.ToUseCaseInput()
	assert.Equal(t, "IQD", in.Currency)
	assert.Equal(t, "cash deposit", in.Description)
	require.Len(t, in.Lines, 2)
	assert.True(t, in.Lines[0].Debit.Equal(decimal.RequireFromString("1500.25")))
	assert.True(t, in.Lines[1].Credit.Equal(decimal.RequireFromString("1500.25")))
	assert.True(t, in.Lines[1].Debit.IsZero())
	assert.Nil(t, in.Date)
}

func TestReplaceBulletinRequest_ToUseCaseInput(t *testing.T) {
	to := decimal.NewFromInt(1000)
	req := &ReplaceBulletinRequest{
		AgentID:  "agent-1",
		Currency: "USD",
		Date:     "2024-05-01",
		Tiers: []TierRequest{
			{FromAmount: decimal.Zero, ToAmount: &to, Percentage: decimal.RequireFromString("1.5"), Direction: "outgoing"},
			{FromAmount: to, Percentage: decimal.NewFromInt(1), City: "Basra", Direction: "outgoing"},
		},
	}

	in, err := req.ToUseCaseInput()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), in.Date)
	require.Len(t, in.Tiers, 2)
	assert.Equal(t, &to, in.Tiers[0].ToAmount)
	assert.Nil(t, in.Tiers[1].ToAmount)
	assert.Equal(t, "Basra", in.Tiers[1].City)

	req.Date = "May 1"
	_, err = req.ToUseCaseInput()
	assert.Error(t, err)
}

func TestRevaluationRequest_ToUseCaseInput(t *testing.T) {
	req := &RevaluationRequest{
		AccountCode:   "5001",
		Amount:        decimal.NewFromInt(1310000),
		Currency:      "IQD",
		ExchangeRate:  decimal.NewFromInt(1310),
		OperationType: "debit",
		Direction:     "iqd_to_usd",
		Notes:         "month end",
	}

	in := req.ToUseCaseInput()
	assert.Equal(t, "5001", in.AccountCode)
	assert.Equal(t, "debit", in.OperationType)
	assert.Equal(t, "iqd_to_usd", in.Direction)
	assert.True(t, in.ExchangeRate.Equal(decimal.NewFromInt(1310)))
}
