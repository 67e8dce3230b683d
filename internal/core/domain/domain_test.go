package domain_test

import (
	"testing"

	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAccountCode(t *testing.T) {
	tests := []struct {
		code    string
		want    domain.AccountType
		wantErr bool
	}{
		{code: "1105", want: domain.Asset},
		{code: "2408", want: domain.Liability},
		{code: "3105", want: domain.Equity},
		{code: "4135", want: domain.Revenue},
		{code: "5105", want: domain.CostOfSales},
		{code: " 6205 ", want: domain.Expense},
		{code: "9999", wantErr: true},
		{code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := domain.ClassifyAccountCode(tt.code)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultAccountsAreClassifiedByCode(t *testing.T) {
	for _, acc := range domain.DefaultAccounts("COP") {
		got, err := domain.ClassifyAccountCode(acc.Code)
		require.NoError(t, err)
		assert.Equal(t, got, acc.AccountType, acc.Code)
		assert.Equal(t, "COP", acc.Currency)
	}
	assert.Equal(t, "Cash", domain.DefaultAccountName(domain.CashAccountCode))
	assert.Equal(t, "Account 7777", domain.DefaultAccountName("7777"))
}

func TestParseReportKind(t *testing.T) {
	kind, err := domain.ParseReportKind(" Balance_Sheet ")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportBalanceSheet, kind)

	_, err = domain.ParseReportKind("horoscope")
	assert.Error(t, err)
}

func TestNewReportRequestCoversCatalogue(t *testing.T) {
	for _, kind := range domain.ReportKinds() {
		req := domain.NewReportRequest(kind, domain.ReportParams{Months: 3})
		require.NotNil(t, req, kind)
		assert.Equal(t, kind, req.Kind())
	}

	trend := domain.NewReportRequest(domain.ReportTrendAnalysis, domain.ReportParams{Months: 3})
	assert.Equal(t, 3, trend.(domain.TrendAnalysisRequest).Months)
}
