package importer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billsum/billsum/internal/model"
)

const header = "Transaction date,Posting date,Merchant name,Billing amount,Currency\n"

func parse(t *testing.T, data string) []model.Bill {
	t.Helper()
	p := &BillParser{}
	bills, err := p.Parse(strings.NewReader(data))
	require.NoError(t, err)
	return bills
}

func TestBillParser_Parse(t *testing.T) {
	bills := parse(t, header+
		"01/03/2024,02/03/2024,Shop A,-10.00,CNY\n"+
		"15/03/2024,16/03/2024,,-5.00,CNY\n"+
		"01/04/2024,02/04/2024,Shop B,\"-1,234.56\",CNY\n")

	require.Len(t, bills, 3)
	assert.Equal(t, model.Date(2024, time.March, 1), bills[0].Date)
	assert.Equal(t, "Shop A", bills[0].Merchant)
	assert.Equal(t, "-10.00", bills[0].Amount.StringFixed(2))

	assert.Empty(t, bills[1].Merchant)
	assert.Equal(t, "-1234.56", bills[2].Amount.StringFixed(2))
}

func TestBillParser_ColumnOrderByLabel(t *testing.T) {
	bills := parse(t, "Billing amount,Merchant name,Transaction date\n12.50,Cafe,31/12/2023\n")
	require.Len(t, bills, 1)
	assert.Equal(t, "Cafe", bills[0].Merchant)
	assert.Equal(t, model.Date(2023, time.December, 31), bills[0].Date)
	assert.Equal(t, "12.50", bills[0].Amount.StringFixed(2))
}

func TestBillParser_DropsMalformedRows(t *testing.T) {
	bills := parse(t, header+
		"2024-13-40,x,Bad Date,-1.00,CNY\n"+
		"01/03/2024,x,Bad Amount,abc,CNY\n"+
		"31/02/2024,x,No Such Day,-1.00,CNY\n"+
		"01/03/2024,x,Short Row,-1.00\n"+
		"01/03/2024,x,Empty Amount,,CNY\n"+
		"02/03/2024,x,Good,-3.00,CNY\n")

	require.Len(t, bills, 1)
	assert.Equal(t, "Good", bills[0].Merchant)
}

func TestBillParser_PreservesOrder(t *testing.T) {
	bills := parse(t, header+
		"03/03/2024,x,C,-1,CNY\n"+
		"01/03/2024,x,A,-1,CNY\n"+
		"02/03/2024,x,B,-1,CNY\n")

	require.Len(t, bills, 3)
	assert.Equal(t, "C", bills[0].Merchant)
	assert.Equal(t, "A", bills[1].Merchant)
	assert.Equal(t, "B", bills[2].Merchant)
}

func TestBillParser_StripsBOM(t *testing.T) {
	bills := parse(t, "\xEF\xBB\xBF"+header+"01/03/2024,x,Shop,-1.00,CNY\n")
	require.Len(t, bills, 1)
}

func TestBillParser_EmptyInput(t *testing.T) {
	assert.Nil(t, parse(t, ""))
	assert.Nil(t, parse(t, header))
}

func TestBillParser_MissingColumns(t *testing.T) {
	p := &BillParser{}
	bills, err := p.Parse(strings.NewReader("Date,Description,Amount\n01/03/2024,Shop,-1.00\n"))
	assert.Nil(t, bills)

	var mce *MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{ColDate, ColMerchant, ColAmount}, mce.Columns)
	assert.Contains(t, err.Error(), "Merchant name")
}

func TestBillParser_Format(t *testing.T) {
	p := &BillParser{}
	assert.Equal(t, "bill", p.Format())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1,234.56", "1234.56"},
		{"1\t234.56", "1234.56"},
		{"\t-1,234.56\t", "-1234.56"},
		{"-10.00", "-10"},
		{"0", "0"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		require.NoError(t, err, "ParseAmount(%q)", tt.in)
		assert.Equal(t, tt.want, got.String(), "ParseAmount(%q)", tt.in)
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	for _, s := range []string{"abc", "", ",\t", "12.3.4", "$10"} {
		_, err := ParseAmount(s)
		assert.Error(t, err, "ParseAmount(%q)", s)
	}
}

func TestRowError(t *testing.T) {
	cause := errors.New("boom")
	e := RowError{Row: 3, Err: cause}
	assert.Equal(t, "row 3: boom", e.Error())
	assert.ErrorIs(t, e, cause)
}
