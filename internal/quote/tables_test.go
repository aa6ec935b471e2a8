package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTables(t *testing.T) {
	in := parseInput(t,
		"Gross Monthly Salary USD 3000\nTotal Employer Contribution USD 400\nTotal Monthly Cost USD 3600",
		"Net Monthly Salary USD 2500\nIncome Tax USD 500")
	q, err := NewCalculator(nil).Calculate(in)
	require.NoError(t, err)

	tables := Tables(*q)
	require.Len(t, tables, 3)

	pay := tables[0]
	assert.Equal(t, SectionPay, pay.Section)
	assert.Equal(t, "Amount You Pay", pay.Title)
	require.NotNil(t, pay.Total)
	assert.InDelta(t, 4349, pay.Total.USD, 1e-9)
	assert.False(t, pay.Rows[0].Emphasized)
	assert.True(t, pay.Rows[1].Emphasized)
	assert.True(t, pay.Rows[2].Emphasized)

	employee := tables[1]
	assert.Nil(t, employee.Total)
	assert.True(t, employee.Rows[0].Emphasized)
	assert.True(t, employee.Rows[1].Emphasized)

	setup := tables[2]
	require.NotNil(t, setup.Total)
	assert.InDelta(t, 3600+499, setup.Total.USD, 1e-9)
	assert.InDelta(t, (3600+499)*800, setup.Total.Local, 1e-6)
}
