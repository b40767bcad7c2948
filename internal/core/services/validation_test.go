package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/payroll-check/internal/core/domain"
)

func TestValidate_Empty(t *testing.T) {
	errs := Validate(nil)
	require.NotNil(t, errs)
	assert.Empty(t, errs)

	errs = Validate([]domain.PayrollStatement{})
	require.NotNil(t, errs)
	assert.Empty(t, errs)
}

func TestValidate_ZeroTotalSalary(t *testing.T) {
	errs := Validate([]domain.PayrollStatement{
		{EmployeeName: "A", TotalSalary: floatPtr(0)},
	})

	require.Len(t, errs, 1)
	assert.Equal(t, "A", errs[0].Employee)
	assert.Equal(t, "合計支給金額", errs[0].Item)
	assert.Equal(t, 0.0, errs[0].Amount)
	assert.Equal(t, "合計支給金額が0以下です。", errs[0].Message)
}

func TestValidate_NegativeTotalSalary(t *testing.T) {
	errs := Validate([]domain.PayrollStatement{
		{EmployeeName: "A", TotalSalary: floatPtr(-1500)},
	})

	require.Len(t, errs, 1)
	assert.Equal(t, -1500.0, errs[0].Amount)
}

func TestValidate_AbsentTotalSalary(t *testing.T) {
	errs := Validate([]domain.PayrollStatement{{EmployeeName: "A"}})
	assert.Empty(t, errs)
}

func TestValidate_CommutingReimbursement(t *testing.T) {
	errs := Validate([]domain.PayrollStatement{
		{
			EmployeeName: "B",
			TotalSalary:  floatPtr(1000),
			Deductions:   map[string]float64{"立替経費（交通費）": 500},
		},
	})

	require.Len(t, errs, 1)
	assert.Equal(t, "B", errs[0].Employee)
	assert.Equal(t, "立替経費（交通費）", errs[0].Item)
	assert.Equal(t, 500.0, errs[0].Amount)
}

func TestValidate_ZeroReimbursementIgnored(t *testing.T) {
	errs := Validate([]domain.PayrollStatement{
		{
			EmployeeName: "B",
			TotalSalary:  floatPtr(1000),
			Deductions: map[string]float64{
				"立替経費（交通費）": 0,
				"立替経費（通信費）": -10,
				"健康保険料":     12000,
			},
		},
	})
	assert.Empty(t, errs)
}

func TestValidate_MultipleViolationsNotDeduplicated(t *testing.T) {
	errs := Validate([]domain.PayrollStatement{
		{
			EmployeeName: "C",
			TotalSalary:  floatPtr(0),
			Deductions: map[string]float64{
				"立替経費（交通費）":   300,
				"立替経費（その他）":   100,
				"立替経費（福利厚生費）": 200,
				"立替経費（通信費）":   50,
			},
		},
	})

	require.Len(t, errs, 5)
	items := make([]string, len(errs))
	for i, e := range errs {
		assert.Equal(t, "C", e.Employee)
		items[i] = e.Item
	}
	assert.Equal(t, []string{
		"合計支給金額",
		"立替経費（その他）",
		"立替経費（福利厚生費）",
		"立替経費（通信費）",
		"立替経費（交通費）",
	}, items)
}

func TestValidate_PreservesStatementOrder(t *testing.T) {
	errs := Validate([]domain.PayrollStatement{
		{EmployeeName: "Z", TotalSalary: floatPtr(0)},
		{EmployeeName: "OK", TotalSalary: floatPtr(100)},
		{EmployeeName: "A", TotalSalary: floatPtr(-1)},
	})

	require.Len(t, errs, 2)
	assert.Equal(t, "Z", errs[0].Employee)
	assert.Equal(t, "A", errs[1].Employee)
}

func TestValidate_FallbackEmployeeName(t *testing.T) {
	errs := Validate([]domain.PayrollStatement{
		{ID: 42, TotalSalary: floatPtr(0)},
	})

	require.Len(t, errs, 1)
	assert.Equal(t, "従業員ID: 42", errs[0].Employee)
}
