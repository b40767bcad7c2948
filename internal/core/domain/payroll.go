package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Period identifies a payroll statement batch.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ParsePeriod parses year and month query values.
func ParsePeriod(year, month string) (Period, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 1900 || y > 9999 {
		return Period{}, fmt.Errorf("%w: year %q", ErrInvalidPeriod, year)
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return Period{}, fmt.Errorf("%w: month %q", ErrInvalidPeriod, month)
	}
	return Period{Year: y, Month: m}, nil
}

// Key returns a stable "YYYY-MM" identifier.
func (p Period) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// PayrollStatement is one employee's statement for a period. Fields the
// checks do not use are kept in Extra as raw JSON.
type PayrollStatement struct {
	ID           int64                      `json:"id"`
	EmployeeName string                     `json:"employee_name,omitempty"`
	Deductions   map[string]float64         `json:"deductions,omitempty"`
	TotalSalary  *float64                   `json:"total_salary,omitempty"`
	Extra        map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes known fields and keeps the rest opaque.
// Amounts may arrive as JSON numbers or numeric strings.
func (s *PayrollStatement) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := PayrollStatement{}
	for key, val := range raw {
		switch key {
		case "id":
			n, ok, err := decodeAmount(val)
			if err != nil {
				return fmt.Errorf("id: %w", err)
			}
			if ok {
				out.ID = int64(n)
			}
		case "employee_name":
			if err := json.Unmarshal(val, &out.EmployeeName); err != nil {
				return fmt.Errorf("employee_name: %w", err)
			}
		case "total_salary":
			n, ok, err := decodeAmount(val)
			if err != nil {
				return fmt.Errorf("total_salary: %w", err)
			}
			if ok {
				out.TotalSalary = &n
			}
		case "deductions":
			var m map[string]json.RawMessage
			if err := json.Unmarshal(val, &m); err != nil {
				return fmt.Errorf("deductions: %w", err)
			}
			out.Deductions = make(map[string]float64, len(m))
			for name, amount := range m {
				n, ok, err := decodeAmount(amount)
				if err != nil {
					return fmt.Errorf("deductions[%s]: %w", name, err)
				}
				if ok {
					out.Deductions[name] = n
				}
			}
		default:
			if out.Extra == nil {
				out.Extra = make(map[string]json.RawMessage)
			}
			out.Extra[key] = val
		}
	}

	*s = out
	return nil
}

// decodeAmount accepts a number, a numeric string or null.
func decodeAmount(val json.RawMessage) (float64, bool, error) {
	val = bytes.TrimSpace(val)
	if len(val) == 0 || bytes.Equal(val, []byte("null")) {
		return 0, false, nil
	}
	if val[0] == '"' {
		var str string
		if err := json.Unmarshal(val, &str); err != nil {
			return 0, false, err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			return 0, false, nil
		}
		n, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return 0, false, fmt.Errorf("not a number: %q", str)
		}
		return n, true, nil
	}
	var n float64
	if err := json.Unmarshal(val, &n); err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// DisplayName returns the employee name or an ID based fallback.
func (s *PayrollStatement) DisplayName() string {
	if s.EmployeeName != "" {
		return s.EmployeeName
	}
	return fmt.Sprintf("従業員ID: %d", s.ID)
}

// ValidationError is one rule violation found on a statement.
// @Description Payroll statement rule violation
type ValidationError struct {
	Employee string  `json:"employee" example:"山田 太郎"`
	Item     string  `json:"item" example:"合計支給金額"`
	Amount   float64 `json:"amount" example:"0"`
	Message  string  `json:"message" example:"合計支給金額が0以下です。"`
}
