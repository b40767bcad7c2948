package services

import "github.com/custodia-labs/payroll-check/internal/core/domain"

// ItemTotalSalary is the item name reported for non-positive total pay.
const ItemTotalSalary = "合計支給金額"

// DisallowedReimbursements are the expense reimbursement categories that
// must not appear with a positive amount, in reporting order.
var DisallowedReimbursements = []string{
	"立替経費（その他）",
	"立替経費（福利厚生費）",
	"立替経費（通信費）",
	"立替経費（交通費）",
}

// Validate checks each statement independently and returns one error per
// violation, in input order. It performs no I/O. The result is never nil.
func Validate(statements []domain.PayrollStatement) []domain.ValidationError {
	errs := make([]domain.ValidationError, 0)

	for i := range statements {
		st := &statements[i]
		employee := st.DisplayName()

		if st.TotalSalary != nil && *st.TotalSalary <= 0 {
			errs = append(errs, domain.ValidationError{
				Employee: employee,
				Item:     ItemTotalSalary,
				Amount:   *st.TotalSalary,
				Message:  ItemTotalSalary + "が0以下です。",
			})
		}

		for _, category := range DisallowedReimbursements {
			amount, ok := st.Deductions[category]
			if !ok || amount <= 0 {
				continue
			}
			errs = append(errs, domain.ValidationError{
				Employee: employee,
				Item:     category,
				Amount:   amount,
				Message:  category + "が計上されています。",
			})
		}
	}

	return errs
}
