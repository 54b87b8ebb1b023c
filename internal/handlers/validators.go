package handlers

import (
	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerCustomValidators wires the domain enum checks into gin's binding
// engine so request DTOs can use them as binding tags.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("accountcategory", func(fl validator.FieldLevel) bool {
		return domain.ValidAccountCategory(domain.AccountCategory(fl.Field().String()))
	})
	v.RegisterValidation("transactionkind", func(fl validator.FieldLevel) bool {
		switch domain.TransactionKind(fl.Field().String()) {
		case domain.KindIncome, domain.KindExpense, domain.KindCardExpense, domain.KindTransfer, domain.KindPayment:
			return true
		}
		return false
	})
}
