package walletdelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/payflux/payflux/pkg/docpkg"
)

// ValidDocument validates CPF and CNPJ document numbers by their check digits.
var ValidDocument validator.Func = func(fl validator.FieldLevel) bool {
	if doc, ok := fl.Field().Interface().(string); ok {
		return docpkg.IsValid(doc)
	}
	return false
}
