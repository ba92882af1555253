package request

import (
	"pos-checkout/internal/domain/discount"
	"pos-checkout/internal/domain/tender"
	"pos-checkout/internal/pkg/errs"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var errUnexpectedValidator = errs.New("gin validator engine is not go-playground/validator")

// RegisterValidators adds the checkout tags to gin's binding validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errUnexpectedValidator
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	custom := map[string]validator.Func{
		"money":         validateMoney,
		"signed_money":  validateSignedMoney,
		"tender_method": validateTenderMethod,
		"discount_kind": validateDiscountKind,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return errs.Wrapf(err, "register %s", tag)
		}
	}
	return nil
}

func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}

func validateSignedMoney(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(fl.Field().String())
	return err == nil
}

func validateTenderMethod(fl validator.FieldLevel) bool {
	_, err := tender.ParseMethod(fl.Field().String())
	return err == nil
}

func validateDiscountKind(fl validator.FieldLevel) bool {
	_, err := discount.ParseKind(fl.Field().String())
	return err == nil
}
