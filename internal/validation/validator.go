package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with cross-field validation
// registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// the offer price must not exceed the actual price
	v.RegisterStructValidation(createProductStructValidation, CreateProductRequest{})

	return v
}

func createProductStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateProductRequest)

	if req.OfferPrice > req.ActualPrice {
		sl.ReportError(req.OfferPrice, "offerPrice", "OfferPrice", "offer_lte_actual", "")
	}
}
