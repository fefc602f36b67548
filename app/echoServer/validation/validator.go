// Package validation plugs go-playground/validator into Echo's Validator
// slot so request DTOs can be checked with `validate` struct tags. One
// shared instance is wired in main.go; validator.Validate caches struct
// metadata, so reusing it matters.
package validation

import (
	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

// Validate satisfies echo.Validator. The reservation and room DTOs carry
// the tags; controllers translate the returned error into a 400.
func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}
