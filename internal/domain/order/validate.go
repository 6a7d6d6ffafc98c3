package order

import (
	"fmt"
	"strings"

	"github.com/ogen-go/ogen/validate"
)

// Request limits.
const (
	MaxFlavors            = 3
	MaxExtraShots         = 5
	MaxInstructionsLength = 200
)

// ValidationError lists every field of a request that failed validation.
type ValidationError struct {
	Fields []validate.FieldError
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s (%v)", f.Name, f.Error)
	}
	return b.String()
}

// Validate checks every field of r and reports all violations at once.
func (r Request) Validate() error {
	var failures []validate.FieldError
	fail := func(name string, err error) {
		failures = append(failures, validate.FieldError{Name: name, Error: err})
	}

	if r.Size == "" {
		fail("size", validate.ErrFieldRequired)
	} else if err := r.Size.Validate(); err != nil {
		fail("size", err)
	}

	if r.CoffeeType == "" {
		fail("coffee_type", validate.ErrFieldRequired)
	} else if err := r.CoffeeType.Validate(); err != nil {
		fail("coffee_type", err)
	}

	if err := (validate.Array{
		MaxLength:    MaxFlavors,
		MaxLengthSet: true,
	}).ValidateLength(len(r.Flavors)); err != nil {
		fail("flavors", err)
	}
	for i, f := range r.Flavors {
		if err := f.Validate(); err != nil {
			fail(fmt.Sprintf("flavors[%d]", i), err)
		}
	}

	if r.Milk != nil {
		if err := r.Milk.Validate(); err != nil {
			fail("milk", err)
		}
	}

	if r.ExtraShots != nil {
		if err := (validate.Int{
			MinSet: true,
			Min:    0,
			MaxSet: true,
			Max:    MaxExtraShots,
		}).Validate(int64(*r.ExtraShots)); err != nil {
			fail("extra_shot", err)
		}
	}

	if r.SpecialInstructions != nil {
		if err := (validate.String{
			MaxLength:    MaxInstructionsLength,
			MaxLengthSet: true,
		}).Validate(*r.SpecialInstructions); err != nil {
			fail("special_instructions", err)
		}
	}

	if len(failures) > 0 {
		return &ValidationError{Fields: failures}
	}
	return nil
}
