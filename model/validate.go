package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidScore = errors.New("invalid score")

var validate = validator.New()

// Validate checks the invariants the document builder relies on: pitch
// steps A-G, positive durations, rests without notes and notes in every
// other chord.
func (s Score) Validate() error {
	for si, staff := range s.Staffs {
		for mi, measure := range staff.Measures {
			for yi, sym := range measure.Symbols {
				if err := validateSymbol(sym); err != nil {
					return fmt.Errorf("%w: staff %d measure %d symbol %d: %v", ErrInvalidScore, si+1, mi+1, yi+1, err)
				}
			}
		}
	}
	return nil
}

func validateSymbol(sym Symbol) error {
	if sym == nil {
		return errors.New("missing symbol")
	}
	if err := validate.Struct(sym); err != nil {
		return err
	}
	c, ok := sym.(Chord)
	if !ok {
		return nil
	}
	if c.IsRest && len(c.Notes) > 0 {
		return fmt.Errorf("rest carries %d notes", len(c.Notes))
	}
	if !c.IsRest && len(c.Notes) == 0 {
		return errors.New("chord has no notes")
	}
	return nil
}
