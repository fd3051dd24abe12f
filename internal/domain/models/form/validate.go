package form

import (
	"errors"
	"fmt"
	"regexp"

	"formcraft/internal/config"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// fieldKeyPattern restricts explicit keys to identifiers usable as export columns
var fieldKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// TypeCatalog answers questions about block type tags (implemented by blocktypes.Registry)
type TypeCatalog interface {
	IsKnown(id string) bool
	IsChoice(id string) bool
}

// Validate checks the structural shape of a form as it enters the system.
// It does not look for duplicate keys or logic cycles; see service/logic for that.
// A nil catalog skips block type checks.
func (f *Form) Validate(catalog TypeCatalog) error {
	return validation.ValidateStruct(f,
		validation.Field(&f.ID, validation.Required),
		validation.Field(&f.Title, validation.Length(0, config.MaxFormTitleLength)),
		validation.Field(&f.Pages,
			validation.Required.Error("a form needs at least one page"),
			validation.Each(validation.By(func(value interface{}) error {
				page, _ := value.(Page)
				return page.validate(catalog)
			})),
		),
		validation.Field(&f.Logic, validation.By(func(value interface{}) error {
			logic, _ := value.(*Logic)
			return logic.validate()
		})),
	)
}

func (p Page) validate(catalog TypeCatalog) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Title, validation.Length(0, config.MaxPageTitleLength)),
		validation.Field(&p.Blocks, validation.Each(validation.By(func(value interface{}) error {
			block, _ := value.(Block)
			return block.validate(catalog)
		}))),
	)
}

func (b Block) validate(catalog TypeCatalog) error {
	choice := catalog != nil && catalog.IsChoice(string(b.Type))
	return validation.ValidateStruct(&b,
		validation.Field(&b.ID, validation.Required),
		validation.Field(&b.Type, validation.Required, validation.By(func(value interface{}) error {
			t, _ := value.(BlockType)
			if catalog != nil && t != "" && !catalog.IsKnown(string(t)) {
				return fmt.Errorf("unknown block type %q", t)
			}
			return nil
		})),
		validation.Field(&b.Question, validation.Length(0, config.MaxQuestionLength)),
		validation.Field(&b.Key,
			validation.Length(0, config.MaxFieldKeyLength),
			validation.Match(fieldKeyPattern).Error("must start with a letter or underscore and contain only letters, digits, '_', '.' or '-'"),
		),
		validation.Field(&b.Options,
			validation.When(choice, validation.Required.Error("choice blocks need at least one option")),
			validation.Each(validation.By(func(value interface{}) error {
				opt, _ := value.(Option)
				return validation.ValidateStruct(&opt,
					validation.Field(&opt.Label, validation.Required),
				)
			})),
		),
	)
}

func (l *Logic) validate() error {
	if l == nil {
		return nil
	}
	return validation.ValidateStruct(l,
		validation.Field(&l.Rules, validation.Each(validation.By(func(value interface{}) error {
			rule, _ := value.(LogicRule)
			return rule.validate()
		}))),
	)
}

func (r LogicRule) validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Conditions,
			validation.Required.Error("a rule needs at least one condition"),
			validation.Each(validation.By(func(value interface{}) error {
				c, _ := value.(Condition)
				return validation.ValidateStruct(&c,
					validation.Field(&c.Field, validation.Required),
					validation.Field(&c.Operator, validation.Required, validation.In(
						OperatorEquals, OperatorNotEquals, OperatorContains, OperatorNotContains,
						OperatorGreaterThan, OperatorLessThan, OperatorIsEmpty, OperatorIsNotEmpty,
					)),
				)
			})),
		),
		validation.Field(&r.Actions,
			validation.Required.Error("a rule needs at least one action"),
			validation.Each(validation.By(func(value interface{}) error {
				a, _ := value.(Action)
				return validation.ValidateStruct(&a,
					validation.Field(&a.Kind, validation.Required, validation.In(
						ActionShow, ActionHide, ActionSkip, ActionJump, ActionSetValue,
					)),
					validation.Field(&a.Target, validation.Required),
				)
			})),
		),
	)
}

// IsValidationError reports whether err came from Validate (as opposed to an
// internal rule failure)
func IsValidationError(err error) bool {
	var errs validation.Errors
	return errors.As(err, &errs)
}
