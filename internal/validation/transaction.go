// Package validation checks transactions, names and command inputs before
// they reach the ledger state.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var orderNumberPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

func getEngine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			return models.Currency(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("ordernumber", func(fl validator.FieldLevel) bool {
			return IsOrderNumber(fl.Field().String())
		})
		engine = v
	})
	return engine
}

// IsOrderNumber reports whether s is a well-formed order number.
func IsOrderNumber(s string) bool {
	return orderNumberPattern.MatchString(s)
}

// Transaction checks the field completeness rules of the record's type.
func Transaction(tx models.Transaction) error {
	if tx == nil {
		return &ledgererror.ValidationError{Field: "transaction", Reason: "is missing"}
	}
	if u, ok := tx.(models.Unrecognized); ok {
		return &ledgererror.ValidationError{Type: string(u.Type), Field: "type", Reason: "could not be decoded: " + u.Cause}
	}

	err := getEngine().Struct(tx)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate %s: %w", tx.Kind(), err)
	}
	fe := fieldErrs[0]
	return &ledgererror.ValidationError{Type: string(tx.Kind()), Field: fe.Field(), Reason: reason(fe)}
}

// Transactions validates every record, reporting the first failure with its
// position.
func Transactions(ts models.Transactions) error {
	for i, tx := range ts {
		if err := Transaction(tx); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "currency":
		return "must be one of usd, cny, irr"
	case "ordernumber":
		return "must contain only letters, digits and dashes"
	case "nefield":
		return "must differ from " + strings.ToLower(fe.Param())
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// PersonName trims name and checks it is usable as a person identity.
func PersonName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ledgererror.ValidationError{Field: "person", Reason: "name cannot be empty"}
	}
	return name, nil
}

// CategoryName trims name and checks it is usable as a category key.
func CategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ledgererror.ValidationError{Field: "category", Reason: "name cannot be empty"}
	}
	return name, nil
}
