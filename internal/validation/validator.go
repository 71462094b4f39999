package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/csemotors/dealer/internal/store"
	"github.com/csemotors/dealer/types"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	msgEmailTaken       = "Email exists. Please log in or use different email"
	msgEmailTakenUpdate = "Email exists. Please use a different email address."
)

// AccountLookup is the store access needed by uniqueness rules.
type AccountLookup interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (types.Account, error)
}

// Validator runs field rules and store-backed rules for every form.
// A returned error means a rule could not be evaluated, not that input was invalid.
type Validator struct {
	validate *validator.Validate
	accounts AccountLookup
}

func New(accounts AccountLookup) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return StrongPassword(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register strongpassword validation: %v", err))
	}

	return &Validator{validate: v, accounts: accounts}
}

// decimalValue lets numeric rules such as gte and lte compare decimals.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func (v *Validator) Register(ctx context.Context, form *RegisterForm) (Errors, error) {
	form.Normalize()
	errs := v.fields(form)
	if !errs.Has("account_email") {
		exists, err := v.accounts.EmailExists(ctx, form.Email)
		if err != nil {
			return nil, fmt.Errorf("check existing email: %w", err)
		}
		if exists {
			errs.add("account_email", msgEmailTaken)
		}
	}
	return errs, nil
}

func (v *Validator) Login(form *LoginForm) Errors {
	form.Normalize()
	return v.fields(form)
}

func (v *Validator) UpdateAccount(ctx context.Context, form *AccountUpdateForm) (Errors, error) {
	form.Normalize()
	errs := v.fields(form)
	if !errs.Has("account_email") {
		existing, err := v.accounts.GetByEmail(ctx, form.Email)
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("check existing email: %w", err)
		case existing.ID != form.AccountID:
			errs.add("account_email", msgEmailTakenUpdate)
		}
	}
	return errs, nil
}

func (v *Validator) UpdatePassword(form *PasswordUpdateForm) Errors {
	return v.fields(form)
}

func (v *Validator) Classification(form *ClassificationForm) Errors {
	form.Normalize()
	return v.fields(form)
}

func (v *Validator) Inventory(form *InventoryForm) Errors {
	form.Normalize()
	return v.fields(form)
}

// fields runs the struct tag rules of form and converts failures into
// user-facing messages, one per field in declaration order. Fields that
// could not be decoded are reported as invalid.
func (v *Validator) fields(form any) Errors {
	failed := make(map[string]string)
	if err := v.validate.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			var errs Errors
			errs.add("", err.Error())
			return errs
		}
		for _, fe := range fieldErrs {
			if _, seen := failed[fe.StructField()]; !seen {
				failed[fe.StructField()] = fe.Tag()
			}
		}
	}
	checker, _ := form.(malformedChecker)

	var errs Errors
	formType := reflect.Indirect(reflect.ValueOf(form)).Type()
	for i := 0; i < formType.NumField(); i++ {
		field := formType.Field(i)
		name := field.Tag.Get("form")
		if name == "" || name == "-" {
			continue
		}
		tag, ok := failed[field.Name]
		if checker != nil && checker.isMalformed(name) {
			tag, ok = tagMalformed, true
		}
		if ok {
			errs.add(name, message(field, tag))
		}
	}
	return errs
}

const tagMalformed = "malformed"

func message(field reflect.StructField, failedTag string) string {
	switch failedTag {
	case "required":
	case "lte":
		if limit := field.Tag.Get("limit"); limit != "" {
			return limit
		}
		fallthrough
	default:
		if invalid := field.Tag.Get("invalid"); invalid != "" {
			return invalid
		}
	}
	if msg := field.Tag.Get("msg"); msg != "" {
		return msg
	}
	return field.Name + " is invalid."
}
