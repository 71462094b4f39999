package validation

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/csemotors/dealer/internal/store"
	"github.com/csemotors/dealer/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	byEmail map[string]types.Account
	err     error
	calls   int
}

func (f *fakeAccounts) EmailExists(_ context.Context, email string) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (types.Account, error) {
	f.calls++
	if f.err != nil {
		return types.Account{}, f.err
	}
	account, ok := f.byEmail[email]
	if !ok {
		return types.Account{}, store.ErrNotFound
	}
	return account, nil
}

func newTestValidator() (*Validator, *fakeAccounts) {
	accounts := &fakeAccounts{byEmail: map[string]types.Account{
		"taken@example.com": {ID: 7, Email: "taken@example.com"},
	}}
	return New(accounts), accounts
}

func TestRegisterValid(t *testing.T) {
	v, _ := newTestValidator()
	form := RegisterForm{
		FirstName: "  Ann ",
		LastName:  "Lee",
		Email:     " Ann@Example.com ",
		Password:  "Str0ng!Passw0rd12",
	}

	errs, err := v.Register(context.Background(), &form)
	require.NoError(t, err)
	assert.False(t, errs.Any())
	assert.Equal(t, "Ann", form.FirstName)
	assert.Equal(t, "ann@example.com", form.Email)
}

func TestRegisterCollectsAllErrors(t *testing.T) {
	v, accounts := newTestValidator()
	form := RegisterForm{LastName: "L", Email: "not-an-email", Password: "weak"}

	errs, err := v.Register(context.Background(), &form)
	require.NoError(t, err)
	assert.Equal(t, Errors{
		{Field: "account_firstname", Message: "Please provide a first name."},
		{Field: "account_lastname", Message: "Please provide a last name."},
		{Field: "account_email", Message: "A valid email is required."},
		{Field: "account_password", Message: "Password does not meet requirements."},
	}, errs)
	assert.Zero(t, accounts.calls, "uniqueness lookup skipped for malformed email")
}

func TestRegisterExistingEmail(t *testing.T) {
	v, _ := newTestValidator()
	form := RegisterForm{
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "TAKEN@example.com",
		Password:  "Str0ng!Passw0rd12",
	}

	errs, err := v.Register(context.Background(), &form)
	require.NoError(t, err)
	assert.Equal(t, Errors{{Field: "account_email", Message: msgEmailTaken}}, errs)
}

func TestRegisterLookupFailure(t *testing.T) {
	v, accounts := newTestValidator()
	accounts.err = errors.New("connection refused")
	form := RegisterForm{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com", Password: "Str0ng!Passw0rd12"}

	_, err := v.Register(context.Background(), &form)
	assert.Error(t, err)
}

func TestUpdateAccountEmailOwnership(t *testing.T) {
	v, _ := newTestValidator()

	tests := []struct {
		name      string
		accountID string
		email     string
		want      Errors
	}{
		{"own email", "7", "taken@example.com", nil},
		{"fresh email", "8", "fresh@example.com", nil},
		{"someone else's email", "8", "taken@example.com", Errors{{Field: "account_email", Message: msgEmailTakenUpdate}}},
		{"bad id", "abc", "fresh@example.com", Errors{{Field: "account_id", Message: "Invalid account."}}},
		{"negative id", "-4", "fresh@example.com", Errors{{Field: "account_id", Message: "Invalid account."}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form AccountUpdateForm
			require.NoError(t, Decode(url.Values{
				"account_id":        {tt.accountID},
				"account_firstname": {"Ann"},
				"account_lastname":  {"Lee"},
				"account_email":     {tt.email},
			}, &form))
			errs, err := v.UpdateAccount(context.Background(), &form)
			require.NoError(t, err)
			assert.Equal(t, tt.want, errs)
		})
	}
}

func TestLoginDoesNotCheckStrength(t *testing.T) {
	v, _ := newTestValidator()

	errs := v.Login(&LoginForm{Email: "ann@example.com", Password: "weak"})
	assert.False(t, errs.Any())

	errs = v.Login(&LoginForm{Email: "ann", Password: ""})
	assert.Equal(t, []string{"Please provide a valid email address.", "Please provide a password."}, errs.Messages())
}

func TestUpdatePassword(t *testing.T) {
	v, _ := newTestValidator()

	var form PasswordUpdateForm
	require.NoError(t, Decode(url.Values{"account_id": {" 3 "}, "account_password": {"Str0ng!Passw0rd12"}}, &form))
	assert.False(t, v.UpdatePassword(&form).Any())
	assert.Equal(t, 3, form.AccountID)

	form = PasswordUpdateForm{}
	require.NoError(t, Decode(url.Values{"account_id": {"0"}, "account_password": {"short"}}, &form))
	assert.Equal(t, []string{"Invalid account.", "Password does not meet requirements."}, v.UpdatePassword(&form).Messages())
}

func TestDecodeKeepsPasswordsVerbatim(t *testing.T) {
	var form LoginForm
	require.NoError(t, Decode(url.Values{
		"account_email":    {"  ann@example.com  "},
		"account_password": {" pass word "},
		"unknown_field":    {"ignored"},
	}, &form))
	assert.Equal(t, "ann@example.com", form.Email)
	assert.Equal(t, " pass word ", form.Password)
}

func TestClassification(t *testing.T) {
	v, _ := newTestValidator()

	tests := []struct {
		name string
		want []string
	}{
		{"Sedan", []string{}},
		{"  SUV4x4  ", []string{}},
		{"Sedans Luxury", []string{"Classification name must not contain spaces or special characters."}},
		{"Trucks!", []string{"Classification name must not contain spaces or special characters."}},
		{"   ", []string{"Please provide a classification name."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := ClassificationForm{Name: tt.name}
			assert.Equal(t, tt.want, v.Classification(&form).Messages())
		})
	}
}

func inventoryValues() url.Values {
	return url.Values{
		"classification_id": {"2"},
		"inv_make":          {"DMC"},
		"inv_model":         {"Delorean"},
		"inv_year":          {"1982"},
		"inv_description":   {"Time machine."},
		"inv_image":         {"/images/vehicles/delorean.jpg"},
		"inv_thumbnail":     {"/images/vehicles/delorean-tn.jpg"},
		"inv_price":         {"65000.50"},
		"inv_miles":         {"32000"},
		"inv_color":         {"Silver"},
	}
}

func decodeInventory(t *testing.T, values url.Values) InventoryForm {
	t.Helper()
	var form InventoryForm
	require.NoError(t, Decode(values, &form))
	return form
}

func TestInventoryValid(t *testing.T) {
	v, _ := newTestValidator()
	form := decodeInventory(t, inventoryValues())

	require.False(t, v.Inventory(&form).Any())

	vehicle := form.Vehicle()
	assert.Equal(t, 2, vehicle.ClassificationID)
	assert.Equal(t, 1982, vehicle.Year)
	assert.Equal(t, 32000, vehicle.Miles)
	assert.True(t, decimal.RequireFromString("65000.50").Equal(vehicle.Price))
}

func TestInventoryRoundsPrice(t *testing.T) {
	v, _ := newTestValidator()
	values := inventoryValues()
	values.Set("inv_price", "19999.999")
	form := decodeInventory(t, values)

	require.False(t, v.Inventory(&form).Any())
	assert.Equal(t, "20000", form.Vehicle().Price.String())
}

func TestInventoryRanges(t *testing.T) {
	v, _ := newTestValidator()

	tests := []struct {
		name  string
		field string
		value string
		want  []string
	}{
		{"missing classification", "classification_id", "", []string{"Please select a classification."}},
		{"zero classification", "classification_id", "0", []string{"Please select a classification."}},
		{"negative classification", "classification_id", "-2", []string{"Classification selection is invalid."}},
		{"text classification", "classification_id", "sedan", []string{"Classification selection is invalid."}},
		{"missing year", "inv_year", " ", []string{"Please provide the vehicle year."}},
		{"old year", "inv_year", "1899", []string{"Please provide a valid year."}},
		{"huge year", "inv_year", "10000", []string{"Please provide a valid year."}},
		{"missing price", "inv_price", "", []string{"Please provide a price."}},
		{"negative price", "inv_price", "-1", []string{"Please provide a positive price."}},
		{"text price", "inv_price", "cheap", []string{"Please provide a positive price."}},
		{"zero price", "inv_price", "0", []string{}},
		{"top price", "inv_price", "9999999999.99", []string{}},
		{"price beyond column", "inv_price", "1e20", []string{"Price must not exceed $9,999,999,999.99."}},
		{"missing miles", "inv_miles", "", []string{"Please provide mileage."}},
		{"zero miles", "inv_miles", "0", []string{}},
		{"negative miles", "inv_miles", "-5", []string{"Please provide valid mileage."}},
		{"fractional miles", "inv_miles", "1.5", []string{"Please provide valid mileage."}},
		{"miles beyond column", "inv_miles", "3000000000", []string{"Mileage must not exceed 2,147,483,647."}},
		{"blank color", "inv_color", "  ", []string{"Please provide a color."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := inventoryValues()
			values.Set(tt.field, tt.value)
			form := decodeInventory(t, values)
			assert.Equal(t, tt.want, v.Inventory(&form).Messages())
		})
	}
}

func TestInventoryReportsEveryFieldInOrder(t *testing.T) {
	v, _ := newTestValidator()
	form := decodeInventory(t, url.Values{"inv_year": {"abc"}, "inv_price": {"-3"}})

	errs := v.Inventory(&form)
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{
		"classification_id", "inv_make", "inv_model", "inv_year", "inv_description",
		"inv_image", "inv_thumbnail", "inv_price", "inv_miles", "inv_color",
	}, fields)
	assert.Equal(t, "Please provide a valid year.", errs[3].Message)
	assert.Equal(t, "Please provide a positive price.", errs[7].Message)
}
