package validation

import (
	"strings"

	"github.com/csemotors/dealer/types"
	"github.com/shopspring/decimal"
)

// Struct tags:
//   form     the HTML field name, used for error keys and echoing values
//   validate go-playground/validator rules
//   msg      message for a missing or otherwise failing value
//   invalid  message for a present but malformed value (defaults to msg)
//   limit    message for a value above its upper bound (defaults to invalid)

type RegisterForm struct {
	FirstName string `form:"account_firstname" validate:"required" msg:"Please provide a first name."`
	LastName  string `form:"account_lastname" validate:"required,min=2" msg:"Please provide a last name."`
	Email     string `form:"account_email" validate:"required,email" msg:"A valid email is required."`
	Password  string `form:"account_password" validate:"required,strongpassword" msg:"Password does not meet requirements."`
}

func (f *RegisterForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = NormalizeEmail(f.Email)
}

type LoginForm struct {
	Email    string `form:"account_email" validate:"required,email" msg:"Please provide a valid email address."`
	Password string `form:"account_password" validate:"required" msg:"Please provide a password."`
}

func (f *LoginForm) Normalize() {
	f.Email = NormalizeEmail(f.Email)
}

type AccountUpdateForm struct {
	Malformed `form:"-" validate:"-"`
	AccountID int    `form:"account_id" validate:"required,gte=1" msg:"Invalid account."`
	FirstName string `form:"account_firstname" validate:"required" msg:"Please provide a first name."`
	LastName  string `form:"account_lastname" validate:"required" msg:"Please provide a last name."`
	Email     string `form:"account_email" validate:"required,email" msg:"A valid email is required."`
}

func (f *AccountUpdateForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = NormalizeEmail(f.Email)
}

type PasswordUpdateForm struct {
	Malformed `form:"-" validate:"-"`
	AccountID int    `form:"account_id" validate:"required,gte=1" msg:"Invalid account."`
	Password  string `form:"account_password" validate:"required,strongpassword" msg:"Password does not meet requirements."`
}

type ClassificationForm struct {
	Name string `form:"classification_name" validate:"required,alphanum" msg:"Please provide a classification name." invalid:"Classification name must not contain spaces or special characters."`
}

func (f *ClassificationForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
}

// InventoryForm holds a submitted vehicle. Price and Miles are pointers so
// that a missing value is distinguishable from zero. Their upper bounds
// follow the NUMERIC(12,2) and INTEGER inventory columns.
type InventoryForm struct {
	Malformed        `form:"-" validate:"-"`
	ClassificationID int              `form:"classification_id" validate:"required,gte=1" msg:"Please select a classification." invalid:"Classification selection is invalid."`
	Make             string           `form:"inv_make" validate:"required" msg:"Please provide the vehicle make."`
	Model            string           `form:"inv_model" validate:"required" msg:"Please provide the vehicle model."`
	Year             int              `form:"inv_year" validate:"required,gte=1900,lte=9999" msg:"Please provide the vehicle year." invalid:"Please provide a valid year."`
	Description      string           `form:"inv_description" validate:"required" msg:"Please provide a description."`
	Image            string           `form:"inv_image" validate:"required" msg:"Please provide an image path."`
	Thumbnail        string           `form:"inv_thumbnail" validate:"required" msg:"Please provide a thumbnail path."`
	Price            *decimal.Decimal `form:"inv_price" validate:"required,gte=0,lte=9999999999.99" msg:"Please provide a price." invalid:"Please provide a positive price." limit:"Price must not exceed $9,999,999,999.99."`
	Miles            *int             `form:"inv_miles" validate:"required,gte=0,lte=2147483647" msg:"Please provide mileage." invalid:"Please provide valid mileage." limit:"Mileage must not exceed 2,147,483,647."`
	Color            string           `form:"inv_color" validate:"required" msg:"Please provide a color."`
}

func (f *InventoryForm) Normalize() {
	f.Make = strings.TrimSpace(f.Make)
	f.Model = strings.TrimSpace(f.Model)
	f.Description = strings.TrimSpace(f.Description)
	f.Image = strings.TrimSpace(f.Image)
	f.Thumbnail = strings.TrimSpace(f.Thumbnail)
	f.Color = strings.TrimSpace(f.Color)
	if f.Price != nil {
		rounded := f.Price.Round(2)
		f.Price = &rounded
	}
}

// Vehicle converts a validated form into a vehicle record.
func (f InventoryForm) Vehicle() types.Vehicle {
	vehicle := types.Vehicle{
		Make:             f.Make,
		Model:            f.Model,
		Year:             f.Year,
		Description:      f.Description,
		Image:            f.Image,
		Thumbnail:        f.Thumbnail,
		Color:            f.Color,
		ClassificationID: f.ClassificationID,
	}
	if f.Price != nil {
		vehicle.Price = *f.Price
	}
	if f.Miles != nil {
		vehicle.Miles = *f.Miles
	}
	return vehicle
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
