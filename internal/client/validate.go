package client

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Input carries the raw form field values of a submission, before any record
// is created or updated.
type Input struct {
	FullName  string `validate:"required"`
	Age       string `validate:"omitempty,clientage"`
	Gender    string `validate:"omitempty,gender"`
	Email     string `validate:"required,tldemail"`
	Phone     string `validate:"required,phone11"`
	Goal      string `validate:"required"`
	StartDate string `validate:"required,startdate"`
	EndDate   string `validate:"required"`
}

// ValidationError reports the first rule a submission violated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var emailPattern = regexp.MustCompile(`(?i)^[^\s@]+@[^\s@]+\.(com|edu)$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	must := func(err error) {
		if err != nil {
			panic(fmt.Sprintf("register validation: %v", err))
		}
	}
	must(v.RegisterValidation("tldemail", func(fl validator.FieldLevel) bool {
		return validEmail(fl.Field().String())
	}))
	must(v.RegisterValidation("clientage", func(fl validator.FieldLevel) bool {
		return validAge(fl.Field().String())
	}))
	must(v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return validGender(fl.Field().String())
	}))
	must(v.RegisterValidation("phone11", func(fl validator.FieldLevel) bool {
		return validPhone(fl.Field().String())
	}))
	must(v.RegisterValidation("startdate", func(fl validator.FieldLevel) bool {
		return dateNotBefore(fl.Field().String(), today())
	}))
	v.RegisterStructValidation(validateDateOrder, Input{})
	return v
}

func validateDateOrder(sl validator.StructLevel) {
	in := sl.Current().Interface().(Input)
	if strings.TrimSpace(in.StartDate) == "" || strings.TrimSpace(in.EndDate) == "" {
		return
	}
	if _, ok := parseDate(in.StartDate); !ok {
		return
	}
	if !endAfterStart(in.StartDate, in.EndDate) {
		sl.ReportError(in.EndDate, "EndDate", "EndDate", "endafterstart", "")
	}
}

// fieldOrder fixes which violation is reported when several rules fail at
// once: presence and format of each field, in form order.
var fieldOrder = []string{"FullName", "Age", "Gender", "Email", "Phone", "Goal", "StartDate", "EndDate"}

var messages = map[string]string{
	"FullName.required":     "Full name is required",
	"Age.clientage":         "Age must be a whole number between 5 and 120",
	"Gender.gender":         "Gender must be male, female, or other",
	"Email.required":        "Email is required",
	"Email.tldemail":        "Email must be a valid .com or .edu address",
	"Phone.required":        "Phone is required",
	"Phone.phone11":         "Phone must contain exactly 11 digits",
	"Goal.required":         "Goal is required",
	"StartDate.required":    "Start date is required",
	"StartDate.startdate":   "Start date must be YYYY-MM-DD and not in the past",
	"EndDate.required":      "End date is required",
	"EndDate.endafterstart": "End date must be after the start date",
}

// Validate checks a submission against every field rule and returns the first
// violation in form order, or nil when the input is acceptable.
func Validate(in Input) error {
	err := validate.Struct(trimmed(in))
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate input: %w", err)
	}
	byField := make(map[string]validator.FieldError, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := byField[fe.StructField()]; !seen {
			byField[fe.StructField()] = fe
		}
	}
	for _, field := range fieldOrder {
		fe, ok := byField[field]
		if !ok {
			continue
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", field)
		}
		return &ValidationError{Field: field, Message: msg}
	}
	return fmt.Errorf("validate input: %w", err)
}

func trimmed(in Input) Input {
	return Input{
		FullName:  strings.TrimSpace(in.FullName),
		Age:       strings.TrimSpace(in.Age),
		Gender:    strings.TrimSpace(in.Gender),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Goal:      strings.TrimSpace(in.Goal),
		StartDate: strings.TrimSpace(in.StartDate),
		EndDate:   strings.TrimSpace(in.EndDate),
	}
}

func validEmail(value string) bool {
	return emailPattern.MatchString(strings.TrimSpace(value))
}

func validAge(value string) bool {
	age, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return age >= 5 && age <= 120
}

func validGender(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, g := range Genders {
		if v == g {
			return true
		}
	}
	return false
}

func validPhone(value string) bool {
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits == 11
}

// dateNotBefore accepts values on or after the reference day. Both sides are
// compared at day granularity.
func dateNotBefore(value string, day time.Time) bool {
	d, ok := parseDate(value)
	if !ok {
		return false
	}
	return !d.Before(day)
}

func endAfterStart(start, end string) bool {
	s, ok := parseDate(start)
	if !ok {
		return false
	}
	e, ok := parseDate(end)
	if !ok {
		return false
	}
	return e.After(s)
}

// today returns the current calendar day with the time-of-day zeroed.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
