package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"lumina/internal/entity"
)

var (
	validate = newValidator()

	isbn10 = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13 = regexp.MustCompile(`^\d{13}$`)
	phone  = regexp.MustCompile(`^\+?[\d\s-]{6,20}$`)
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("isbn", validateISBN)
	_ = v.RegisterValidation("book_status", validateBookStatus)
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("join_date", validateJoinDate)
	return v
}

// NormalizeISBN strips the separators people commonly type and upper-cases
// the ISBN-10 check digit.
func NormalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	return strings.ToUpper(isbn)
}

func validateISBN(fl validator.FieldLevel) bool {
	isbn := NormalizeISBN(fl.Field().String())
	return isbn10.MatchString(isbn) || isbn13.MatchString(isbn)
}

// book_status accepts the statuses inventory edits may set. Borrowed is
// reserved for the lending workflow.
func validateBookStatus(fl validator.FieldLevel) bool {
	switch entity.BookStatus(fl.Field().String()) {
	case entity.BookAvailable, entity.BookMaintenance:
		return true
	}
	return false
}

func validatePhone(fl validator.FieldLevel) bool {
	return phone.MatchString(fl.Field().String())
}

func validateJoinDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(entity.JoinDateLayout, fl.Field().String())
	return err == nil
}

// ValidateStruct checks s against its validate tags and returns one detail
// per failing field, or nil.
func ValidateStruct(s any) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ErrorDetail{{Field: "body", Message: err.Error()}}
	}

	details := make([]ErrorDetail, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		param := fe.Param()

		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "isbn":
			message = fmt.Sprintf("%s must be a valid ISBN (10 or 13 digits)", field)
		case "book_status":
			message = fmt.Sprintf("%s must be Available or Maintenance", field)
		case "phone":
			message = fmt.Sprintf("%s must be a phone number", field)
		case "join_date":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD form", field)
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", field, param)
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", field, param)
		case "url":
			message = fmt.Sprintf("%s must be a URL", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		details = append(details, ErrorDetail{Field: field, Message: message})
	}
	return details
}
