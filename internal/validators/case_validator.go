// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/go-case-keeper/models"
)

// Field names accepted by [CaseValidator.Validate] for partial validation.
// They are the Go field names of the validated struct.
const (
	FieldClientName   = "ClientName"
	FieldCaseNumber   = "CaseNumber"
	FieldCourtName    = "CourtName"
	FieldStatus       = "Status"
	FieldFiles        = "Files"
	FieldHearingDates = "HearingDates"
	FieldDate         = "Date"
	FieldEmail        = "Email"
	FieldPassword     = "Password"
)

// fieldErrors maps a failing struct field onto the sentinel reported to the
// caller.
var fieldErrors = map[string]error{
	FieldClientName:   ErrInvalidClientName,
	FieldCaseNumber:   ErrInvalidCaseNumber,
	FieldCourtName:    ErrInvalidCourtName,
	FieldStatus:       ErrInvalidStatus,
	FieldDate:         ErrInvalidHearing,
	FieldHearingDates: ErrInvalidHearing,
	FieldFiles:        ErrInvalidFile,
	"ID":              ErrInvalidFile,
	"FileName":        ErrInvalidFile,
	FieldEmail:        ErrInvalidEmail,
	FieldPassword:     ErrInvalidPassword,
}

// CaseValidator implements [Validator] for the inputs of case, hearing, file
// and authentication operations. Rules are declared as `validate` struct tags
// on the models and enforced by go-playground/validator.
type CaseValidator struct {
	validate *validator.Validate
}

// NewCaseValidator constructs a CaseValidator with the custom "notblank" rule
// registered.
func NewCaseValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// error messages use the json names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", notBlank)

	return &CaseValidator{validate: v}
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// Validate checks obj against its declared rules. When fields are given only
// those fields are validated.
func (v *CaseValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch obj.(type) {
	case models.NewCase, *models.NewCase,
		models.NewHearing, *models.NewHearing,
		models.CaseUpdate, *models.CaseUpdate,
		models.HearingUpdate, *models.HearingUpdate,
		models.CaseFile, *models.CaseFile,
		models.Credentials, *models.Credentials:
	default:
		return ErrUnsupportedType
	}

	var err error
	if len(fields) == 0 {
		err = v.validate.StructCtx(ctx, obj)
	} else {
		if err = checkFields(obj, fields); err != nil {
			return err
		}
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	}

	return translate(err)
}

func checkFields(obj any, fields []string) error {
	t := reflect.TypeOf(obj)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, f := range fields {
		if _, ok := t.FieldByName(f); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}
	return nil
}

// translate turns the first validator failure into a domain sentinel.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	fe := validationErrs[0]
	sentinel, ok := fieldErrors[fe.StructField()]
	if !ok {
		sentinel = ErrInvalidInput
	}
	return fmt.Errorf("%w (%s: %s)", sentinel, fe.Namespace(), fe.Tag())
}
