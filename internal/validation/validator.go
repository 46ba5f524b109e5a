// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package validation validates request structs with go-playground/validator v10.
//
// Field names in errors use the json tag so messages match the wire format:
//
//	type RecommendRequest struct {
//	    Lat      float64 `json:"lat" validate:"latitude"`
//	    Category string  `json:"category" validate:"omitempty,placecategory"`
//	}
//
// Custom tags:
//   - placecategory: a non-empty places.Category
//   - interaction: a store.InteractionType
//   - notblank: not empty after trimming spaces
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/nearbite/internal/places"
	"github.com/tomtom215/nearbite/internal/store"
)

const codeValidation = "VALIDATION_ERROR"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes one failed constraint.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   any
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RequestValidationError collects the failed constraints of one struct.
type RequestValidationError struct {
	fields []FieldError
}

// Fields returns the failed constraints in struct order.
func (ve *RequestValidationError) Fields() []FieldError {
	return ve.fields
}

func (ve *RequestValidationError) Error() string {
	if len(ve.fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve.fields))
	for i, f := range ve.fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// APIError mirrors models.APIError; models imports nothing from here.
type APIError struct {
	Code    string
	Message string
	Details map[string]any
}

// ToAPIError converts the errors to a VALIDATION_ERROR payload. A single
// failure reports its field, tag and value; several report a field list.
func (ve *RequestValidationError) ToAPIError() *APIError {
	switch len(ve.fields) {
	case 0:
		return &APIError{Code: codeValidation, Message: "Validation failed"}
	case 1:
		f := ve.fields[0]
		return &APIError{
			Code:    codeValidation,
			Message: f.Message,
			Details: map[string]any{"field": f.Field, "tag": f.Tag, "value": f.Value},
		}
	}

	fields := make([]map[string]any, len(ve.fields))
	msgs := make([]string, len(ve.fields))
	for i, f := range ve.fields {
		fields[i] = map[string]any{"field": f.Field, "tag": f.Tag, "message": f.Message}
		msgs[i] = f.Field + ": " + f.Message
	}
	return &APIError{
		Code:    codeValidation,
		Message: strings.Join(msgs, "; "),
		Details: map[string]any{"fields": fields},
	}
}

// GetValidator returns the shared validator with the custom tags registered.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// Registration only fails for empty tags or nil funcs.
		_ = validate.RegisterValidation("placecategory", func(fl validator.FieldLevel) bool {
			return IsPlaceCategory(fl.Field().String())
		})
		_ = validate.RegisterValidation("interaction", func(fl validator.FieldLevel) bool {
			return store.InteractionType(fl.Field().String()).Valid()
		})
		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
	return validate
}

// IsPlaceCategory reports whether category names a queried amenity. The
// empty "all categories" value is not one.
func IsPlaceCategory(category string) bool {
	c := places.Category(category)
	return c != places.CategoryAll && c.Valid()
}

// ValidateStruct validates s and returns nil when every constraint holds.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// InvalidValidationError: s was not a struct
		return &RequestValidationError{fields: []FieldError{{
			Field: "unknown", Tag: "unknown", Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: message(fe),
		}
	}
	return &RequestValidationError{fields: fields}
}

var (
	// Templates take the field name.
	plainMessages = map[string]string{
		"required":      "%s is required",
		"latitude":      "%s must be a valid latitude (-90 to 90)",
		"longitude":     "%s must be a valid longitude (-180 to 180)",
		"notblank":      "%s must not be blank",
		"placecategory": "%s must be one of: restaurant, cafe, fast_food, bar, pub",
		"interaction":   "%s must be one of: click, view, favorite",
	}

	// Templates take the field name and the tag parameter.
	paramMessages = map[string]string{
		"oneof": "%s must be one of: %s",
		"gte":   "%s must be greater than or equal to %s",
		"lte":   "%s must be less than or equal to %s",
		"gt":    "%s must be greater than %s",
		"lt":    "%s must be less than %s",
	}
)

func message(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()
	if tmpl, ok := plainMessages[tag]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := paramMessages[tag]; ok {
		return fmt.Sprintf(tmpl, field, param)
	}

	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch tag {
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, param, unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, param, unit)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}
