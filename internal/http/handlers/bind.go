package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindJSON decodes and validates the request body against the DTO's binding
// tags. On failure it responds with the first human message plus the full
// list and returns false; the handler must not proceed.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		RespondValidation(ctx, validationMessages(err, out))

		return false
	}

	return true
}

func validationMessages(err error, out interface{}) []string {
	var validatorError validator.ValidationErrors

	if !errors.As(err, &validatorError) {
		// malformed JSON, type mismatches, truncated bodies
		return []string{"Invalid request body"}
	}

	rootType := baseStructType(out)
	msgs := make([]string, 0, len(validatorError))

	for _, fieldError := range validatorError {
		field := jsonFieldName(rootType, fieldError.StructField())
		msgs = append(msgs, messageFor(field, fieldError.Tag(), fieldError.Param()))
	}

	return msgs
}

func baseStructType(v interface{}) reflect.Type {
	t := reflect.TypeOf(v)

	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t != nil && t.Kind() == reflect.Struct {
		return t
	}

	return nil
}

// jsonFieldName resolves a Go struct field to its json name. The request
// DTOs are all flat, so no namespace walking is needed here.
func jsonFieldName(rootType reflect.Type, structField string) string {
	if rootType == nil {
		return structField
	}

	sf, ok := rootType.FieldByName(structField)
	if !ok {
		return structField
	}

	tag := sf.Tag.Get("json")
	if tag == "" {
		return structField
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return structField
	}

	return name
}

func fieldLabel(field string) string {
	if field == "text" {
		return "Post text"
	}

	if field == "" {
		return field
	}

	return strings.ToUpper(field[:1]) + field[1:]
}

func messageFor(field, rule, param string) string {
	switch rule {
	case "required":
		return fieldLabel(field) + " is required"
	case "min":
		if field == "text" {
			return "Post text cannot be empty"
		}
		return fieldLabel(field) + " must be at least " + param + " characters"
	case "email":
		return "Invalid email format"
	case "url":
		if field == "image" {
			return "Invalid image URL"
		}
		return "Invalid URL"
	default:
		return fieldLabel(field) + " failed " + rule + " validation"
	}
}
