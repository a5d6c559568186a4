// Package validator turns untrusted request input into validated domain values
// using go-playground/validator.
package validator

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"media-search-service/internal/domain"
)

const (
	fieldSearchTerm = "search_term"
	fieldMaxResults = "max_results"

	msgRequired   = "Field required"
	msgNotInteger = "Input should be a valid integer, unable to parse string as an integer"
)

// Validator wraps the go-playground validator with custom configuration.
type Validator struct {
	v *validator.Validate
}

// searchInput carries the bounds of a search request as struct tags. They
// mirror domain.SearchTermMaxLength and domain.MaxResultsLimit.
type searchInput struct {
	SearchTerm string `json:"search_term" validate:"min=1,max=100"`
	MaxResults int    `json:"max_results" validate:"min=1,max=50"`
}

// New creates a new Validator instance with custom tag name and validations.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	return &Validator{v: v}
}

// SearchRequest validates a raw query and builds a domain.SearchRequest.
// The search term is trimmed before its length is checked; a missing or
// empty max_results falls back to domain.DefaultMaxResults. Every invalid
// field is reported in the returned *domain.ValidationError.
func (v *Validator) SearchRequest(q domain.SearchQuery) (domain.SearchRequest, error) {
	fields := make(map[string]string)

	if !q.HasSearchTerm {
		fields[fieldSearchTerm] = msgRequired
	}

	input := searchInput{
		SearchTerm: strings.TrimSpace(q.SearchTerm),
		MaxResults: domain.DefaultMaxResults,
	}

	if raw := strings.TrimSpace(q.MaxResults); q.HasMaxResults && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields[fieldMaxResults] = msgNotInteger
		} else {
			input.MaxResults = n
		}
	}

	if verr := v.Validate(&input); verr != nil {
		for field, msg := range verr.Fields {
			// earlier failures on the same field are more specific
			if _, seen := fields[field]; !seen {
				fields[field] = msg
			}
		}
	}

	if len(fields) > 0 {
		return domain.SearchRequest{}, &domain.ValidationError{Fields: fields}
	}

	return domain.SearchRequest{
		SearchTerm: input.SearchTerm,
		MaxResults: input.MaxResults,
	}, nil
}

// Validate validates the given struct. It returns nil when the struct is
// valid and a *domain.ValidationError keyed by json field name otherwise.
func (v *Validator) Validate(i interface{}) *domain.ValidationError {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &domain.ValidationError{Fields: map[string]string{"body": err.Error()}}
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		if _, seen := fields[e.Field()]; seen {
			continue
		}
		fields[e.Field()] = formatErrorMessage(e)
	}

	return &domain.ValidationError{Fields: fields}
}

// formatErrorMessage generates a human-readable error message.
func formatErrorMessage(e validator.FieldError) string {
	isString := e.Kind() == reflect.String

	switch e.Tag() {
	case "required":
		return msgRequired
	case "min":
		if isString {
			return fmt.Sprintf("String should have at least %s %s", e.Param(), plural("character", e.Param()))
		}
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("List should have at least %s %s", e.Param(), plural("item", e.Param()))
		}
		return fmt.Sprintf("Input should be greater than or equal to %s", e.Param())
	case "max":
		if isString {
			return fmt.Sprintf("String should have at most %s %s", e.Param(), plural("character", e.Param()))
		}
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("List should have at most %s %s", e.Param(), plural("item", e.Param()))
		}
		return fmt.Sprintf("Input should be less than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("Input should be one of: %s", e.Param())
	default:
		return fmt.Sprintf("Value failed %s validation", e.Tag())
	}
}

func plural(noun, count string) string {
	if count == "1" {
		return noun
	}

	return noun + "s"
}
