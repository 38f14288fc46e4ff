package tools

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/tb0hdan/kali-mcp/pkg/toolerr"
)

var (
	portListPattern   = regexp.MustCompile(`^([TUtu]:)?\d{1,5}(-\d{1,5})?(,([TUtu]:)?\d{1,5}(-\d{1,5})?)*$`)
	numberListPattern = regexp.MustCompile(`^\d+(,\d+)*$`)
	ifacePattern      = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:-]{0,14}$`)
	identPattern      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

var sharedValidator = sync.OnceValue(NewValidator)

// NewValidator returns a validator with the rules used by tool inputs:
//
//	noflag   value must not start with '-', so it cannot be read as an option
//	safearg  value must not contain control characters
//	portlist comma separated ports or ranges, optionally prefixed with T: or U:
//	numlist  comma separated integers, e.g. HTTP status codes
//	ifname   network interface name, at most 15 characters
//	ident    letters, digits and underscores, not starting with a digit
//
// Field names in errors are the JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	mustRegister(v, "noflag", func(fl validator.FieldLevel) bool {
		return !strings.HasPrefix(strings.TrimSpace(fl.Field().String()), "-")
	})
	mustRegister(v, "safearg", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
	})
	mustRegister(v, "portlist", func(fl validator.FieldLevel) bool {
		return portListPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "numlist", func(fl validator.FieldLevel) bool {
		return numberListPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "ifname", func(fl validator.FieldLevel) bool {
		return ifacePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "ident", func(fl validator.FieldLevel) bool {
		return identPattern.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Validate checks input against its struct tags and returns an
// InvalidParameters error naming every offending field.
func Validate(input any) error {
	err := sharedValidator().Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return toolerr.Invalid(fmt.Errorf("validation error: %w", err))
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Field()+" "+describe(fe))
	}
	return toolerr.Invalid(fmt.Errorf("validation error: %s", strings.Join(msgs, "; ")))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_with":
		return "is required when " + strings.ToLower(fe.Param()) + " is set"
	case "noflag":
		return "must not start with '-'"
	case "safearg":
		return "must not contain control characters"
	case "portlist":
		return "must be a port list such as 22,80,8000-8100"
	case "numlist":
		return "must be a comma separated list of numbers"
	case "ifname":
		return "must be a network interface name such as wlan0"
	case "ident":
		return "must contain only letters, digits and underscores"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "url", "http_url":
		return "must be an absolute URL"
	case "fqdn":
		return "must be a domain name"
	case "ip":
		return "must be an IP address"
	case "hostname|ip", "ip|hostname":
		return "must be a hostname or IP address"
	case "mac":
		return "must be a MAC address"
	default:
		return "failed the " + fe.Tag() + " check"
	}
}
