package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var projectNameValidRegex = regexp.MustCompile("^[a-zA-Z0-9+-_.]+$")

func projectNameValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return projectNameValidRegex.MatchString(val)
}

func topologyValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	switch val {
	case "", "local", "cross_site_dedicated", "cross_site_internet":
		return true
	}
	return false
}

func overcommitProfileValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	switch val {
	case "", "conservative", "balanced", "aggressive":
		return true
	}
	return false
}

func migrationModeValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Addr().Interface().(*string)
	if !ok {
		return false
	}
	if val == nil {
		return true
	}
	switch *val {
	case "warm", "warm_risky", "cold_required":
		return true
	}
	return false
}
