package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	acmArnPattern             = regexp.MustCompile(`^arn:aws:acm:[a-z0-9-]+:\d{12}:certificate/[a-zA-Z0-9-]+$`)
	codeConnectionsArnPattern = regexp.MustCompile(`^arn:aws:codeconnections:[a-z0-9-]+:\d{12}:connection/[a-zA-Z0-9-]+$`)
)

func init() {
	validate = validator.New()

	// Report field names as they appear in the YAML file, not as Go identifiers.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister("acm_arn", func(fl validator.FieldLevel) bool {
		return acmArnPattern.MatchString(fl.Field().String())
	})
	mustRegister("codeconnections_arn", func(fl validator.FieldLevel) bool {
		return codeConnectionsArnPattern.MatchString(fl.Field().String())
	})

	validate.RegisterStructValidation(validateDatabaseCapacity, DatabaseConfig{})
	validate.RegisterStructValidation(validateAutoScalingBounds, BackendConfig{})
	validate.RegisterStructValidation(validateAvailabilityZones, VpcConfig{})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("config: registering %q validator: %v", tag, err))
	}
}

// validateDatabaseCapacity rejects capacity bounds that are reversed or equal.
func validateDatabaseCapacity(sl validator.StructLevel) {
	db := sl.Current().Interface().(DatabaseConfig)
	if db.ServerlessV2MinCapacity >= db.ServerlessV2MaxCapacity {
		sl.ReportError(db.ServerlessV2MinCapacity, "serverless_v2_min_capacity",
			"ServerlessV2MinCapacity", "lt_max_capacity", fmt.Sprintf("%g", db.ServerlessV2MaxCapacity))
	}
}

// validateAutoScalingBounds rejects auto-scaling bounds that are reversed or equal.
func validateAutoScalingBounds(sl validator.StructLevel) {
	be := sl.Current().Interface().(BackendConfig)
	if be.AutoScalingMinCapacity >= be.AutoScalingMaxCapacity {
		sl.ReportError(be.AutoScalingMinCapacity, "auto_scaling_min_capacity",
			"AutoScalingMinCapacity", "lt_max_scaling", fmt.Sprintf("%d", be.AutoScalingMaxCapacity))
	}
}

// validateAvailabilityZones rejects a zone budget smaller than the reservation.
func validateAvailabilityZones(sl validator.StructLevel) {
	vpc := sl.Current().Interface().(VpcConfig)
	if vpc.MaxAZs < vpc.ReservedAZs {
		sl.ReportError(vpc.MaxAZs, "max_azs",
			"MaxAZs", "gte_reserved_azs", fmt.Sprintf("%d", vpc.ReservedAZs))
	}
}

// Validate runs every field-level constraint and cross-field invariant over the
// given config value and returns a formatted error on the first failure set.
func Validate(cfg any) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validation failed: %w", err)
	}

	var messages []string
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}

	if len(messages) == 1 {
		return fmt.Errorf("validation error: %s", messages[0])
	}

	result := "validation errors:\n"
	for _, msg := range messages {
		result += fmt.Sprintf("  - %s\n", msg)
	}
	return fmt.Errorf("%s", result)
}

// formatFieldError formats a single validation error into a user-friendly message.
// Cross-field messages carry both compared values.
func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required but missing", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("field '%s' (%v) must be greater than or equal to %s", field, e.Value(), e.Param())
	case "cidrv4":
		return fmt.Sprintf("field '%s' must be a valid IPv4 CIDR block", field)
	case "fqdn":
		return fmt.Sprintf("field '%s' must be a fully qualified domain name", field)
	case "acm_arn":
		return fmt.Sprintf("field '%s' must match the ACM certificate ARN pattern (arn:aws:acm:<region>:<account>:certificate/<id>)", field)
	case "codeconnections_arn":
		return fmt.Sprintf("field '%s' must match the CodeConnections ARN pattern (arn:aws:codeconnections:<region>:<account>:connection/<id>)", field)
	case "lt_max_capacity":
		return fmt.Sprintf("serverless_v2_min_capacity (%v) must be less than serverless_v2_max_capacity (%s)", e.Value(), e.Param())
	case "lt_max_scaling":
		return fmt.Sprintf("auto_scaling_min_capacity (%v) must be less than auto_scaling_max_capacity (%s)", e.Value(), e.Param())
	case "gte_reserved_azs":
		return fmt.Sprintf("max_azs (%v) must be greater than or equal to reserved_azs (%s)", e.Value(), e.Param())
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, e.Tag())
	}
}
