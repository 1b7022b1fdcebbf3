package registry

import (
	"fmt"
	"time"
)

// Type-safe configuration extraction helpers for checker factories.
// These functions eliminate repetitive nil checks and type assertions when
// extracting custom configuration values from the cfg.Custom map.

// GetStringConfig extracts a string value from custom config map with a default fallback.
func GetStringConfig(custom map[string]interface{}, key, defaultValue string) string {
	if custom == nil {
		return defaultValue
	}

	if val, ok := custom[key].(string); ok && val != "" {
		return val
	}

	return defaultValue
}

// GetIntConfig extracts an int value from custom config map with a default fallback.
// Handles both int and float64 (YAML/JSON numbers may decode as float64).
func GetIntConfig(custom map[string]interface{}, key string, defaultValue int) int {
	if custom == nil {
		return defaultValue
	}

	if val, ok := custom[key].(int); ok {
		return val
	}

	if val, ok := custom[key].(float64); ok {
		return int(val)
	}

	return defaultValue
}

// GetBoolConfig extracts a bool value from custom config map with a default fallback.
func GetBoolConfig(custom map[string]interface{}, key string, defaultValue bool) bool {
	if custom == nil {
		return defaultValue
	}

	if val, ok := custom[key].(bool); ok {
		return val
	}

	return defaultValue
}

// GetDurationConfig extracts a time.Duration from custom config with a default fallback.
// Accepts time.Duration, int64/float64 nanoseconds, or a time.ParseDuration string.
func GetDurationConfig(custom map[string]interface{}, key string, defaultValue time.Duration) time.Duration {
	if custom == nil {
		return defaultValue
	}

	val, exists := custom[key]
	if !exists {
		return defaultValue
	}

	if d, ok := val.(time.Duration); ok {
		return d
	}
	if i, ok := val.(int64); ok {
		return time.Duration(i)
	}
	if f, ok := val.(float64); ok {
		return time.Duration(f)
	}
	if s, ok := val.(string); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
	}

	return defaultValue
}

// ValidateRequiredString validates that a required string field is not empty.
func ValidateRequiredString(fieldName, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required and cannot be empty", fieldName)
	}
	return nil
}

// ValidatePositiveInt validates that an int field is positive (> 0).
func ValidatePositiveInt(fieldName string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %d", fieldName, value)
	}
	return nil
}

// ValidateIntRange validates that an int field is within [min, max].
func ValidateIntRange(fieldName string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", fieldName, min, max, value)
	}
	return nil
}

// ValidatePositiveDuration validates that a duration is positive.
func ValidatePositiveDuration(fieldName string, value time.Duration) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %v", fieldName, value)
	}
	return nil
}
