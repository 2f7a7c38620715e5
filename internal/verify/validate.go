package verify

import (
	"sort"
	"strconv"
	"strings"
)

// Accepted key names, primary first.
var (
	categoryKeys      = []string{"wasteType", "category"}
	quantityKeys      = []string{"quantity", "amount"}
	categoryMatchKeys = []string{"wasteTypeMatch", "categoryMatch"}
	quantityMatchKeys = []string{"quantityMatch"}
	confidenceKeys    = []string{"confidence"}
)

// ValidateClassification checks an image-description payload.
func ValidateClassification(obj map[string]any) (StructuredClassification, error) {
	category, err := categoryField(obj)
	if err != nil {
		return StructuredClassification{}, err
	}

	quantity, err := quantityField(obj)
	if err != nil {
		return StructuredClassification{}, err
	}

	confidence, err := confidenceField(obj)
	if err != nil {
		return StructuredClassification{}, err
	}

	return StructuredClassification{
		Category:   category,
		Quantity:   quantity,
		Confidence: confidence,
	}, nil
}

// ValidateMatch checks a match-assertion payload.
func ValidateMatch(obj map[string]any) (MatchAssertion, error) {
	categoryMatch, err := boolField(obj, categoryMatchKeys)
	if err != nil {
		return MatchAssertion{}, err
	}

	quantityMatch, err := boolField(obj, quantityMatchKeys)
	if err != nil {
		return MatchAssertion{}, err
	}

	confidence, err := confidenceField(obj)
	if err != nil {
		return MatchAssertion{}, err
	}

	return MatchAssertion{
		CategoryMatch: categoryMatch,
		QuantityMatch: quantityMatch,
		Confidence:    confidence,
	}, nil
}

func lookup(obj map[string]any, keys []string) (any, bool) {
	for _, key := range keys {
		if v, ok := obj[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// categoryField accepts a string or, as an upstream workaround, an object of
// boolean flags keyed by category which is flattened to its true keys.
func categoryField(obj map[string]any) (string, error) {
	field := categoryKeys[0]
	v, ok := lookup(obj, categoryKeys)
	if !ok {
		return "", &SchemaError{Field: field, Reason: "is missing"}
	}

	switch value := v.(type) {
	case string:
		if strings.TrimSpace(value) == "" {
			return "", &SchemaError{Field: field, Reason: "must not be empty"}
		}
		return strings.TrimSpace(value), nil

	case map[string]any:
		flags := make([]string, 0, len(value))
		for name, flag := range value {
			set, isBool := flag.(bool)
			if !isBool {
				return "", &SchemaError{Field: field, Reason: "must be a string or an object of boolean flags"}
			}
			if set {
				flags = append(flags, name)
			}
		}
		if len(flags) == 0 {
			return "", &SchemaError{Field: field, Reason: "has no categories flagged true"}
		}
		sort.Strings(flags)
		return strings.Join(flags, ", "), nil

	default:
		return "", &SchemaError{Field: field, Reason: "must be a string"}
	}
}

func quantityField(obj map[string]any) (string, error) {
	field := quantityKeys[0]
	v, ok := lookup(obj, quantityKeys)
	if !ok {
		return "", &SchemaError{Field: field, Reason: "is missing"}
	}

	switch value := v.(type) {
	case string:
		if strings.TrimSpace(value) == "" {
			return "", &SchemaError{Field: field, Reason: "must not be empty"}
		}
		return strings.TrimSpace(value), nil
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), nil
	default:
		return "", &SchemaError{Field: field, Reason: "must be a string"}
	}
}

func confidenceField(obj map[string]any) (float64, error) {
	field := confidenceKeys[0]
	v, ok := lookup(obj, confidenceKeys)
	if !ok {
		return 0, &SchemaError{Field: field, Reason: "is missing"}
	}

	value, isNumber := v.(float64)
	if !isNumber {
		return 0, &SchemaError{Field: field, Reason: "must be a number"}
	}
	if value < 0 || value > 1 {
		return 0, &SchemaError{Field: field, Reason: "must be within [0,1]"}
	}
	return value, nil
}

func boolField(obj map[string]any, keys []string) (bool, error) {
	v, ok := lookup(obj, keys)
	if !ok {
		return false, &SchemaError{Field: keys[0], Reason: "is missing"}
	}
	value, isBool := v.(bool)
	if !isBool {
		return false, &SchemaError{Field: keys[0], Reason: "must be a boolean"}
	}
	return value, nil
}
