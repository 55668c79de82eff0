package tools

import (
	"fmt"

	"google.golang.org/genai"
)

// validateArgs checks the model-provided arguments against the declared
// parameter schema: every required parameter must be present, and every
// provided parameter of a declared scalar type must have the right Go
// type. It runs before the handler so an invalid call never reaches the
// external service.
func validateArgs(decl *genai.FunctionDeclaration, args map[string]any) error {
	schema := decl.Parameters
	if schema == nil {
		return nil
	}

	for _, required := range schema.Required {
		if _, ok := args[required]; !ok {
			return fmt.Errorf("%s: missing required argument %q", decl.Name, required)
		}
	}

	for name, value := range args {
		prop, ok := schema.Properties[name]
		if !ok {
			return fmt.Errorf("%s: unexpected argument %q", decl.Name, name)
		}
		if err := checkType(prop.Type, value); err != nil {
			return fmt.Errorf("%s: argument %q %w", decl.Name, name, err)
		}
	}
	return nil
}

// checkType verifies a scalar argument against its declared type.
// Composite types are left to the handler.
func checkType(t genai.Type, value any) error {
	switch t {
	case genai.TypeString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("must be a string, got %T", value)
		}
	case genai.TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("must be a boolean, got %T", value)
		}
	case genai.TypeNumber, genai.TypeInteger:
		switch value.(type) {
		case float64, float32, int, int32, int64:
		default:
			return fmt.Errorf("must be a number, got %T", value)
		}
	}
	return nil
}
