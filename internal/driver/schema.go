package driver

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// CredentialSchema reflects the driver's credential form into a JSON schema.
func CredentialSchema(d Driver) *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(d.Credentials())
}

// ValidateCredentials checks that every required field of the driver's
// credential schema is present and non-blank, and that no unknown field is set.
func ValidateCredentials(d Driver, creds map[string]string) error {
	schema := CredentialSchema(d)

	var missing []string
	for _, field := range schema.Required {
		if strings.TrimSpace(creds[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required credentials: %s", strings.Join(missing, ", "))
	}

	if schema.Properties != nil {
		for field := range creds {
			if _, ok := schema.Properties.Get(field); !ok {
				return fmt.Errorf("unknown credential field: %s", field)
			}
		}
	}
	return nil
}
