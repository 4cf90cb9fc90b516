package config

import (
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
)

// Schema returns the JSON schema of Document.
func Schema() ([]byte, error) {
	schema := jsonschema.Reflect(&Document{})
	data, err := schema.MarshalJSON()
	if err != nil {
		return nil, eris.Wrap(err, "failed to marshal configuration schema")
	}
	return data, nil
}
