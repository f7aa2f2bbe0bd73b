/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package standard

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// SchemaID is the $id stamped onto the generated baseline schema.
const SchemaID = "https://chainguard.dev/codestandard/baseline.schema.json"

// Schema returns the JSON schema describing baseline files.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
		ExpandedStruct:             true,
	}
	s := r.Reflect(&Standard{})
	s.ID = jsonschema.ID(SchemaID)
	s.Title = "Coding standard baseline"
	return s
}

// SchemaJSON renders Schema as indented JSON.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}
