package schema

import (
	"github.com/invopop/jsonschema"
)

func generateSchema[T any]() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

// RequestSchema describes the body accepted by the creation endpoints.
var RequestSchema = generateSchema[CreationRequest]()

// CatalogSchema describes the template resource: every key maps either to a
// template string or to a tone-keyed object of templates with a "default".
var CatalogSchema = &jsonschema.Schema{
	Version:     jsonschema.Version,
	Title:       "Storycraft template catalog",
	Description: "Category or genre names mapped to prompt templates",
	Type:        "object",
	AdditionalProperties: &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string", Description: "Template used for every tone"},
			{
				Type:                 "object",
				Description:          "Templates keyed by lowercase tone or style",
				Required:             []string{"default"},
				AdditionalProperties: &jsonschema.Schema{Type: "string"},
			},
		},
	},
}
