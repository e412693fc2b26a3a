// Package openapi embeds the OpenAPI document served at /openapi.json.
package openapi

import _ "embed"

//go:embed openapi.json
var Document []byte
