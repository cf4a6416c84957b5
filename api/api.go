// Package api holds the OpenAPI description of the storefront API.
package api

import _ "embed"

//go:embed openapi.json
var OpenAPI []byte
