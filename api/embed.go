// Package api provides the embedded OpenAPI description of the HTTP API and
// the pages that render it.
package api

import _ "embed"

// OpenAPI is the OpenAPI 3 document describing every public route.
//
//go:embed openapi.yaml
var OpenAPI []byte

// SwaggerUI renders OpenAPI with Swagger UI.
//
//go:embed swagger.html
var SwaggerUI []byte

// ReDoc renders OpenAPI with ReDoc.
//
//go:embed redoc.html
var ReDoc []byte
