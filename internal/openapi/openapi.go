// Package openapi embeds the OpenAPI description of the segments API so the
// server can serve it at /openapi.yaml straight from the binary.
package openapi

import _ "embed"

// Document contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var Document []byte
