package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
)

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Payment Webhook - API Docs</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/swagger/spec',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`

// SwaggerHandler serves the OpenAPI document loaded at startup.
type SwaggerHandler struct {
	spec     []byte
	specJSON []byte
}

// NewSwaggerHandler loads and validates spec as an OpenAPI 3 document.
// A nil spec is accepted and every spec route answers 404.
func NewSwaggerHandler(spec []byte) (*SwaggerHandler, error) {
	h := &SwaggerHandler{spec: spec}
	if spec == nil {
		return h, nil
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validating openapi document: %w", err)
	}
	if h.specJSON, err = doc.MarshalJSON(); err != nil {
		return nil, fmt.Errorf("encoding openapi document: %w", err)
	}
	return h, nil
}

// Spec serves the raw OpenAPI YAML.
func (h *SwaggerHandler) Spec(c *gin.Context) {
	if h.spec == nil {
		c.String(http.StatusNotFound, "OpenAPI spec not loaded")
		return
	}
	c.Data(http.StatusOK, "application/x-yaml", h.spec)
}

// SpecJSON serves the same document as JSON.
func (h *SwaggerHandler) SpecJSON(c *gin.Context) {
	if h.specJSON == nil {
		c.String(http.StatusNotFound, "OpenAPI spec not loaded")
		return
	}
	c.Data(http.StatusOK, "application/json", h.specJSON)
}

// UI serves a Swagger UI page that loads /swagger/spec.
func (h *SwaggerHandler) UI(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerPage))
}
