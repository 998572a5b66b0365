package api

import (
	"encoding/json"
	"net/http"
)

const (
	docsPath     = "/docs"
	specJSONPath = "/docs/openapi"
	specYAMLPath = "/docs/openapi.yaml"
)

// RegisterDocsRoutes mounts the Swagger UI and the OpenAPI document.
//
//	GET /                   redirect to /docs
//	GET /docs               Swagger UI
//	GET /docs/openapi       OpenAPI document as JSON
//	GET /docs/openapi.yaml  OpenAPI document as embedded YAML
func RegisterDocsRoutes(mux *http.ServeMux) {
	mux.Handle("GET /{$}", http.RedirectHandler(docsPath, http.StatusMovedPermanently))
	mux.HandleFunc("GET "+docsPath, serveSwaggerUI)
	mux.HandleFunc("GET "+specJSONPath, serveSpecJSON)
	mux.HandleFunc("GET "+specYAMLPath, serveSpecYAML)
}

func serveSpecJSON(w http.ResponseWriter, _ *http.Request) {
	doc, err := GetSwagger()
	if err != nil {
		writeDocsError(w, "openapi document unavailable")
		return
	}

	body, err := json.Marshal(doc)
	if err != nil {
		writeDocsError(w, "failed to encode openapi document")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body) //nolint:errcheck // client went away
}

func serveSpecYAML(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openapiYAML) //nolint:errcheck // client went away
}

func serveSwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(swaggerPage)) //nolint:errcheck // client went away
}

func writeDocsError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	//nolint:errcheck // best effort
	json.NewEncoder(w).Encode(map[string]any{
		"statusCode": http.StatusInternalServerError,
		"error":      "internal_error",
		"message":    message,
	})
}

// The bearer token entered in the UI survives reloads.
const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Digital Bank API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body style="margin:0">
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({
        url: '` + specJSONPath + `',
        dom_id: '#swagger-ui',
        deepLinking: true,
        persistAuthorization: true,
        displayRequestDuration: true
      });
    };
  </script>
</body>
</html>`
