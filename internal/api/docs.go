package api

import (
    "net/http"

    yaml "gopkg.in/yaml.v3"

    "monsoonplan/openapi"
)

// OpenAPIHandler serves the embedded OpenAPI document; ?format=json converts it.
func (s *Server) OpenAPIHandler(w http.ResponseWriter, r *http.Request) {
    if !allowMethods(w, r, http.MethodGet) { return }
    if r.URL.Query().Get("format") == "json" {
        var obj map[string]any
        if err := yaml.Unmarshal(openapi.Spec, &obj); err != nil {
            writeError(w, http.StatusInternalServerError, "OpenAPI parse failed", err.Error())
            return
        }
        writeJSON(w, http.StatusOK, obj)
        return
    }
    w.Header().Set("Content-Type", "application/yaml")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(openapi.Spec)
}

// DocsHandler serves a minimal ReDoc page referencing /openapi.yaml
func (s *Server) DocsHandler(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write([]byte(`<!DOCTYPE html><html><head><title>Monsoon Planning API</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <script src="https://cdn.jsdelivr.net/npm/redoc@next/bundles/redoc.standalone.js"></script>
    </head><body>
    <redoc spec-url="/openapi.yaml"></redoc>
    </body></html>`))
}
