package api

import (
    "encoding/json"
    "net/http"
    "strings"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the flat error envelope every endpoint returns.
type ErrorBody struct {
    Error  string `json:"error"`
    Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, detail string) {
    writeJSON(w, status, ErrorBody{Error: msg, Detail: detail})
}

// decodeJSON reads a single JSON value from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
    r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
    if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
        writeError(w, http.StatusBadRequest, "Invalid JSON", err.Error())
        return false
    }
    return true
}

// allowMethods answers 405 with an Allow header unless r uses one of methods.
// HEAD is accepted wherever GET is.
func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
    for _, m := range methods {
        if r.Method == m || (m == http.MethodGet && r.Method == http.MethodHead) {
            return true
        }
    }
    w.Header().Set("Allow", strings.Join(methods, ", "))
    writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
    return false
}
