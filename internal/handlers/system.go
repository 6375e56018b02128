package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// SystemHandler provides the diagnostic endpoints: health check and header
// echo.
type SystemHandler struct {
	version string
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(version string) *SystemHandler {
	return &SystemHandler{version: version}
}

// Routes registers all system routes on the given chi router.
func (h *SystemHandler) Routes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/header", h.Header)
}

// Health always reports OK along with the version label.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "OK", Version: h.version})
}

// Header echoes every request header. Repeated headers are joined with ", ".
func (h *SystemHandler) Header(w http.ResponseWriter, r *http.Request) {
	data := make(map[string]string, len(r.Header)+2)
	if r.Host != "" {
		data["Host"] = r.Host
	}
	for key, values := range r.Header {
		data[key] = strings.Join(values, ", ")
	}
	data["version"] = h.version

	writeJSON(w, http.StatusOK, data)
}
