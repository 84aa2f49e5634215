package credential

import (
	"log"
	"net/http"

	"github.com/hal9000y/resend-mcp/internal/apperr"
)

type keys interface {
	Get() (string, bool, error)
	Save(key string) error
	Delete() error
}

// HTTPHandler exposes the API key status over HTTP.
type HTTPHandler struct {
	keys keys
}

// NewHTTPHandler creates an HTTP handler for the API key record.
func NewHTTPHandler(keys keys) *HTTPHandler {
	return &HTTPHandler{keys: keys}
}

func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.status(w)
	case http.MethodPost:
		key := r.FormValue("api_key")
		if key == "" {
			http.Error(w, "api_key is required", http.StatusBadRequest)
			return
		}
		if err := h.keys.Save(key); err != nil {
			log.Println("h.keys.Save failed", err)
			http.Error(w, apperr.Display(err), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := h.keys.Delete(); err != nil {
			log.Println("h.keys.Delete failed", err)
			http.Error(w, apperr.Display(err), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *HTTPHandler) status(w http.ResponseWriter) {
	key, ok, err := h.keys.Get()
	if err != nil {
		http.Error(w, apperr.Display(err), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "API key not configured", http.StatusUnauthorized)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("API key: " + maskLeft(key)))
}

func maskLeft(s string) string {
	rs := []rune(s)
	for i := 0; i < len(rs)-4; i++ {
		rs[i] = 'X'
	}
	return string(rs)
}
