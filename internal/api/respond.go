package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	errs "medibook/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps typed rejections to their status code and everything else
// to a generic 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		writeJSON(w, httpErr.Code, map[string]string{"message": httpErr.Message})
		return
	}
	log.Printf("Internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "server error"})
}
