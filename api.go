package passkey

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// simpleError is a custom error type that can be JSON-encoded for API responses
type simpleError struct {
	Error string `json:"error"`
}

// newSimpleError creates a new simpleError from the given error
func newSimpleError(err error) simpleError {
	return simpleError{Error: err.Error()}
}

// jsonResponse encodes a body as JSON and writes it to the response. It sets the response Content-Type header to
// "application/json".
func jsonResponse(w http.ResponseWriter, body interface{}, status int) {
	var data interface{}
	switch b := body.(type) {
	case error:
		data = newSimpleError(b)
	default:
		data = body
	}

	var jBody []byte
	var err error
	if data != nil {
		jBody, err = json.Marshal(data)
		if err != nil {
			log.Printf("failed to marshal response body to json: %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("failed to marshal response body to json"))
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(jBody)
}

// statusForError maps the ceremony error taxonomy to HTTP status codes. Errors
// propagate through the Service unchanged, so matching sentinels here is
// sufficient.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrMalformedCeremony),
		errors.Is(err, ErrChallengeMismatch),
		errors.Is(err, ErrChallengeNotFound),
		errors.Is(err, ErrOriginMismatch),
		errors.Is(err, ErrUnsupportedAlgorithm):
		return http.StatusBadRequest
	case errors.Is(err, ErrSignatureInvalid),
		errors.Is(err, ErrPossibleClone),
		errors.Is(err, ErrCredentialNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, ErrCredentialAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrStorageUnavailable):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
