package passkey

import (
	"fmt"
	"log"
	"net/http"
)

// AuthenticateRequest checks the provided API key against the keys stored in
// the database. The key must exist, be activated, and present the correct
// secret.
func (a *App) AuthenticateRequest(r *http.Request) (*ApiKey, error) {
	// get key and secret from headers
	key := r.Header.Get("x-api-key")
	secret := r.Header.Get("x-api-secret")

	if key == "" || secret == "" {
		return nil, fmt.Errorf("x-api-key and x-api-secret are required")
	}

	log.Printf("API called by key: %s. %s %s", key, r.Method, r.RequestURI)

	apiKey := ApiKey{
		Key:    key,
		Secret: secret,
		Store:  a.db,
	}

	err := apiKey.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load api key: %w", err)
	}

	if apiKey.ActivatedAt == 0 {
		return nil, fmt.Errorf("api call attempted for not yet activated key: %s", apiKey.Key)
	}

	valid, err := apiKey.IsCorrect(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to validate api key: %w", err)
	}

	if !valid {
		return nil, fmt.Errorf("invalid api secret for key %s", key)
	}

	return &apiKey, nil
}

// AuthenticationMiddleware rejects requests that do not carry a valid,
// activated API key.
func (a *App) AuthenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := a.AuthenticateRequest(r); err != nil {
			log.Printf("unable to authenticate request: %s", err)
			jsonResponse(w, fmt.Errorf("unauthorized"), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
