package passkey

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"golang.org/x/crypto/bcrypt"
)

// ApiKeyTablePK is the primary key in the ApiKey DynamoDB table
const ApiKeyTablePK = "value"

// ApiKey identifies and authenticates a calling service. The secret is stored
// only as a bcrypt hash.
type ApiKey struct {
	Key          string   `dynamodbav:"value" json:"value"`
	Secret       string   `dynamodbav:"-" json:"-"`
	HashedSecret string   `dynamodbav:"hashedApiSecret" json:"hashedApiSecret"`
	Email        string   `dynamodbav:"email" json:"email"`
	CreatedAt    int      `dynamodbav:"createdAt" json:"createdAt"`
	ActivatedAt  int      `dynamodbav:"activatedAt" json:"activatedAt"`
	Store        *Storage `dynamodbav:"-" json:"-"`
}

// Load refreshes an ApiKey object from the database record
func (k *ApiKey) Load() error {
	return k.Store.Load(envConfig.ApiKeyTable, ApiKeyTablePK, k.Key, k)
}

// Save stores the ApiKey in the database
func (k *ApiKey) Save() error {
	return k.Store.Store(envConfig.ApiKeyTable, k)
}

// Hash generates a bcrypt hash from the Secret field and stores it in HashedSecret
func (k *ApiKey) Hash() error {
	if k.Secret == "" {
		return errors.New("empty secret cannot be hashed")
	}

	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(k.Secret), bcrypt.DefaultCost)
	k.HashedSecret = string(hashedSecret)
	return err
}

// IsCorrect returns true if and only if the given string is a match for HashedSecret
func (k *ApiKey) IsCorrect(given string) (bool, error) {
	if given == "" {
		return false, errors.New("secret to compare cannot be empty")
	}
	if k.HashedSecret == "" {
		return false, errors.New("cannot compare with empty hashed secret")
	}

	err := bcrypt.CompareHashAndPassword([]byte(k.HashedSecret), []byte(given))
	if err != nil {
		return false, err
	}

	return true, nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// CreateApiKey is the handler for the "POST /api-key" endpoint. It creates a
// new inactive API key for the given email address.
func (a *App) CreateApiKey(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeRequestBody(r.Body, &body); err != nil {
		jsonResponse(w, err, http.StatusBadRequest)
		return
	}
	if body.Email == "" {
		jsonResponse(w, errors.New("email is required"), http.StatusBadRequest)
		return
	}

	value, err := randomHex(20)
	if err != nil {
		jsonResponse(w, err, http.StatusInternalServerError)
		return
	}

	key := ApiKey{
		Key:       value,
		Email:     body.Email,
		CreatedAt: int(time.Now().Unix()),
		Store:     a.db,
	}
	if err := key.Save(); err != nil {
		jsonResponse(w, err, http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{"apiKeyValue": key.Key}, http.StatusOK)
}

// ActivateApiKey is the handler for the "POST /api-key/activate" endpoint. It
// generates the key secret and returns it to the caller exactly once.
func (a *App) ActivateApiKey(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ApiKeyValue string `json:"apiKeyValue"`
		Email       string `json:"email"`
	}
	if err := decodeRequestBody(r.Body, &body); err != nil {
		jsonResponse(w, err, http.StatusBadRequest)
		return
	}
	if body.ApiKeyValue == "" || body.Email == "" {
		jsonResponse(w, errors.New("apiKeyValue and email are required"), http.StatusBadRequest)
		return
	}

	key := ApiKey{Key: body.ApiKeyValue, Store: a.db}
	if err := key.Load(); err != nil || key.Email != body.Email {
		jsonResponse(w, errors.New("invalid api key"), http.StatusNotFound)
		return
	}
	if key.ActivatedAt != 0 {
		jsonResponse(w, errors.New("api key already activated"), http.StatusBadRequest)
		return
	}

	secret, err := randomHex(32)
	if err != nil {
		jsonResponse(w, err, http.StatusInternalServerError)
		return
	}

	key.Secret = secret
	if err := key.Hash(); err != nil {
		jsonResponse(w, err, http.StatusInternalServerError)
		return
	}
	key.ActivatedAt = int(time.Now().Unix())

	if err := key.Save(); err != nil {
		jsonResponse(w, err, http.StatusInternalServerError)
		return
	}

	jsonResponse(w, map[string]string{"apiSecret": secret}, http.StatusOK)
}

// decodeRequestBody strictly decodes a JSON request body into v.
func decodeRequestBody(body io.ReadCloser, v any) error {
	if body == nil {
		return errors.New("request body may not be nil")
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "failed to read request body")
	}

	return strictUnmarshal(raw, v)
}
