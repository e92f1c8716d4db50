package passkey

import (
	"log"
)

// App holds the service clients for one running instance. Everything is wired
// explicitly here and injected downward; nothing else in the package keeps
// process-wide state beyond the environment config.
type App struct {
	config     EnvConfig
	db         *Storage
	service    *Service
	challenges ChallengeStore
}

// NewApp creates a new App containing configuration and service clients
func NewApp(cfg EnvConfig) *App {
	db, err := NewStorage(cfg.AWSConfig)
	if err != nil {
		log.Fatalf("failed to create storage client: %s", err)
	}

	return &App{
		config:     cfg,
		db:         db,
		service:    NewService(db),
		challenges: db,
	}
}

// NewAppWithStores creates an App on explicit store implementations. Used by
// tests and callers that bring their own storage.
func NewAppWithStores(cfg EnvConfig, credentials CredentialStore, challenges ChallengeStore) *App {
	return &App{
		config:     cfg,
		service:    NewService(credentials),
		challenges: challenges,
	}
}

// GetConfig returns the config data for the App
func (a *App) GetConfig() EnvConfig {
	return a.config
}

// GetDB returns the database storage client for the App
func (a *App) GetDB() *Storage {
	return a.db
}
