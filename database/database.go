// database.go - Opens the record store, builds the repositories and seeds defaults

package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go-discovery-backend/apperrors"
	"go-discovery-backend/config"
	"go-discovery-backend/logger"
	"go-discovery-backend/models"
)

// now is the clock used for every created_at/updated_at/timestamp.
var now = func() time.Time { return time.Now().UTC() }

// newID mints an opaque identifier such as "product-<uuid>".
func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Open selects the store backend named in cfg.Driver.
func Open(cfg config.StoreConfig, log *logger.Logger) (Store, error) {
	switch cfg.Driver {
	case config.StoreDriverFile, "":
		return NewFileStore(cfg.DataDir, log)
	case config.StoreDriverSQLite:
		return NewSQLiteStore(cfg.SQLitePath, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Repositories groups the typed views over one Store.
type Repositories struct {
	Users     *Users
	Mappings  *CategoryMappings
	Questions *Questions
	Products  *Products
	Prompts   *Prompts
	Results   *DiscoveryResults
}

func NewRepositories(store Store) *Repositories {
	questions := NewQuestions(store)
	return &Repositories{
		Users:     NewUsers(store),
		Mappings:  NewCategoryMappings(store),
		Questions: questions,
		Products:  NewProducts(store, questions),
		Prompts:   NewPrompts(store),
		Results:   NewDiscoveryResults(store),
	}
}

// Bootstrap creates the default admin user (when configured and missing)
// and writes the default prompt templates when any of them is missing.
func Bootstrap(repos *Repositories, cfg config.AuthConfig, log *logger.Logger) error {
	if cfg.CreateAdmin {
		_, err := repos.Users.FindByUsername(cfg.AdminUsername)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			if _, err := repos.Users.Create(cfg.AdminUsername, cfg.AdminPassword, models.RoleAdmin); err != nil {
				return fmt.Errorf("create default admin: %w", err)
			}
			log.Info("default admin user created", "username", cfg.AdminUsername)
		case err != nil:
			return err
		}
	}

	seeded, err := repos.Prompts.Seed()
	if err != nil {
		return fmt.Errorf("seed prompts: %w", err)
	}
	if seeded {
		log.Info("default prompts initialized")
	}
	return nil
}
