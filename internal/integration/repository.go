package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
)

var ErrConfigNotFound = errors.New("integration config not found")

// secretKeys are masked before a settings document leaves the API.
var secretKeys = map[string]bool{
	"password":       true,
	"pass":           true,
	"api_secret":     true,
	"key_secret":     true,
	"auth_token":     true,
	"webhook_secret": true,
}

type Repository interface {
	Upsert(ctx context.Context, resellerID int, channel string, enabled bool, settings types.JSONText) (*Config, error)
	Get(ctx context.Context, resellerID int, channel string) (*Config, error)
	List(ctx context.Context, resellerID int) ([]Config, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const configColumns = `id, reseller_id, channel, enabled, settings, created_at, updated_at`

func (r *repository) Upsert(ctx context.Context, resellerID int, channel string, enabled bool, settings types.JSONText) (*Config, error) {
	var cfg Config
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO integration_configs (reseller_id, channel, enabled, settings)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (reseller_id, channel) DO UPDATE
		 SET enabled    = EXCLUDED.enabled,
		     settings   = EXCLUDED.settings,
		     updated_at = NOW()
		 RETURNING `+configColumns,
		resellerID, channel, enabled, settings,
	).StructScan(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (r *repository) Get(ctx context.Context, resellerID int, channel string) (*Config, error) {
	var cfg Config
	err := r.db.GetContext(ctx, &cfg,
		`SELECT `+configColumns+` FROM integration_configs WHERE reseller_id = $1 AND channel = $2`,
		resellerID, channel,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	return &cfg, nil
}

func (r *repository) List(ctx context.Context, resellerID int) ([]Config, error) {
	var configs []Config
	err := r.db.SelectContext(ctx, &configs,
		`SELECT `+configColumns+` FROM integration_configs WHERE reseller_id = $1 ORDER BY channel`,
		resellerID,
	)
	if err != nil {
		return nil, err
	}

	return configs, nil
}

// MaskSecrets replaces secret-valued settings keys with a placeholder.
// The stored document is untouched.
func MaskSecrets(settings types.JSONText) types.JSONText {
	var doc map[string]interface{}
	if err := json.Unmarshal(settings, &doc); err != nil {
		return settings
	}

	for key, value := range doc {
		if secretKeys[key] {
			if s, ok := value.(string); ok && s != "" {
				doc[key] = "********"
			}
		}
	}

	masked, err := json.Marshal(doc)
	if err != nil {
		return settings
	}
	return masked
}
