package bootstrap

import (
	"testing"

	"github.com/jmoiron/sqlx"

	coreconfig "hadithbot/core/config"
	coredatabase "hadithbot/core/database"
)

func testConfig(backend string) *coreconfig.Config {
	return &coreconfig.Config{
		Store: coreconfig.StoreConfig{Backend: backend},
		Database: coreconfig.DatabaseConfig{
			Host:           "db.internal",
			Port:           "5433",
			User:           "bot",
			Password:       "secret",
			Name:           "hadithbot",
			SSLMode:        "disable",
			MaxConnections: 7,
		},
	}
}

func TestRunSkipsDatabaseForJSONBackend(t *testing.T) {
	connected := false
	res, err := Run(Options{
		Config:     testConfig(coreconfig.StoreBackendJSON),
		LoggerInit: func(*coreconfig.Config) error { return nil },
		Connect: func(coredatabase.Config) (*sqlx.DB, error) {
			connected = true
			return &sqlx.DB{}, nil
		},
		Migrate: func(coredatabase.Config) error { return nil },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if connected {
		t.Fatal("json backend must not open a database connection")
	}
	if res.DB != nil {
		t.Fatal("expected nil DB for json backend")
	}
}

func TestRunPassesDatabaseSectionThrough(t *testing.T) {
	var got coredatabase.Config
	res, err := Run(Options{
		Config:     testConfig(coreconfig.StoreBackendPostgres),
		LoggerInit: func(*coreconfig.Config) error { return nil },
		Connect: func(cfg coredatabase.Config) (*sqlx.DB, error) {
			got = cfg
			return &sqlx.DB{}, nil
		},
		Migrate: func(cfg coredatabase.Config) error {
			if cfg != got {
				t.Fatalf("migrate saw %+v, connect saw %+v", cfg, got)
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.DB == nil {
		t.Fatal("expected DB handle for postgres backend")
	}

	want := coredatabase.Config{
		Host:           "db.internal",
		Port:           "5433",
		User:           "bot",
		Password:       "secret",
		Name:           "hadithbot",
		SSLMode:        "disable",
		MaxConnections: 7,
	}
	if got != want {
		t.Fatalf("database section mapped as %+v, want %+v", got, want)
	}
}
