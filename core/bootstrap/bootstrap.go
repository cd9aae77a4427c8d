package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	coreconfig "hadithbot/core/config"
	coredatabase "hadithbot/core/database"
	"hadithbot/core/logger"
)

// Options control the bootstrap pipeline that runs before the bot starts.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(coredatabase.Config) (*sqlx.DB, error)
	Migrate    func(coredatabase.Config) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
// DB is nil when the configured store backend does not use a database.
type Result struct {
	DB *sqlx.DB
}

// databaseConfig converts the config section into the database
// package's own type. The config package cannot import the database
// package, that would cycle back through the logger.
func databaseConfig(c coreconfig.DatabaseConfig) coredatabase.Config {
	return coredatabase.Config{
		Host:           c.Host,
		Port:           c.Port,
		User:           c.User,
		Password:       c.Password,
		Name:           c.Name,
		SSLMode:        c.SSLMode,
		MaxConnections: c.MaxConnections,
	}
}

// Run initializes the logger and, for the postgres store backend, connects
// to the database and applies migrations.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	if opts.Config.Store.Backend != coreconfig.StoreBackendPostgres {
		return &Result{}, nil
	}

	dbCfg := databaseConfig(opts.Config.Database)

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	if err := migrate(dbCfg); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	return &Result{DB: db}, nil
}
