// Package repository provides methods to work with DB
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/UnendingLoop/ThumbnailPipeline/internal/model"
	"github.com/UnendingLoop/ThumbnailPipeline/internal/repository/adpostgres"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
)

type RecordLinker interface {
	Link(ctx context.Context, imageURL, thumbnailURL string) error
}

// ConnParams - параметры подключения к базе объявлений
type ConnParams struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func ParamsFromConfig(cfg *config.Config) ConnParams {
	p := ConnParams{
		Host:     cfg.GetString("DB_HOST"),
		Port:     cfg.GetString("DB_PORT"),
		User:     cfg.GetString("DB_USER"),
		Password: cfg.GetString("DB_PASSWORD"),
		Database: cfg.GetString("DB_NAME"),
		SSLMode:  cfg.GetString("DB_SSLMODE"),
	}
	if p.Port == "" {
		p.Port = "5432"
	}
	if p.Database == "" {
		p.Database = model.DefaultDBName
	}
	if p.SSLMode == "" {
		p.SSLMode = "disable"
	}
	return p
}

// Validate reports every missing required parameter at once.
func (p ConnParams) Validate() error {
	var missing []string
	if p.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if p.User == "" {
		missing = append(missing, "DB_USER")
	}
	if p.Password == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", model.ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

func (p ConnParams) DSN() string {
	database := p.Database
	if database == "" {
		database = model.DefaultDBName
	}
	q := url.Values{}
	q.Set("sslmode", p.SSLMode)
	q.Set("client_encoding", "UTF8")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + database,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Masked - для логов окружения, пароль не светим
func (p ConnParams) Masked() map[string]string {
	notSet := func(v string) string {
		if v == "" {
			return "Not set"
		}
		return v
	}
	pass := "Not set"
	if p.Password != "" {
		pass = "***"
	}
	return map[string]string{
		"DB_HOST":     notSet(p.Host),
		"DB_USER":     notSet(p.User),
		"DB_NAME":     notSet(p.Database),
		"DB_PASSWORD": pass,
	}
}

// NewRecordLinker - каждый вызов Link открывает и закрывает свое подключение
func NewRecordLinker(p ConnParams) RecordLinker {
	return adpostgres.NewLinker(adpostgres.Params{DSN: p.DSN(), Validate: p.Validate}, nil)
}

func ConnectWithRetries(p ConnParams, retryCount int, idleTime time.Duration) *dbpg.DB {
	dbOptions := dbpg.Options{
		MaxOpenConns:    5,
		MaxIdleConns:    5,
		ConnMaxLifetime: 10 * time.Minute,
	}
	var dbConn *dbpg.DB
	var err error

	for i := 0; i < retryCount; i++ {
		dbConn, err = dbpg.New(p.DSN(), nil, &dbOptions)
		if err == nil {
			break
		}
		log.Printf("Failed to connect to PGDB: %s\nWaiting %v before next retry...", err, idleTime)
		time.Sleep(idleTime)
	}

	if err != nil {
		log.Fatal("Failed to connect to DB. Exiting the app...")
	}

	return dbConn
}

func MigrateWithRetries(db *sql.DB, migrationsPath string, retries int, idle time.Duration) {
	for i := 0; i < retries; i++ {
		log.Printf("Migration try #%d...", i+1)
		err := runMigrate(db, migrationsPath)
		if err == nil {
			return
		}
		log.Printf("Migration try #%d was unsuccessful: %v. Waiting %v before next try...", i+1, err, idle)
		time.Sleep(idle)
	}
	log.Fatalln("Out of migration retries. Exiting...")
}

func runMigrate(db *sql.DB, migrationsPath string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return err
	}

	sourceURL := "file://" + absPath
	log.Println("Running migrations from:", sourceURL)

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	log.Println("Database migrations applied successfully")
	return nil
}
