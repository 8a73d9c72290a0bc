package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// As migrações ficam embutidas no binário; cmd/migrate as aplica.
//
//go:embed migrations/*.sql
var migrations embed.FS

// Migrator aplica as migrações SQL embutidas sobre uma conexão existente.
type Migrator struct {
	runner *migrate.Migrate
}

func NewMigrator(db *sql.DB, dbName string) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{DatabaseName: dbName})
	if err != nil {
		return nil, fmt.Errorf("postgres driver: %w", err)
	}

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("embedded migration source: %w", err)
	}

	runner, err := migrate.NewWithInstance("iofs", src, dbName, driver)
	if err != nil {
		return nil, fmt.Errorf("migrator: %w", err)
	}

	return &Migrator{runner: runner}, nil
}

// Up aplica todas as migrações pendentes. Banco já atualizado não é erro.
func (m *Migrator) Up() error {
	if err := m.runner.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Down desfaz a última migração aplicada.
func (m *Migrator) Down() error {
	if err := m.runner.Steps(-1); err != nil {
		return fmt.Errorf("rollback last migration: %w", err)
	}
	return nil
}

// Version informa a versão corrente e se o banco está sujo.
// Banco sem nenhuma migração aplicada reporta versão 0.
func (m *Migrator) Version() (uint, bool, error) {
	v, dirty, err := m.runner.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration version: %w", err)
	}
	return v, dirty, nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.runner.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration db handle: %w", dbErr)
	}
	return nil
}
