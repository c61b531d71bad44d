// Package repository は設定に応じて社員リポジトリの実装を選択します。
package repository

import (
	"context"
	"fmt"

	pgrepo "github.com/ogurasousui/employee-records-api/internal/adapters/repository/postgres"
	sqliterepo "github.com/ogurasousui/employee-records-api/internal/adapters/repository/sqlite"
	"github.com/ogurasousui/employee-records-api/internal/core/employee"
	"github.com/ogurasousui/employee-records-api/internal/platform/config"
	pg "github.com/ogurasousui/employee-records-api/internal/platform/db/postgres"
	sqlitedb "github.com/ogurasousui/employee-records-api/internal/platform/db/sqlite"
)

// Storage は選択されたストレージ実装一式です。
type Storage struct {
	Repo  employee.Repository
	Tx    employee.TransactionManager
	Ping  func(ctx context.Context) error
	close func()
}

// Close は接続を解放します。
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open は database.driver に従ってストレージを開きます。
// sqlite の場合はトランザクションマネージャを持ちません。
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlitedb.Open(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Repo:  sqliterepo.NewEmployeeRepository(db),
			Ping:  db.PingContext,
			close: func() { db.Close() },
		}, nil

	case config.DriverPostgres, "":
		pool, err := pg.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Repo:  pgrepo.NewEmployeeRepository(pool),
			Tx:    pg.NewTransactionManager(pool),
			Ping:  func(ctx context.Context) error { return pg.Ping(ctx, pool) },
			close: pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("repository: unsupported driver %q", cfg.Driver)
	}
}
