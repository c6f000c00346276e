package db

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"

	"github.com/moonrake/cashier-go/config"
)

// NewDataDBConnection opens the MySQL handle holding accounts, the
// append-only deposit ledger and the withdrawal request table. The handle is
// constructed once at startup and injected; nothing in the tree reaches for
// a package-level connection.
func NewDataDBConnection(cfg *config.Config) (*sql.DB, error) {
	mysqlCfg := mysql.Config{
		User:      cfg.Database.User,
		Passwd:    cfg.Database.Password,
		Net:       "tcp",
		Addr:      cfg.Database.Addr,
		DBName:    cfg.Database.Name,
		ParseTime: true,
	}

	dataDb, err := sql.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, err
	}

	if err := dataDb.Ping(); err != nil {
		return nil, err
	}

	return dataDb, nil
}
