package storage

import (
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const mysqlDuplicateEntry = 1062

// Server errors raised when a row's values break a column rule.
var mysqlConstraintErrors = map[uint16]bool{
	1048: true, // column cannot be null
	1264: true, // out of range value
	1364: true, // field has no default value
	1366: true, // incorrect value for column
	1406: true, // data too long
	3819: true, // check constraint violated
}

var mysqlDialect = dialect{
	name: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS products (
			seq BIGINT NOT NULL AUTO_INCREMENT UNIQUE,
			id VARCHAR(191) NOT NULL PRIMARY KEY,
			name TEXT NOT NULL,
			quantity INT NOT NULL,
			price DOUBLE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name TEXT NOT NULL,
			email VARCHAR(191) NOT NULL UNIQUE,
			phone TEXT
		)`,
	},
	// seq follows insertion, the id order does not
	loadQuery:    `SELECT id, name, quantity, price FROM products ORDER BY seq`,
	isDuplicate:  isMySQLDuplicate,
	isConstraint: isMySQLConstraint,
}

// OpenMySQL connects with dsn. Found rows are reported as affected so an
// update writing unchanged values is not mistaken for a missing row.
func OpenMySQL(dsn string) (*SQLTable, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "mysql: parse dsn")
	}
	cfg.ClientFoundRows = true

	db, err := sqlx.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, errors.Wrap(err, "mysql: open")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "mysql: ping")
	}

	return &SQLTable{db: db, dialect: mysqlDialect}, nil
}

func isMySQLDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func isMySQLConstraint(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && mysqlConstraintErrors[me.Number]
}
