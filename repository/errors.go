package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrDuplicateName is returned when a collection name already exists
	// for the owner, whether caught by the pre-check or by the unique
	// constraint under a concurrent create.
	ErrDuplicateName = errors.New("collection name already exists")

	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("not found")
)

// isDuplicateEntry reports a MySQL duplicate-key violation (error 1062).
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
