package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'uq_owner_name'"}
	if !isDuplicateEntry(dup) {
		t.Fatal("error 1062 should map to a duplicate")
	}
	if !isDuplicateEntry(fmt.Errorf("insert: %w", dup)) {
		t.Fatal("wrapped 1062 should still map to a duplicate")
	}
}

func TestIsDuplicateEntryOtherErrors(t *testing.T) {
	if isDuplicateEntry(&mysql.MySQLError{Number: 1452}) {
		t.Fatal("a foreign key error is not a duplicate")
	}
	if isDuplicateEntry(errors.New("connection refused")) {
		t.Fatal("a plain error is not a duplicate")
	}
	if isDuplicateEntry(nil) {
		t.Fatal("nil is not a duplicate")
	}
}
