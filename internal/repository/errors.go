// Package repository holds the MySQL implementation of the rate lookup and
// the holiday calendar.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a MySQL duplicate key violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
