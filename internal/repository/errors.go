// Package repository defines error values reused across repositories.
// These sentinels let handlers distinguish failure scenarios without
// inspecting driver errors themselves.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrConflict is returned when a create or cancel transaction cannot
// proceed because of conflicting concurrent state, such as a deadlock
// or lock wait timeout on the schedule row. Handlers should translate
// this into an HTTP 409 response; the client decides whether to retry.
var ErrConflict = errors.New("conflict")

// AsConflict maps MySQL lock-contention errors (1213 deadlock, 1205
// lock wait timeout) to ErrConflict and returns every other error
// unchanged.
func AsConflict(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && (me.Number == 1213 || me.Number == 1205) {
		return ErrConflict
	}
	return err
}

// IsDuplicate reports whether err is a MySQL duplicate-key error (1062).
func IsDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
