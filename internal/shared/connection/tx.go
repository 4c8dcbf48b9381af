package connection

import (
	"database/sql"

	"gorm.io/gorm"
)

// BindTx returns a session whose statements all execute on the caller's
// transaction instead of the connection pool. The cloned statement's conn
// pool is swapped for the tx, the same binding gorm applies inside its own
// Begin, so commit and rollback decide the fate of every statement issued
// through the returned handle.
func BindTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.Session(&gorm.Session{NewDB: true, Context: db.Statement.Context})
	session.Statement.ConnPool = tx
	return session
}
