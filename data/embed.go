// Package data embeds the database bootstrap SQL so test harnesses can
// initialize a fresh MariaDB without reaching into the repository tree.
package data

import (
	_ "embed"
)

// InitdbMariaDBTables creates the pantrio tables.
//
//go:embed initdb/mariadb/002-ddl-tables.sql
var InitdbMariaDBTables string

// InitdbMariaDBPrivileges grants the application accounts their access.
//
//go:embed initdb/mariadb/003-ddl-privileges.sql
var InitdbMariaDBPrivileges string
