// Package database handles database connections and schema inspection.
//
// It wraps GORM so that MySQL, PostgreSQL and SQLite connections are
// configured the same way from the application's configuration.
//
// # Connect
//
// Connect opens and pings a pool for the configured driver. MySQL DSNs carry
// clientFoundRows so that affected row counts reflect matched rows, which the
// version guarded updates depend on. SQLite pools are capped at one
// connection.
//
// # Schema Inspection
//
// GetTableColumns lists the live columns of a table. Engines use it to verify
// that their mapped models match the deployed schema.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "demo_order")
package database
