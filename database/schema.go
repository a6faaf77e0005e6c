package database

import "fmt"

// EnsureTimescale converts the tick table into a hypertable and installs the
// retention policy. Safe to run repeatedly; fails soft on plain PostgreSQL.
func (db *DB) EnsureTimescale() error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS timescaledb`,
		`SELECT create_hypertable('option_chain_ticks', 'timestamp', if_not_exists => TRUE, migrate_data => TRUE)`,
		fmt.Sprintf(`SELECT add_retention_policy('option_chain_ticks', INTERVAL '%d days', if_not_exists => TRUE)`,
			int(RetentionTicks3Months.Hours()/24)),
		`SELECT create_hypertable('pattern_signals', 'generated_at', if_not_exists => TRUE, migrate_data => TRUE)`,
		fmt.Sprintf(`SELECT add_retention_policy('pattern_signals', INTERVAL '%d days', if_not_exists => TRUE)`,
			int(RetentionSignals1Year.Hours()/24)),
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return WrapDBError("EnsureTimescale", err)
		}
	}

	fmt.Println("✅ TimescaleDB hypertables and retention policies in place")
	return nil
}
