package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Settings table - stores tuning values as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Calibration profiles - one per user, with the derived pinch threshold
		`CREATE TABLE IF NOT EXISTS calibration_profiles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			pinch_threshold REAL NOT NULL DEFAULT 0.05,
			samples INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Calibration samples - raw recorded pinch distances for a profile
		`CREATE TABLE IF NOT EXISTS calibration_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			profile_id TEXT NOT NULL REFERENCES calibration_profiles(id) ON DELETE CASCADE,
			sample_index INTEGER NOT NULL,
			data TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_calibration_samples_profile_id ON calibration_samples(profile_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
