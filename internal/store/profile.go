package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Profile represents a calibration profile stored in the database.
type Profile struct {
	ID             string
	Name           string
	PinchThreshold float64
	Samples        int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfileRepository provides CRUD operations for calibration profiles.
type ProfileRepository struct {
	db *sql.DB
}

// Profiles returns the profile repository for this store.
func (s *Store) Profiles() *ProfileRepository {
	return &ProfileRepository{db: s.db}
}

// Create inserts a new profile into the database.
func (r *ProfileRepository) Create(p *Profile) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO calibration_profiles (id, name, pinch_threshold, samples, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.PinchThreshold, p.Samples, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a profile by its ID.
func (r *ProfileRepository) GetByID(id string) (*Profile, error) {
	p := &Profile{}

	err := r.db.QueryRow(
		`SELECT id, name, pinch_threshold, samples, created_at, updated_at
		 FROM calibration_profiles WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Name, &p.PinchThreshold, &p.Samples, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

// List returns all profiles ordered by name.
func (r *ProfileRepository) List() ([]*Profile, error) {
	rows, err := r.db.Query(
		`SELECT id, name, pinch_threshold, samples, created_at, updated_at
		 FROM calibration_profiles ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile
	for rows.Next() {
		p := &Profile{}
		if err := rows.Scan(&p.ID, &p.Name, &p.PinchThreshold, &p.Samples, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

// Update modifies a profile's name and pinch threshold.
func (r *ProfileRepository) Update(p *Profile) error {
	p.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE calibration_profiles SET name = ?, pinch_threshold = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.PinchThreshold, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a profile and, via cascade, its samples.
func (r *ProfileRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM calibration_profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// AddSample appends a raw calibration sample to a profile and bumps the
// profile's sample count.
func (r *ProfileRepository) AddSample(profileID string, data json.RawMessage) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRow(
		`SELECT COALESCE(MAX(sample_index), -1) + 1 FROM calibration_samples WHERE profile_id = ?`,
		profileID,
	).Scan(&next)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		`INSERT INTO calibration_samples (profile_id, sample_index, data) VALUES (?, ?, ?)`,
		profileID, next, string(data),
	); err != nil {
		return err
	}

	result, err := tx.Exec(
		`UPDATE calibration_profiles SET samples = samples + 1, updated_at = ? WHERE id = ?`,
		time.Now(), profileID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// GetSamples returns all raw samples for a profile in recording order.
func (r *ProfileRepository) GetSamples(profileID string) ([]json.RawMessage, error) {
	rows, err := r.db.Query(
		`SELECT data FROM calibration_samples WHERE profile_id = ? ORDER BY sample_index`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []json.RawMessage
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		samples = append(samples, json.RawMessage(data))
	}

	return samples, rows.Err()
}

// ClearSamples deletes all samples for a profile and resets its count.
func (r *ProfileRepository) ClearSamples(profileID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM calibration_samples WHERE profile_id = ?`, profileID); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`UPDATE calibration_profiles SET samples = 0, updated_at = ? WHERE id = ?`,
		time.Now(), profileID,
	); err != nil {
		return err
	}

	return tx.Commit()
}
