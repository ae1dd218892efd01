package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresStore persists the user aggregate in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the schema and seeds the role reference table.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id              BIGSERIAL PRIMARY KEY,
			email           TEXT NOT NULL UNIQUE,
			password_hash   TEXT NOT NULL,
			name            TEXT NOT NULL,
			nik             TEXT NOT NULL UNIQUE,
			address         TEXT NOT NULL DEFAULT '',
			phone           TEXT NOT NULL DEFAULT '',
			roles           TEXT[] NOT NULL DEFAULT '{}',
			kind            TEXT NOT NULL,
			medical_history TEXT,
			speciality      TEXT,
			work_address    TEXT,
			average_rating  DOUBLE PRECISION NOT NULL DEFAULT 0,
			rating_count    INTEGER NOT NULL DEFAULT 0,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS working_schedules (
			id           BIGSERIAL PRIMARY KEY,
			caregiver_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			day_of_week  INTEGER NOT NULL,
			start_time   TEXT NOT NULL,
			end_time     TEXT NOT NULL,
			available    BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS roles (
			name TEXT PRIMARY KEY
		)`,
		`INSERT INTO roles (name) VALUES ('PATIENT'), ('CAREGIVER') ON CONFLICT DO NOTHING`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate users schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, u *User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, password_hash, name, nik, address, phone, roles, kind,
			medical_history, speciality, work_address, average_rating, rating_count, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id`,
		u.Email, u.PasswordHash, u.Name, u.NIK, u.Address, u.Phone,
		pq.Array(u.RoleNames()), string(u.Kind),
		medicalHistory(u), speciality(u), workAddress(u),
		averageRating(u), ratingCount(u), u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	if u.IsCareGiver() {
		for i := range u.CareGiver.Schedules {
			if err := s.insertSchedule(ctx, u.ID, &u.CareGiver.Schedules[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *PostgresStore) insertSchedule(ctx context.Context, caregiverID int64, ws *WorkingSchedule) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO working_schedules (caregiver_id, day_of_week, start_time, end_time, available)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		caregiverID, int(ws.DayOfWeek), ws.StartTime, ws.EndTime, ws.Available,
	).Scan(&ws.ID)
	if err != nil {
		return fmt.Errorf("insert working schedule: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, u *User) error {
	u.UpdatedAt = time.Now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET email=$1, name=$2, address=$3, phone=$4,
			medical_history=$5, speciality=$6, work_address=$7, updated_at=$8
		WHERE id=$9`,
		u.Email, u.Name, u.Address, u.Phone,
		medicalHistory(u), speciality(u), workAddress(u), u.UpdatedAt, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res)
}

const userColumns = `id, email, password_hash, name, nik, address, phone, roles, kind,
	medical_history, speciality, work_address, average_rating, rating_count, created_at, updated_at`

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	return s.scanUser(ctx, row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email)
	return s.scanUser(ctx, row)
}

func (s *PostgresStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email)=lower($1))`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by email: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) ExistsByNIK(ctx context.Context, nik string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE nik=$1)`, nik).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by nik: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) ListCareGivers(ctx context.Context) ([]*User, error) {
	return s.SearchCareGivers(ctx, "", "")
}

func (s *PostgresStore) SearchCareGivers(ctx context.Context, name, speciality string) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE kind=$1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR speciality ILIKE '%' || $3 || '%')
		ORDER BY id`,
		string(KindCareGiver), name, speciality,
	)
	if err != nil {
		return nil, fmt.Errorf("search caregivers: %w", err)
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		u, err := s.scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search caregivers: %w", err)
	}
	for _, u := range out {
		if err := s.loadSchedules(ctx, u); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *PostgresStore) UpdateCareGiverRating(ctx context.Context, id int64, average float64, count int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET average_rating=$1, rating_count=$2, updated_at=now()
		WHERE id=$3 AND kind=$4`,
		average, count, id, string(KindCareGiver),
	)
	if err != nil {
		return fmt.Errorf("update caregiver rating: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresStore) scanUser(ctx context.Context, row rowScanner) (*User, error) {
	u, err := s.scanUserRow(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadSchedules(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *PostgresStore) scanUserRow(row rowScanner) (*User, error) {
	var (
		u              User
		roles          []string
		kind           string
		medHistory     sql.NullString
		spec           sql.NullString
		workAddr       sql.NullString
		avgRating      float64
		ratingCountVal int
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.NIK, &u.Address, &u.Phone,
		pq.Array(&roles), &kind, &medHistory, &spec, &workAddr,
		&avgRating, &ratingCountVal, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	for _, r := range roles {
		u.Roles = append(u.Roles, Role(r))
	}
	u.Kind = Kind(kind)
	switch u.Kind {
	case KindPatient:
		u.Patient = &PatientProfile{MedicalHistory: medHistory.String}
	case KindCareGiver:
		u.CareGiver = &CareGiverProfile{
			Speciality:    spec.String,
			WorkAddress:   workAddr.String,
			AverageRating: avgRating,
			RatingCount:   ratingCountVal,
		}
	}
	return &u, nil
}

func (s *PostgresStore) loadSchedules(ctx context.Context, u *User) error {
	if !u.IsCareGiver() {
		return nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, day_of_week, start_time, end_time, available
		FROM working_schedules WHERE caregiver_id=$1 ORDER BY id`, u.ID)
	if err != nil {
		return fmt.Errorf("load schedules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ws WorkingSchedule
		var day int
		if err := rows.Scan(&ws.ID, &day, &ws.StartTime, &ws.EndTime, &ws.Available); err != nil {
			return fmt.Errorf("scan schedule: %w", err)
		}
		ws.DayOfWeek = time.Weekday(day)
		u.CareGiver.Schedules = append(u.CareGiver.Schedules, ws)
	}
	return rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
