package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sharedpages/diary-server/internal/models"
)

var (
	// ErrDuplicate is returned when an insert collides with an existing row
	// (diary id already taken, or a second entry for the same user and date).
	ErrDuplicate = errors.New("duplicate row")

	// ErrNotFound is returned by writes whose target row does not exist.
	ErrNotFound = errors.New("row not found")
)

// Repository defines the persistence operations the service layer depends
// on. Reads return (nil, nil) when the row does not exist.
type Repository interface {
	// Diary operations
	CreateDiary(ctx context.Context, diary *models.Diary) error
	GetDiary(ctx context.Context, diaryID string) (*models.Diary, error)
	AddMember(ctx context.Context, member *models.DiaryMember) error
	DeleteDiary(ctx context.Context, diaryID string) error

	// Entry operations
	CreateEntry(ctx context.Context, entry *models.Entry) error
	GetEntriesByDate(ctx context.Context, diaryID, date string) ([]models.Entry, error)
	GetUnlockedEntries(ctx context.Context, diaryID string) ([]models.Entry, error)
	GetEntryDates(ctx context.Context, diaryID string) ([]string, error)
	ClearEntryDigest(ctx context.Context, entryID string) error
}

// PostgresRepository implements the Repository interface using PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection.
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// CreateDiary persists a new diary together with its creator member row in
// one transaction. diary.Members must hold exactly the creator.
func (r *PostgresRepository) CreateDiary(ctx context.Context, diary *models.Diary) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	now := time.Now().UTC()
	diary.CreatedAt = now

	_, err = tx.ExecContext(ctx,
		`INSERT INTO diaries (diary_id, type, created_by, created_at) VALUES ($1, $2, $3, $4)`,
		diary.DiaryID, diary.Type, diary.CreatedBy, diary.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			err = ErrDuplicate
		}
		return err
	}

	for i := range diary.Members {
		m := &diary.Members[i]
		m.DiaryID = diary.DiaryID
		m.Position = i
		m.CreatedAt = now

		_, err = tx.ExecContext(ctx,
			`INSERT INTO diary_members (diary_id, user_name, position, secret_hash, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			m.DiaryID, m.UserName, m.Position, m.SecretHash, m.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetDiary fetches a diary and its members ordered by position.
func (r *PostgresRepository) GetDiary(ctx context.Context, diaryID string) (*models.Diary, error) {
	var diary models.Diary
	err := r.db.GetContext(ctx, &diary, `SELECT * FROM diaries WHERE diary_id = $1`, diaryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Diary not found
		}
		return nil, err
	}

	err = r.db.SelectContext(ctx, &diary.Members,
		`SELECT * FROM diary_members WHERE diary_id = $1 ORDER BY position ASC`, diaryID)
	if err != nil {
		return nil, err
	}

	return &diary, nil
}

// AddMember appends a member at the next free position. The position is
// assigned inside the transaction so concurrent joins cannot share one.
func (r *PostgresRepository) AddMember(ctx context.Context, member *models.DiaryMember) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	var nextPos int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM diary_members WHERE diary_id = $1`,
		member.DiaryID).Scan(&nextPos)
	if err != nil {
		return err
	}

	member.Position = nextPos
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO diary_members (diary_id, user_name, position, secret_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		member.DiaryID, member.UserName, member.Position, member.SecretHash, member.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			err = ErrDuplicate
		}
		return err
	}

	return tx.Commit()
}

// DeleteDiary removes a diary with all its members and entries.
func (r *PostgresRepository) DeleteDiary(ctx context.Context, diaryID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
	}()

	_, err = tx.ExecContext(ctx, `DELETE FROM entries WHERE diary_id = $1`, diaryID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM diary_members WHERE diary_id = $1`, diaryID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM diaries WHERE diary_id = $1`, diaryID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// CreateEntry persists a new entry row.
func (r *PostgresRepository) CreateEntry(ctx context.Context, entry *models.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (id, diary_id, user_name, date, content, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.DiaryID, entry.UserName, entry.Date,
		entry.Content, entry.PasswordHash, entry.CreatedAt)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicate
	}

	return err
}

// GetEntriesByDate returns all entries of a diary for one date, ordered by
// creation time for deterministic stacking.
func (r *PostgresRepository) GetEntriesByDate(ctx context.Context, diaryID, date string) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM entries WHERE diary_id = $1 AND date = $2 ORDER BY created_at ASC`,
		diaryID, date)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// GetUnlockedEntries returns all permanently visible entries of a diary,
// newest date first.
func (r *PostgresRepository) GetUnlockedEntries(ctx context.Context, diaryID string) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM entries
		 WHERE diary_id = $1 AND password_hash IS NULL
		 ORDER BY date DESC, created_at ASC`,
		diaryID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// GetEntryDates returns the distinct dates a diary has entries for, newest
// first.
func (r *PostgresRepository) GetEntryDates(ctx context.Context, diaryID string) ([]string, error) {
	var dates []string
	err := r.db.SelectContext(ctx, &dates,
		`SELECT DISTINCT date FROM entries WHERE diary_id = $1 ORDER BY date DESC`, diaryID)
	if err != nil {
		return nil, err
	}

	return dates, nil
}

// ClearEntryDigest nulls out one entry's password digest. This is the
// unlock signal; clearing an already-null digest is a no-op.
func (r *PostgresRepository) ClearEntryDigest(ctx context.Context, entryID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE entries SET password_hash = NULL WHERE id = $1`, entryID)
	return err
}
