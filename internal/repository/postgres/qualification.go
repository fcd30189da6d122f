package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sleepharmony/landing/internal/domain/qualification"
	"github.com/sleepharmony/landing/internal/pkg/errors"
)

// QualificationRepository implements qualification.Repository
type QualificationRepository struct {
	db     *sql.DB
	driver string
}

// NewQualificationRepository creates a new qualification repository. Challenge
// sets are stored as TEXT[] on postgres and as JSON text on sqlite.
func NewQualificationRepository(db *sql.DB, driver string) qualification.Repository {
	return &QualificationRepository{db: db, driver: driver}
}

// Create inserts a qualification
func (r *QualificationRepository) Create(ctx context.Context, q *qualification.Qualification) error {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	if q.MainChallenges == nil {
		q.MainChallenges = []string{}
	}
	id := uuid.NewString()

	challenges, err := r.encodeChallenges(q.MainChallenges)
	if err != nil {
		return errors.Internal("Failed to encode challenges", err)
	}

	query := `
		INSERT INTO qualifications (id, user_id, baby_age, relation_duration, relation_status,
			main_challenges, urgency_level, motivation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		id, q.UserID, q.BabyAge, q.RelationDuration, q.RelationStatus,
		challenges, q.UrgencyLevel, q.Motivation, q.CreatedAt.Unix(),
	)
	if err != nil {
		return storeError("Failed to create qualification", err)
	}

	q.ID = id
	return nil
}

// ListByUser returns a user's qualifications, oldest first
func (r *QualificationRepository) ListByUser(ctx context.Context, userID string) ([]*qualification.Qualification, error) {
	query := `
		SELECT id, user_id, baby_age, relation_duration, relation_status,
			main_challenges, urgency_level, motivation, created_at
		FROM qualifications WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storeError("Failed to list qualifications", err)
	}
	defer rows.Close()

	var out []*qualification.Qualification
	for rows.Next() {
		var q qualification.Qualification
		var createdAt int64
		col := r.challengeColumn()

		if err := rows.Scan(&q.ID, &q.UserID, &q.BabyAge, &q.RelationDuration, &q.RelationStatus,
			col.dest(), &q.UrgencyLevel, &q.Motivation, &createdAt); err != nil {
			return nil, storeError("Failed to scan qualification", err)
		}

		challenges, err := col.values()
		if err != nil {
			return nil, errors.Internal("Failed to decode challenges", err)
		}
		q.MainChallenges = challenges
		q.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("Failed to list qualifications", err)
	}

	return out, nil
}

func (r *QualificationRepository) encodeChallenges(c []string) (driver.Value, error) {
	if r.driver == DriverPostgres {
		return pq.Array(c).Value()
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *QualificationRepository) challengeColumn() *challengeColumn {
	return &challengeColumn{postgres: r.driver == DriverPostgres}
}

// challengeColumn scans main_challenges in either storage format
type challengeColumn struct {
	postgres bool
	array    pq.StringArray
	raw      sql.NullString
}

func (c *challengeColumn) dest() interface{} {
	if c.postgres {
		return &c.array
	}
	return &c.raw
}

func (c *challengeColumn) values() ([]string, error) {
	if c.postgres {
		if c.array == nil {
			return []string{}, nil
		}
		return []string(c.array), nil
	}

	out := []string{}
	if !c.raw.Valid || c.raw.String == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(c.raw.String), &out); err != nil {
		return nil, fmt.Errorf("decode main_challenges: %w", err)
	}
	return out, nil
}
