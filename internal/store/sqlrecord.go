package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"visionlink/internal/types"
)

// sqlRecords is the client_sessions table access shared by the sqlite and
// postgres backends. Only the placeholder syntax differs between them.
type sqlRecords struct {
	db      *sql.DB
	profile string

	upsertQuery string
	selectQuery string
	deleteQuery string
}

func newSQLRecords(db *sql.DB, profile string, placeholder func(int) string) *sqlRecords {
	p := placeholder
	return &sqlRecords{
		db:      db,
		profile: profile,
		upsertQuery: `
			INSERT INTO client_sessions (profile, auth_token, user_json, chat_session_id, updated_at)
			VALUES (` + p(1) + `, ` + p(2) + `, ` + p(3) + `, ` + p(4) + `, ` + p(5) + `)
			ON CONFLICT (profile)
			DO UPDATE SET
				auth_token = excluded.auth_token,
				user_json = excluded.user_json,
				chat_session_id = excluded.chat_session_id,
				updated_at = excluded.updated_at`,
		selectQuery: `
			SELECT auth_token, user_json, chat_session_id, updated_at
			FROM client_sessions
			WHERE profile = ` + p(1),
		deleteQuery: `DELETE FROM client_sessions WHERE profile = ` + p(1),
	}
}

func (s *sqlRecords) load(ctx context.Context) (*Record, error) {
	var (
		rec      Record
		userJSON string
	)
	err := s.db.QueryRowContext(ctx, s.selectQuery, s.profile).Scan(
		&rec.AuthToken,
		&userJSON,
		&rec.ChatSessionID,
		&rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select session record")
	}
	if userJSON != "" {
		var u types.User
		if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
			return nil, errors.Wrapf(ErrCorrupt, "decode stored user: %v", err)
		}
		rec.User = &u
	}
	return &rec, nil
}

func (s *sqlRecords) save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return errors.New("nil session record")
	}
	var userJSON string
	if rec.User != nil {
		b, err := json.Marshal(rec.User)
		if err != nil {
			return errors.Wrap(err, "encode user")
		}
		userJSON = string(b)
	}
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	if _, err := s.db.ExecContext(ctx, s.upsertQuery,
		s.profile, rec.AuthToken, userJSON, rec.ChatSessionID, updated,
	); err != nil {
		return errors.Wrap(err, "upsert session record")
	}
	return nil
}

func (s *sqlRecords) delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.deleteQuery, s.profile); err != nil {
		return errors.Wrap(err, "delete session record")
	}
	return nil
}
