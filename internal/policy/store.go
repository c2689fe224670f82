package policy

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS behavior_policies (
	target_guid    TEXT NOT NULL,
	policy_version INTEGER NOT NULL,
	trace_id       TEXT NOT NULL,
	issued_at      REAL NOT NULL,
	ttl            REAL NOT NULL,
	base_seed      INTEGER NOT NULL,
	aggression     REAL NOT NULL,
	fear           REAL NOT NULL,
	vigilance      REAL NOT NULL,
	policy_flags   INTEGER NOT NULL,
	source         TEXT NOT NULL,
	created_at     TEXT NOT NULL,
	PRIMARY KEY (target_guid, policy_version)
);

CREATE TABLE IF NOT EXISTS active_policies (
	target_guid    TEXT PRIMARY KEY,
	policy_version INTEGER NOT NULL,
	FOREIGN KEY (target_guid, policy_version) REFERENCES behavior_policies(target_guid, policy_version)
);

CREATE TABLE IF NOT EXISTS policy_log (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	target_guid    TEXT NOT NULL,
	policy_version INTEGER NOT NULL,
	source         TEXT NOT NULL,
	trace_id       TEXT,
	reason         TEXT,
	created_at     TEXT NOT NULL
);
`

// #endregion schema

// #region store-struct

// Store manages versioned behavior policies in SQLite. Each target actor
// has an active pointer to its newest committed version.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region put-base

// PutBase validates and commits a base policy as the active version for
// its target. Versions must be monotonically non-decreasing per target.
func (s *Store) PutBase(p BehaviorPolicy) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if active, err := s.Active(p.TargetGUID); err == nil && p.PolicyVersion < active.PolicyVersion {
		return fmt.Errorf("policy version %d older than active version %d", p.PolicyVersion, active.PolicyVersion)
	}
	return s.commit(p, "base", "base policy issued")
}

// #endregion put-base

// #region apply-patch

// ApplyPatch overlays a patch onto the target's active policy and
// commits the merged record as the new active version.
func (s *Store) ApplyPatch(patch PatchPolicy) (BehaviorPolicy, error) {
	base, err := s.Active(patch.TargetGUID)
	if err != nil {
		return BehaviorPolicy{}, fmt.Errorf("no active policy for target %s: %w", patch.TargetGUID, err)
	}
	merged, err := Apply(base, patch)
	if err != nil {
		return BehaviorPolicy{}, err
	}
	if err := s.commit(merged, "patch", "patch overlay applied"); err != nil {
		return BehaviorPolicy{}, err
	}
	return merged, nil
}

// #endregion apply-patch

// #region active

// Active reads the target's active policy version.
func (s *Store) Active(targetGUID string) (BehaviorPolicy, error) {
	var p BehaviorPolicy
	err := s.db.QueryRow(
		`SELECT p.target_guid, p.policy_version, p.trace_id, p.issued_at, p.ttl,
		        p.base_seed, p.aggression, p.fear, p.vigilance, p.policy_flags
		 FROM behavior_policies p
		 JOIN active_policies a ON a.target_guid = p.target_guid AND a.policy_version = p.policy_version
		 WHERE p.target_guid = ?`, targetGUID,
	).Scan(&p.TargetGUID, &p.PolicyVersion, &p.TraceID, &p.IssuedAt, &p.TTL,
		&p.BaseSeed, &p.Aggression, &p.Fear, &p.Vigilance, &p.PolicyFlags)
	if err != nil {
		return BehaviorPolicy{}, fmt.Errorf("get active policy %s: %w", targetGUID, err)
	}
	return p, nil
}

// #endregion active

// #region history

// History lists the committed versions for a target, oldest first.
func (s *Store) History(targetGUID string, limit int) ([]BehaviorPolicy, error) {
	rows, err := s.db.Query(
		`SELECT target_guid, policy_version, trace_id, issued_at, ttl,
		        base_seed, aggression, fear, vigilance, policy_flags
		 FROM behavior_policies WHERE target_guid = ?
		 ORDER BY policy_version ASC LIMIT ?`, targetGUID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list policy history: %w", err)
	}
	defer rows.Close()

	var out []BehaviorPolicy
	for rows.Next() {
		var p BehaviorPolicy
		if err := rows.Scan(&p.TargetGUID, &p.PolicyVersion, &p.TraceID, &p.IssuedAt, &p.TTL,
			&p.BaseSeed, &p.Aggression, &p.Fear, &p.Vigilance, &p.PolicyFlags); err != nil {
			return nil, fmt.Errorf("scan policy row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// #endregion history

// #region prune-expired

// PruneExpired removes active pointers whose policy TTL has elapsed at
// now. Historical versions are kept for the log.
func (s *Store) PruneExpired(now float64) (int, error) {
	res, err := s.db.Exec(
		`DELETE FROM active_policies WHERE target_guid IN (
			SELECT p.target_guid FROM behavior_policies p
			JOIN active_policies a ON a.target_guid = p.target_guid AND a.policy_version = p.policy_version
			WHERE p.issued_at + p.ttl < ?
		)`, now,
	)
	if err != nil {
		return 0, fmt.Errorf("prune expired: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// #endregion prune-expired

// #region commit

// commit inserts a version, moves the active pointer, and writes the
// policy log entry atomically.
func (s *Store) commit(p BehaviorPolicy, source, reason string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT OR REPLACE INTO behavior_policies
		 (target_guid, policy_version, trace_id, issued_at, ttl, base_seed,
		  aggression, fear, vigilance, policy_flags, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.TargetGUID, p.PolicyVersion, p.TraceID, p.IssuedAt, p.TTL, p.BaseSeed,
		p.Aggression, p.Fear, p.Vigilance, p.PolicyFlags, source, now,
	)
	if err != nil {
		return fmt.Errorf("insert policy: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_policies (target_guid, policy_version) VALUES (?, ?)
		 ON CONFLICT(target_guid) DO UPDATE SET policy_version = excluded.policy_version`,
		p.TargetGUID, p.PolicyVersion,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO policy_log (target_guid, policy_version, source, trace_id, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.TargetGUID, p.PolicyVersion, source, p.TraceID, reason, now,
	)
	if err != nil {
		return fmt.Errorf("log policy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion commit
