package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/minhtran99/jobflow/internal/model"
)

// SQLiteStore persists enriched job records and their skills in a SQLite
// database. Records are keyed by (platform, native_id), so re-running the
// same query only adds listings not seen before.
type SQLiteStore struct {
	db *sql.DB
}

// LoadStats summarizes one load: how many records were new and how many were
// already present.
type LoadStats struct {
	Inserted int
	Skipped  int
}

// StoredJob is a persisted record as read back for review.
type StoredJob struct {
	ID             int64
	Platform       string
	NativeID       string
	URL            string
	Title          string
	Company        string
	Location       string
	SalaryMin      *int64
	SalaryMax      *int64
	SalaryCurrency *string
	Seniority      *string
	Description    string
	Relevance      float64
	IsRelevant     bool
	Skills         []string
	CreatedAt      time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	platform        TEXT NOT NULL,
	native_id       TEXT NOT NULL,
	job_url         TEXT NOT NULL,
	title           TEXT NOT NULL DEFAULT '',
	company         TEXT NOT NULL DEFAULT '',
	location        TEXT NOT NULL DEFAULT '',
	posted_text     TEXT NOT NULL DEFAULT '',
	salary_min      INTEGER,
	salary_max      INTEGER,
	salary_currency TEXT,
	seniority       TEXT,
	description     TEXT NOT NULL DEFAULT '',
	relevance       REAL NOT NULL DEFAULT 0,
	is_relevant     INTEGER NOT NULL DEFAULT 0,
	fetched_at      INTEGER NOT NULL DEFAULT 0,
	created_at      INTEGER NOT NULL,
	UNIQUE(platform, native_id)
);

CREATE TABLE IF NOT EXISTS skills (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL,
	category TEXT NOT NULL,
	UNIQUE(name, category)
);

CREATE TABLE IF NOT EXISTS job_skills (
	job_id   INTEGER NOT NULL REFERENCES jobs(id),
	skill_id INTEGER NOT NULL REFERENCES skills(id),
	PRIMARY KEY (job_id, skill_id)
);
`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// LoadJobs inserts the given records inside one transaction. Records whose
// (platform, native_id) already exists are skipped, not updated.
func (s *SQLiteStore) LoadJobs(jobs []model.EnrichedJob) (LoadStats, error) {
	var stats LoadStats

	tx, err := s.db.Begin()
	if err != nil {
		return stats, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, job := range jobs {
		res, err := tx.Exec(`INSERT OR IGNORE INTO jobs
			(platform, native_id, job_url, title, company, location, posted_text,
			 salary_min, salary_max, salary_currency, seniority, description,
			 relevance, is_relevant, fetched_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			job.Source, job.NativeID, job.URL,
			displayField(job.NormTitle, job.Title),
			displayField(job.NormCompany, job.Company),
			displayField(job.NormLocation, job.Location),
			job.PostedText,
			job.SalaryMin, job.SalaryMax, job.SalaryCurrency,
			seniorityText(job.Seniority),
			job.Description, job.Relevance, job.IsRelevant,
			job.FetchedAt.Unix(), now,
		)
		if err != nil {
			return stats, fmt.Errorf("inserting job %s/%s: %w", job.Source, job.NativeID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return stats, fmt.Errorf("checking insert of %s/%s: %w", job.Source, job.NativeID, err)
		}
		if affected == 0 {
			stats.Skipped++
			continue
		}
		stats.Inserted++

		jobID, err := res.LastInsertId()
		if err != nil {
			return stats, fmt.Errorf("reading id of %s/%s: %w", job.Source, job.NativeID, err)
		}
		if err := linkSkills(tx, jobID, job.Skills); err != nil {
			return stats, fmt.Errorf("linking skills of %s/%s: %w", job.Source, job.NativeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("committing load transaction: %w", err)
	}
	return stats, nil
}

func linkSkills(tx *sql.Tx, jobID int64, skills []model.Skill) error {
	for _, skill := range skills {
		if _, err := tx.Exec("INSERT OR IGNORE INTO skills (name, category) VALUES (?, ?)",
			skill.Name, skill.Category); err != nil {
			return fmt.Errorf("inserting skill %s: %w", skill.Name, err)
		}
		var skillID int64
		if err := tx.QueryRow("SELECT id FROM skills WHERE name = ? AND category = ?",
			skill.Name, skill.Category).Scan(&skillID); err != nil {
			return fmt.Errorf("resolving skill %s: %w", skill.Name, err)
		}
		if _, err := tx.Exec("INSERT OR IGNORE INTO job_skills (job_id, skill_id) VALUES (?, ?)",
			jobID, skillID); err != nil {
			return fmt.Errorf("linking skill %s: %w", skill.Name, err)
		}
	}
	return nil
}

// ListJobs returns stored records, newest first. With relevantOnly set, only
// records the relevance filter accepted are returned.
func (s *SQLiteStore) ListJobs(relevantOnly bool) ([]StoredJob, error) {
	query := `SELECT id, platform, native_id, job_url, title, company, location,
		salary_min, salary_max, salary_currency, seniority, description,
		relevance, is_relevant, created_at FROM jobs`
	if relevantOnly {
		query += " WHERE is_relevant = 1"
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []StoredJob
	for rows.Next() {
		var j StoredJob
		var createdUnix int64
		if err := rows.Scan(&j.ID, &j.Platform, &j.NativeID, &j.URL, &j.Title,
			&j.Company, &j.Location, &j.SalaryMin, &j.SalaryMax, &j.SalaryCurrency,
			&j.Seniority, &j.Description, &j.Relevance, &j.IsRelevant, &createdUnix); err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		j.CreatedAt = time.Unix(createdUnix, 0)
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job rows: %w", err)
	}

	for i := range jobs {
		skills, err := s.jobSkills(jobs[i].ID)
		if err != nil {
			return nil, err
		}
		jobs[i].Skills = skills
	}
	return jobs, nil
}

func (s *SQLiteStore) jobSkills(jobID int64) ([]string, error) {
	rows, err := s.db.Query(`SELECT sk.name FROM skills sk
		JOIN job_skills js ON js.skill_id = sk.id
		WHERE js.job_id = ? ORDER BY sk.name`, jobID)
	if err != nil {
		return nil, fmt.Errorf("listing skills of job %d: %w", jobID, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning skill row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CountJobs returns the total number of stored records.
func (s *SQLiteStore) CountJobs() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting jobs: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func displayField(norm *string, raw string) string {
	if norm != nil {
		return *norm
	}
	return raw
}

func seniorityText(s *model.Seniority) *string {
	if s == nil {
		return nil
	}
	text := string(*s)
	return &text
}
