package repository

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mhruby/catchboard/internal/models"
)

// Repository provides data access methods over the local entry record
// store. It is the durable half of the Store abstraction; change
// notification lives in internal/store.
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// NewWithDB wraps an existing database handle, used by tests that
// inject a mocked connection.
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS competitors (
			id TEXT PRIMARY KEY,
			sector TEXT NOT NULL,
			box_number INTEGER NOT NULL,
			full_name TEXT NOT NULL,
			team TEXT DEFAULT '',
			photo_url TEXT DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			total_fish_count INTEGER NOT NULL DEFAULT 0,
			total_weight INTEGER NOT NULL DEFAULT 0,
			biggest_catch INTEGER NOT NULL DEFAULT 0,
			points INTEGER NOT NULL DEFAULT 0,
			sector_coefficient REAL NOT NULL DEFAULT 0,
			sector_rank INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL DEFAULT 0,
			UNIQUE(sector, box_number)
		)`,
		`CREATE TABLE IF NOT EXISTS hourly_entries (
			id TEXT PRIMARY KEY,
			sector TEXT NOT NULL,
			hour INTEGER NOT NULL,
			competitor_id TEXT NOT NULL,
			fish_count INTEGER NOT NULL DEFAULT 0,
			total_weight INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'empty',
			source TEXT NOT NULL DEFAULT 'Judge',
			updated_by TEXT DEFAULT '',
			ts INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS big_catches (
			id TEXT PRIMARY KEY,
			sector TEXT NOT NULL,
			competitor_id TEXT NOT NULL,
			biggest_catch INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'empty',
			source TEXT NOT NULL DEFAULT 'Judge',
			updated_by TEXT DEFAULT '',
			ts INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sync_queue (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			op_type TEXT NOT NULL,
			collection TEXT NOT NULL,
			doc_id TEXT NOT NULL,
			payload TEXT NOT NULL,
			enqueued_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_competitors_sector ON competitors(sector)`,
		`CREATE INDEX IF NOT EXISTS idx_hourly_sector ON hourly_entries(sector)`,
		`CREATE INDEX IF NOT EXISTS idx_hourly_competitor ON hourly_entries(competitor_id)`,
		`CREATE INDEX IF NOT EXISTS idx_big_sector ON big_catches(sector)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	// Insert default settings if not exists
	defaultSettings := map[string]string{
		"competition_hours": "7",
		"sectors":           "A,B,C,D,E,F",
		"scoring_open":      "true",
	}

	for key, value := range defaultSettings {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// ==================== Competitor Methods ====================

const competitorColumns = `id, sector, box_number, full_name, team, photo_url, status,
	total_fish_count, total_weight, biggest_catch, points, sector_coefficient, sector_rank, updated_at`

func scanCompetitor(row interface{ Scan(...interface{}) error }) (models.Competitor, error) {
	var c models.Competitor
	err := row.Scan(&c.ID, &c.Sector, &c.BoxNumber, &c.FullName, &c.Team, &c.PhotoURL, &c.Status,
		&c.TotalFishCount, &c.TotalWeight, &c.BiggestCatch, &c.Points, &c.SectorCoefficient, &c.SectorRank, &c.UpdatedAt)
	return c, err
}

// CreateCompetitor inserts a new competitor record
func (r *Repository) CreateCompetitor(ctx context.Context, c models.Competitor) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO competitors (id, sector, box_number, full_name, team, photo_url, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Sector, c.BoxNumber, c.FullName, c.Team, c.PhotoURL, string(c.Status), nowMillis())
	return err
}

// UpdateCompetitor updates a competitor's profile fields. Scoring
// fields are out of reach here; only UpdateCompetitorScore touches
// them.
func (r *Repository) UpdateCompetitor(ctx context.Context, c models.Competitor) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE competitors SET sector = ?, box_number = ?, full_name = ?, team = ?, photo_url = ?, updated_at = ?
		WHERE id = ?`,
		c.Sector, c.BoxNumber, c.FullName, c.Team, c.PhotoURL, nowMillis(), c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCompetitorStatus soft-activates or soft-deactivates a competitor
func (r *Repository) SetCompetitorStatus(ctx context.Context, id string, status models.CompetitorStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE competitors SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), nowMillis(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetCompetitor retrieves a competitor by id
func (r *Repository) GetCompetitor(ctx context.Context, id string) (*models.Competitor, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+competitorColumns+` FROM competitors WHERE id = ?`, id)
	c, err := scanCompetitor(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCompetitors returns all competitors ordered by sector and box
func (r *Repository) ListCompetitors(ctx context.Context) ([]models.Competitor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+competitorColumns+` FROM competitors ORDER BY sector, box_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCompetitors(rows)
}

// ListCompetitorsBySector returns one sector's competitors ordered by box
func (r *Repository) ListCompetitorsBySector(ctx context.Context, sector string) ([]models.Competitor, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+competitorColumns+` FROM competitors WHERE sector = ? ORDER BY box_number`, sector)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCompetitors(rows)
}

func collectCompetitors(rows *sql.Rows) ([]models.Competitor, error) {
	var out []models.Competitor
	for rows.Next() {
		c, err := scanCompetitor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// BoxTaken reports whether another competitor already occupies the
// (sector, boxNumber) position
func (r *Repository) BoxTaken(ctx context.Context, sector string, boxNumber int, excludeID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM competitors WHERE sector = ? AND box_number = ? AND id != ?`,
		sector, boxNumber, excludeID).Scan(&count)
	return count > 0, err
}

// UpdateCompetitorScore writes the denormalized scoring fields. The
// WHERE clause skips the write when nothing changed, so callers can
// tell a real update from a no-op and avoid recompute loops.
func (r *Repository) UpdateCompetitorScore(ctx context.Context, id string, score models.Score) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE competitors
		SET total_fish_count = ?, total_weight = ?, biggest_catch = ?, points = ?, sector_coefficient = ?, sector_rank = ?, updated_at = ?
		WHERE id = ?
		  AND (total_fish_count != ? OR total_weight != ? OR biggest_catch != ? OR points != ? OR sector_coefficient != ? OR sector_rank != ?)`,
		score.TotalFishCount, score.TotalWeight, score.BiggestCatch, score.Points, score.SectorCoefficient, score.SectorRank, nowMillis(),
		id,
		score.TotalFishCount, score.TotalWeight, score.BiggestCatch, score.Points, score.SectorCoefficient, score.SectorRank)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ==================== Entry Methods ====================

// UpsertHourlyEntry merge-writes an hourly entry keyed by its
// deterministic document id. Last writer wins.
func (r *Repository) UpsertHourlyEntry(ctx context.Context, e models.HourlyEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hourly_entries (id, sector, hour, competitor_id, fish_count, total_weight, status, source, updated_by, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fish_count = excluded.fish_count,
			total_weight = excluded.total_weight,
			status = excluded.status,
			source = excluded.source,
			updated_by = excluded.updated_by,
			ts = excluded.ts`,
		e.ID, e.Sector, e.Hour, e.CompetitorID, e.FishCount, e.TotalWeight, string(e.Status), string(e.Source), e.UpdatedBy, e.Timestamp)
	return err
}

// GetHourlyEntry retrieves an hourly entry by document id
func (r *Repository) GetHourlyEntry(ctx context.Context, id string) (*models.HourlyEntry, error) {
	var e models.HourlyEntry
	err := r.db.QueryRowContext(ctx, `
		SELECT id, sector, hour, competitor_id, fish_count, total_weight, status, source, updated_by, ts
		FROM hourly_entries WHERE id = ?`, id).
		Scan(&e.ID, &e.Sector, &e.Hour, &e.CompetitorID, &e.FishCount, &e.TotalWeight, &e.Status, &e.Source, &e.UpdatedBy, &e.Timestamp)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListHourlyEntries returns every hourly entry ordered by id
func (r *Repository) ListHourlyEntries(ctx context.Context) ([]models.HourlyEntry, error) {
	return r.queryHourly(ctx, `
		SELECT id, sector, hour, competitor_id, fish_count, total_weight, status, source, updated_by, ts
		FROM hourly_entries ORDER BY id`)
}

// ListHourlyEntriesBySector returns one sector's hourly entries
func (r *Repository) ListHourlyEntriesBySector(ctx context.Context, sector string) ([]models.HourlyEntry, error) {
	return r.queryHourly(ctx, `
		SELECT id, sector, hour, competitor_id, fish_count, total_weight, status, source, updated_by, ts
		FROM hourly_entries WHERE sector = ? ORDER BY id`, sector)
}

func (r *Repository) queryHourly(ctx context.Context, query string, args ...interface{}) ([]models.HourlyEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.HourlyEntry
	for rows.Next() {
		var e models.HourlyEntry
		if err := rows.Scan(&e.ID, &e.Sector, &e.Hour, &e.CompetitorID, &e.FishCount, &e.TotalWeight, &e.Status, &e.Source, &e.UpdatedBy, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpsertBigCatch merge-writes a big-catch entry keyed by its
// deterministic document id
func (r *Repository) UpsertBigCatch(ctx context.Context, e models.BigCatchEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO big_catches (id, sector, competitor_id, biggest_catch, status, source, updated_by, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			biggest_catch = excluded.biggest_catch,
			status = excluded.status,
			source = excluded.source,
			updated_by = excluded.updated_by,
			ts = excluded.ts`,
		e.ID, e.Sector, e.CompetitorID, e.BiggestCatch, string(e.Status), string(e.Source), e.UpdatedBy, e.Timestamp)
	return err
}

// GetBigCatch retrieves a big-catch entry by document id
func (r *Repository) GetBigCatch(ctx context.Context, id string) (*models.BigCatchEntry, error) {
	var e models.BigCatchEntry
	err := r.db.QueryRowContext(ctx, `
		SELECT id, sector, competitor_id, biggest_catch, status, source, updated_by, ts
		FROM big_catches WHERE id = ?`, id).
		Scan(&e.ID, &e.Sector, &e.CompetitorID, &e.BiggestCatch, &e.Status, &e.Source, &e.UpdatedBy, &e.Timestamp)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListBigCatches returns every big-catch entry ordered by id
func (r *Repository) ListBigCatches(ctx context.Context) ([]models.BigCatchEntry, error) {
	return r.queryBigCatches(ctx, `
		SELECT id, sector, competitor_id, biggest_catch, status, source, updated_by, ts
		FROM big_catches ORDER BY id`)
}

// ListBigCatchesBySector returns one sector's big-catch entries
func (r *Repository) ListBigCatchesBySector(ctx context.Context, sector string) ([]models.BigCatchEntry, error) {
	return r.queryBigCatches(ctx, `
		SELECT id, sector, competitor_id, biggest_catch, status, source, updated_by, ts
		FROM big_catches WHERE sector = ? ORDER BY id`, sector)
}

func (r *Repository) queryBigCatches(ctx context.Context, query string, args ...interface{}) ([]models.BigCatchEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.BigCatchEntry
	for rows.Next() {
		var e models.BigCatchEntry
		if err := rows.Scan(&e.ID, &e.Sector, &e.CompetitorID, &e.BiggestCatch, &e.Status, &e.Source, &e.UpdatedBy, &e.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value; missing keys return ""
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting stores a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// ==================== Offline Queue Methods ====================

// EnqueueOp appends an operation to the durable sync queue
func (r *Repository) EnqueueOp(ctx context.Context, op models.QueuedOp) (int64, error) {
	enqueuedAt := op.EnqueuedAt
	if enqueuedAt == 0 {
		enqueuedAt = nowMillis()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO sync_queue (op_type, collection, doc_id, payload, enqueued_at)
		VALUES (?, ?, ?, ?, ?)`,
		op.OpType, op.Collection, op.DocID, op.Payload, enqueuedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListQueuedOps returns all queued operations in strict enqueue order
func (r *Repository) ListQueuedOps(ctx context.Context) ([]models.QueuedOp, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, op_type, collection, doc_id, payload, enqueued_at
		FROM sync_queue ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.QueuedOp
	for rows.Next() {
		var op models.QueuedOp
		if err := rows.Scan(&op.ID, &op.OpType, &op.Collection, &op.DocID, &op.Payload, &op.EnqueuedAt); err != nil {
			return nil, err
		}
		out = append(out, op)
	}
	return out, rows.Err()
}

// DeleteQueuedOp removes a replayed operation
func (r *Repository) DeleteQueuedOp(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE id = ?`, id)
	return err
}

// CountQueuedOps returns the number of operations awaiting replay
func (r *Repository) CountQueuedOps(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&count)
	return count, err
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
