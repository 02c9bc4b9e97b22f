package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_insight_store.go -package=mocks vaultmind/internal/storage InsightStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// InsightStore defines the interface for insight persistence.
type InsightStore interface {
	// Insert stores a new record and returns its id.
	Insert(ctx context.Context, rec *InsightRecord) (int64, error)
	// Query returns records matching q, newest first. It has no side effects.
	Query(ctx context.Context, q InsightQuery) ([]InsightRecord, error)
	// Recall runs q and stamps every returned record as recalled at the given
	// time, in one transaction.
	Recall(ctx context.Context, q InsightQuery, at time.Time) ([]InsightRecord, error)
	// CountMatching counts records whose normalized concept contains fragment.
	CountMatching(ctx context.Context, fragment string) (int, error)
	// MarkRecalled stamps the given records as recalled.
	MarkRecalled(ctx context.Context, ids []int64, at time.Time) error
	// ListAll returns every record, oldest first.
	ListAll(ctx context.Context) ([]InsightRecord, error)
	// Delete removes a record. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error
	// Stats aggregates the stored records.
	Stats(ctx context.Context, topConcepts int) (*InsightStats, error)
	// ConceptActivity returns per-concept usage, ordered by concept.
	ConceptActivity(ctx context.Context) ([]ConceptActivity, error)
	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error
}

// InsightRepo provides methods for insight operations.
// It implements the InsightStore interface. Writes are serialized by a
// process-wide mutex; reads run concurrently against the last committed state.
type InsightRepo struct {
	db *sql.DB
	mu sync.Mutex
}

// NewInsightRepo creates a new InsightRepo.
func NewInsightRepo(db *sql.DB) *InsightRepo {
	return &InsightRepo{db: db}
}

const insightColumns = "id, concept, concept_norm, content, category, importance, created_at, last_recalled_at, recall_count"

// Insert stores rec and sets rec.ID.
func (r *InsightRepo) Insert(ctx context.Context, rec *InsightRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO insights (concept, concept_norm, content, category, importance, created_at, last_recalled_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.Concept, rec.ConceptNorm, rec.Content, rec.Category, rec.Importance,
		rec.CreatedAt.UTC().UnixNano(), nullableTime(rec.LastRecalledAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert insight: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insight id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit insight: %w", err)
	}

	rec.ID = id
	return id, nil
}

// Query returns the records matching q ordered by created_at desc, id desc.
func (r *InsightRepo) Query(ctx context.Context, q InsightQuery) ([]InsightRecord, error) {
	return queryInsights(ctx, r.db, q)
}

// Recall runs q and stamps the results with at inside one transaction. The
// returned records carry the new last-recalled time.
func (r *InsightRepo) Recall(ctx context.Context, q InsightQuery, at time.Time) ([]InsightRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	records, err := queryInsights(ctx, tx, q)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(records))
	for i := range records {
		ids[i] = records[i].ID
	}
	if err := markRecalled(ctx, tx, ids, at); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recall: %w", err)
	}

	stamp := at.UTC()
	for i := range records {
		t := stamp
		records[i].LastRecalledAt = &t
		records[i].RecallCount++
	}
	return records, nil
}

// CountMatching counts records whose normalized concept contains fragment.
func (r *InsightRepo) CountMatching(ctx context.Context, fragment string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM insights WHERE instr(concept_norm, ?) > 0", fragment,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count insights: %w", err)
	}
	return n, nil
}

// MarkRecalled stamps ids as recalled at the given time.
func (r *InsightRepo) MarkRecalled(ctx context.Context, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := markRecalled(ctx, tx, ids, at); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recall marks: %w", err)
	}
	return nil
}

// ListAll returns every record ordered by created_at asc, id asc.
func (r *InsightRepo) ListAll(ctx context.Context) ([]InsightRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+insightColumns+" FROM insights ORDER BY created_at ASC, id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	return scanInsights(rows)
}

// Delete removes the record with the given id.
func (r *InsightRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, "DELETE FROM insights WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete insight: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates counts over all records. topConcepts limits the concept
// ranking; 0 disables it. All queries read the same snapshot.
func (r *InsightRepo) Stats(ctx context.Context, topConcepts int) (*InsightStats, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stats := &InsightStats{ByCategory: map[string]int{}, TopConcepts: []ConceptCount{}}

	var oldest, newest sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT concept_norm), COUNT(last_recalled_at), COALESCE(SUM(recall_count), 0),
			MIN(created_at), MAX(created_at) FROM insights`,
	).Scan(&stats.TotalInsights, &stats.DistinctConcepts, &stats.RecalledInsights, &stats.TotalRecalls, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate insights: %w", err)
	}
	stats.Oldest = timeFromNull(oldest)
	stats.Newest = timeFromNull(newest)

	if err := countCategories(ctx, tx, stats.ByCategory); err != nil {
		return nil, err
	}

	if topConcepts > 0 {
		stats.TopConcepts, err = rankConcepts(ctx, tx, topConcepts)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to finish stats: %w", err)
	}
	return stats, nil
}

func countCategories(ctx context.Context, db queryer, into map[string]int) error {
	rows, err := db.QueryContext(ctx, "SELECT category, COUNT(*) FROM insights GROUP BY category")
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		var category string
		var n int
		if err := rows.Scan(&category, &n); err != nil {
			return fmt.Errorf("failed to scan category: %w", err)
		}
		into[category] = n
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate categories: %w", err)
	}
	return nil
}

func rankConcepts(ctx context.Context, db queryer, limit int) ([]ConceptCount, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT concept_norm, COUNT(*) AS n, MAX(recall_count) FROM insights
			GROUP BY concept_norm ORDER BY n DESC, concept_norm ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to rank concepts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := []ConceptCount{}
	for rows.Next() {
		var cc ConceptCount
		if err := rows.Scan(&cc.Concept, &cc.Insights, &cc.Recalls); err != nil {
			return nil, fmt.Errorf("failed to scan concept: %w", err)
		}
		out = append(out, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate concepts: %w", err)
	}
	return out, nil
}

// ConceptActivity aggregates insight count, recall count, peak importance and
// last activity per normalized concept.
func (r *InsightRepo) ConceptActivity(ctx context.Context) ([]ConceptActivity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT concept_norm, COUNT(*), MAX(recall_count), MAX(importance),
			MAX(COALESCE(last_recalled_at, created_at))
			FROM insights GROUP BY concept_norm ORDER BY concept_norm ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate concepts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := []ConceptActivity{}
	for rows.Next() {
		var (
			a        ConceptActivity
			lastSeen int64
		)
		if err := rows.Scan(&a.Concept, &a.Insights, &a.Recalls, &a.MaxImportance, &lastSeen); err != nil {
			return nil, fmt.Errorf("failed to scan concept activity: %w", err)
		}
		a.LastSeen = time.Unix(0, lastSeen).UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate concept activity: %w", err)
	}
	return out, nil
}

// Ping verifies the database is reachable.
func (r *InsightRepo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func queryInsights(ctx context.Context, db queryer, q InsightQuery) ([]InsightRecord, error) {
	var (
		where []string
		args  []any
	)
	if q.ConceptContains != "" {
		where = append(where, "instr(concept_norm, ?) > 0")
		args = append(args, q.ConceptContains)
	}
	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, q.Category)
	}
	if !q.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, q.Since.UTC().UnixNano())
	}
	if !q.Until.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, q.Until.UTC().UnixNano())
	}
	if q.MinImportance != nil {
		where = append(where, "importance >= ?")
		args = append(args, *q.MinImportance)
	}
	if q.MaxImportance != nil {
		where = append(where, "importance <= ?")
		args = append(args, *q.MaxImportance)
	}

	query := "SELECT " + insightColumns + " FROM insights"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query insights: %w", err)
	}
	return scanInsights(rows)
}

func markRecalled(ctx context.Context, db execer, ids []int64, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+1)
	args = append(args, at.UTC().UnixNano())
	for _, id := range ids {
		args = append(args, id)
	}
	if _, err := db.ExecContext(ctx,
		"UPDATE insights SET last_recalled_at = ?, recall_count = recall_count + 1 WHERE id IN ("+placeholders+")", args...,
	); err != nil {
		return fmt.Errorf("failed to mark insights recalled: %w", err)
	}
	return nil
}

func scanInsights(rows *sql.Rows) ([]InsightRecord, error) {
	defer func() {
		_ = rows.Close()
	}()

	records := []InsightRecord{}
	for rows.Next() {
		var (
			rec      InsightRecord
			created  int64
			recalled sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.Concept, &rec.ConceptNorm, &rec.Content, &rec.Category,
			&rec.Importance, &created, &recalled, &rec.RecallCount); err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		rec.CreatedAt = time.Unix(0, created).UTC()
		rec.LastRecalledAt = timeFromNull(recalled)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate insights: %w", err)
	}
	return records, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().UnixNano()
}

func timeFromNull(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(0, v.Int64).UTC()
	return &t
}
