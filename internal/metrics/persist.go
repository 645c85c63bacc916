package metrics

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	. "github.com/roelfdiedericks/devkit/internal/logging"
	"github.com/roelfdiedericks/devkit/internal/paths"
)

const dbOpenOptions = "?_busy_timeout=5000"

const schemaSQL = `CREATE TABLE IF NOT EXISTS metrics (
	path       TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	data       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

type timingRecord struct {
	Count int64         `json:"count"`
	Total time.Duration `json:"total"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	Last  time.Duration `json:"last"`
}

type hitMissRecord struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

type counterRecord struct {
	Value int64 `json:"value"`
}

// OpenPersistence attaches a sqlite database at dbPath, loading any saved
// metrics into memory. Later Save/Close calls write back to it.
func (m *MetricsManager) OpenPersistence(dbPath string) error {
	if err := paths.EnsureParentDir(dbPath); err != nil {
		return err
	}
	db, err := sql.Open("sqlite3", dbPath+dbOpenOptions)
	if err != nil {
		return fmt.Errorf("failed to open metrics database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return fmt.Errorf("failed to create metrics schema: %w", err)
	}

	m.mu.Lock()
	m.db = db
	m.mu.Unlock()

	loaded, err := m.load()
	if err != nil {
		L_warn("metrics: failed to load persisted data", "error", err)
	} else if loaded > 0 {
		L_debug("metrics: loaded persisted data", "count", loaded)
	}
	return nil
}

// Save writes all metrics to the database in a single transaction.
// It does nothing when persistence is not open.
func (m *MetricsManager) Save() error {
	m.mu.RLock()
	db := m.db
	m.mu.RUnlock()
	if db == nil {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.Prepare(`INSERT INTO metrics (path, type, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()

	m.mu.RLock()
	defer m.mu.RUnlock()

	for path, t := range m.timings {
		t.mu.RLock()
		rec := timingRecord{Count: t.Count, Total: t.Total, Min: t.Min, Max: t.Max, Last: t.Last}
		t.mu.RUnlock()
		if err := upsert(stmt, now, path, TypeTiming, rec); err != nil {
			return err
		}
	}
	for path, h := range m.hitMiss {
		h.mu.RLock()
		rec := hitMissRecord{Hits: h.Hits, Misses: h.Misses}
		h.mu.RUnlock()
		if err := upsert(stmt, now, path, TypeHitMiss, rec); err != nil {
			return err
		}
	}
	for path, c := range m.counters {
		c.mu.RLock()
		rec := counterRecord{Value: c.Value}
		c.mu.RUnlock()
		if err := upsert(stmt, now, path, TypeCounter, rec); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func upsert(stmt *sql.Stmt, now int64, path string, metricType MetricType, rec any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = stmt.Exec(path, string(metricType), data, now)
	return err
}

// load reads all persisted metrics and restores them in memory.
func (m *MetricsManager) load() (int, error) {
	rows, err := m.db.Query("SELECT path, type, data FROM metrics")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for rows.Next() {
		var path, metricType string
		var data []byte
		if err := rows.Scan(&path, &metricType, &data); err != nil {
			L_warn("metrics: failed to scan row", "error", err)
			continue
		}

		switch MetricType(metricType) {
		case TypeTiming:
			var rec timingRecord
			if json.Unmarshal(data, &rec) != nil {
				continue
			}
			m.timings[path] = &TimingMetric{Count: rec.Count, Total: rec.Total, Min: rec.Min, Max: rec.Max, Last: rec.Last}
		case TypeHitMiss:
			var rec hitMissRecord
			if json.Unmarshal(data, &rec) != nil {
				continue
			}
			m.hitMiss[path] = &HitMissMetric{Hits: rec.Hits, Misses: rec.Misses}
		case TypeCounter:
			var rec counterRecord
			if json.Unmarshal(data, &rec) != nil {
				continue
			}
			m.counters[path] = &CounterMetric{Value: rec.Value}
		default:
			L_debug("metrics: skipping unknown type", "path", path, "type", metricType)
			continue
		}
		count++
	}
	return count, rows.Err()
}

// Close performs a final save and closes the database.
// Safe to call even if persistence was never opened.
func (m *MetricsManager) Close() error {
	m.mu.RLock()
	db := m.db
	m.mu.RUnlock()
	if db == nil {
		return nil
	}

	if err := m.Save(); err != nil {
		L_warn("metrics: final save failed", "error", err)
	}

	m.mu.Lock()
	m.db = nil
	m.mu.Unlock()
	return db.Close()
}
