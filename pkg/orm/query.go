// Package orm is a thin chainable wrapper over GORM that adds query-latency
// metrics, a redis read-through cache, and pagination. Construct a Query
// from an injected *gorm.DB with New(db); there is no global handle.
package orm

import (
	"time"

	"gorm.io/gorm"

	"github.com/velocart/velocart/pkg/cache"
	"github.com/velocart/velocart/pkg/metrics"
)

// Query wraps a gorm chain. Each builder method returns a new Query so a
// base handle can be reused safely across goroutines.
type Query struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Query {
	return &Query{db: db}
}

// Gorm exposes the underlying handle for the rare case the wrapper doesn't
// cover (raw SQL, migrator access).
func (q *Query) Gorm() *gorm.DB {
	return q.db
}

// ── Builders ─────────────────────────────────────────────────────────────────

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query string, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Preload(name string, args ...interface{}) *Query {
	return &Query{db: q.db.Preload(name, args...)}
}

func (q *Query) Order(expr string) *Query {
	return &Query{db: q.db.Order(expr)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (q *Query) Find(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

func (q *Query) First(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest).Error
}

func (q *Query) Count(n *int64) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Count(n).Error
}

// Cache is a read-through: on a cache hit dest is filled from redis, on a
// miss the query runs and the result is stored under key for ttl.
func (q *Query) Cache(key string, ttl time.Duration, dest interface{}) error {
	if cache.Get(key, dest) {
		return nil
	}

	if err := q.Find(dest); err != nil {
		return err
	}

	cache.Set(key, dest, ttl) //nolint:errcheck // cache write failure never fails the read
	return nil
}

// ── Writes ───────────────────────────────────────────────────────────────────

func (q *Query) Create(v interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(v).Error
}

func (q *Query) Save(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Save(v).Error
}

func (q *Query) Updates(v interface{}) error {
	defer metrics.ObserveDBQuery("update", time.Now())
	return q.db.Updates(v).Error
}

func (q *Query) Delete(v interface{}, conds ...interface{}) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	return q.db.Delete(v, conds...).Error
}

// Transaction runs fn inside one database transaction. A non-nil error
// rolls everything back; nil commits.
func (q *Query) Transaction(fn func(tx *Query) error) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}
