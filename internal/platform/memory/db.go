package memory

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/blogsphere-api/internal/domain"
	"github.com/phrazzld/blogsphere-api/internal/platform/logger"
	"github.com/phrazzld/blogsphere-api/internal/store"
)

type pairKey struct {
	a, b uuid.UUID
}

// edge is a row of a two-key relation. seq orders rows by insertion.
type edge struct {
	seq       uint64
	createdAt time.Time
}

type postRow struct {
	post   domain.Post // Tags, LikedBy and Author are not stored here
	tagIDs []uuid.UUID
}

// DB holds every table of the in-memory backend.
type DB struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	users    map[uuid.UUID]domain.User
	follows  map[pairKey]edge // (follower, followee)
	posts    map[uuid.UUID]postRow
	likes    map[pairKey]edge // (post, user)
	tags     map[uuid.UUID]domain.Tag
	comments map[uuid.UUID]domain.Comment
	seq      uint64

	logger *slog.Logger
}

// NewDB creates an empty in-memory database.
func NewDB(logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{
		users:    make(map[uuid.UUID]domain.User),
		follows:  make(map[pairKey]edge),
		posts:    make(map[uuid.UUID]postRow),
		likes:    make(map[pairKey]edge),
		tags:     make(map[uuid.UUID]domain.Tag),
		comments: make(map[uuid.UUID]domain.Comment),
		logger:   logger.With(slog.String("component", "memory_db")),
	}
}

var _ store.TxRunner = (*DB)(nil)

type snapshot struct {
	users    map[uuid.UUID]domain.User
	follows  map[pairKey]edge
	posts    map[uuid.UUID]postRow
	likes    map[pairKey]edge
	tags     map[uuid.UUID]domain.Tag
	comments map[uuid.UUID]domain.Comment
	seq      uint64
}

// Rows are stored by value and their slices are replaced, never mutated in
// place, so a shallow map clone is a complete snapshot.
func (db *DB) snapshot() snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return snapshot{
		users:    maps.Clone(db.users),
		follows:  maps.Clone(db.follows),
		posts:    maps.Clone(db.posts),
		likes:    maps.Clone(db.likes),
		tags:     maps.Clone(db.tags),
		comments: maps.Clone(db.comments),
		seq:      db.seq,
	}
}

func (db *DB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = s.users
	db.follows = s.follows
	db.posts = s.posts
	db.likes = s.likes
	db.tags = s.tags
	db.comments = s.comments
	db.seq = s.seq
}

// RunInTx runs fn as a serialized unit of work. If fn returns an error or
// panics, every write it made is discarded. fn receives a nil *sql.Tx.
func (db *DB) RunInTx(ctx context.Context, fn store.TxFn) (err error) {
	log := logger.FromContextOrDefault(ctx, db.logger)

	db.txMu.Lock()
	defer db.txMu.Unlock()

	before := db.snapshot()
	defer func() {
		if p := recover(); p != nil {
			db.restore(before)
			log.Error("rolled back unit of work after panic", slog.Any("panic", p))
			panic(p)
		}
		if err != nil {
			db.restore(before)
			log.Debug("rolled back unit of work due to error",
				slog.String("error", err.Error()))
		}
	}()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: begin: %v", store.ErrTransactionFailed, err)
	}
	return fn(ctx, nil)
}

// nextSeq must be called with mu held for writing.
func (db *DB) nextSeq() uint64 {
	db.seq++
	return db.seq
}

func cloneUser(u domain.User) *domain.User {
	u.Roles = append([]domain.Role(nil), u.Roles...)
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		u.LastLoginAt = &t
	}
	u.Password = ""
	return &u
}

// page returns the window of items selected by req.
func page[T any](items []T, req domain.PageRequest) *domain.Page[T] {
	req = req.Normalize()
	total := len(items)
	start := min(req.Offset, total)
	end := min(start+req.Limit, total)
	return domain.NewPage(items[start:end], total, req)
}

// compareNewest orders by time descending, then ID descending.
func compareNewest(at, bt time.Time, aID, bID uuid.UUID) int {
	if c := bt.Compare(at); c != 0 {
		return c
	}
	return bytes.Compare(bID[:], aID[:])
}

func compareBySort(sort domain.SortOrder, at, bt time.Time, aID, bID uuid.UUID) int {
	c := compareNewest(at, bt, aID, bID)
	if sort == domain.SortOldest {
		return -c
	}
	return c
}
