package sink

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jacoelho/jsoneater/flatten"
)

// Leaf is a row of the leaves table.
type Leaf struct {
	ID       uint   `gorm:"primaryKey"`
	Run      string `gorm:"size:36;index"`
	Document string `gorm:"index"`
	Seq      int
	Path     string `gorm:"index"`
	Kind     string `gorm:"size:8"`
	Value    *string // nil for JSON null
}

func (Leaf) TableName() string {
	return "leaves"
}

type sqliteSink struct {
	cursor
	db      *gorm.DB
	run     string
	batch   int
	pending []Leaf
	err     error
}

// OpenDatabase opens or creates the sqlite database at path with the leaves
// table migrated.
func OpenDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", path, err)
	}

	if err := db.AutoMigrate(&Leaf{}); err != nil {
		return nil, errors.Join(fmt.Errorf("failed to automigrate: %w", err), closeDatabase(db))
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newSQLite(opts Options) (*sqliteSink, error) {
	if opts.Database == "" {
		return nil, ErrNoDatabase
	}

	db, err := OpenDatabase(opts.Database)
	if err != nil {
		return nil, err
	}

	run := opts.RunID
	if run == "" {
		run = uuid.NewString()
	}
	batch := opts.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	return &sqliteSink{
		cursor:  cursor{style: opts.PathStyle},
		db:      db,
		run:     run,
		batch:   batch,
		pending: make([]Leaf, 0, batch),
	}, nil
}

// RunID returns the identifier stored in the run column.
func (s *sqliteSink) RunID() string {
	return s.run
}

func (s *sqliteSink) VisitAny(path *flatten.Path, value flatten.Value) {
	if s.err != nil {
		return
	}

	r := s.record(path, value)
	leaf := Leaf{
		Run:      s.run,
		Document: r.Document,
		Seq:      r.Seq,
		Path:     r.Path,
		Kind:     r.Kind,
	}
	if !value.IsNull() {
		text := r.Value.String()
		leaf.Value = &text
	}

	s.pending = append(s.pending, leaf)
	if len(s.pending) >= s.batch {
		s.flush()
	}
}

func (s *sqliteSink) flush() {
	if len(s.pending) == 0 || s.err != nil {
		return
	}
	if err := s.db.CreateInBatches(s.pending, s.batch).Error; err != nil {
		s.err = fmt.Errorf("insert leaves: %w", err)
	}
	s.pending = s.pending[:0]
}

func (s *sqliteSink) Err() error {
	return s.err
}

// Close writes pending rows and closes the database.
func (s *sqliteSink) Close() error {
	s.flush()
	return errors.Join(s.err, closeDatabase(s.db))
}
