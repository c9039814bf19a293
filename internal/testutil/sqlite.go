package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Behyna/gem-services/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewSQLiteDB opens a private in-memory database with the gem schema. A single
// connection keeps every statement on the same memory database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_busy_timeout=5000", name, dbCounter.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

type sequence struct {
	next atomic.Int64
}

func (s *sequence) NextID() int64 {
	return s.next.Add(1)
}

// NewSequence returns an IDGenerator counting up from 1.
func NewSequence() repository.IDGenerator {
	return &sequence{}
}
