package mysql

import (
	"testing"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormLogger "gorm.io/gorm/logger"
)

func TestBuildDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: "3306", User: "gems", Password: "pw", Name: "gem_ledger"}

	dsn := buildDSN(cfg)

	assert.Equal(t, "gems:pw@tcp(db:3306)/gem_ledger?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true", dsn)

	parsed, err := driver.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, parsed.ClientFoundRows)
}

func TestParseLogLevel(t *testing.T) {
	testCases := []struct {
		level    string
		expected gormLogger.LogLevel
	}{
		{level: "silent", expected: gormLogger.Silent},
		{level: "error", expected: gormLogger.Error},
		{level: "info", expected: gormLogger.Info},
		{level: "warn", expected: gormLogger.Warn},
		{level: "", expected: gormLogger.Warn},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			assert.Equal(t, tc.expected, parseLogLevel(tc.level))
		})
	}
}
