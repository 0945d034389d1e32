package testdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseURL(t *testing.T) {
	t.Run("prefers the dedicated variable", func(t *testing.T) {
		t.Setenv("PALACE_TEST_DATABASE_URL", "postgres://test/palace")
		t.Setenv("DATABASE_URL", "postgres://dev/palace")

		assert.Equal(t, "postgres://test/palace", DatabaseURL())
	})

	t.Run("falls back to DATABASE_URL", func(t *testing.T) {
		t.Setenv("PALACE_TEST_DATABASE_URL", "")
		t.Setenv("DATABASE_URL", "postgres://dev/palace")

		assert.Equal(t, "postgres://dev/palace", DatabaseURL())
	})

	t.Run("empty when nothing is set", func(t *testing.T) {
		t.Setenv("PALACE_TEST_DATABASE_URL", "")
		t.Setenv("DATABASE_URL", "")

		assert.Empty(t, DatabaseURL())
	})
}

func TestOpen_SkipsWithoutDatabase(t *testing.T) {
	t.Setenv("PALACE_TEST_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")

	var skipped bool
	t.Run("inner", func(t *testing.T) {
		defer func() { skipped = t.Skipped() }()
		Open(t)
		t.Error("Open should have skipped the test")
	})
	assert.True(t, skipped)
}
