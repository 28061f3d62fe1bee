package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDBName(t *testing.T) {
	name, err := extractDBName("postgres://u:p@localhost:5432/qbank?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "qbank", name)

	name, err = extractDBName("host=localhost user=u dbname=questions sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "questions", name)

	_, err = extractDBName("host=localhost user=u")
	require.Error(t, err)

	_, err = extractDBName("postgres://u:p@localhost:5432")
	require.Error(t, err)
}

func TestReplaceDBName(t *testing.T) {
	out, err := replaceDBName("postgres://u:p@localhost:5432/qbank?sslmode=disable", "postgres")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@localhost:5432/postgres?sslmode=disable", out)

	out, err = replaceDBName("host=localhost dbname=qbank", "postgres")
	require.NoError(t, err)
	assert.Equal(t, "host=localhost dbname=postgres", out)
}
