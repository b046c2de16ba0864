package litnlp

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	l := New()

	require.NotNil(t, l.Runner, "Expected New to configure a runner")
	require.NotNil(t, l.Parser, "Expected New to configure the basic parser")
	assert.Nil(t, l.DB, "Expected New to not open a database")
	assert.Nil(t, l.Contracts)

	result, err := l.Parser("Alice went home.")
	require.NoError(t, err)
	assert.Equal(t, 3, result.TokenCount)

	assert.NoError(t, l.Close(), "Close without a database should be a no-op")
}

func TestProcessText(t *testing.T) {
	script := `#!/bin/sh
out=""
id=""
while [ $# -gt 0 ]; do
  case "$1" in
    --output) out="$2"; shift ;;
    --id) id="$2"; shift ;;
  esac
  shift
done
printf 'word\tbyte_onset\tbyte_offset\tsentence_id\tparagraph_id\nAlice\t0\t5\t0\t0\n' > "$out/$id.tokens"
`
	path := filepath.Join(t.TempDir(), "tool.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	t.Setenv("BOOKNLP_COMMAND", path)

	l := New()

	t.Run("processes text through the configured tool", func(t *testing.T) {
		doc, err := l.ProcessText(context.Background(), "Alice", "doc_facade1")
		require.NoError(t, err)
		assert.Equal(t, "doc_facade1", doc.DocumentID)
		require.Len(t, doc.Tokens, 1)
		assert.Equal(t, "Alice", doc.Tokens[0].Text)
	})

	t.Run("generates a document ID when none is given", func(t *testing.T) {
		doc, err := l.ProcessText(context.Background(), "Alice", "")
		require.NoError(t, err)
		assert.Contains(t, doc.DocumentID, "doc_")
	})
}

func TestBuildFromOutputDir(t *testing.T) {
	dir := t.TempDir()
	table := "word\tbyte_onset\tbyte_offset\tsentence_id\tparagraph_id\nHi\t0\t2\t0\t0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.tokens"), []byte(table), 0644))

	l := New()

	doc, err := l.BuildFromOutputDir(dir, "doc_prebuilt", "Hi", 2*time.Second)
	require.NoError(t, err, "Expected building from existing output to succeed without running the tool")
	assert.Equal(t, "doc_prebuilt", doc.DocumentID)
	assert.Equal(t, 1, doc.Metadata.TokenCount)
	assert.Equal(t, 2.0, doc.Metadata.ProcessingTimeSeconds)
}

func TestStoreRequiresConfiguration(t *testing.T) {
	l := New()

	_, err := l.StoreContract(nil)
	assert.Error(t, err, "Expected StoreContract to fail without a store")
	assert.Contains(t, err.Error(), "no store configured")

	_, err = l.SearchCharacters("Alice", 5)
	assert.Error(t, err, "Expected SearchCharacters to fail without a store")

	_, err = l.SearchCharactersBySimilarity("Alice", 5)
	assert.Error(t, err, "Expected similarity search to fail without a store")
}
