package accounts

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart()
	require.NotEmpty(t, chart)

	svc := NewService(chart)

	// The fallback offering code and the utilities account must exist.
	assert.True(t, svc.Exists("10"))
	assert.True(t, svc.Exists("62"))

	utilities, ok := svc.Get("62")
	require.True(t, ok)
	assert.Equal(t, "공과금", utilities.Name)
	assert.Equal(t, KindExpense, utilities.Kind)
}

func TestByKind(t *testing.T) {
	svc := NewService(DefaultChart())

	for _, a := range svc.ByKind(KindOffering) {
		assert.Equal(t, KindOffering, a.Kind)
	}
	assert.NotEmpty(t, svc.ByKind(KindExpense))
	assert.Len(t, svc.All(), len(svc.ByKind(KindOffering))+len(svc.ByKind(KindExpense)))
}

func TestLabel(t *testing.T) {
	svc := NewService(DefaultChart())

	assert.Equal(t, "십일조", svc.Label("11"))
	assert.Equal(t, "99", svc.Label("99")) // unknown codes fall back to the code
}

func TestSaveLoad(t *testing.T) {
	root := t.TempDir()
	svc := NewService(DefaultChart())
	require.NoError(t, svc.Save(root))

	got, err := Load(root)
	require.NoError(t, err)
	assert.Len(t, got.All(), len(svc.All()))
	assert.Equal(t, "공과금", got.Label("62"))
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
