package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	s := &Session{ID: "abc"}
	require.NoError(t, st.Save(ctx, s))

	got, err := st.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, st.Delete(ctx, "abc"))
	_, err = st.Get(ctx, "abc")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an unknown id is a no-op.
	require.NoError(t, st.Delete(ctx, "abc"))
}
