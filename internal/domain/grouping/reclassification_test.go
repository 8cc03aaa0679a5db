package grouping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeItemGroup(t *testing.T) {
	repo := NewRepository(nil)
	service := NewReclassificationService(repo, discardLogger())
	ctx := context.Background()

	item := newTestItem("camiseta azul")
	_, err := repo.CreateGroup(item)
	require.NoError(t, err)
	_, err = repo.CreateGroup(newTestItem("camiseta vermelha"))
	require.NoError(t, err)

	t.Run("existing target with key words", func(t *testing.T) {
		result, err := service.ChangeItemGroup(ctx, item.SystemID, 1, []string{"Azul"})
		require.NoError(t, err)
		assert.Equal(t, MoveResult{PreviousGroupID: 0, GroupID: 1}, result)

		keyWords, err := repo.KeyWords(1)
		require.NoError(t, err)
		assert.Contains(t, keyWords, "azul")
	})

	t.Run("new group sentinel", func(t *testing.T) {
		result, err := service.ChangeItemGroup(ctx, item.SystemID, NewGroupID, []string{"algodao"})
		require.NoError(t, err)
		assert.Equal(t, 1, result.PreviousGroupID)
		assert.Equal(t, 2, result.GroupID)

		keyWords, err := repo.KeyWords(2)
		require.NoError(t, err)
		assert.Contains(t, keyWords, "algodao")
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := service.ChangeItemGroup(ctx, "missing", 0, []string{"x"})
		assert.ErrorIs(t, err, ErrItemNotFound)
	})

	t.Run("unknown target keeps key words untouched", func(t *testing.T) {
		_, err := service.ChangeItemGroup(ctx, item.SystemID, 77, []string{"x"})
		assert.ErrorIs(t, err, ErrTargetGroupNotFound)

		keyWords, err := repo.KeyWords(2)
		require.NoError(t, err)
		assert.NotContains(t, keyWords, "x")
	})
}
