package grouping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuditor(repo *Repository) *Auditor {
	return NewAuditor(repo, NewScorer(DefaultScorerConfig(), nil), DefaultSimilarityThreshold)
}

func TestFindSuspiciousItems_KeyWordMatchIgnoresScore(t *testing.T) {
	repo := NewRepository(nil)
	reclass := NewReclassificationService(repo, discardLogger())
	auditor := newTestAuditor(repo)

	moved := newTestItem("notebook dell inspiron azul")
	sibling := newTestItem("teclado mecanico azul")
	unrelated := newTestItem("impressora laser")
	for _, item := range []*Item{moved, sibling, unrelated} {
		require.NoError(t, repo.AddItem(0, item))
	}
	require.NoError(t, repo.AddItem(1, newTestItem("caneta esferografica")))

	_, err := reclass.ChangeItemGroup(context.Background(), moved.SystemID, 1, []string{"azul"})
	require.NoError(t, err)

	suspicious, err := auditor.FindSuspiciousItems(0, 1)
	require.NoError(t, err)
	require.Len(t, suspicious, 1)
	assert.Equal(t, sibling.SystemID, suspicious[0].SystemID)
	assert.Equal(t, "teclado mecanico azul", suspicious[0].Description)
	assert.Greater(t, suspicious[0].Distance, DefaultSimilarityThreshold)
}

func TestFindSuspiciousItems_ScoreBelowThreshold(t *testing.T) {
	repo := NewRepository(nil)
	auditor := newTestAuditor(repo)

	require.NoError(t, repo.AddItem(0, newTestItem("caixa de som bluetooth preta")))
	require.NoError(t, repo.AddItem(0, newTestItem("mouse gamer rgb")))
	require.NoError(t, repo.AddItem(1, newTestItem("caixa de som bluetooth preto")))

	suspicious, err := auditor.FindSuspiciousItems(0, 1)
	require.NoError(t, err)
	require.Len(t, suspicious, 1)
	assert.Equal(t, "caixa de som bluetooth preta", suspicious[0].Description)
	assert.Equal(t, 0.0, suspicious[0].Distance)
}

func TestFindSuspiciousItems_Idempotent(t *testing.T) {
	repo := NewRepository(nil)
	auditor := newTestAuditor(repo)

	for _, d := range []string{"fone de ouvido", "fone sem fio", "carregador usb"} {
		require.NoError(t, repo.AddItem(0, newTestItem(d)))
	}
	for _, d := range []string{
		"fone de ouvido sem fio", "fone bluetooth", "fone com microfone", "headset gamer",
		"fone de ouvido infantil", "fone esportivo", "fone intra auricular", "fone over ear",
	} {
		require.NoError(t, repo.AddItem(1, newTestItem(d)))
	}
	before := repo.Stats()

	first, err := auditor.FindSuspiciousItems(0, 1)
	require.NoError(t, err)
	second, err := auditor.FindSuspiciousItems(0, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, repo.Stats())
}

func TestFindSuspiciousItems_MissingGroups(t *testing.T) {
	repo := NewRepository(nil)
	auditor := newTestAuditor(repo)
	require.NoError(t, repo.AddItem(0, newTestItem("lapis")))

	_, err := auditor.FindSuspiciousItems(0, 9)
	assert.ErrorIs(t, err, ErrGroupNotFound)
	_, err = auditor.FindSuspiciousItems(9, 0)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}
