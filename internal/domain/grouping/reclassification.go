package grouping

import (
	"context"
	"fmt"
	"log/slog"
)

// ReclassificationService ручное перемещение элемента между группами
type ReclassificationService struct {
	repo   *Repository
	logger *slog.Logger
}

// NewReclassificationService создает сервис переклассификации
func NewReclassificationService(repo *Repository, logger *slog.Logger) *ReclassificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReclassificationService{repo: repo, logger: logger}
}

// ChangeItemGroup переносит элемент в targetGroupID (NewGroupID - в новую группу)
// и при успехе добавляет ключевые слова группе назначения
func (s *ReclassificationService) ChangeItemGroup(ctx context.Context, systemID string, targetGroupID int, keyWords []string) (MoveResult, error) {
	if err := ctx.Err(); err != nil {
		return MoveResult{}, err
	}

	result, err := s.repo.MoveItem(systemID, targetGroupID)
	if err != nil {
		return MoveResult{}, err
	}

	if len(keyWords) > 0 {
		if err := s.repo.AddKeyWords(result.GroupID, keyWords); err != nil {
			return result, fmt.Errorf("failed to attach key words to group %d: %w", result.GroupID, err)
		}
	}

	s.logger.Info("Item moved",
		"system_id", systemID,
		"from", result.PreviousGroupID,
		"to", result.GroupID,
		"key_words", len(keyWords),
	)
	return result, nil
}
