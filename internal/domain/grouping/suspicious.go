package grouping

import (
	"strings"
)

// SuspiciousItem элемент исходной группы, который, возможно, относится к группе назначения
type SuspiciousItem struct {
	SystemID    string  `json:"system_id"`
	Distance    float64 `json:"similarity_score"`
	Description string  `json:"description"`
}

// Auditor ищет подозрительные элементы после ручного перемещения. Состояние не меняет.
type Auditor struct {
	repo      *Repository
	scorer    *Scorer
	threshold float64
}

// NewAuditor создает аудитора
func NewAuditor(repo *Repository, scorer *Scorer, threshold float64) *Auditor {
	return &Auditor{repo: repo, scorer: scorer, threshold: threshold}
}

// FindSuspiciousItems сравнивает оставшихся членов sourceGroupID с группой destGroupID.
// Элемент помечается, если расстояние ниже порога или описание содержит
// любое ключевое слово группы назначения.
func (a *Auditor) FindSuspiciousItems(sourceGroupID, destGroupID int) ([]SuspiciousItem, error) {
	source, err := a.repo.Members(sourceGroupID)
	if err != nil {
		return nil, err
	}
	dest, err := a.repo.Members(destGroupID)
	if err != nil {
		return nil, err
	}
	keyWords, err := a.repo.KeyWords(destGroupID)
	if err != nil {
		return nil, err
	}

	suspicious := make([]SuspiciousItem, 0)
	for _, item := range source {
		distance := a.scorer.WithSampler(seededSampler(item.SystemID, destGroupID)).DistanceToGroup(item, dest)
		if distance < a.threshold || containsAny(item.OriginalDescription, keyWords) {
			suspicious = append(suspicious, SuspiciousItem{
				SystemID:    item.SystemID,
				Distance:    distance,
				Description: item.OriginalDescription,
			})
		}
	}
	return suspicious, nil
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
