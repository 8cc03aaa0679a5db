package algorithms

// JaccardDistance вычисляет расстояние Жаккара между двумя множествами токенов
// Расстояние = 1 - |A ∩ B| / |A ∪ B|
// Для двух пустых множеств возвращает 0: записи без токенов считаются неразличимыми
func JaccardDistance(set1, set2 map[string]struct{}) float64 {
	small, large := set1, set2
	if len(small) > len(large) {
		small, large = large, small
	}

	intersection := 0
	for elem := range small {
		if _, ok := large[elem]; ok {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}

	return 1.0 - float64(intersection)/float64(union)
}

// TokenSet строит множество из списка токенов
func TokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		if token != "" {
			set[token] = struct{}{}
		}
	}
	return set
}
