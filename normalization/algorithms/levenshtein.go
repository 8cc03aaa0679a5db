package algorithms

// LevenshteinDistance вычисляет расстояние Левенштейна между строками
// Минимальное количество вставок, удалений и замен символов (рун)
func LevenshteinDistance(str1, str2 string) int {
	r1 := []rune(str1)
	r2 := []rune(str2)

	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	// Две строки матрицы вместо полной таблицы
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // удаление
				curr[j-1]+1,    // вставка
				prev[j-1]+cost, // замена
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// NormalizedLevenshtein возвращает расстояние Левенштейна, нормированное на длину
// более длинной строки. Для двух пустых строк возвращает 1.0 (максимальное различие).
func NormalizedLevenshtein(str1, str2 string) float64 {
	len1 := len([]rune(str1))
	len2 := len([]rune(str2))
	maxLen := max(len1, len2)
	if maxLen == 0 {
		return 1.0
	}
	return float64(LevenshteinDistance(str1, str2)) / float64(maxLen)
}
