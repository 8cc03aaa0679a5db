package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// ContentRegistry множество сигнатур уже обработанных файлов
type ContentRegistry struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewContentRegistry создает пустой реестр
func NewContentRegistry() *ContentRegistry {
	return &ContentRegistry{seen: make(map[string]struct{})}
}

// ContentSignature SHA-256 содержимого в hex
func ContentSignature(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Register атомарно проверяет и добавляет сигнатуру содержимого.
// Возвращает ErrDuplicateContent, если содержимое уже регистрировалось.
func (r *ContentRegistry) Register(content []byte) (string, error) {
	signature := ContentSignature(content)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[signature]; ok {
		return signature, ErrDuplicateContent
	}
	r.seen[signature] = struct{}{}
	return signature, nil
}

// Forget удаляет сигнатуру, чтобы файл можно было загрузить повторно
func (r *ContentRegistry) Forget(signature string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.seen, signature)
}

// Len количество зарегистрированных сигнатур
func (r *ContentRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
