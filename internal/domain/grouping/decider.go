package grouping

import "context"

// Decider внешняя способность рассуждения (LLM), к которой эскалируются неоднозначные решения.
// Принимает текстовый запрос и возвращает сырой текстовый ответ.
type Decider interface {
	Decide(ctx context.Context, prompt string) (string, error)
}

// DeciderFunc адаптер функции к интерфейсу Decider
type DeciderFunc func(ctx context.Context, prompt string) (string, error)

// Decide реализует Decider
func (f DeciderFunc) Decide(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
