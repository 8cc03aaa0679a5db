package grouping

import (
	"slices"
	"sync"
)

// Group кластер элементов, описывающих один и тот же реальный товар
type Group struct {
	ID int

	mu       sync.RWMutex
	items    map[string]*Item
	order    []string // порядок вставки, первый - представитель группы
	keyWords map[string]struct{}
}

func newGroup(id int) *Group {
	return &Group{
		ID:       id,
		items:    make(map[string]*Item),
		keyWords: make(map[string]struct{}),
	}
}

func (g *Group) add(item *Item) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.items[item.SystemID]; !exists {
		g.order = append(g.order, item.SystemID)
	}
	g.items[item.SystemID] = item
}

func (g *Group) remove(systemID string) *Item {
	g.mu.Lock()
	defer g.mu.Unlock()
	item, ok := g.items[systemID]
	if !ok {
		return nil
	}
	delete(g.items, systemID)
	if idx := slices.Index(g.order, systemID); idx >= 0 {
		g.order = slices.Delete(g.order, idx, idx+1)
	}
	return item
}

func (g *Group) get(systemID string) *Item {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.items[systemID]
}

// members возвращает копию списка членов в порядке вставки
func (g *Group) members(limit int) []*Item {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := len(g.order)
	if limit >= 0 && limit < n {
		n = limit
	}
	result := make([]*Item, 0, n)
	for _, id := range g.order[:n] {
		result = append(result, g.items[id])
	}
	return result
}

func (g *Group) size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.items)
}

func (g *Group) representative() (*Item, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.order) == 0 {
		return nil, false
	}
	return g.items[g.order[0]], true
}

func (g *Group) addKeyWords(words []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, w := range words {
		g.keyWords[w] = struct{}{}
	}
}

func (g *Group) keyWordList() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	words := make([]string, 0, len(g.keyWords))
	for w := range g.keyWords {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}
