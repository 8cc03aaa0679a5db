package grouping

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"catalogdedup/normalization/algorithms"
)

// NewGroupID значение-маркер "создать новую группу" для MoveItem
const NewGroupID = -1

// MoveResult результат перемещения элемента
type MoveResult struct {
	PreviousGroupID int `json:"previous_group_id"`
	GroupID         int `json:"group_id"`
}

// GroupView снимок группы для чтения
type GroupView struct {
	ID       int
	Size     int
	KeyWords []string
	Items    []*Item
}

// GroupPage страница списка групп
type GroupPage struct {
	Total  int
	Offset int
	Limit  int
	Groups []GroupView
}

// RepositoryStats сводка по репозиторию
type RepositoryStats struct {
	Groups      int `json:"groups"`
	EmptyGroups int `json:"empty_groups"`
	Items       int `json:"items"`
}

// groupMembers членство группы, зафиксированное для фазы оценки
type groupMembers struct {
	id      int
	members []*Item
}

// Repository конкурентное хранилище групп.
// mu защищает карту групп, счетчик идентификаторов и индекс элементов и удерживается
// на все время структурных изменений; у каждой группы свой замок на членство и ключевые слова.
// Порядок захвата: сначала mu, затем замок группы.
type Repository struct {
	mu      sync.RWMutex
	groups  map[int]*Group
	nextID  int
	index   map[string]int // SystemID -> ID группы
	stemmer algorithms.Stemmer
}

// NewRepository создает пустой репозиторий
func NewRepository(stemmer algorithms.Stemmer) *Repository {
	if stemmer == nil {
		stemmer = algorithms.NewPortugueseStemmer()
	}
	return &Repository{
		groups:  make(map[int]*Group),
		index:   make(map[string]int),
		stemmer: stemmer,
	}
}

// CreateGroup выделяет следующий идентификатор и создает группу из одного элемента
func (r *Repository) CreateGroup(item *Item) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gid, ok := r.index[item.SystemID]; ok {
		return 0, fmt.Errorf("%w: item %s is in group %d", ErrItemAlreadyGrouped, item.SystemID, gid)
	}
	return r.createGroupLocked(item), nil
}

// AddItem добавляет элемент в группу, создавая ее при отсутствии
func (r *Repository) AddItem(groupID int, item *Item) error {
	if groupID < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGroupID, groupID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if gid, ok := r.index[item.SystemID]; ok {
		return fmt.Errorf("%w: item %s is in group %d", ErrItemAlreadyGrouped, item.SystemID, gid)
	}

	g, ok := r.groups[groupID]
	if !ok {
		g = newGroup(groupID)
		r.groups[groupID] = g
		if groupID >= r.nextID {
			r.nextID = groupID + 1
		}
	}
	r.insertLocked(g, item)
	return nil
}

// FindItem находит элемент и его группу
func (r *Repository) FindItem(systemID string) (int, *Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gid, ok := r.index[systemID]
	if !ok {
		return 0, nil, false
	}
	item := r.groups[gid].get(systemID)
	if item == nil {
		return 0, nil, false
	}
	return gid, item, true
}

// RemoveItem удаляет элемент из группы. Группа остается даже пустой.
func (r *Repository) RemoveItem(groupID int, systemID string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrGroupNotFound, groupID)
	}
	item := g.remove(systemID)
	if item == nil {
		return nil, fmt.Errorf("%w: %s in group %d", ErrItemNotFound, systemID, groupID)
	}
	delete(r.index, systemID)
	item.clearGroupID()
	return item, nil
}

// MoveItem атомарно переносит элемент в targetGroupID (NewGroupID - в новую группу).
// При ErrItemNotFound и ErrTargetGroupNotFound состояние не меняется.
func (r *Repository) MoveItem(systemID string, targetGroupID int) (MoveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sourceID, ok := r.index[systemID]
	if !ok {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrItemNotFound, systemID)
	}

	var target *Group
	if targetGroupID != NewGroupID {
		target, ok = r.groups[targetGroupID]
		if !ok {
			return MoveResult{}, fmt.Errorf("%w: %d", ErrTargetGroupNotFound, targetGroupID)
		}
	}

	if targetGroupID == sourceID {
		return MoveResult{PreviousGroupID: sourceID, GroupID: sourceID}, nil
	}

	item := r.groups[sourceID].remove(systemID)
	delete(r.index, systemID)
	item.clearGroupID()

	if target == nil {
		newID := r.createGroupLocked(item)
		return MoveResult{PreviousGroupID: sourceID, GroupID: newID}, nil
	}

	r.insertLocked(target, item)
	return MoveResult{PreviousGroupID: sourceID, GroupID: targetGroupID}, nil
}

// AddKeyWords добавляет ключевые слова группе: исходные (trim + lower) и их основы
func (r *Repository) AddKeyWords(groupID int, words []string) error {
	normalized := make([]string, 0, len(words)*2)
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		normalized = append(normalized, w)
		if stem := r.stemmer.Stem(w); stem != "" {
			normalized = append(normalized, stem)
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.groups[groupID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrGroupNotFound, groupID)
	}
	g.addKeyWords(normalized)
	return nil
}

// KeyWords возвращает ключевые слова группы
func (r *Repository) KeyWords(groupID int) ([]string, error) {
	g, err := r.group(groupID)
	if err != nil {
		return nil, err
	}
	return g.keyWordList(), nil
}

// Members возвращает членов группы в порядке вставки
func (r *Repository) Members(groupID int) ([]*Item, error) {
	g, err := r.group(groupID)
	if err != nil {
		return nil, err
	}
	return g.members(-1), nil
}

// Representative возвращает первый по времени вставки элемент группы
func (r *Repository) Representative(groupID int) (*Item, bool) {
	g, err := r.group(groupID)
	if err != nil {
		return nil, false
	}
	return g.representative()
}

// Len количество групп, включая пустые
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups)
}

// GroupIDs идентификаторы групп по возрастанию
func (r *Repository) GroupIDs() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedIDsLocked()
}

// Group возвращает снимок одной группы
func (r *Repository) Group(groupID int, itemLimit int) (GroupView, error) {
	g, err := r.group(groupID)
	if err != nil {
		return GroupView{}, err
	}
	return viewOf(g, itemLimit), nil
}

// ListGroups возвращает страницу групп по возрастанию ID; itemLimit < 0 - без ограничения
func (r *Repository) ListGroups(offset, limit, itemLimit int) GroupPage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.sortedIDsLocked()
	page := GroupPage{Total: len(ids), Offset: offset, Limit: limit}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		page.Groups = []GroupView{}
		return page
	}
	end := len(ids)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}

	page.Groups = make([]GroupView, 0, end-offset)
	for _, id := range ids[offset:end] {
		page.Groups = append(page.Groups, viewOf(r.groups[id], itemLimit))
	}
	return page
}

// Snapshot снимок всех групп со всеми элементами
func (r *Repository) Snapshot() []GroupView {
	return r.ListGroups(0, -1, -1).Groups
}

// Stats сводка по репозиторию
func (r *Repository) Stats() RepositoryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RepositoryStats{Groups: len(r.groups), Items: len(r.index)}
	for _, g := range r.groups {
		if g.size() == 0 {
			stats.EmptyGroups++
		}
	}
	return stats
}

// scoringSnapshot фиксирует членство всех непустых групп
func (r *Repository) scoringSnapshot() []groupMembers {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]groupMembers, 0, len(r.groups))
	for _, id := range r.sortedIDsLocked() {
		members := r.groups[id].members(-1)
		if len(members) == 0 {
			continue
		}
		snapshot = append(snapshot, groupMembers{id: id, members: members})
	}
	return snapshot
}

func (r *Repository) group(groupID int) (*Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrGroupNotFound, groupID)
	}
	return g, nil
}

func (r *Repository) createGroupLocked(item *Item) int {
	id := r.nextID
	r.nextID++
	g := newGroup(id)
	r.groups[id] = g
	r.insertLocked(g, item)
	return id
}

func (r *Repository) insertLocked(g *Group, item *Item) {
	g.add(item)
	r.index[item.SystemID] = g.ID
	item.setGroupID(g.ID)
}

func (r *Repository) sortedIDsLocked() []int {
	ids := make([]int, 0, len(r.groups))
	for id := range r.groups {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func viewOf(g *Group, itemLimit int) GroupView {
	return GroupView{
		ID:       g.ID,
		Size:     g.size(),
		KeyWords: g.keyWordList(),
		Items:    g.members(itemLimit),
	}
}
