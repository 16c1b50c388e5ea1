package utils

import "container/list"

// LinkedHashMap is a map that remembers use order. The front is the most
// recently used entry. It is not safe for concurrent use.
type LinkedHashMap struct {
	order    *list.List
	elements map[string]*list.Element
	capacity int
}

type lhmEntry struct {
	key   string
	value interface{}
}

// NewLinkedHashMap creates a map that drops its least recently used entry
// once it holds more than capacity entries. capacity <= 0 means unbounded.
func NewLinkedHashMap(capacity int) *LinkedHashMap {
	return &LinkedHashMap{
		order:    list.New(),
		elements: make(map[string]*list.Element),
		capacity: capacity,
	}
}

// Get returns the value for key and marks it as the most recently used.
func (l *LinkedHashMap) Get(key string) (interface{}, bool) {
	elem, exist := l.elements[key]
	if !exist {
		return nil, false
	}
	l.order.MoveToFront(elem)
	return elem.Value.(*lhmEntry).value, true
}

// Put stores value under key, replacing any previous value. It returns the
// key that was evicted to make room, if any.
func (l *LinkedHashMap) Put(key string, value interface{}) (evicted string, ok bool) {

	if elem, exist := l.elements[key]; exist {
		elem.Value.(*lhmEntry).value = value
		l.order.MoveToFront(elem)
		return "", false
	}

	l.elements[key] = l.order.PushFront(&lhmEntry{key: key, value: value})

	if l.capacity > 0 && l.order.Len() > l.capacity {
		oldest := l.order.Back()
		entry := l.order.Remove(oldest).(*lhmEntry)
		delete(l.elements, entry.key)
		return entry.key, true
	}

	return "", false
}

func (l *LinkedHashMap) Remove(key string) (interface{}, bool) {
	elem, exist := l.elements[key]
	if !exist {
		return nil, false
	}
	delete(l.elements, key)
	return l.order.Remove(elem).(*lhmEntry).value, true
}

func (l *LinkedHashMap) Len() int {
	return l.order.Len()
}

// Keys returns the keys from most to least recently used.
func (l *LinkedHashMap) Keys() []string {
	keys := make([]string, 0, l.order.Len())
	for e := l.order.Front(); e != nil; e = e.Next() {
		keys = append(keys, e.Value.(*lhmEntry).key)
	}
	return keys
}
