package cart

import (
	"sync"
)

// placeholderName labels lines inserted through UpdatePriceAndQuantity for
// products the basket has never seen.
const placeholderName = "Unknown"

// Line is one product entry in a basket. Price is whole rupees per unit
// and may be rewritten by an accepted negotiation offer.
type Line struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Image    *string `json:"image"`
	Price    int64   `json:"price"`
	Quantity int     `json:"quantity"`
}

// Item is the candidate payload for Add. Quantity is implied: a fresh
// insert always starts at 1.
type Item struct {
	ID    int64
	Name  string
	Image *string
	Price int64
}

// Store owns a single customer's basket for the lifetime of their session.
// Every mutation is total: there is no failing path, and operations
// addressed at a missing line either no-op or insert per the documented
// policy. Reads observe the latest committed state.
type Store struct {
	mu      sync.RWMutex
	lines   map[int64]*Line
	order   []int64
	version uint64
	subs    map[uint64]chan struct{}
	nextSub uint64
}

// NewStore returns an empty basket.
func NewStore() *Store {
	return &Store{
		lines: map[int64]*Line{},
		subs:  map[uint64]chan struct{}{},
	}
}

// Add merges or inserts the candidate line. An existing line keeps its
// price, name, and image; only its quantity grows by one. A new line is
// inserted with quantity 1.
func (s *Store) Add(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line, ok := s.lines[item.ID]; ok {
		line.Quantity++
		s.bump()
		return
	}

	s.lines[item.ID] = &Line{
		ID:       item.ID,
		Name:     item.Name,
		Image:    item.Image,
		Price:    item.Price,
		Quantity: 1,
	}
	s.order = append(s.order, item.ID)
	s.bump()
}

// Remove deletes the line with the matching id. Removing an absent id is
// a no-op, so the call is idempotent.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lines[id]; !ok {
		return
	}
	delete(s.lines, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.bump()
}

// UpdateQuantity sets the quantity on the matching line verbatim. The
// store performs no clamping; callers enforce the >= 1 floor. A missing
// id is a no-op and never creates a line.
func (s *Store) UpdateQuantity(id int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[id]
	if !ok {
		return
	}
	line.Quantity = quantity
	s.bump()
}

// UpdatePriceAndQuantity overwrites both price and quantity in place. A
// missing id INSERTS a placeholder line instead of no-opping; this is the
// only path by which a never-before-seen product can enter the basket,
// and the negotiation flow depends on it.
func (s *Store) UpdatePriceAndQuantity(id int64, price int64, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line, ok := s.lines[id]; ok {
		line.Price = price
		line.Quantity = quantity
		s.bump()
		return
	}

	s.lines[id] = &Line{
		ID:       id,
		Name:     placeholderName,
		Image:    nil,
		Price:    price,
		Quantity: quantity,
	}
	s.order = append(s.order, id)
	s.bump()
}

// Items returns a snapshot copy of the current lines in insertion order.
func (s *Store) Items() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		if line, ok := s.lines[id]; ok {
			items = append(items, *line)
		}
	}
	return items
}

// Get returns a copy of the line with the given id.
func (s *Store) Get(id int64) (Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	line, ok := s.lines[id]
	if !ok {
		return Line{}, false
	}
	return *line, true
}

// Len reports the number of distinct lines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

// Version returns the mutation counter; observers compare versions to
// decide whether to re-read.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers an observer. The returned channel receives a signal
// (coalesced, capacity 1) after each mutation; the cancel func must be
// called when the observer goes away.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
	return ch, cancel
}

// bump increments the version and pokes observers. Callers hold s.mu.
func (s *Store) bump() {
	s.version++
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
