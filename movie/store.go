package movie

import "fmt"

// DefaultCapacity is the number of slots reserved before each API batch.
// TMDB returns at most 20 results per page.
const DefaultCapacity = 20

// Store is a fixed-capacity collection of owned movie records.
//
// The backing slice length is the capacity; count is the number of slots
// holding valid records. Accessors return copies, so callers never hold a
// reference into the backing storage across a Clear or Resize.
type Store struct {
	records []Record
	count   int
}

// NewStore creates an empty store with the given capacity
func NewStore(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	return &Store{records: make([]Record, capacity)}
}

// Count returns the number of valid records
func (s *Store) Count() int {
	return s.count
}

// Capacity returns the number of allocated slots
func (s *Store) Capacity() int {
	return len(s.records)
}

// SetCount fixes up the logical size after records were placed directly.
func (s *Store) SetCount(n int) error {
	if n < 0 || n > len(s.records) {
		return fmt.Errorf("%w: %d (capacity %d)", ErrInvalidCount, n, len(s.records))
	}
	s.count = n
	return nil
}

// Resize reallocates the backing storage, keeping records up to
// min(old, new) capacity. Slots dropped by a shrink are zeroed first.
func (s *Store) Resize(capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	if capacity < len(s.records) {
		clear(s.records[capacity:])
	}

	resized := make([]Record, capacity)
	copy(resized, s.records)
	s.records = resized

	if s.count > capacity {
		s.count = capacity
	}
	return nil
}

// Reset discards every record and reallocates the store for a new batch.
func (s *Store) Reset(capacity int) error {
	if err := s.Resize(0); err != nil {
		return err
	}
	if err := s.Resize(capacity); err != nil {
		return err
	}
	s.count = 0
	return nil
}

// Clear releases all records and resets the count, keeping the capacity
func (s *Store) Clear() {
	clear(s.records)
	s.count = 0
}

// Append adds a record at the logical end of the store
func (s *Store) Append(r Record) error {
	if s.count >= len(s.records) {
		return &CapacityError{Capacity: len(s.records)}
	}
	s.records[s.count] = r
	s.count++
	return nil
}

// Get returns the record at index, or false if index is outside [0, count)
func (s *Store) Get(index int) (Record, bool) {
	if index < 0 || index >= s.count {
		return Record{}, false
	}
	return s.records[index], true
}

// GetByID returns the first record with the given id
func (s *Store) GetByID(id int) (Record, bool) {
	for i := 0; i < s.count; i++ {
		if s.records[i].ID == id {
			return s.records[i], true
		}
	}
	return Record{}, false
}

// Records returns a copy of the valid records in order
func (s *Store) Records() []Record {
	out := make([]Record, s.count)
	copy(out, s.records[:s.count])
	return out
}

// swap exchanges two slots inside the logical range
func (s *Store) swap(i, j int) {
	s.records[i], s.records[j] = s.records[j], s.records[i]
}
