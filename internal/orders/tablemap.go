package orders

import (
	"encoding/binary"
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const shardCount = 32

// tableMap is a sharded map of table id to order. Each shard has its own
// lock, so lookups for unrelated tables rarely contend.
type tableMap struct {
	shards [shardCount]tableShard
}

type tableShard struct {
	mu     sync.RWMutex
	orders map[uint32]*Order
}

func newTableMap() *tableMap {
	m := &tableMap{}
	for i := range m.shards {
		m.shards[i].orders = make(map[uint32]*Order)
	}
	return m
}

func (m *tableMap) shard(tableID uint32) *tableShard {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], tableID)
	return &m.shards[xxhash.Sum64(b[:])%shardCount]
}

func (m *tableMap) load(tableID uint32) (*Order, bool) {
	s := m.shard(tableID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[tableID]
	return o, ok
}

func (m *tableMap) store(tableID uint32, o *Order) {
	s := m.shard(tableID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[tableID] = o
}

// deleteIf drops the table's entry only while it is still o.
func (m *tableMap) deleteIf(tableID uint32, o *Order) bool {
	s := m.shard(tableID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.orders[tableID] != o {
		return false
	}
	delete(s.orders, tableID)
	return true
}

func (m *tableMap) keys() []uint32 {
	var out []uint32
	for i := range m.shards {
		s := &m.shards[i]
		s.mu.RLock()
		for k := range s.orders {
			out = append(out, k)
		}
		s.mu.RUnlock()
	}
	slices.Sort(out)
	return out
}
