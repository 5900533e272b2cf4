package kv

import (
	"errors"
	"fmt"
)

// Chained hash table rule validation utilities.

// ChainViolationValidate checks every slot chain against the hash and
// the size bookkeeping. A nil error means the table is a well formed
// chained map. Meant for tests and the soak harness, it visits every
// pair once plus a quadratic sweep per chain for duplicate keys.
func ChainViolationValidate[K comparable, V any](m *HashMap[K, V]) error {
	total := int64(0)
	for i := range m.table {
		walked := int64(0)
		for it := m.table[i].first; it != nil; it = it.next {
			if slot := m.hash(it.key) % uint64(len(m.table)); slot != uint64(i) {
				return fmt.Errorf("hash-map pair in slot %d hashes to slot %d", i, slot)
			}
			for dup := it.next; dup != nil; dup = dup.next {
				if m.cmp(it.key, dup.key) == 0 {
					return fmt.Errorf("hash-map slot %d chains a duplicate key", i)
				}
			}
			walked++
		}
		if walked != m.table[i].size {
			return fmt.Errorf("hash-map slot %d size violation", i)
		}
		total += walked
	}
	if total != m.size {
		return errors.New("hash-map size violation")
	}
	return nil
}
