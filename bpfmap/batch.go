package bpfmap

import (
	"github.com/kornnellio/ebpfcore/bpferrs"
	"github.com/kornnellio/ebpfcore/buf"
	"github.com/kornnellio/ebpfcore/constants"
	"github.com/kornnellio/ebpfcore/sysc"
)

// BatchResult is the outcome of a batched lookup.
type BatchResult struct {
	Keys   [][]byte
	Values [][]byte
}

// LookupBatch drains up to maxCount entries per kernel round, issuing
// BPF_MAP_LOOKUP_BATCH repeatedly until the map is exhausted or limit
// entries have been collected (limit <= 0 means unlimited). If the
// kernel rejects the batch command with EINVAL (the map type predates
// batch-op support), it falls back to a per-element walk via
// MapGetNextKey/MapLookupElem and logs the downgrade.
func (m *Map) LookupBatch(maxCount int, limit int) (BatchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen("bpfmap.LookupBatch"); err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	var inBatch []byte
	cursor := make([]byte, m.keySize)

	for {
		keys := make([]byte, int(m.keySize)*maxCount)
		values := make([]byte, int(m.valueSize)*maxCount)

		n, done, err := sysc.MapLookupBatch(sysc.BatchArgs{
			MapFd:  int32(m.fd),
			Keys:   keys,
			Values: values,
			Count:  uint32(maxCount),
		}, inBatch, cursor, keys[:0])
		if err != nil {
			if sysc.IsEINVAL(err) {
				m.logger().Warn("batch lookup unsupported for map type, falling back to per-element walk",
					"map", m.name, "type", m.mapType.String())
				return m.lookupElementwise(limit)
			}
			return result, err
		}
		for i := uint32(0); i < n; i++ {
			k := make([]byte, m.keySize)
			copy(k, keys[int(i)*int(m.keySize):])
			v := make([]byte, m.valueSize)
			copy(v, values[int(i)*int(m.valueSize):])
			result.Keys = append(result.Keys, k)
			result.Values = append(result.Values, v)
			if limit > 0 && len(result.Keys) >= limit {
				return result, nil
			}
		}
		if done {
			return result, nil
		}
		inBatch = append([]byte(nil), cursor...)
	}
}

// lookupElementwise walks the map one key at a time via
// MapGetNextKey/MapLookupElem, the fallback path for kernels lacking
// BPF_MAP_LOOKUP_BATCH support for this map type.
func (m *Map) lookupElementwise(limit int) (BatchResult, error) {
	var result BatchResult
	var cur []byte
	next := make([]byte, m.keySize)

	for {
		ok, err := sysc.MapGetNextKey(m.fd, cur, next)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		key := make([]byte, m.keySize)
		copy(key, next)

		value := make([]byte, m.valueSize)
		if found, err := sysc.MapLookupElem(m.fd, key, value); err != nil {
			return result, err
		} else if found {
			result.Keys = append(result.Keys, key)
			result.Values = append(result.Values, value)
			if limit > 0 && len(result.Keys) >= limit {
				return result, nil
			}
		}
		cur = key
	}
}

// UpdateBatch writes count (key,value) pairs in one kernel round-trip.
// keys and values must each be count contiguous fixed-size records. On
// EINVAL it falls back to count individual MapUpdateElem calls and logs
// the downgrade.
func (m *Map) UpdateBatch(keys, values []byte, count uint32, flags uint64) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen("bpfmap.UpdateBatch"); err != nil {
		return 0, err
	}
	n, err := sysc.MapUpdateBatch(sysc.BatchArgs{
		MapFd:     int32(m.fd),
		Keys:      keys,
		Values:    values,
		Count:     count,
		ElemFlags: flags,
	})
	if err != nil && sysc.IsEINVAL(err) {
		m.logger().Warn("batch update unsupported for map type, falling back to per-element writes",
			"map", m.name, "type", m.mapType.String())
		return m.updateElementwise(keys, values, count, flags)
	}
	return n, err
}

func (m *Map) updateElementwise(keys, values []byte, count uint32, flags uint64) (uint32, error) {
	var done uint32
	for i := uint32(0); i < count; i++ {
		key := keys[i*m.keySize : (i+1)*m.keySize]
		value := values[i*m.valueSize : (i+1)*m.valueSize]
		if err := sysc.MapUpdateElem(m.fd, key, value, flags); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

// DeleteBatch removes count keys in one kernel round-trip. On EINVAL it
// falls back to count individual MapDeleteElem calls and logs the
// downgrade.
func (m *Map) DeleteBatch(keys []byte, count uint32) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen("bpfmap.DeleteBatch"); err != nil {
		return 0, err
	}
	n, err := sysc.MapDeleteBatch(sysc.BatchArgs{
		MapFd: int32(m.fd),
		Keys:  keys,
		Count: count,
	})
	if err != nil && sysc.IsEINVAL(err) {
		m.logger().Warn("batch delete unsupported for map type, falling back to per-element deletes",
			"map", m.name, "type", m.mapType.String())
		return m.deleteElementwise(keys, count)
	}
	return n, err
}

func (m *Map) deleteElementwise(keys []byte, count uint32) (uint32, error) {
	var done uint32
	for i := uint32(0); i < count; i++ {
		key := keys[i*m.keySize : (i+1)*m.keySize]
		if _, err := sysc.MapDeleteElem(m.fd, key); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

// SetTailCallTarget wires index in a BPF_MAP_TYPE_PROG_ARRAY to progFd,
// completing one slot of a tail-call chain. The map must have been
// created with Type = constants.MapTypeProgArray.
func (m *Map) SetTailCallTarget(index uint32, progFd int) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkOpen("bpfmap.SetTailCallTarget"); err != nil {
		return err
	}
	if m.mapType != constants.MapTypeProgArray {
		return bpferrs.WrapWithSubject(nil, bpferrs.ErrInvalidShape, "bpfmap.SetTailCallTarget", m.name)
	}
	key := make([]byte, 4)
	buf.PutUint32(key, index)
	val := make([]byte, 4)
	buf.PutUint32(val, uint32(progFd))
	return sysc.MapUpdateElem(m.fd, key, val, 0)
}
