// Package dedup assigns stable, first-seen indices to values using an
// explicitly supplied hash function object instead of Go's built-in map
// hashing, so the hash combination used for a key type is part of the
// key type's contract rather than an ambient default.
package dedup

// Hasher hashes and compares values of type K. Equal values must hash
// to the same value.
type Hasher[K any] interface {
	Hash(K) uint64
	Equal(a, b K) bool
}

type entry[K any] struct {
	key K
	idx uint32
}

// Index maps each distinct key to the index it was first inserted with.
type Index[K any, H Hasher[K]] struct {
	hasher  H
	buckets map[uint64][]entry[K]
	n       int
}

func New[K any, H Hasher[K]](h H) *Index[K, H] {
	return &Index[K, H]{
		hasher:  h,
		buckets: make(map[uint64][]entry[K]),
	}
}

// Lookup returns the index recorded for k.
func (ix *Index[K, H]) Lookup(k K) (uint32, bool) {
	for _, e := range ix.buckets[ix.hasher.Hash(k)] {
		if ix.hasher.Equal(e.key, k) {
			return e.idx, true
		}
	}
	return 0, false
}

// Insert records idx for k unless k is already present, and returns the
// index now associated with k.
func (ix *Index[K, H]) Insert(k K, idx uint32) uint32 {
	h := ix.hasher.Hash(k)
	for _, e := range ix.buckets[h] {
		if ix.hasher.Equal(e.key, k) {
			return e.idx
		}
	}
	ix.buckets[h] = append(ix.buckets[h], entry[K]{key: k, idx: idx})
	ix.n++
	return idx
}

// Len returns the number of distinct keys.
func (ix *Index[K, H]) Len() int {
	return ix.n
}

// Collisions returns how many distinct keys share a hash with another key.
func (ix *Index[K, H]) Collisions() int {
	c := 0
	for _, b := range ix.buckets {
		if len(b) > 1 {
			c += len(b) - 1
		}
	}
	return c
}

// Combine mixes h into seed, order sensitively, the way boost::hash_combine
// does.
func Combine(seed, h uint64) uint64 {
	return seed ^ (h + 0x9e3779b97f4a7c15 + (seed << 6) + (seed >> 2))
}

// Mix64 is the splitmix64 finalizer, used to spread raw bit patterns before
// they are combined.
func Mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
