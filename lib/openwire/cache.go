package openwire

import "github.com/apache/activemq-openwire-sub001/lib/command"

// cacheKey identifies an object in the encoder's table. Types with a stable
// key are matched by value, everything else by pointer identity.
type cacheKey struct {
	code byte
	name string
	ref  any
}

func cacheKeyOf(o command.DataStructure) cacheKey {
	if k, ok := o.(command.CacheKeyer); ok {
		return cacheKey{code: o.DataStructureType(), name: k.CacheKey()}
	}
	return cacheKey{code: o.DataStructureType(), ref: o}
}

// encodeCache assigns ids in first-seen order. Once the table is full new
// objects are no longer stored; the decoder makes the same decision since it
// sees the same sequence of new objects.
type encodeCache struct {
	capacity int
	ids      map[cacheKey]uint16
	keys     []cacheKey
}

func newEncodeCache(capacity int) *encodeCache {
	return &encodeCache{capacity: capacity, ids: make(map[cacheKey]uint16)}
}

func (c *encodeCache) lookup(k cacheKey) (uint16, bool) {
	id, ok := c.ids[k]
	return id, ok
}

func (c *encodeCache) store(k cacheKey) bool {
	if len(c.keys) >= c.capacity {
		return false
	}
	c.ids[k] = uint16(len(c.keys))
	c.keys = append(c.keys, k)
	return true
}

func (c *encodeCache) mark() int { return len(c.keys) }

// rollback forgets every entry stored after mark
func (c *encodeCache) rollback(mark int) {
	for _, k := range c.keys[mark:] {
		delete(c.ids, k)
	}
	clear(c.keys[mark:])
	c.keys = c.keys[:mark]
}

func (c *encodeCache) reset() { c.rollback(0) }

func (c *encodeCache) len() int { return len(c.keys) }

type decodeCache struct {
	capacity int
	objects  []command.DataStructure
}

func newDecodeCache(capacity int) *decodeCache {
	return &decodeCache{capacity: capacity}
}

func (c *decodeCache) store(o command.DataStructure) bool {
	if len(c.objects) >= c.capacity {
		return false
	}
	c.objects = append(c.objects, o)
	return true
}

func (c *decodeCache) get(id uint16) (command.DataStructure, bool) {
	if int(id) >= len(c.objects) {
		return nil, false
	}
	return c.objects[id], true
}

func (c *decodeCache) mark() int { return len(c.objects) }

func (c *decodeCache) rollback(mark int) {
	clear(c.objects[mark:])
	c.objects = c.objects[:mark]
}

func (c *decodeCache) reset() { c.rollback(0) }

func (c *decodeCache) len() int { return len(c.objects) }
