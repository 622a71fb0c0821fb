// Package cache 提供帶 TTL 的進程內快取。
//
// 房間狀態和逐字稿這類高頻讀取的資料會放在這裡，
// 任何改變房間狀態的操作都必須使相關的鍵失效。
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value   interface{}
	expires time.Time
}

type Cache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]entry
}

// New 創建一個快取，ttl 是預設存活時間
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:  ttl,
		data: make(map[string]entry),
	}
}

// Get 取出未過期的值，不存在或已過期時回傳 false
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		c.Delete(key)
		return nil, false
	}
	return e.value, true
}

// Set 以預設 TTL 寫入
func (c *Cache) Set(key string, value interface{}) {
	c.SetTTL(key, value, c.ttl)
}

// SetTTL 以指定的存活時間寫入
func (c *Cache) SetTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.data[key] = entry{value: value, expires: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Delete 使單一鍵失效
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

// Clear 清空整個快取
func (c *Cache) Clear() {
	c.mu.Lock()
	c.data = make(map[string]entry)
	c.mu.Unlock()
}
