package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem 包装缓存数据和过期时间
type cacheItem struct {
	data      interface{}
	expiresAt time.Time
}

// PageCache 进程内页面缓存：LRU 容量兜底 + 按时间过期。
// 失效策略只有时间一种——写操作不会主动清掉列表页缓存，
// 新文章在缓存过期前可能不出现在首页，这是接受的行为而不是 bug。
type PageCache struct {
	lruCache *lru.Cache[string, cacheItem]
}

// NewPageCache 创建容量为 capacity 的页面缓存
func NewPageCache(capacity int) (*PageCache, error) {
	l, err := lru.New[string, cacheItem](capacity)
	if err != nil {
		return nil, err
	}
	return &PageCache{lruCache: l}, nil
}

// Set 设置缓存，TTL 为过期时间
func (c *PageCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, cacheItem{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get 获取缓存，若不存在或已过期则返回 nil
func (c *PageCache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	// 检查过期
	if time.Now().After(val.expiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.data
}

// Delete 删除指定缓存
func (c *PageCache) Delete(key string) {
	c.lruCache.Remove(key)
}
