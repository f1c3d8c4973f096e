package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"snapchat-analyzer/internal/domain"
	"sync"
	"time"
)

// CacheItem представляет кэшированный отчет
type CacheItem struct {
	Report    *domain.Report
	ExpiresAt time.Time
}

// CacheStore управляет хранением и извлечением кэшированных отчетов
type CacheStore struct {
	cache map[string]*CacheItem
	mutex sync.RWMutex
}

// NewCacheStore создает новый экземпляр CacheStore
func NewCacheStore() *CacheStore {
	return &CacheStore{
		cache: make(map[string]*CacheItem),
	}
}

// Get извлекает кэшированный элемент по ключу
func (cs *CacheStore) Get(key string) (*CacheItem, bool) {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()

	item, exists := cs.cache[key]
	if !exists || time.Now().After(item.ExpiresAt) {
		return nil, false
	}

	return item, true
}

// Put сохраняет отчет в кэш с указанным сроком действия
func (cs *CacheStore) Put(key string, report *domain.Report, ttl time.Duration) {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	cs.cache[key] = &CacheItem{
		Report:    report,
		ExpiresAt: time.Now().Add(ttl),
	}
}

// Len возвращает число элементов, включая еще не удаленные просроченные
func (cs *CacheStore) Len() int {
	cs.mutex.RLock()
	defer cs.mutex.RUnlock()
	return len(cs.cache)
}

// CleanupExpired удаляет просроченные элементы из кэша
func (cs *CacheStore) CleanupExpired() {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	now := time.Now()
	for key, item := range cs.cache {
		if now.After(item.ExpiresAt) {
			delete(cs.cache, key)
		}
	}
}

// StartCleanupTicker запускает таймер для периодической очистки просроченных элементов
func (cs *CacheStore) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cs.CleanupExpired()
			}
		}
	}()
}

// CalculateHash вычисляет хеш SHA256 среза байт
func CalculateHash(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// CalculateHashFromString вычисляет хеш SHA256 строки
func CalculateHashFromString(s string) string {
	return CalculateHash([]byte(s))
}
