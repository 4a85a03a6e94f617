package category

import "time"

type Cache interface {
	GetByGroupID(groupID string) ([]Category, bool)
	SetByGroupID(groupID string, categories []Category, ttl time.Duration)
	DeleteByGroupID(groupID string)
}

type noopCache struct{}

func (noopCache) GetByGroupID(string) ([]Category, bool) {
	return nil, false
}

func (noopCache) SetByGroupID(string, []Category, time.Duration) {}

func (noopCache) DeleteByGroupID(string) {}
