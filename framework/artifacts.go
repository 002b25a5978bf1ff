package framework

import (
	"sort"
	"sync"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ArtifactBag carries values from the scenario that produces them to the scenarios that
// consume them. Each key can be written at most once per run. It is safe for concurrent use.
type ArtifactBag struct {
	values map[string]ldvalue.Value
	lock   sync.RWMutex
}

func NewArtifactBag() *ArtifactBag {
	return &ArtifactBag{values: make(map[string]ldvalue.Value)}
}

// Put stores a value. It returns a *DuplicateKeyError if the key already has a value, in
// which case the stored value is unchanged.
func (b *ArtifactBag) Put(key string, value ldvalue.Value) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	if _, ok := b.values[key]; ok {
		return &DuplicateKeyError{Key: key}
	}
	b.values[key] = value
	return nil
}

// Get returns a stored value, or a *MissingArtifactError if nothing was stored for the key.
func (b *ArtifactBag) Get(key string) (ldvalue.Value, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()
	if v, ok := b.values[key]; ok {
		return v, nil
	}
	return ldvalue.Null(), &MissingArtifactError{Key: key}
}

func (b *ArtifactBag) Keys() []string {
	b.lock.RLock()
	ret := make([]string, 0, len(b.values))
	for k := range b.values {
		ret = append(ret, k)
	}
	b.lock.RUnlock()
	sort.Strings(ret)
	return ret
}
