package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type subjectLock struct {
	mu      sync.Mutex
	holders int // callers holding or waiting, guarded by SubjectLocker.guard
}

// SubjectLocker hands out one mutex per subject key. Entries only start
// their idle countdown once nobody holds or waits on them, so a long turn
// can never lose its mutex to expiry.
type SubjectLocker struct {
	guard sync.Mutex
	cache *cache.Cache
}

func NewSubjectLocker(idle time.Duration) *SubjectLocker {
	if idle <= 0 {
		idle = time.Hour
	}
	return &SubjectLocker{
		cache: cache.New(idle, idle/4),
	}
}

// Lock blocks until the caller holds the subject's mutex and returns the
// release func.
func (l *SubjectLocker) Lock(subject string) func() {
	l.guard.Lock()
	var e *subjectLock
	if x, found := l.cache.Get(subject); found {
		e = x.(*subjectLock)
	} else {
		e = &subjectLock{}
	}
	e.holders++
	l.cache.Set(subject, e, cache.NoExpiration)
	l.guard.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		l.guard.Lock()
		e.holders--
		if e.holders == 0 {
			l.cache.SetDefault(subject, e)
		}
		l.guard.Unlock()
	}
}

func (l *SubjectLocker) Len() int {
	return l.cache.ItemCount()
}
