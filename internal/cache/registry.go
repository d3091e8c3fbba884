package cache

import (
	"sort"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// registry is the set of keys this process has written or read through.
// It is not durable; after a restart only the distributed tier knows older keys.
type registry struct {
	keys *xsync.MapOf[string, struct{}]
}

func newRegistry() *registry {
	return &registry{keys: xsync.NewMapOf[string, struct{}]()}
}

func (r *registry) add(key string) { r.keys.Store(key, struct{}{}) }

func (r *registry) remove(keys ...string) {
	for _, k := range keys {
		r.keys.Delete(k)
	}
}

// prune drops key unless inUse reports it is held again. The check and the
// delete are atomic with respect to add.
func (r *registry) prune(key string, inUse func(key string) bool) {
	r.keys.Compute(key, func(v struct{}, loaded bool) (struct{}, bool) {
		return v, !loaded || !inUse(key)
	})
}

func (r *registry) has(key string) bool {
	_, ok := r.keys.Load(key)
	return ok
}

// withPrefix is plain string-prefix matching, nothing smarter.
func (r *registry) withPrefix(prefix string) []string {
	var out []string
	r.keys.Range(func(k string, _ struct{}) bool {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
		return true
	})
	sort.Strings(out)
	return out
}

func (r *registry) len() int { return r.keys.Size() }
