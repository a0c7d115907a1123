package drop

import "sync"

// Registry is the set of live drops, at most one per channel. Operations on
// different channels never contend.
type Registry struct {
	live sync.Map // channelID -> *Record
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds rec unless its channel already has a live drop
func (r *Registry) Register(rec *Record) bool {
	_, loaded := r.live.LoadOrStore(rec.ChannelID, rec)
	return !loaded
}

// Get returns the live drop for a channel
func (r *Registry) Get(channelID string) (*Record, bool) {
	v, ok := r.live.Load(channelID)
	if !ok {
		return nil, false
	}
	return v.(*Record), true
}

// Remove drops rec from the set. A newer drop registered for the same
// channel is left alone.
func (r *Registry) Remove(rec *Record) bool {
	return r.live.CompareAndDelete(rec.ChannelID, rec)
}

// Len counts the live drops
func (r *Registry) Len() int {
	n := 0
	r.live.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Snapshot returns the live drops at this moment
func (r *Registry) Snapshot() []*Record {
	var recs []*Record
	r.live.Range(func(_, v any) bool {
		recs = append(recs, v.(*Record))
		return true
	})
	return recs
}
