package app

import (
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Inflight collapses identical concurrent mutations, such as a double
// submitted form, into a single backend call.
type Inflight struct {
	g singleflight.Group
}

// Do runs fn unless a call with the same client, action and resource is
// already running, in which case it waits for that call and returns its error.
func (f *Inflight) Do(clientID, action string, resource any, fn func() error) error {
	key := fmt.Sprintf("%s:%s:%v", clientID, action, resource)
	_, err, _ := f.g.Do(key, func() (any, error) {
		return nil, fn()
	})
	return err
}
