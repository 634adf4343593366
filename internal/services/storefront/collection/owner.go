package collection

import (
	"strings"
	"sync"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
)

// Owner records which shopper a synchronizer currently mirrors.
type Owner struct {
	mu sync.RWMutex
	id string
}

// Set binds id and reports whether it differs from the previous owner.
func (o *Owner) Set(id string) bool {
	id = strings.TrimSpace(id)
	o.mu.Lock()
	defer o.mu.Unlock()
	changed := o.id != id
	o.id = id
	return changed
}

// ID returns the bound owner, or "" when unbound.
func (o *Owner) ID() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.id
}

// Require returns the bound owner or an AUTH error naming what needed it.
func (o *Owner) Require(what string) (string, error) {
	id := o.ID()
	if id == "" {
		return "", apperrors.New(apperrors.CodeAuth, what+" has no owner")
	}
	return id, nil
}
