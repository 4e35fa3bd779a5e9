package rhi

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
)

// BackendFactory creates a backend for a device specification.
// Factories are registered via Register and called by NewGraphicsDevice.
type BackendFactory func(spec DeviceSpecification) (Backend, error)

var (
	registryMu sync.RWMutex
	backends   = make(map[GraphicsAPI]BackendFactory)
)

// Register registers a backend factory for a graphics API.
// It is typically called from init() in backend packages, following the
// database/sql driver pattern:
//
//	func init() {
//	    rhi.Register(rhi.GraphicsAPISoftware, New)
//	}
//
// Register panics if factory is nil or the API is already registered.
func Register(api GraphicsAPI, factory BackendFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("rhi: Register factory is nil")
	}
	if _, dup := backends[api]; dup {
		panic("rhi: Register called twice for " + api.String())
	}
	backends[api] = factory
}

// Unregister removes a backend from the registry. Used by tests.
func Unregister(api GraphicsAPI) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, api)
}

// IsRegistered reports whether a factory exists for api.
func IsRegistered(api GraphicsAPI) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[api]
	return ok
}

// Backends returns the registered APIs in ascending order.
func Backends() []GraphicsAPI {
	registryMu.RLock()
	defer registryMu.RUnlock()

	apis := make([]GraphicsAPI, 0, len(backends))
	for api := range backends {
		apis = append(apis, api)
	}
	sort.Slice(apis, func(i, j int) bool { return apis[i] < apis[j] })
	return apis
}

// newBackend resolves and builds the backend for spec.API.
func newBackend(spec DeviceSpecification) (Backend, error) {
	registryMu.RLock()
	factory, ok := backends[spec.API]
	registryMu.RUnlock()

	if !ok {
		return nil, &BackendUnavailableError{API: spec.API, Reason: "no backend registered (forgotten import?)"}
	}
	b, err := factory(spec)
	if err != nil {
		var bue *BackendUnavailableError
		if errors.As(err, &bue) {
			return nil, bue
		}
		return nil, &BackendUnavailableError{API: spec.API, Reason: "backend initialization failed", Err: err}
	}
	if b == nil {
		return nil, &BackendUnavailableError{API: spec.API, Reason: "factory returned no backend"}
	}
	return b, nil
}
