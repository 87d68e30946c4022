// Copyright 2025 WebApp Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package db

import (
	"sort"
	"sync"
)

// Registry maps connection names to validated factories. It is populated
// once by the provisioner at process start and read-only afterwards;
// administrative changes to named connections only take effect on the
// next restart. The registry is passed explicitly to components that
// need it rather than living in a hidden singleton.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]*Factory
}

// NewRegistry creates an empty named-connection registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]*Factory),
	}
}

// Register adds a factory under the given name. A duplicate name
// overwrites the earlier entry.
func (r *Registry) Register(name string, f *Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Get returns the factory registered under name.
func (r *Registry) Get(name string) (*Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns all registered connection names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered named connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}
