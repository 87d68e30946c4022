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

package host

import (
	"fmt"
	"sort"
	"sync"
)

// Plugins register themselves at init time; the host folds every
// registered unit into its startup pipeline alongside the built-in
// actions. Registration is compile-time: a plugin is a package the
// binary imports for side effects.
var (
	pluginMu sync.Mutex
	plugins  = make(map[string]interface{})
)

// RegisterPlugin adds a startup unit under a unique name. The unit must
// implement ServiceAction, AppAction, or both. Panics on a duplicate
// name; that is a programming error worth failing loudly on.
func RegisterPlugin(name string, unit interface{}) {
	pluginMu.Lock()
	defer pluginMu.Unlock()

	if _, dup := plugins[name]; dup {
		panic(fmt.Sprintf("host: plugin %q registered twice", name))
	}
	switch unit.(type) {
	case ServiceAction, AppAction:
	default:
		panic(fmt.Sprintf("host: plugin %q implements neither startup interface", name))
	}
	plugins[name] = unit
}

// RegisteredPlugins returns the registered units in name order, so
// startup is deterministic for units sharing a priority.
func RegisteredPlugins() []interface{} {
	pluginMu.Lock()
	defer pluginMu.Unlock()

	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	units := make([]interface{}, 0, len(names))
	for _, name := range names {
		units = append(units, plugins[name])
	}
	return units
}
