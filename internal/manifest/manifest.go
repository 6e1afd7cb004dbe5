// Package manifest emits the Target-language package manifest that
// accompanies a transpile's emitted modules (spec.md §6 "Persisted state
// layout": `<out>/Manifest.<target-ext>` with an `[addresses]` block).
package manifest

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Manifest is a Move-style package manifest: a package identity, its
// declared dependencies, and the address table every named address in
// the emitted modules resolves against.
type Manifest struct {
	Package      Package
	Addresses    map[string]string
	Dependencies map[string]Dependency
}

// Package is the manifest's `[package]` table.
type Package struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Dependency is one `[dependencies.<name>]` table entry.
type Dependency struct {
	Local string `toml:"local,omitempty"`
	Git   string `toml:"git,omitempty"`
	Rev   string `toml:"rev,omitempty"`
}

// addressDoc and depDoc are encoded independently of Package so the
// `[package]` header manifest.Render writes directly stays the single
// source for that table — BurntSushi/toml has no clean way to omit a
// zero-value nested struct field, so giving it its own table to own
// avoids emitting a second, empty `[package]` block.
type addressDoc struct {
	Addresses map[string]string `toml:"addresses"`
}

type depDoc struct {
	Dependencies map[string]Dependency `toml:"dependencies"`
}

// New builds a manifest for packageName, publishing every module at
// moduleAddr under the conventional alias "self" plus any extra named
// addresses the caller supplies (e.g. a runtime-shim module's address,
// included only when that module is actually referenced — spec.md §4.H).
func New(packageName, version, moduleAddr string, extraAddresses map[string]string) *Manifest {
	addrs := map[string]string{"self": moduleAddr}
	for k, v := range extraAddresses {
		addrs[k] = v
	}
	return &Manifest{
		Package:   Package{Name: packageName, Version: version},
		Addresses: addrs,
	}
}

// WithDependency adds a `[dependencies.<name>]` entry and returns the
// receiver for chaining.
func (m *Manifest) WithDependency(name string, dep Dependency) *Manifest {
	if m.Dependencies == nil {
		m.Dependencies = map[string]Dependency{}
	}
	m.Dependencies[name] = dep
	return m
}

// Render encodes the manifest as TOML text, the format the Target
// toolchain's package manifest uses.
func (m *Manifest) Render() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("[package]\nname = %q\nversion = %q\n", m.Package.Name, m.Package.Version))

	if len(m.Dependencies) > 0 {
		if err := toml.NewEncoder(&buf).Encode(depDoc{Dependencies: m.Dependencies}); err != nil {
			return "", fmt.Errorf("encode dependencies: %w", err)
		}
	}

	if len(m.Addresses) > 0 {
		if err := toml.NewEncoder(&buf).Encode(addressDoc{Addresses: m.Addresses}); err != nil {
			return "", fmt.Errorf("encode addresses: %w", err)
		}
	}

	return buf.String(), nil
}
