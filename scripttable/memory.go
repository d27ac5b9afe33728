// Package scripttable implements stores that resolve script hashes
// to scripts for APPCALL and TAILCALL.
package scripttable

import (
	"sync"

	"github.com/vardthomas/neo-vm/crypto/vmcrypto"
)

// Memory is a ScriptTable held in a map. It is safe for concurrent
// use.
type Memory struct {
	mu      sync.RWMutex
	scripts map[string][]byte
}

// NewMemory returns a Memory table holding scripts.
func NewMemory(scripts ...[]byte) *Memory {
	m := &Memory{scripts: make(map[string][]byte)}
	for _, s := range scripts {
		m.Add(s)
	}
	return m
}

// Add stores script under its Hash160 and returns the hash.
func (m *Memory) Add(script []byte) []byte {
	hash := vmcrypto.Hash160(script)
	m.mu.Lock()
	m.scripts[string(hash)] = append([]byte(nil), script...)
	m.mu.Unlock()
	return hash
}

func (m *Memory) GetScript(hash []byte) ([]byte, bool, error) {
	m.mu.RLock()
	s, ok := m.scripts[string(hash)]
	m.mu.RUnlock()
	return s, ok, nil
}

// Len reports the number of scripts held.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.scripts)
}
