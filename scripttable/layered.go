package scripttable

import (
	"github.com/vardthomas/neo-vm/protocol/vm"
)

// Layered looks a hash up in each of its tables in turn and returns
// the first script found. A store error stops the search.
type Layered []vm.ScriptTable

func (l Layered) GetScript(hash []byte) ([]byte, bool, error) {
	for _, t := range l {
		script, ok, err := t.GetScript(hash)
		if err != nil || ok {
			return script, ok, err
		}
	}
	return nil, false, nil
}
