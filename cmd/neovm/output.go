package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/vardthomas/neo-vm/errors"
	"github.com/vardthomas/neo-vm/protocol/vm"
	"github.com/vardthomas/neo-vm/protocol/vmexec"
	"github.com/vardthomas/neo-vm/protocol/vmservice"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("neovm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Containers nested deeper than this are elided.
const maxItemDepth = 16

type itemOutput struct {
	Type  string       `json:"type"`
	Value string       `json:"value,omitempty"`
	Items []itemOutput `json:"items,omitempty"`
}

type notificationOutput struct {
	Script string     `json:"script"`
	State  itemOutput `json:"state"`
}

type runOutput struct {
	State         string               `json:"state"`
	Steps         int                  `json:"steps"`
	Error         string               `json:"error,omitempty"`
	Stack         []itemOutput         `json:"stack"`
	Notifications []notificationOutput `json:"notifications,omitempty"`
}

func newRunOutput(res vmexec.Result, runErr error, notes []vmservice.Notification) runOutput {
	out := runOutput{
		State: res.State.String(),
		Steps: res.Steps,
		Stack: []itemOutput{},
	}
	if runErr != nil {
		out.Error = runErr.Error()
	}
	for _, item := range res.Stack {
		out.Stack = append(out.Stack, itemToOutput(item, 0, nil))
	}
	for _, n := range notes {
		out.Notifications = append(out.Notifications, notificationOutput{
			Script: hex.EncodeToString(n.ScriptHash),
			State:  itemToOutput(n.State, 0, nil),
		})
	}
	return out
}

// itemToOutput describes item. Containers already being described
// further up, and containers nested too deeply, get a value of "...".
func itemToOutput(item vm.StackItem, depth int, open []vm.StackItem) itemOutput {
	out := itemOutput{Type: item.Type().String()}
	switch item.Type() {
	case vm.ArrayType, vm.StructType:
		for _, o := range open {
			if o == item {
				out.Value = "..."
				return out
			}
		}
		if depth >= maxItemDepth {
			out.Value = "..."
			return out
		}
		elems, _ := item.Items()
		out.Items = make([]itemOutput, 0, len(elems))
		for _, elem := range elems {
			out.Items = append(out.Items, itemToOutput(elem, depth+1, append(open, item)))
		}
	case vm.InteropType:
		out.Value = item.String()
	case vm.IntegerType:
		n, _ := item.BigInt()
		out.Value = n.String()
	case vm.BooleanType:
		out.Value = fmt.Sprint(item.Bool())
	default:
		b, _ := item.Bytes()
		out.Value = hex.EncodeToString(b)
	}
	return out
}

func writeOutput(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "cbor":
		b, err := cborEncMode.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%x\n", b)
		return err
	}
	return errors.WithDetailf(errConfig, "unknown format %q", format)
}
