// Package vmservice implements host services that scripts reach
// through SYSCALL.
package vmservice

import (
	"context"
	"encoding/hex"
	"sync"

	"github.com/vardthomas/neo-vm/log"
	"github.com/vardthomas/neo-vm/protocol/vm"
)

// Service names.
const (
	Log        = "Neo.Runtime.Log"
	Notify     = "Neo.Runtime.Notify"
	GetTrigger = "Neo.Runtime.GetTrigger"
)

// Trigger tells a script why it is being run.
type Trigger byte

const (
	Verification Trigger = 0x00
	Application  Trigger = 0x10
)

func (t Trigger) String() string {
	switch t {
	case Verification:
		return "verification"
	case Application:
		return "application"
	}
	return "trigger-" + hex.EncodeToString([]byte{byte(t)})
}

// Notification is an item a script passed to Neo.Runtime.Notify.
type Notification struct {
	ScriptHash []byte
	State      vm.StackItem
}

// Runtime provides the Neo.Runtime services for one run. Messages
// from Neo.Runtime.Log are written to the log with ctx.
type Runtime struct {
	ctx     context.Context
	trigger Trigger

	mu            sync.Mutex
	notifications []Notification
}

func NewRuntime(ctx context.Context, trigger Trigger) *Runtime {
	return &Runtime{ctx: ctx, trigger: trigger}
}

// Services returns the handlers to register with vm.WithServices.
func (r *Runtime) Services() map[string]vm.SysCallFunc {
	return map[string]vm.SysCallFunc{
		Log:        r.log,
		Notify:     r.notify,
		GetTrigger: r.getTrigger,
	}
}

// Notifications returns the notifications made so far, oldest first.
func (r *Runtime) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}

func (r *Runtime) log(e *vm.Engine) error {
	item, err := e.EvaluationStack().Peek(0)
	if err != nil {
		return err
	}
	msg, err := item.Bytes()
	if err != nil {
		return err
	}
	e.EvaluationStack().Pop()
	log.Write(r.ctx,
		"script", hex.EncodeToString(e.CurrentContext().ScriptHash()),
		log.KeyMessage, string(msg),
	)
	return nil
}

func (r *Runtime) notify(e *vm.Engine) error {
	item, err := e.EvaluationStack().Pop()
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.notifications = append(r.notifications, Notification{
		ScriptHash: e.CurrentContext().ScriptHash(),
		State:      item,
	})
	r.mu.Unlock()
	return nil
}

func (r *Runtime) getTrigger(e *vm.Engine) error {
	e.EvaluationStack().Push(vm.NewIntegerInt64(int64(r.trigger)))
	return nil
}
