/*
Package vm implements the script virtual machine.

A script is an immutable byte string. The engine loads it as the
first execution context on the invocation stack and interprets it one
instruction at a time. All contexts of one run share a single
evaluation stack and a single alt stack; each context owns only its
cursor into its script. Calls (CALL) clone the current context,
cross-script calls (APPCALL, TAILCALL) resolve another script through
the ScriptTable collaborator, and RET (or running off the end of a
script) pops the current context.

The engine is a step-driven state machine. Engine.Step executes at
most one instruction and leaves the engine in one of the states
described by VMState:

  - NONE: still running
  - HALT: the invocation stack is empty; the evaluation stack holds the result
  - FAULT: execution failed; Err reports why
  - BREAK: paused at a breakpoint; stepping again resumes

HALT and FAULT are terminal. There is no built-in run limit: callers
that need one wrap the step loop (see package vmexec).

Most bytes are opcodes in one of the following categories:
  - pushdata
  - control
  - stack
  - splice
  - bitwise
  - numeric
  - crypto
  - array
Each category has a corresponding .go file implementing those opcodes.
Every opcode checks its operands before it changes any stack, so a
failing instruction leaves the stacks as they were before the step.

Hashing, signature verification, script lookup and the signable
message are supplied by the host through the Crypto, ScriptTable and
ScriptContainer interfaces. Host services reachable through SYSCALL
are registered with WithService.
*/
package vm
