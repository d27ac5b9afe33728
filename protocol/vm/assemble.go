package vm

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/vardthomas/neo-vm/errors"
)

// Assemble converts a string like "2 3 ADD 5 NUMEQUAL" into a script.
//
// Tokens are opcode names, decimal integers, 0x-prefixed hex strings
// and single-quoted strings; the pushdata instructions for data are
// inferred. A token "$name" marks a position that jumps can refer to.
// Opcodes with an inline operand take it after a colon:
//
//	JMP:$name  JMPIF:-3  CALL:$fn
//	APPCALL:0x<20-byte hash>  TAILCALL:0x<20-byte hash>
//	SYSCALL:Neo.Runtime.Log  SYSCALL:0x<hex name>
func Assemble(s string) (res []byte, err error) {
	// maps labels to the positions they mark
	labels := make(map[string]int)

	// maps the position of a jump's operand to the position of its
	// opcode and the label it refers to
	type fixup struct {
		pc    int
		label string
	}
	fixups := make(map[int]fixup)

	scanner := bufio.NewScanner(strings.NewReader(s))
	scanner.Buffer(nil, MaxItemSize*2+16)
	scanner.Split(split)
	for scanner.Scan() {
		token := scanner.Text()
		if info, ok := opsByName[token]; ok {
			res = append(res, byte(info.op))
		} else if strings.HasPrefix(token, "$") {
			if _, seen := labels[token]; seen {
				return nil, errors.WithDetailf(ErrToken, "label %s defined twice", token)
			}
			labels[token] = len(res)
		} else if i := strings.IndexByte(token, ':'); i > 0 && opsByName[token[:i]].fn != nil {
			op, arg := opsByName[token[:i]].op, token[i+1:]
			switch op {
			case OP_JMP, OP_JMPIF, OP_JMPIFNOT, OP_CALL:
				pc := len(res)
				res = append(res, byte(op), 0, 0)
				if strings.HasPrefix(arg, "$") {
					fixups[pc+1] = fixup{pc, arg}
					continue
				}
				offset, err := strconv.ParseInt(arg, 10, 16)
				if err != nil {
					return nil, errors.WithDetailf(ErrToken, "jump offset %s", arg)
				}
				binary.LittleEndian.PutUint16(res[pc+1:], uint16(offset))
			case OP_APPCALL, OP_TAILCALL:
				hash, err := decodeHex(arg)
				if err != nil {
					return nil, err
				}
				if len(hash) != HashLen {
					return nil, errors.WithDetailf(ErrBadValue, "script hash of %d bytes", len(hash))
				}
				res = append(append(res, byte(op)), hash...)
			case OP_SYSCALL:
				name := []byte(arg)
				if strings.HasPrefix(arg, "0x") {
					name, err = decodeHex(arg)
					if err != nil {
						return nil, err
					}
				}
				if len(name) == 0 || len(name) > MaxSysCallLen {
					return nil, errors.WithDetailf(ErrBadValue, "syscall name of %d bytes", len(name))
				}
				res = append(append(res, byte(op), byte(len(name))), name...)
			default:
				return nil, errors.WithDetailf(ErrToken, "%s takes no operand", op)
			}
		} else if strings.HasPrefix(token, "0x") {
			bytes, err := decodeHex(token)
			if err != nil {
				return nil, err
			}
			res = append(res, PushdataBytes(bytes)...)
		} else if len(token) >= 2 && token[0] == '\'' && token[len(token)-1] == '\'' {
			bytes := make([]byte, 0, len(token)-2)
			for i := 1; i < len(token)-1; i++ {
				if token[i] == '\\' {
					i++
				}
				bytes = append(bytes, token[i])
			}
			res = append(res, PushdataBytes(bytes)...)
		} else if num, ok := new(big.Int).SetString(token, 10); ok {
			res = append(res, PushdataInt(num)...)
		} else {
			return nil, errors.Wrap(ErrToken, token)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for pos, f := range fixups {
		target, ok := labels[f.label]
		if !ok {
			return nil, errors.WithDetailf(ErrToken, "undefined label %s", f.label)
		}
		offset := target - f.pc
		if offset < math.MinInt16 || offset > math.MaxInt16 {
			return nil, errors.WithDetailf(ErrBadValue, "jump to %s out of range", f.label)
		}
		binary.LittleEndian.PutUint16(res[pos:], uint16(int16(offset)))
	}
	return res, nil
}

func decodeHex(token string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(token, "0x"))
	return b, errors.Wrap(err, token)
}

// Disassemble converts a script into the text form accepted by
// Assemble. Jump targets that fall on an instruction boundary are
// shown as labels.
func Disassemble(prog []byte) (string, error) {
	insts, err := ParseProgram(prog)
	if err != nil {
		return "", err
	}

	type located struct {
		Instruction
		pc int
	}
	var (
		lines     = make([]located, 0, len(insts))
		boundary  = map[int]bool{len(prog): true}
		labelled  = make(map[int]bool)
		jumpDests = make(map[int]int) // instruction pc -> target
	)
	pc := 0
	for _, inst := range insts {
		lines = append(lines, located{inst, pc})
		boundary[pc] = true
		pc += inst.Len
	}
	for _, l := range lines {
		switch l.Op {
		case OP_JMP, OP_JMPIF, OP_JMPIFNOT, OP_CALL:
			target := l.pc + int(int16(binary.LittleEndian.Uint16(l.Data)))
			if boundary[target] {
				labelled[target] = true
				jumpDests[l.pc] = target
			}
		}
	}

	var strs []string
	for _, l := range lines {
		if labelled[l.pc] {
			strs = append(strs, label(l.pc))
		}
		strs = append(strs, formatInst(l.Instruction, l.pc, jumpDests))
	}
	if labelled[len(prog)] {
		strs = append(strs, label(len(prog)))
	}
	return strings.Join(strs, " "), nil
}

func label(pc int) string {
	return fmt.Sprintf("$L%d", pc)
}

func formatInst(inst Instruction, pc int, jumpDests map[int]int) string {
	switch {
	case inst.Op >= OP_PUSHBYTES1 && inst.Op <= OP_PUSHDATA4:
		return fmt.Sprintf("0x%x", inst.Data)
	case inst.Op == OP_JMP, inst.Op == OP_JMPIF, inst.Op == OP_JMPIFNOT, inst.Op == OP_CALL:
		if target, ok := jumpDests[pc]; ok {
			return fmt.Sprintf("%s:%s", inst.Op, label(target))
		}
		return fmt.Sprintf("%s:%d", inst.Op, int16(binary.LittleEndian.Uint16(inst.Data)))
	case inst.Op == OP_APPCALL, inst.Op == OP_TAILCALL:
		return fmt.Sprintf("%s:0x%x", inst.Op, inst.Data)
	case inst.Op == OP_SYSCALL:
		if isPlainName(inst.Data) {
			return fmt.Sprintf("%s:%s", inst.Op, inst.Data)
		}
		return fmt.Sprintf("%s:0x%x", inst.Op, inst.Data)
	}
	return inst.Op.String()
}

// isPlainName reports whether a syscall name can be written as-is,
// without hex encoding.
func isPlainName(name []byte) bool {
	if len(name) == 0 || strings.HasPrefix(string(name), "0x") {
		return false
	}
	for _, c := range name {
		if c <= ' ' || c >= 0x7f || c == '\'' {
			return false
		}
	}
	return true
}

// split is a bufio.SplitFunc for scanning the input to Assemble.
// It starts like bufio.ScanWords but adjusts the return value to
// account for quoted strings.
func split(inp []byte, atEOF bool) (advance int, token []byte, err error) {
	advance, token, err = bufio.ScanWords(inp, atEOF)
	if err != nil {
		return
	}
	if len(token) > 1 && token[0] != '\'' {
		return
	}

	// Rescan the input, but skip the whitespace that ScanWords skipped.
	start := advance - len(token)
	if len(inp) == start {
		return start, nil, nil
	}
	if inp[start] != '\'' {
		return
	}
	var escape bool
	for i := start + 1; i < len(inp); i++ {
		if escape {
			escape = false
		} else {
			switch inp[i] {
			case '\'':
				advance = i + 1
				token = inp[start:advance]
				return
			case '\\':
				escape = true
			}
		}
	}
	// Reached the end of the input with no closing quote.
	if atEOF {
		return 0, nil, ErrToken
	}
	return 0, nil, nil
}
