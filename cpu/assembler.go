// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":         "0",
	"START_ADDRESS":  fmt.Sprintf("%#x", START_ADDRESS),
	"IO_ADDRESS":     fmt.Sprintf("%#x", IO_ADDRESS),
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
}

// Assembler is a single pass macro assembler for the TOY machine.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	origin int // Address set by the last .org
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// opMap maps opcode mnemonics.
var opMap = map[string]CodeOp{
	"halt":  OP_HALT,
	"add":   OP_ADD,
	"sub":   OP_SUB,
	"and":   OP_AND,
	"xor":   OP_XOR,
	"shl":   OP_SHL,
	"shr":   OP_SHR,
	"loada": OP_LOADA,
	"load":  OP_LOAD,
	"stor":  OP_STOR,
	"loadi": OP_LOADI,
	"stori": OP_STORI,
	"bzero": OP_BZERO,
	"bposi": OP_BPOSI,
	"jmpr":  OP_JMPR,
	"jmpl":  OP_JMPL,
}

var labelRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// valueOf returns the value of a simple word.
// Values are in the range -0x8000..0xffff.
func (asm *Assembler) valueOf(word string) (value int, err error) {
	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
		if len(word) == 0 {
			err = ErrParseNumber("~")
			return
		}
	}
	if word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	v64, err := strconv.ParseInt(word, 0, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < WORD_SIGNED_MIN || v64 > 0xffff {
		err = ErrParseNumber(word)
		return
	}

	value = int(v64)
	if invert {
		value = int(^uint16(v64))
	}

	return
}

// register returns the register index named by a word.
func (asm *Assembler) register(word string) (reg int, err error) {
	if len(word) < 2 || word[0] != 'r' {
		err = ErrRegisterInvalid
		return
	}

	reg, err = strconv.Atoi(word[1:])
	if err != nil || reg < 0 || reg >= REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	return
}

// address returns an 8-bit immediate, or the label to link it to.
func (asm *Assembler) address(word string) (addr uint8, label string, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		if labelRe.MatchString(word) {
			label = word
			err = nil
		}
		return
	}

	if value < 0 || value > 0xff {
		err = ErrOpcodeImm
		return
	}

	addr = uint8(value)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v int
		v, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	re := regexp.MustCompile(`'\\?[^']'`)
	line = re.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	re = regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Fields(line), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v_%v_", name, lineno))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddr gets the address the next opcode will be placed at.
func (asm *Assembler) currentAddr() int {
	if len(asm.Opcode) == 0 {
		return asm.origin
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return max(asm.origin, last.Addr+len(last.Codes))
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.origin = START_ADDRESS
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	if asm.currentAddr() > MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		err = asm.link(op)
		if err != nil {
			return
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// link resolves the label of a single word address instruction.
func (asm *Assembler) link(op *Opcode) (err error) {
	addr, ok := asm.Label[op.LinkLabel]
	if !ok {
		err = ErrLabelMissing(op.LinkLabel)
		return
	}
	if addr > 0xff {
		err = ErrOpcodeImm
		return
	}
	if len(op.Codes) != 1 || op.Codes[0].Op().Form() != FORM_RA {
		err = ErrInstructionInvalid
		return
	}

	op.Codes[0] |= Code(addr)

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Addr: asm.currentAddr(), Words: initial_words, Codes: codes, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	// Alternate syntax substitutions
	switch {
	case len(words) == 1 && words[0] == "nop":
		words = []string{"add", "r0", "r0", "r0"}
	case len(words) == 2 && words[0] == "jump":
		// jump ADDR => bzero r0 ADDR
		words = []string{"bzero", "r0", words[1]}
	case len(words) == 3 && words[0] == "mov":
		// mov RD RS => add RD RS r0
		words = []string{"add", words[1], words[2], "r0"}
	case len(words) == 2 && words[0] == "in":
		// in RD => load RD IO_ADDRESS
		words = []string{"load", words[1], sysEquate["IO_ADDRESS"]}
	case len(words) == 2 && words[0] == "out":
		// out RD => stor RD IO_ADDRESS
		words = []string{"stor", words[1], sysEquate["IO_ADDRESS"]}
	case len(words) == 2 && words[0] == "call":
		// call ADDR => jmpl r15 ADDR
		words = []string{"jmpl", "r15", words[1]}
	case len(words) == 1 && words[0] == "return":
		// return => jmpr r15
		words = []string{"jmpr", "r15"}
	default:
		// unchanged
	}

	switch words[0] {
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		var data []Code
		for _, word := range words[1:] {
			var value int
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			data = append(data, Code(uint16(value)))
		}
		codes = data
		return
	case ".org":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(words) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		var value int
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if value < asm.currentAddr() {
			err = ErrOrgBackwards
			return
		}
		if value > MEMORY_SIZE {
			err = ErrProgramTooLarge
			return
		}
		asm.origin = value
		return
	}

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	need := map[CodeForm]int{
		FORM_NONE: 1,
		FORM_RRR:  4,
		FORM_RA:   3,
		FORM_RT:   3,
		FORM_T:    2,
	}[op.Form()]
	if len(words) < need {
		err = ErrOpcodeValueMissing
		return
	}
	if len(words) > need {
		err = ErrOpcodeExtraArgs
		return
	}

	regs := make([]int, 0, 3)
	var addr uint8

	switch op.Form() {
	case FORM_NONE:
		codes = append(codes, MakeCodeHalt())
		return
	case FORM_RA:
		addr, label, err = asm.address(words[2])
		if err != nil {
			return
		}
		words = words[:2]
	}

	for _, word := range words[1:] {
		var reg int
		reg, err = asm.register(word)
		if err != nil {
			return
		}
		regs = append(regs, reg)
	}

	switch op.Form() {
	case FORM_RRR:
		codes = append(codes, MakeCodeRRR(op, regs[0], regs[1], regs[2]))
	case FORM_RA:
		codes = append(codes, MakeCodeRA(op, regs[0], addr))
	case FORM_RT:
		codes = append(codes, MakeCodeRT(op, regs[0], regs[1]))
	case FORM_T:
		codes = append(codes, MakeCodeRT(op, 0, regs[0]))
	}

	return
}
