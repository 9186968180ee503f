// Package console implements the line-oriented command console of the
// simulator.
//
// Each line is split into a command word and an argument string; every
// command parses its own argument string. The console owns no state of its
// own: load, run, peek, poke and dump all act on the single emulator
// instance.
package console

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/ezrec/accsim/cpu"
	"github.com/ezrec/accsim/emulator"
)

const (
	PROMPT    = "cmd> "                    // Command prompt.
	BANNER    = "cpu-AC simulator console" // Startup banner.
	SEPARATOR = "-------------------------"
)

// Command is a console command.
type Command struct {
	Name  string // Command word.
	Usage string // Argument summary.
	Help  string // One line description.

	Exec func(con *Console, arg string) error
}

var commands []*Command

func init() {
	commands = []*Command{
		{"load", "<path>", "load a program image at address 0", (*Console).doLoad},
		{"run", "", "run from the program counter until halt or fault", (*Console).doRun},
		{"step", "", "execute a single instruction", (*Console).doStep},
		{"poke", "<addr> <value>", "store a word in memory", (*Console).doPoke},
		{"peek", "<addr>", "show a word of memory", (*Console).doPeek},
		{"dump", "<count>", "show the accumulator and the first words of memory", (*Console).doDump},
		{"regs", "", "show the processor state", (*Console).doRegs},
		{"reset", "", "clear the processor state, keeping memory", (*Console).doReset},
		{"clear", "", "zero-fill memory, keeping the processor state", (*Console).doClear},
		{"help", "", "list the commands", (*Console).doHelp},
		{"exit", "", "leave the console", (*Console).doExit},
	}
}

// Console is the read-eval-print loop over one emulator.
type Console struct {
	Verbose  bool               // If set, enables verbose logging.
	Emulator *emulator.Emulator // Emulator acted on by every command.
	Input    LineReader         // Command line source.
	Output   io.Writer          // Command output.

	command map[string]*Command
}

// NewConsole creates a console over emu.
func NewConsole(emu *emulator.Emulator, input LineReader, output io.Writer) (con *Console) {
	con = &Console{
		Emulator: emu,
		Input:    input,
		Output:   output,
		command:  make(map[string]*Command, len(commands)),
	}

	for _, cmd := range commands {
		con.command[cmd.Name] = cmd
	}

	return
}

func (con *Console) printf(format string, args ...any) {
	fmt.Fprintf(con.Output, format, args...)
}

func (con *Console) println(text string) {
	fmt.Fprintln(con.Output, text)
}

// Run prints the banner, then reads and executes commands until 'exit' or
// the end of input.
func (con *Console) Run() (err error) {
	con.println(BANNER)

	for {
		var line string
		line, err = con.Input.ReadLine(PROMPT)
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if errors.Is(err, ErrLineTooLong) {
			if con.Verbose {
				log.Printf("console: %v", err)
			}
			con.println(ErrUnknown.Error())
			continue
		}
		if err != nil {
			return
		}

		err = con.Execute(line)
		if errors.Is(err, ErrExit) {
			err = nil
			return
		}
		if err != nil {
			return
		}
	}
}

// Execute runs a single command line. Command failures are reported on
// the output; only ErrExit is returned.
func (con *Console) Execute(line string) (err error) {
	name, arg := splitCommand(line)

	if con.Verbose {
		log.Printf("console: %q %q", name, arg)
	}

	cmd, ok := con.command[name]
	if !ok {
		con.println(ErrUnknown.Error())
		return
	}

	err = cmd.Exec(con, arg)
	return
}

func (con *Console) doLoad(arg string) (err error) {
	emu := con.Emulator

	emu.Verbose = con.Verbose
	count, err := emu.Load(arg)
	if err != nil {
		con.println(f("load: %v", err))
		err = nil
		return
	}

	for addr, value := range emu.Cpu.Memory[:count] {
		con.printf("0x%x: 0x%x\n", addr, value)
	}
	con.printf("read %d words\n", count)

	return
}

// report prints the outcome of a finished program.
func (con *Console) report(err error) {
	if err != nil {
		con.println(f("fault: %v", err))
		return
	}

	if con.Emulator.Cpu.State == cpu.STATE_HALTED {
		con.println(f("HALT instruction executed"))
	}
}

func (con *Console) doRun(arg string) (err error) {
	emu := con.Emulator

	emu.Verbose = con.Verbose
	con.report(emu.Run())

	return
}

func (con *Console) doStep(arg string) (err error) {
	emu := con.Emulator

	emu.Verbose = con.Verbose
	con.printf("0x%x: %v\n", emu.Pc(), emu.Code())
	_, terr := emu.Tick()
	con.report(terr)

	return
}

func (con *Console) doPoke(arg string) (err error) {
	values, perr := con.parseArgs(arg, 2)
	if perr == nil {
		perr = con.Emulator.Cpu.Memory.Poke(int(values[0]), int(values[1]))
	}
	if perr != nil {
		if con.Verbose {
			log.Printf("console: poke: %v", perr)
		}
		con.println(f("invalid arg(s)"))
	}

	return
}

func (con *Console) doPeek(arg string) (err error) {
	var value uint16

	values, perr := con.parseArgs(arg, 1)
	if perr == nil {
		value, perr = con.Emulator.Cpu.Memory.Peek(int(values[0]))
	}
	if perr != nil {
		con.println(cpu.ErrAddress.Error())
		return
	}

	con.printf("0x%x: 0x%x\n", values[0], value)
	return
}

func (con *Console) doDump(arg string) (err error) {
	emu := con.Emulator

	values, perr := con.parseArgs(arg, 1)
	if perr != nil {
		con.println(cpu.ErrCount.Error())
		return
	}

	words, perr := emu.Cpu.Memory.Dump(int(values[0]))
	if perr != nil {
		con.println(cpu.ErrCount.Error())
		return
	}

	con.printf("Accumulator: 0x%x\n", uint16(emu.Cpu.Ac))
	con.println(SEPARATOR)
	for addr, value := range words {
		con.printf("0x%x: 0x%x\n", addr, value)
	}

	return
}

func (con *Console) doRegs(arg string) (err error) {
	io.WriteString(con.Output, con.Emulator.Cpu.String())
	return
}

func (con *Console) doReset(arg string) (err error) {
	con.Emulator.Verbose = con.Verbose
	con.Emulator.Reset()
	return
}

func (con *Console) doClear(arg string) (err error) {
	con.Emulator.Verbose = con.Verbose
	con.Emulator.Clear()
	return
}

func (con *Console) doHelp(arg string) (err error) {
	for _, cmd := range commands {
		usage := strings.TrimSpace(cmd.Name + " " + cmd.Usage)
		con.printf("%-20s %v\n", usage, f(cmd.Help))
	}
	con.println(f("numbers: 42, 0x2a, 0o52, 0b101010, or $(expression)"))

	return
}

func (con *Console) doExit(arg string) (err error) {
	return ErrExit
}
