// Package sh provides an interactive shell driving a module.
package sh

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rn487x.go/pkg/profile"
	"github.com/robotalks/rn487x.go/pkg/rn487x"
	"github.com/robotalks/rn487x.go/pkg/serial"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool

	Shell  *ishell.Shell
	Driver *rn487x.Driver
	Chars  profile.Characteristics
}

const shellKey = "$shell"

var (
	// flags

	evalOnly    bool
	profilePath string
	initialize  = true

	commands []*ishell.Cmd
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.StringVar(&profilePath, "profile", profilePath, "GATT profile applied after initialization.")
	flag.BoolVar(&initialize, "init", initialize, "Reset and reboot the module at start.")
}

// AddCmds registers commands, used during init.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(d *rn487x.Driver) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
		Driver:      d,
		Chars:       make(profile.Characteristics),
	}
	s.Shell.Set(shellKey, s)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	s.updatePrompt()
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

func (s *Shell) updatePrompt() {
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", s.Driver.Mode()))
}

// Characteristic finds a characteristic by profile key or by index.
func (s *Shell) Characteristic(arg string) (rn487x.Characteristic, error) {
	if c, ok := s.Chars[arg]; ok {
		return c, nil
	}
	index, err := strconv.Atoi(arg)
	if err != nil {
		return rn487x.Characteristic{}, fmt.Errorf("unknown characteristic %q", arg)
	}
	chars := s.Driver.Characteristics()
	if index < 0 || index >= len(chars) {
		return rn487x.Characteristic{}, fmt.Errorf("characteristic index %d out of range", index)
	}
	return chars[index], nil
}

// Names returns the profile keys sorted by characteristic index.
func (s *Shell) Names() []string {
	names := make([]string, 0, len(s.Chars))
	for name := range s.Chars {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return s.Chars[names[i]].Index < s.Chars[names[j]].Index
	})
	return names
}

// ApplyProfile programs a profile and remembers its characteristics.
func (s *Shell) ApplyProfile(path string) error {
	p, err := profile.Load(path)
	if err != nil {
		return err
	}
	chars, err := profile.Apply(s.Driver, p)
	for name, c := range chars {
		s.Chars[name] = c
	}
	return err
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if initialize {
		if err := s.Driver.Initialize(); err != nil {
			log.Fatalf("initialize failed: %v", err)
		}
		if profilePath != "" {
			if err := s.Driver.EnterCommandMode(); err != nil {
				log.Fatalf("enter command mode failed: %v", err)
			}
		}
	}
	if profilePath != "" {
		if err := s.ApplyProfile(profilePath); err != nil {
			log.Fatalf("apply profile %s failed: %v", profilePath, err)
		}
	}
	s.updatePrompt()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is a helper to provide a single call in main.
// serial.SetupFlags and rn487x.SetupFlags are expected to be called
// before.
func Main() {
	flag.Parse()

	conf := serial.Default()
	port, err := conf.Open()
	if err != nil {
		log.Fatalln(err)
	}
	defer port.Close()
	d := rn487x.DefaultOptions().NewDriver(port)
	if err := conf.Attach(port, d); err != nil {
		log.Fatalln(err)
	}
	New(d).Run(flag.Args()...)
}
