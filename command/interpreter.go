package command

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cwbudde/algo-ledviz/config"
	"github.com/cwbudde/algo-ledviz/effects"
)

//go:embed help/*.txt
var helpFS embed.FS

// Action tells the caller what to do after a command.
type Action int

const (
	// ActionNone keeps the engine running.
	ActionNone Action = iota
	// ActionQuit stops the engine and exits.
	ActionQuit
	// ActionReset stops the engine and starts a fresh one.
	ActionReset
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionQuit:
		return "quit"
	case ActionReset:
		return "reset"
	default:
		return "unknown"
	}
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) bool

// Interpreter executes command lines against a config.Store. Results and
// errors are written to its output; the options are never changed by a
// command that fails.
//
// Execute and Load are safe to call from different goroutines.
type Interpreter struct {
	mu       sync.Mutex
	store    *config.Store
	registry *effects.Registry
	out      io.Writer
	dir      string
	version  string
	confirm  ConfirmFunc
	log      zerolog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets where command output goes. Default os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithProfileDir sets the directory relative profile names resolve against.
func WithProfileDir(dir string) Option {
	return func(in *Interpreter) { in.dir = dir }
}

// WithVersion sets the string printed by the version command.
func WithVersion(v string) Option {
	return func(in *Interpreter) { in.version = v }
}

// WithConfirm sets the prompt used before overwriting a profile. Without it
// existing profiles are never overwritten.
func WithConfirm(fn ConfirmFunc) Option {
	return func(in *Interpreter) { in.confirm = fn }
}

// WithRegistry sets the registry used to validate effect names.
func WithRegistry(r *effects.Registry) Option {
	return func(in *Interpreter) {
		if r != nil {
			in.registry = r
		}
	}
}

// WithLogger sets the interpreter logger.
func WithLogger(log zerolog.Logger) Option {
	return func(in *Interpreter) { in.log = log }
}

// New returns an interpreter editing store.
func New(store *config.Store, opts ...Option) (*Interpreter, error) {
	if store == nil {
		return nil, errors.New("interpreter requires a store")
	}

	in := &Interpreter{
		store:    store,
		registry: effects.DefaultRegistry(),
		out:      os.Stdout,
		dir:      ".",
		version:  "dev",
		confirm:  func(string) bool { return false },
		log:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(in)
	}

	return in, nil
}

// Execute runs one command line.
func (in *Interpreter) Execute(line string) Action {
	in.mu.Lock()
	defer in.mu.Unlock()

	args := strings.Fields(line)
	if len(args) == 0 {
		return ActionNone
	}

	in.log.Debug().Strs("args", args).Msg("command")

	switch args[0] {
	case "quit", "exit":
		return ActionQuit
	case "reset":
		return ActionReset
	case "set":
		in.set(args[1:])
	case "save":
		in.save(args[1:])
	case "load":
		if len(args) < 2 {
			in.printf("load: must specify profile name\n")
			break
		}

		if err := in.load(args[1]); err != nil {
			in.printf("load: %v\n", err)
		}
	case "ls":
		in.list()
	case "help":
		in.help(args[1:])
	case "version":
		in.printf("ledviz v%s\n", in.version)
	case "show":
		opts := in.store.Snapshot()
		if err := WriteProfile(in.out, &opts); err != nil {
			in.log.Warn().Err(err).Msg("write options")
		}
	case "effects":
		in.effects()
	default:
		in.printf("%s is not a valid command\nType 'help' for a list of commands\n", args[0])
	}

	return ActionNone
}

// Load applies the named profile. Lines that fail are reported to the output
// and skipped; the profile is published as a single update.
func (in *Interpreter) Load(name string) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.load(name)
}

// ProfilePath resolves a profile name against the profile directory.
func (in *Interpreter) ProfilePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(in.dir, name)
}

func (in *Interpreter) printf(format string, args ...any) {
	fmt.Fprintf(in.out, format, args...)
}

func (in *Interpreter) set(args []string) {
	err := in.store.Update(func(o *config.Options) error {
		return applySet(o, args, in.registry)
	})
	if err != nil {
		in.printf("set: %v\n", err)
	}
}

func (in *Interpreter) load(name string) error {
	path := in.ProfilePath(name)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	in.printf("Loading profile %s...\n", name)

	var bad []*LineError

	err = in.store.Update(func(o *config.Options) error {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return err
		}

		var readErr error
		bad, readErr = ReadProfile(f, o, in.registry)

		return readErr
	})
	if err != nil {
		return err
	}

	for _, e := range bad {
		in.printf("load: %s: %v\n", name, e)
	}

	in.log.Info().Str("profile", path).Int("rejected", len(bad)).Msg("profile loaded")

	return nil
}

func (in *Interpreter) save(args []string) {
	if len(args) < 1 {
		in.printf("save: must specify profile name\n")
		return
	}

	name := args[0]
	path := in.ProfilePath(name)

	if _, err := os.Stat(path); err == nil {
		if !in.confirm(fmt.Sprintf("The profile %s already exists. Overwrite? [y/N]", name)) {
			in.printf("save: kept existing profile %s\n", name)
			return
		}
	}

	in.printf("Saving profile %s...\n", name)

	if err := in.writeProfile(path); err != nil {
		in.printf("save: %v\n", err)
	}
}

func (in *Interpreter) writeProfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	opts := in.store.Snapshot()
	if err := WriteProfile(f, &opts); err != nil {
		f.Close()
		return fmt.Errorf("write profile: %w", err)
	}

	return f.Close()
}

func (in *Interpreter) list() {
	entries, err := os.ReadDir(in.dir)
	if err != nil {
		in.printf("ls: %v\n", err)
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}

	sort.Strings(names)

	for _, n := range names {
		in.printf("%s\n", n)
	}
}

func (in *Interpreter) help(args []string) {
	file := "help/help.txt"
	if len(args) > 0 {
		file = "help/help_" + strings.ToLower(args[0]) + ".txt"
	}

	text, err := fs.ReadFile(helpFS, file)
	if err != nil {
		in.printf("No help available\n")
		return
	}

	in.printf("%s", text)
}

func (in *Interpreter) effects() {
	active := in.store.Snapshot().Effect

	for _, name := range in.registry.Names() {
		mark := " "
		if name == active {
			mark = "*"
		}

		in.printf("%s %s\n", mark, name)
	}
}
