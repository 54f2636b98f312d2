package commands

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start a session that authenticates once and runs several commands",
		Long: `Start an interactive session: Google clients and the database are opened once
and reused by every command typed at the prompt.

Type 'help' to list commands, 'exit' or 'quit' to leave.`,
		Args:        cobra.NoArgs,
		Annotations: googleCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSession(cmd.Parent(), cmd.OutOrStdout())

			fmt.Fprintln(s.out, "\nRota session started. Type 'help' for commands, 'exit' to leave.")

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for app.Ctx.Err() == nil {
				fmt.Fprint(s.out, "> ")
				if !scanner.Scan() {
					break
				}
				if !s.dispatch(scanner.Text()) {
					return nil
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}
			return nil
		},
	}
}

// session dispatches typed lines to the root command's children
type session struct {
	commands map[string]*cobra.Command
	out      io.Writer
}

func newSession(root *cobra.Command, out io.Writer) *session {
	commands := make(map[string]*cobra.Command)
	for _, sub := range root.Commands() {
		switch sub.Name() {
		case "interactive", "completion", "help", "serve":
			continue
		}
		commands[sub.Name()] = sub
	}
	return &session{commands: commands, out: out}
}

// dispatch runs one line and reports whether the session should continue
func (s *session) dispatch(line string) bool {
	parts, err := splitArgs(line)
	if err != nil {
		fmt.Fprintf(s.out, "❌ Error parsing command: %v\n\n", err)
		return true
	}
	if len(parts) == 0 {
		return true
	}

	name, args := parts[0], parts[1:]
	switch name {
	case "exit", "quit":
		fmt.Fprintln(s.out, "Bye.")
		return false
	case "help":
		s.printHelp()
		return true
	}

	target, ok := s.commands[name]
	if !ok {
		fmt.Fprintf(s.out, "❌ Unknown command: %s (type 'help' for available commands)\n\n", name)
		return true
	}

	if err := s.run(target, args); err != nil {
		fmt.Fprintf(s.out, "❌ Error: %v\n\n", err)
	}
	return true
}

// run calls RunE directly so PersistentPreRunE (and with it initApp) is not repeated.
// Flags keep their values between invocations unless reset first.
func (s *session) run(target *cobra.Command, args []string) error {
	target.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		_ = flag.Value.Set(flag.DefValue)
	})

	if err := target.ParseFlags(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}
	args = target.Flags().Args()

	if target.Args != nil {
		if err := target.Args(target, args); err != nil {
			return err
		}
	}

	if target.RunE != nil {
		return target.RunE(target, args)
	}
	if target.Run != nil {
		target.Run(target, args)
	}
	return nil
}

func (s *session) printHelp() {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Fprintln(s.out, "\nAvailable commands:")
	for _, name := range names {
		cmd := s.commands[name]
		fmt.Fprintf(s.out, "  %-40s %s\n", cmd.Use, cmd.Short)
	}
	fmt.Fprintf(s.out, "\n  %-40s %s\n", "help", "Show this help message")
	fmt.Fprintf(s.out, "  %-40s %s\n\n", "exit, quit", "Leave the session")
}

// splitArgs splits a line on whitespace. Single or double quotes group words,
// so employee names with spaces can be passed as one argument.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		started bool
	)

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			started = true
		case unicode.IsSpace(r):
			if started {
				args = append(args, current.String())
				current.Reset()
				started = false
			}
		default:
			current.WriteRune(r)
			started = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unclosed quote: %c", quote)
	}
	if started {
		args = append(args, current.String())
	}
	return args, nil
}
