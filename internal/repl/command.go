package repl

import (
	"errors"
	"fmt"
	"strings"
)

// User-facing parse errors with fixed wording.
var (
	ErrNoCommand      = errors.New("Enter a command - use help for a list of commands")
	ErrNoSubCommand   = errors.New("Sub-command needed!")
	ErrNoNewProject   = errors.New("New project name required!")
	ErrMultiWordName  = errors.New("Project names must be a single word!")
	ErrNoProjectName  = errors.New("Project name needed!")
	ErrNoActivity     = errors.New("New entry activity needed!")
	ErrNoExportFormat = errors.New("Export format needed (csv or json)!")
	ErrNoExportPath   = errors.New("Export path needed!")
)

// Command is one parsed input line. The set of variants is closed.
type Command interface {
	command()
}

type (
	AddProject struct{ Name string }
	AddTask    struct{ Project, Activity string }
	// List shows all projects, or the tasks of Project when it is set.
	List struct{ Project string }
	// Finish stops the first started task named Activity, or the most
	// recently started task when Activity is empty.
	Finish struct{ Project, Activity string }
	Report struct{}
	Save   struct{}
	Export struct{ Format, Path string }
	Board  struct{}
	Help   struct{}
	// QuitCommand ends the session. The loop saves before returning.
	QuitCommand struct{}
)

func (AddProject) command() {}
func (AddTask) command()    {}
func (List) command()       {}
func (Finish) command()     {}
func (Report) command()     {}
func (Save) command()       {}
func (Export) command()     {}
func (Board) command()      {}
func (Help) command()       {}

func (QuitCommand) command() {}

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Parse splits line on whitespace and builds the matching command.
// Activities and export paths take the rest of the line.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, ErrNoCommand
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "add":
		return parseAdd(args)
	case "list":
		if len(args) == 0 {
			return List{}, nil
		}
		return List{Project: args[0]}, nil
	case "finish":
		if len(args) == 0 {
			return nil, ErrNoProjectName
		}
		return Finish{Project: args[0], Activity: rest(args[1:])}, nil
	case "report":
		return Report{}, nil
	case "save":
		return Save{}, nil
	case "export":
		return parseExport(args)
	case "board":
		return Board{}, nil
	case "help":
		return Help{}, nil
	case "quit", "exit":
		return QuitCommand{}, nil
	}
	return nil, fmt.Errorf("Unknown command '%s'!", cmd)
}

func parseAdd(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, ErrNoSubCommand
	}
	switch sub, args := args[0], args[1:]; sub {
	case "project":
		switch len(args) {
		case 0:
			return nil, ErrNoNewProject
		case 1:
			return AddProject{Name: args[0]}, nil
		}
		return nil, ErrMultiWordName
	case "task":
		if len(args) == 0 {
			return nil, ErrNoProjectName
		}
		if len(args) == 1 {
			return nil, ErrNoActivity
		}
		return AddTask{Project: args[0], Activity: rest(args[1:])}, nil
	default:
		return nil, fmt.Errorf("Unknown sub-command '%s'!", sub)
	}
}

func parseExport(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, ErrNoExportFormat
	}
	format := strings.ToLower(args[0])
	if format != FormatCSV && format != FormatJSON {
		return nil, fmt.Errorf("Unknown export format '%s'!", args[0])
	}
	path := rest(args[1:])
	if path == "" {
		return nil, ErrNoExportPath
	}
	return Export{Format: format, Path: path}, nil
}

func rest(args []string) string {
	return strings.Join(args, " ")
}
