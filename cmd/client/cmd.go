package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

const defaultServerURL = "http://localhost:8080"

// newApp builds the root command. Global flags are applied to the runner
// before any subcommand runs.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "langhelper",
		Usage:   "Build a vocabulary, practise it and keep the browser extension in sync",
		Version: buildVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Usage:   "API server base URL",
				Value:   defaultServerURL,
				Sources: cli.EnvVars("LANGHELPER_URL"),
			},
			&cli.StringFlag{
				Name:    "session",
				Usage:   "Path to the session state file",
				Sources: cli.EnvVars("LANGHELPER_SESSION"),
			},
			&cli.StringFlag{
				Name:    "ca-file",
				Usage:   "CA certificate to trust for an HTTPS server (see tools/certgen)",
				Sources: cli.EnvVars("LANGHELPER_CA_FILE"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, r.configure(cmd.String("url"), cmd.String("session"), cmd.String("ca-file"))
		},
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		registerCommand, loginCommand, logoutCommand, settingsCommand,
		wordsCommand, addCommand, removeCommand, starCommand, syncCommand, importFileCommand,
		quizCommand, answerCommand, reviseCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "Account name (prompted when omitted)",
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "Account password (prompted when omitted)",
		},
	}
}

func registerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "register",
		Usage:  "Create an account and log in",
		Flags:  credentialFlags(),
		Action: r.Register,
	}
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Log in and import words saved by the browser extension",
		Flags:  credentialFlags(),
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "End the current session",
		Action: r.Logout,
	}
}

func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change the learning profile",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "native", Usage: "Language you already speak"},
			&cli.StringFlag{Name: "target", Usage: "Language you are learning"},
			&cli.StringFlag{Name: "proficiency", Usage: "Your level, e.g. Beginner"},
		},
		Action: r.Settings,
	}
}

func wordsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "words",
		Aliases: []string{"ls"},
		Usage:   "List your vocabulary",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "starred", Aliases: []string{"s"}, Usage: "Only starred words"},
		},
		Action: r.Words,
	}
}

func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a word",
		Arguments: []cli.Argument{&cli.StringArg{Name: "word"}},
		Action:    r.Add,
	}
}

func removeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "Remove a word",
		Arguments: []cli.Argument{&cli.StringArg{Name: "word"}},
		Action:    r.Remove,
	}
}

func starCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "star",
		Usage:     "Star or unstar a word for the quiz",
		Arguments: []cli.Argument{&cli.StringArg{Name: "word"}},
		Action:    r.Star,
	}
}

func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "sync",
		Usage:  "Import words saved through the browser extension",
		Action: r.Sync,
	}
}

func importFileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "import-file",
		Usage:     "Add every word of an .xlsx or .csv file",
		Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sheet", Usage: "Worksheet name (default: first sheet)"},
			&cli.IntFlag{Name: "column", Usage: "Zero-based column holding the words"},
			&cli.BoolFlag{Name: "skip-header", Usage: "Ignore the first row"},
		},
		Action: r.ImportFile,
	}
}

func quizCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "quiz",
		Usage:  "Get a question about one of your starred words",
		Action: r.Quiz,
	}
}

func answerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "answer",
		Usage:     "Answer the open quiz question",
		ArgsUsage: "[answer...]",
		Action:    r.Answer,
	}
}

func reviseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "revise",
		Usage:     "Get feedback on a piece of writing",
		ArgsUsage: "[text...]",
		Action:    r.Revise,
	}
}
