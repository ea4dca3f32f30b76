package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsonedit/internal/coerce"
	"github.com/mcncl/jsonedit/internal/config"
	"github.com/mcncl/jsonedit/internal/editor"
	"github.com/mcncl/jsonedit/internal/errors"
	"github.com/mcncl/jsonedit/internal/formatter"
	"github.com/mcncl/jsonedit/internal/keyname"
	"github.com/mcncl/jsonedit/internal/logging"
	"github.com/mcncl/jsonedit/internal/mutator"
	"github.com/mcncl/jsonedit/internal/parser"
	"github.com/mcncl/jsonedit/internal/patch"
	"github.com/mcncl/jsonedit/internal/path"
	"github.com/mcncl/jsonedit/internal/snapshot"
	"github.com/mcncl/jsonedit/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// CLI defines the command-line interface
type CLI struct {
	Config         string           `help:"Path to config file. Defaults to the nearest .jsonedit.yml." type:"path"`
	Debug          bool             `help:"Enable debug logging." short:"d"`
	Format         string           `help:"Output format for inspect: json or yaml." short:"f"`
	Indent         int              `help:"Indent width, 0 for compact JSON." default:"-1"`
	StrictNumbers  bool             `help:"Reject number input that does not parse instead of storing 0."`
	RenamePosition string           `help:"Where a renamed key goes: end or preserve."`
	Version        kong.VersionFlag `help:"Show version information." short:"v"`

	Inspect  InspectCmd  `cmd:"" help:"Show the node at a JSON path."`
	Set      SetCmd      `cmd:"" help:"Set the scalar field at a JSON path."`
	CheckKey CheckKeyCmd `cmd:"" name:"check-key" help:"Check that a key is a valid identifier."`
	Patch    PatchCmd    `cmd:"" help:"Apply an RFC 6902 JSON Patch to a document."`
}

// Context holds the runtime context
type Context struct {
	Ctx    context.Context
	Config *config.Config
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// InspectCmd prints one node.
type InspectCmd struct {
	Path  string `arg:"" optional:"" help:"JSON path of the node, e.g. .users[0]. Defaults to the root."`
	Input string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
}

func (c *InspectCmd) Run(ctx *Context) error {
	text, err := readInput(ctx, c.Input)
	if err != nil {
		return err
	}
	ir, err := parser.ParseString(text)
	if err != nil {
		return err
	}
	p, err := parsePath(c.Path)
	if err != nil {
		return err
	}
	snap, err := snapshot.Build(ir.Root, p)
	if err != nil {
		return err
	}

	f, err := ctx.Config.Formatter()
	if err != nil {
		return err
	}
	out, err := f.Format(snap.Normalized())
	if err != nil {
		return errors.NewOutputError("failed to format node", err)
	}
	_, err = fmt.Fprintf(ctx.Stdout, "%s\n%s", snap.JSONPath(), out)
	return err
}

// SetCmd runs one editor session against a file.
type SetCmd struct {
	Path      string `arg:"" help:"JSON path of the scalar field, e.g. .users[0].name."`
	Value     string `arg:"" optional:"" help:"New value. Ignored for --type null."`
	Input     string `help:"Path to input JSON file." short:"i" type:"path" required:""`
	Type      string `help:"Value type: string, number, boolean or null. Defaults to the field's current type." short:"t"`
	Rename    string `help:"New key for the field."`
	Output    string `help:"Write the document to this file instead of stdout." short:"o" type:"path" xor:"dest"`
	InPlace   bool   `help:"Write the document back to the input file." xor:"dest"`
	Diff      bool   `help:"Print a unified diff of the change."`
	EmitPatch bool   `help:"Print the change as an RFC 6902 JSON Patch."`
}

func (c *SetCmd) Run(ctx *Context) error {
	logger := logging.FromContext(ctx.Ctx)

	doc, err := store.LoadFile(c.Input)
	if err != nil {
		return err
	}
	ir, err := parser.ParseString(doc.Text())
	if err != nil {
		return err
	}
	p, err := parsePath(c.Path)
	if err != nil {
		return err
	}
	snap, row, err := snapshot.ForField(ir.Root, p)
	if err != nil {
		return err
	}

	docFormatter, err := ctx.Config.DocumentFormatter()
	if err != nil {
		return err
	}
	before, err := docFormatter.Format(ir.Root)
	if err != nil {
		return errors.NewOutputError("failed to format document", err)
	}

	session := editor.NewSession(doc, &store.MemorySelection{}, &store.MemoryVisibility{}, editor.Options{
		Mutator:   mutator.New(ctx.Config.MutatorOptions()),
		Coercer:   ctx.Config.Coercer(),
		Formatter: docFormatter,
		Logger:    logger,
	})
	if err := session.Open(snap); err != nil {
		return err
	}
	if err := session.BeginEdit(row); err != nil {
		return err
	}

	req := editor.SaveRequest{Key: snap.Rows[row].Key, Value: c.Value}
	if c.Rename != "" {
		req.Key = c.Rename
	}
	if c.Type != "" {
		if req.Type, err = coerce.ParseType(c.Type); err != nil {
			return err
		}
	}

	res, err := session.Save(ctx.Ctx, req)
	if err != nil {
		return err
	}

	switch {
	case c.InPlace:
		if err := doc.Flush(""); err != nil {
			return err
		}
		logger.Info("document updated", "file", doc.Path())
	case c.Output != "":
		if err := doc.Flush(c.Output); err != nil {
			return err
		}
		logger.Info("document written", "file", c.Output)
	case !c.Diff && !c.EmitPatch:
		if _, err := io.WriteString(ctx.Stdout, res.Text); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
	}

	if c.Diff {
		diff, err := formatter.Diff(before, res.Text, c.Input, c.Input)
		if err != nil {
			return errors.NewOutputError("failed to diff document", err)
		}
		if _, err := io.WriteString(ctx.Stdout, diff); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
	}
	if c.EmitPatch {
		if _, err := fmt.Fprintf(ctx.Stdout, "%s\n", res.Patch); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
	}
	return nil
}

// CheckKeyCmd validates a proposed key.
type CheckKeyCmd struct {
	Key string `arg:"" help:"Proposed key."`
}

func (c *CheckKeyCmd) Run(ctx *Context) error {
	key, err := keyname.Validate(c.Key)
	if err != nil {
		if suggestion, ok := keyname.Suggest(c.Key); ok {
			fmt.Fprintf(ctx.Stderr, "Suggestion: %s\n", suggestion)
		}
		return err
	}
	_, err = fmt.Fprintln(ctx.Stdout, key)
	return err
}

// PatchCmd applies a JSON Patch file.
type PatchCmd struct {
	Input   string `help:"Path to input JSON file." short:"i" type:"path" required:""`
	Ops     string `help:"Path to the JSON Patch file." type:"path" required:""`
	Output  string `help:"Write the document to this file instead of stdout." short:"o" type:"path" xor:"dest"`
	InPlace bool   `help:"Write the document back to the input file." xor:"dest"`
}

func (c *PatchCmd) Run(ctx *Context) error {
	logger := logging.FromContext(ctx.Ctx)

	doc, err := store.LoadFile(c.Input)
	if err != nil {
		return err
	}
	ops, err := parser.ReadFile(c.Ops)
	if err != nil {
		return err
	}
	p, err := patch.Decode(ops)
	if err != nil {
		return err
	}
	out, err := patch.Apply([]byte(doc.Text()), p, ctx.Config.Output.Indent)
	if err != nil {
		return err
	}
	doc.SetText(string(out), true)
	logger.Debug("patch applied", "operations", len(p))

	switch {
	case c.InPlace:
		return doc.Flush("")
	case c.Output != "":
		return doc.Flush(c.Output)
	}
	_, err = fmt.Fprintln(ctx.Stdout, strings.TrimRight(doc.Text(), "\n"))
	return err
}

func parsePath(text string) (path.Path, error) {
	p, err := path.Parse(text)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("invalid path: %v", err), err)
	}
	return p, nil
}

// readInput reads the document from file or stdin
func readInput(ctx *Context, input string) (string, error) {
	if input != "" {
		data, err := parser.ReadFile(input)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	if f, ok := ctx.Stdin.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return "", errors.NewInputError("failed to access stdin", err)
		}
		if info.Mode()&os.ModeCharDevice != 0 {
			return "", errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, loads configuration and runs the selected command. It
// returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cli CLI
	exitCode := -1

	app, err := kong.New(&cli,
		kong.Name("jsonedit"),
		kong.Description("Inspect and edit single fields of JSON documents"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
		kong.Vars{"version": "jsonedit version " + Version},
	)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	kctx, err := app.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\nFor help, run: jsonedit --help\n", err)
		return 1
	}

	configPath := cli.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	overrides := config.CLIOverrides{
		Format:         cli.Format,
		RenamePosition: cli.RenamePosition,
		Debug:          cli.Debug,
	}
	if cli.Indent >= 0 {
		overrides.Indent = &cli.Indent
	}
	if cli.StrictNumbers {
		overrides.StrictNumbers = &cli.StrictNumbers
	}
	cfg, err := config.LoadConfigWithCLI(configPath, overrides)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}

	logger := logging.New(stderr, cfg.LogLevel())
	if configPath != "" {
		logger.Debug("loaded config", "file", configPath)
	}

	err = kctx.Run(&Context{
		Ctx:    logging.WithLogger(ctx, logger),
		Config: cfg,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	return 0
}
