package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/graphc/internal/cli/config"
	"github.com/conduit-lang/graphc/internal/cli/ui"
	"github.com/conduit-lang/graphc/internal/compiler/codegen"
	"github.com/conduit-lang/graphc/internal/compiler/errors"
	"github.com/conduit-lang/graphc/internal/compiler/pipeline"
	"github.com/conduit-lang/graphc/internal/project"
	"github.com/conduit-lang/graphc/internal/utils"
	"github.com/conduit-lang/graphc/internal/watch"
)

// Diagnostic output formats
const (
	formatText    = "text"
	formatCompact = "compact"
	formatJSON    = "json"
	formatLSP     = "lsp"
)

var diagnosticFormats = []string{formatText, formatCompact, formatJSON, formatLSP}

// humanReadable reports whether format is meant for a terminal rather than
// for tooling.
func humanReadable(format string) bool {
	return format == formatText || format == formatCompact
}

var (
	compileJSON       bool
	compileFormat     string
	compilePrint      bool
	compileProjectDir string
	compileWorkers    int
	compileWatch      bool
)

// NewCompileCommand creates the compile command
func NewCompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile GraphQL documents into runtime artifacts",
		Long: `Compile every .graphql document under the configured src directory.

The compile process:
  1. Schema loading - server SDL plus client schema extensions
  2. Parsing and validation of all documents as one set
  3. Client edge transform - waterfall and compatibility checks, query splitting
  4. Data-driven dependency collection
  5. Artifact generation into the output directory

Documents with errors produce no artifacts. The command exits non-zero when
any document failed.`,
		Example: `  # Compile using graphc.yml found in the current directory or a parent
  graphc compile

  # Output diagnostics as JSON (useful for tooling)
  graphc compile --json

  # One line per diagnostic: file:line:col: severity: message [code]
  graphc compile --format compact

  # Output diagnostics as LSP diagnostics grouped by document URI
  graphc compile --format lsp

  # Print artifacts instead of writing them
  graphc compile --print

  # Log each document while compiling with 4 workers
  graphc compile -v --workers 4

  # Recompile on every change until interrupted
  graphc compile --watch`,
		RunE: runCompile,
	}

	cmd.Flags().BoolVar(&compileJSON, "json", false, "Output diagnostics in JSON format (same as --format json)")
	cmd.Flags().StringVar(&compileFormat, "format", formatText, "Diagnostics format: text, compact, json or lsp")
	cmd.Flags().BoolVar(&compilePrint, "print", false, "Print artifacts to stdout instead of writing them")
	cmd.Flags().StringVarP(&compileProjectDir, "project", "p", "", "Project directory (default: nearest directory with graphc.yml)")
	cmd.Flags().BoolVarP(&compileWatch, "watch", "w", false, "Recompile when documents, schema files or graphc.yml change")
	cmd.Flags().IntVar(&compileWorkers, "workers", 0, "Number of parallel workers (default: from config, or number of CPUs)")

	return cmd
}

func runCompile(cmd *cobra.Command, args []string) error {
	errOut := cmd.ErrOrStderr()

	format := compileFormat
	if compileJSON {
		format = formatJSON
	}
	if !slices.Contains(diagnosticFormats, format) {
		fmt.Fprint(errOut, ui.ConfigError(
			fmt.Sprintf("unknown diagnostics format '%s'", format),
			ui.FindSimilar(format, diagnosticFormats, 0),
			color.NoColor,
		))
		return fmt.Errorf("unknown diagnostics format %q", format)
	}

	root, err := projectRoot()
	if err != nil {
		return err
	}

	logger := newLogger()
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if compileWatch {
		return watchProject(ctx, cmd, root, format, logger)
	}
	return compileProject(ctx, cmd, root, format, logger)
}

// compileProject runs one compilation of the project at root
func compileProject(ctx context.Context, cmd *cobra.Command, root, format string, logger *zap.Logger) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	cfg, err := config.Load(root)
	if err != nil {
		fmt.Fprint(errOut, ui.ConfigError(err.Error(), nil, color.NoColor))
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = compileWorkers
	}

	proj, err := project.New(cfg)
	if err != nil {
		return err
	}

	sources, err := proj.Documents()
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no %s documents found in %s", utils.DocumentExt, cfg.Src)
	}
	logger.Debug("loaded documents", zap.Int("sources", len(sources)), zap.String("root", cfg.Root))

	report, diags, err := proj.Build(ctx, sources, logger)
	if err != nil {
		return fmt.Errorf("compilation interrupted: %w", err)
	}
	if report == nil {
		if err := writeDiagnostics(out, proj, diags, format); err != nil {
			return err
		}
		return compileFailed(errOut, diags, format, "Documents must parse and validate before any artifact is generated.")
	}

	var written, unchanged int
	if compilePrint {
		printArtifacts(out, report.Artifacts())
	} else {
		written, unchanged, err = writeArtifacts(errOut, cfg.Path(cfg.Output), report.Artifacts())
		if err != nil {
			return err
		}
	}

	if len(diags) > 0 || !humanReadable(format) {
		if err := writeDiagnostics(out, proj, diags, format); err != nil {
			return err
		}
	}

	if verbose && humanReadable(format) {
		writeSummary(out, report)
	}

	if report.HasErrors() {
		return compileFailed(errOut, diags, format, "No artifacts were generated for the failing documents.")
	}

	if humanReadable(format) && !compilePrint {
		ui.WriteSuccess(out, fmt.Sprintf("Compiled %d document(s): %d artifact(s) written, %d unchanged (%s)",
			len(report.Documents), written, unchanged, time.Since(startTime).Round(time.Millisecond)), color.NoColor)
	}
	return nil
}

func projectRoot() (string, error) {
	if compileProjectDir != "" {
		return filepath.Abs(compileProjectDir)
	}
	if root, err := config.GetProjectRoot(); err == nil {
		return root, nil
	}
	return os.Getwd()
}

// writeArtifacts writes printed artifacts into dir. Files whose content would
// not change are left alone. Hand-edited artifacts are overwritten with a
// warning.
func writeArtifacts(warnOut io.Writer, dir string, artifacts []*codegen.Artifact) (written, unchanged int, err error) {
	if len(artifacts) == 0 {
		return 0, 0, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	printer := codegen.NewPrinter()
	hasher := codegen.NewHasher()

	for _, a := range artifacts {
		text := printer.Print(a)
		path := filepath.Join(dir, a.FileName)

		if sum, err := hasher.HashFile(path); err == nil {
			if sum == hasher.HashString(text) {
				unchanged++
				continue
			}
			if content, err := os.ReadFile(path); err == nil && !printer.Verify(string(content)) {
				fmt.Fprint(warnOut, ui.Warning(fmt.Sprintf("%s was edited by hand and will be overwritten", path), nil, color.NoColor))
			}
		}

		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			return written, unchanged, fmt.Errorf("failed to write %s: %w", path, err)
		}
		written++
	}
	return written, unchanged, nil
}

func printArtifacts(w io.Writer, artifacts []*codegen.Artifact) {
	printer := codegen.NewPrinter()
	header := color.New(color.FgCyan, color.Bold)
	for _, a := range artifacts {
		header.Fprintf(w, "// %s\n", a.FileName)
		fmt.Fprintln(w, printer.Print(a))
	}
}

// writeDiagnostics renders diagnostics in the requested format.
func writeDiagnostics(w io.Writer, proj *project.Project, diags errors.ErrorList, format string) error {
	switch format {
	case formatJSON:
		if diags == nil {
			diags = errors.ErrorList{}
		}
		text, err := diags.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to encode diagnostics: %w", err)
		}
		fmt.Fprintln(w, text)
	case formatLSP:
		bytes, err := json.MarshalIndent(errors.ToProtocolDiagnostics(proj.Absolute(diags)), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode diagnostics: %w", err)
		}
		fmt.Fprintln(w, string(bytes))
	case formatCompact:
		for _, d := range diags {
			fmt.Fprintln(w, errors.FormatCompact(d))
		}
	default:
		errorColor := color.New(color.FgRed)
		for i, d := range diags {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if d.Severity == errors.SeverityError {
				errorColor.Fprint(w, d.Format())
			} else {
				fmt.Fprint(w, d.Format())
			}
		}
	}
	return nil
}

func writeSummary(w io.Writer, report *pipeline.Report) {
	fmt.Fprintln(w)
	table := ui.NewTable(w, color.NoColor, "Document", "File", "Queries", "Artifacts", "Status")
	for _, doc := range report.Documents {
		status := "ok"
		switch {
		case !doc.Compilable():
			status = "failed"
		case !doc.Eligible:
			status = "skipped client edges"
		}
		table.AddRow(doc.Name, doc.File, strconv.Itoa(len(doc.Queries)), strconv.Itoa(len(doc.Artifacts)), status)
	}
	table.Render()

	m := report.Metrics
	fmt.Fprintln(w)
	ui.Header(w, "Compilation metrics", color.NoColor)
	kv := ui.NewKeyValueTable(w, color.NoColor)
	kv.AddRow("Documents", strconv.Itoa(m.TotalDocuments))
	kv.AddRow("Client edge documents", strconv.Itoa(m.EligibleDocuments))
	kv.AddRow("Synthetic queries", strconv.Itoa(m.SyntheticQueries))
	kv.AddRow("Artifacts", strconv.Itoa(m.Artifacts))
	kv.AddRow("Failed documents", strconv.Itoa(m.FailedDocuments))
	kv.AddRow("Transform", m.TransformDuration.String())
	kv.AddRow("Codegen", m.CodegenDuration.String())
	kv.Render()
	fmt.Fprintln(w)
}

// compileFailed reports a failed compilation. Internal diagnostics signal
// compiler defects and are reported apart from mistakes in the documents.
func compileFailed(w io.Writer, diags errors.ErrorList, format, consequence string) error {
	errCount, _, _ := diags.ErrorCount()
	var internal errors.ErrorList
	for _, d := range diags {
		if d.IsInternal() {
			internal = append(internal, d)
		}
	}

	if humanReadable(format) {
		fmt.Fprint(w, ui.CompileError(fmt.Sprintf("%d error(s) found (%s)", errCount, countByCode(diags)), consequence, color.NoColor))
		if len(internal) > 0 {
			ui.WriteError(w, ui.ErrorOptions{
				Level:       ui.ErrorLevelError,
				Context:     "INTERNAL COMPILER ERROR",
				Problem:     fmt.Sprintf("%d error(s) are compiler defects, not problems in your documents", len(internal)),
				Consequence: "Please report them together with the failing documents.",
				HelpCommands: []string{
					"Machine-readable diagnostics: graphc compile --json",
				},
				NoColor: color.NoColor,
			})
		}
	}

	if len(internal) > 0 {
		return fmt.Errorf("compilation failed with %d error(s), %d internal", errCount, len(internal))
	}
	return fmt.Errorf("compilation failed with %d error(s)", errCount)
}

// countByCode summarizes error diagnostics per code, e.g. "EDG100 x2, SYN001 x1".
func countByCode(diags errors.ErrorList) string {
	var parts []string
	seen := make(map[errors.ErrorCode]bool)
	for _, d := range diags {
		if d.Severity != errors.SeverityError || seen[d.Code] {
			continue
		}
		seen[d.Code] = true
		parts = append(parts, fmt.Sprintf("%s x%d", d.Code, len(diags.ByCode(d.Code))))
	}
	slices.Sort(parts)
	return strings.Join(parts, ", ")
}

// watchPatterns lists the files whose changes trigger a recompilation
var watchPatterns = []string{"**/*" + utils.DocumentExt, config.FileName + ".*"}

// watchProject compiles the project, then recompiles it whenever a watched
// file changes until ctx is cancelled. Compilation errors are reported and
// do not stop the watch. Text diagnostics are printed compactly so that each
// rebuild stays short.
func watchProject(ctx context.Context, cmd *cobra.Command, root, format string, logger *zap.Logger) error {
	errOut := cmd.ErrOrStderr()
	errorColor := color.New(color.FgRed, color.Bold)
	if format == formatText {
		format = formatCompact
	}

	rebuild := func() {
		if err := compileProject(ctx, cmd, root, format, logger); err != nil {
			errorColor.Fprintf(errOut, "Error: %v\n", err)
		}
	}

	cfg, err := config.Load(root)
	if err != nil {
		fmt.Fprint(errOut, ui.ConfigError(err.Error(), nil, color.NoColor))
		return err
	}

	changes := make(chan []string, 1)
	watcher, err := watch.NewFileWatcher(root, watch.Options{
		Patterns: watchPatterns,
		Ignored:  cfg.Exclude,
		Logger:   logger,
	}, func(files []string) error {
		select {
		case changes <- files:
		default:
			// A rebuild is already pending and rereads every file.
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	rebuild()
	color.New(color.FgCyan).Fprintln(cmd.OutOrStdout(), "Watching for changes (Ctrl+C to stop)")

	for {
		select {
		case <-ctx.Done():
			return nil
		case files := <-changes:
			color.New(color.FgCyan).Fprintf(cmd.OutOrStdout(), "\nChanged: %s\n", strings.Join(files, ", "))
			rebuild()
		}
	}
}
