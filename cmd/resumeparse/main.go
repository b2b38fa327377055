package main

// Parse a résumé PDF from the command line:
//   go run ./cmd/resumeparse [--config parser.yaml] [--format json|xlsx|sections] [--out path] [--featured skills.json] input.pdf

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	flag "github.com/spf13/pflag"

	"resume-parser/internal/extract"
	"resume-parser/resume/contract"
	"resume-parser/resume/export"
	"resume-parser/resume/model"
	"resume-parser/resume/parser"
	"resume-parser/resume/skills"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
	exitDecode = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath   string
	format       string
	out          string
	featuredPath string
	check        bool
	input        string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("resumeparse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.configPath, "config", "c", "", "YAML file overriding parser tunables")
	fs.StringVarP(&opts.format, "format", "f", "json", "output format: json, xlsx or sections")
	fs.StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	fs.StringVar(&opts.featuredPath, "featured", "", "JSON file with curated featured skills [{\"skill\":..,\"rating\":..}]")
	fs.BoolVar(&opts.check, "check", false, "fail when an extracted field does not occur in the document text")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: resumeparse [flags] input.pdf|-")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return options{}, errors.New("exactly one input is required")
	}
	opts.input = fs.Arg(0)
	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	switch opts.format {
	case "json", "xlsx", "sections":
	default:
		return options{}, fmt.Errorf("unknown format %q", opts.format)
	}
	if opts.format == "xlsx" && opts.out == "" {
		return options{}, errors.New("--format xlsx requires --out")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, "resumeparse:", err)
		return exitUsage
	}

	if err := execute(ctx, opts, stdin, stdout); err != nil {
		fmt.Fprintln(stderr, "resumeparse:", err)
		if parser.IsDecodeError(err) {
			return exitDecode
		}
		return exitFailed
	}
	return exitOK
}

func execute(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	cfg := parser.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := parser.LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	p, err := parser.New(cfg)
	if err != nil {
		return err
	}

	data, err := readInput(opts.input, stdin)
	if err != nil {
		return err
	}

	analysis, err := p.Inspect(ctx, data)
	if err != nil {
		return err
	}
	resume := analysis.Resume

	if opts.featuredPath != "" {
		featured, err := readFeatured(opts.featuredPath)
		if err != nil {
			return err
		}
		skills.ApplyFeatured(&resume, featured, skills.DefaultMaxFeatured)
	}

	if opts.check {
		items, err := extract.TextItems(ctx, data)
		if err != nil {
			return err
		}
		if err := contract.CheckTraceable(analysis.Resume, items); err != nil {
			return err
		}
	}

	var payload []byte
	switch opts.format {
	case "xlsx":
		payload, err = export.WorkbookXLSX(resume)
	case "sections":
		payload = []byte(outline(analysis))
	default:
		payload, err = json.MarshalIndent(resume, "", "  ")
		payload = append(payload, '\n')
	}
	if err != nil {
		return err
	}

	if opts.out == "" {
		_, err = stdout.Write(payload)
		return err
	}
	return os.WriteFile(opts.out, payload, 0o644)
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func readFeatured(path string) ([]model.FeaturedSkill, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var featured []model.FeaturedSkill
	if err := json.Unmarshal(raw, &featured); err != nil {
		return nil, fmt.Errorf("decode featured skills %s: %w", path, err)
	}
	return featured, nil
}

// outline renders each section with its lines, for tuning section detection.
func outline(a parser.Analysis) string {
	var b strings.Builder
	for _, sec := range a.Sections {
		name := sec.Name
		if name == "" {
			name = "(no heading)"
		}
		fmt.Fprintf(&b, "[%s] %s\n", sec.Kind, name)
		for _, line := range sec.Lines {
			fmt.Fprintf(&b, "    %s\n", line.Text())
		}
	}
	return b.String()
}
