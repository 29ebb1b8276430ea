package present

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/mithrel/ideaval/internal/present/format"
	"github.com/mithrel/ideaval/internal/present/tui"
	"github.com/mithrel/ideaval/internal/report"
	"github.com/mithrel/ideaval/internal/session"
	"github.com/mithrel/ideaval/pkg/api"
)

type Mode int

const (
	ModeTUI Mode = iota
	ModePretty
	ModePlain
	ModeJSON
	ModeYAML
	ModeNDJSON
	ModeStyled
)

var modeNames = map[Mode]string{
	ModeTUI:    "tui",
	ModePretty: "pretty",
	ModePlain:  "plain",
	ModeJSON:   "json",
	ModeYAML:   "yaml",
	ModeNDJSON: "ndjson",
	ModeStyled: "styled",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ModeNames lists the accepted --output values, for completion.
func ModeNames() []string {
	return []string{"tui", "styled", "pretty", "plain", "json", "yaml", "ndjson"}
}

var ErrNoSession = errors.New("tui output needs a session")

type Options struct {
	Mode         Mode
	JSONIndent   bool
	Headers      bool
	GlamourStyle string
	Width        int
	// Section limits report output to one section; empty means all six.
	Section report.SectionID
	// Notice is printed alongside the report, e.g. the fallback advisory.
	Notice  string
	Session *session.Store
	Log     *zap.Logger
}

// ParseMode parses a string like "tui", "styled", "pretty", "plain", "json", "yaml", "ndjson".
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tui":
		return ModeTUI, true
	case "styled":
		return ModeStyled, true
	case "pretty":
		return ModePretty, true
	case "plain":
		return ModePlain, true
	case "json":
		return ModeJSON, true
	case "yaml", "yml":
		return ModeYAML, true
	case "ndjson":
		return ModeNDJSON, true
	default:
		return ModeTUI, false
	}
}

// DetectWidth returns configured when positive, the terminal width when w
// is a terminal, and 80 otherwise.
func DetectWidth(w io.Writer, configured int) int {
	if configured > 0 {
		return configured
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	return 80
}

func sectionsFor(res api.ValidationResult, id report.SectionID) []report.Content {
	if id == "" {
		return report.All(res)
	}
	return []report.Content{report.ContentFor(res, id)}
}

// RenderResult renders a validation report according to options. ModeTUI
// opens the interactive results view on the session.
func RenderResult(ctx context.Context, w io.Writer, res api.ValidationResult, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONResult(w, res, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteJSONResult(w, res, false)
	case ModeYAML:
		return format.WriteYAMLResult(w, res)
	case ModePlain:
		return format.WritePlainResult(w, res, opts.Notice, sectionsFor(res, opts.Section))
	case ModeStyled:
		return format.WriteStyledResult(w, res, opts.Notice, sectionsFor(res, opts.Section), DetectWidth(w, opts.Width))
	case ModePretty:
		return format.WritePrettyResult(w, res, opts.Notice, sectionsFor(res, opts.Section), format.PrettyOptions{
			Style: opts.GlamourStyle,
			Width: DetectWidth(w, opts.Width),
		})
	case ModeTUI:
		if opts.Session == nil {
			return ErrNoSession
		}
		if opts.Section != "" {
			if err := opts.Session.SetActiveSection(ctx, opts.Section); err != nil {
				return err
			}
		}
		return tui.Run(ctx, tui.Options{Session: opts.Session, Log: opts.Log})
	default:
		return format.WritePlainResult(w, res, opts.Notice, sectionsFor(res, opts.Section))
	}
}

// RenderReports renders a history listing according to options.
func RenderReports(ctx context.Context, w io.Writer, reps []api.Report, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONReports(w, reps, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONReports(w, reps)
	case ModeYAML:
		return format.WriteYAMLReports(w, reps)
	default:
		// A listing has no interactive or styled form; tui, styled and pretty use the table.
		return format.WritePlainReports(w, reps, opts.Headers)
	}
}

// RenderReport renders one history record. Structured modes keep the record
// envelope; the others render its result.
func RenderReport(ctx context.Context, w io.Writer, rep api.Report, opts Options) error {
	if rep.Fallback && opts.Notice == "" {
		opts.Notice = session.FallbackMessage
	}
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONReport(w, rep, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteJSONReport(w, rep, false)
	case ModeYAML:
		return format.WriteYAMLReport(w, rep)
	case ModeTUI:
		if opts.Session == nil {
			return ErrNoSession
		}
		opts.Session.Show(ctx, rep.Result, opts.Notice)
		return RenderResult(ctx, w, rep.Result, opts)
	default:
		return RenderResult(ctx, w, rep.Result, opts)
	}
}
