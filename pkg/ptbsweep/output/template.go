package output

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"sync"
	"text/template"

	"github.com/dustin/go-humanize"
	"github.com/multivarm/ptbsweep/pkg/ptbsweep/plan"
)

// TemplateFormatter formats output using a custom Go text/template.
// The template is executed once per run and every result ends up on its
// own line.
type TemplateFormatter struct {
	templateStr string
	mu          sync.Mutex
}

// templateData is the data passed to the template for each run.
type templateData struct {
	plan.Run

	// Executable is the simulation binary path.
	Executable string

	// Args are the positional arguments, already formatted.
	Args []string

	// Total is the number of runs being written.
	Total int
}

// NewTemplateFormatter creates a new template formatter with the given template string.
func NewTemplateFormatter(templateStr string) *TemplateFormatter {
	return &TemplateFormatter{
		templateStr: templateStr,
	}
}

// SetTemplate sets or updates the template string.
func (f *TemplateFormatter) SetTemplate(templateStr string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templateStr = templateStr
}

// templateFuncs returns the custom template functions bound to a float style.
func templateFuncs(style FloatStyle) template.FuncMap {
	return template.FuncMap{
		// num formats a value in the active float style.
		// Usage: {{num .Rate1}}
		"num": func(v float64) string {
			return FormatFloat(v, style)
		},

		// args returns the formatted positional arguments of a run.
		// Usage: {{join (args .Run) ","}}
		"args": func(r plan.Run) []string {
			return FormatArgs(r, style)
		},

		// join joins strings with a separator.
		// Usage: {{join .Args " "}}
		"join": func(parts []string, sep string) string {
			return strings.Join(parts, sep)
		},

		// comma formats an integer with thousands separators.
		// Usage: {{comma .Total}}
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
	}
}

// Format writes the formatted output to w.
func (f *TemplateFormatter) Format(w io.Writer, p *plan.Plan, opts Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tmpl, err := template.New("output").Funcs(templateFuncs(opts.FloatStyle)).Parse(f.templateStr)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	total := opts.Count(p)
	var line bytes.Buffer
	for r := range opts.Runs(p) {
		line.Reset()
		data := templateData{
			Run:        r,
			Executable: p.Executable(),
			Args:       FormatArgs(r, opts.FloatStyle),
			Total:      total,
		}
		if err := tmpl.Execute(&line, data); err != nil {
			return err
		}
		if !bytes.HasSuffix(line.Bytes(), []byte("\n")) {
			line.WriteByte('\n')
		}
		if _, err := bw.Write(line.Bytes()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// DefaultTemplate is the template used when no custom template is provided.
// It writes the bare command line of every run.
const DefaultTemplate = `{{.Executable}} {{join .Args " "}}`

func init() {
	Register("template", func() Formatter {
		return NewTemplateFormatter(DefaultTemplate)
	})
}

// Ensure TemplateFormatter implements Formatter.
var _ Formatter = (*TemplateFormatter)(nil)
