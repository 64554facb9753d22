package journal

import (
	"bytes"
	"io"
	"os"
	"text/template"
	"time"
)

// RunSummary describes a finished hedge run.
type RunSummary struct {
	RunID   string
	Created time.Time

	// First and last observation times.
	Start time.Time
	End   time.Time

	Steps  int
	Trades int

	InitialPV   float64
	FinalPV     float64
	MaxAbsDelta float64 // worst post-hedge delta
	MinPrice    float64
	MaxPrice    float64

	// Consolidated holdings at End, one line per asset.
	Holdings []string
	Notes    []string
}

// PnL is the change in portfolio value over the run.
func (r RunSummary) PnL() float64 { return r.FinalPV - r.InitialPV }

var runOrgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var runOrgTemplate = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

// WriteOrg renders the summary as an org-mode entry.
func (r RunSummary) WriteOrg(w io.Writer) error {
	return runOrgTemplate.Execute(w, r)
}

// WriteOrgFile renders the summary to path.
func (r RunSummary) WriteOrgFile(path string) error {
	buf := new(bytes.Buffer)
	if err := r.WriteOrg(buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

const RunOrgTemplate = `
* HEDGE RUN: {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:PROPERTIES:
:RUN_ID:        {{.RunID}}
:START_DATE:    {{.Start.Format "2006-01-02"}}
:END_DATE:      {{.End.Format "2006-01-02"}}
:STEPS:         {{.Steps}}
:TRADES:        {{.Trades}}
:INITIAL_PV:    {{printf "%.6f" .InitialPV}}
:FINAL_PV:      {{printf "%.6f" .FinalPV}}
:PNL:           {{printf "%.6f" .PnL}}
:MAX_ABS_DELTA: {{printf "%.3g" .MaxAbsDelta}}
:CREATED:       [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Underlying
| Min price | Max price |
|-----------+-----------|
| {{printf "%.6f" .MinPrice}} | {{printf "%.6f" .MaxPrice}} |

** Holdings
{{- if .Holdings }}
{{- range .Holdings }}
- {{.}}
{{- end }}
{{- else }}
- (none)
{{- end }}

{{- if .Notes }}
** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
