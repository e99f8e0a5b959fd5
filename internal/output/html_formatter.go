package output

import (
	"bytes"
	"html/template"

	"github.com/rpgo/retirement-runway/internal/domain"
)

// HTMLFormatter produces a self-contained HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

const htmlTemplateSource = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Retirement Runway Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: right; }
th { background: #f4f4f4; }
.RED { color: #b00020; }
.YELLOW { color: #a66b00; }
</style>
</head>
<body>
<h1>Retirement Runway Report</h1>
<p><strong>{{.Outlook}}</strong></p>
<h2>Summary</h2>
<ul>
{{- with .Result.Summary.ActiveStressScenario}}
<li>Stress scenario: {{.}}</li>
{{- end}}
<li>Survival: {{.Result.Summary.TotalSurvivalYears}} years ({{.Result.SurvivalMonths}} months)</li>
<li>Final net worth: {{curr .Result.Summary.FinalNetWorth}}</li>
<li>10% spending cut covers the horizon: {{.Result.Summary.InfiniteWith10PctCut}}</li>
{{- with .Result.Summary.GrowthSellStartDate}}
<li>First growth sale: {{.}}</li>
{{- end}}
{{- with .Result.Summary.BufferExhaustionDate}}
<li>Cash buffer exhausted: {{.}}</li>
{{- end}}
</ul>
{{- if .Result.Assumptions}}
<h2>Key Assumptions</h2>
<ul>
{{- range .Result.Assumptions}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
<h2>Signals</h2>
{{- if .Result.Summary.Signals}}
<ul>
{{- range .Result.Summary.Signals}}
<li class="{{.Level}}">[{{.Level}}] {{.Kind}}{{with .Asset}} {{.}}{{end}}: {{.Message}}</li>
{{- end}}
</ul>
{{- else}}
<p>None</p>
{{- end}}
<h2>Year by Year</h2>
<table>
<tr><th>Year</th><th>Age</th><th>Phase</th><th>Growth</th><th>Income</th><th>Bond</th><th>Cash Buffer</th><th>Net Worth</th></tr>
{{- range .Years}}
<tr><td>{{.Year}}</td><td>{{.Age}}</td><td>{{.Phase}}</td><td>{{curr .Tiers.Growth}}</td><td>{{curr .Tiers.Income}}</td><td>{{curr .Tiers.Bond}}</td><td>{{curr .Tiers.CashBuffer}}</td><td>{{curr .NetWorth}}</td></tr>
{{- end}}
</table>
</body>
</html>
`

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Result  *domain.SimulationResult
		Outlook string
		Years   []YearRollup
	}{result, Outlook(result), RollupByYear(result.MonthlyData)}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
