package devserver

import (
	"html/template"
	"time"

	"tableflip.dev/allergy/pkg/calendar"
	"tableflip.dev/allergy/pkg/symptom"
)

const (
	dashboardTmpl = "dashboard"
	fragmentTmpl  = "fragment"
	errorTmpl     = "error"
)

type dashboardData struct {
	CSRFToken string
	Symptoms  []symptom.Symptom
	Today     calendar.Date
}

type fragmentData struct {
	Date    time.Time
	Markers bool
	Records []recordView
}

type recordView struct {
	Symptom   symptom.Symptom
	Name      string
	Intensity int
}

// newTemplates parses the pages and fragments. Each engine gets its own set,
// gin adds its func map to the set it is given.
func newTemplates() *template.Template {
	return template.Must(template.New("").Parse(pages))
}

const pages = `
{{define "dashboard"}}<!DOCTYPE html>
<html>
<head><title>Allergy dashboard</title></head>
<body>
<input type="hidden" id="csrfToken" value="{{.CSRFToken}}">
<div id="calendar" data-today="{{.Today}}"></div>
<div id="symptom-buttons">
{{- range .Symptoms}}
  <button type="button" data-symptom="{{.}}">{{.DisplayName}}</button>
{{- end}}
</div>
<div id="intensity-selectors" class="hidden"></div>
<div id="date-info"></div>
</body>
</html>
{{end}}

{{define "fragment"}}<h3>Symptoms for {{.Date.Format "January 2, 2006"}}</h3>
{{- if .Records}}
{{- if .Markers}}
<div id="stored-symptoms" class="hidden">
{{- range .Records}}
  <div data-symptom="{{.Symptom}}" data-intensity="{{.Intensity}}"></div>
{{- end}}
</div>
{{- end}}
{{- range .Records}}
<p>{{.Name}}: {{.Intensity}}</p>
{{- end}}
{{- else}}
<p>No symptoms recorded for this date.</p>
{{- end}}
{{end}}

{{define "error"}}<div class="symptom-error">
{{- range .}}
<p>{{.}}</p>
{{- end}}
</div>
{{end}}
`
