package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var (
	reclamationCreatedTmpl = template.Must(template.New("reclamation_created").Funcs(tmplFuncs).Parse(`<h1>New reclamation</h1>
<p><strong>{{.Subject}}</strong></p>
<p>{{.Description}}</p>
<ul>
  <li><strong>Location:</strong> {{.Location}}</li>
  <li><strong>Departments:</strong> {{join .Departments}}</li>
  <li><strong>Priority:</strong> {{.Priority}}</li>
  {{- if .AssignedTo}}
  <li><strong>Assigned to:</strong> {{.AssignedTo}}</li>
  {{- end}}
  <li><strong>Created by:</strong> {{.CreatedBy}}</li>
</ul>`))

	accountCreatedTmpl = template.Must(template.New("account_created").Funcs(tmplFuncs).Parse(`<h1>Welcome, {{.Name}}!</h1>
<p>Your account for the hotel operations app was created{{if .AdminName}} by <strong>{{.AdminName}}</strong>{{end}}.</p>
<p>Your sign-in details:</p>
<ul>
  <li><strong>Username:</strong> {{.Name}}</li>
  <li><strong>Email:</strong> {{.Email}}</li>
  {{- if .Departments}}
  <li><strong>Departments:</strong> {{join .Departments}}</li>
  {{- end}}
  {{- if .Password}}
  <li><strong>Password:</strong> {{.Password}}</li>
  {{- end}}
</ul>
<p>Please keep this information somewhere safe.</p>
<p>Hotel administration</p>`))

	accountUpdatedTmpl = template.Must(template.New("account_updated").Funcs(tmplFuncs).Parse(`<h1>Hello, {{.Name}}!</h1>
<p>Your account was updated{{if .AdminName}} by <strong>{{.AdminName}}</strong>{{end}}.</p>
<p>Your current details:</p>
<ul>
  <li><strong>Username:</strong> {{.Name}}</li>
  <li><strong>Email:</strong> {{.Email}}</li>
  {{- if .Departments}}
  <li><strong>Departments:</strong> {{join .Departments}}</li>
  {{- end}}
</ul>
{{- if .Password}}
<p>Your password was changed. New password: <strong>{{.Password}}</strong></p>
{{- end}}
<p>If you did not request this change, contact the administration immediately.</p>
<p>Hotel administration</p>`))
)

var tmplFuncs = template.FuncMap{
	"join": func(values []string) string { return strings.Join(values, ", ") },
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
