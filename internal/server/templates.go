package server

import (
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PredefinedTemplates contains the HTML page templates served by the app
var PredefinedTemplates = map[string]string{
	"login": `<!DOCTYPE html>
<html>
<head>
  <title>Platform API - Login</title>
</head>
<body>
  <h1>Platform API</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <form method="post" action="/login">
    <label>Username <input type="text" name="username" required></label>
    <label>Password <input type="password" name="password" required></label>
    <button type="submit">Log in</button>
  </form>
</body>
</html>`,

	"dashboard": `<!DOCTYPE html>
<html>
<head>
  <title>{{.Title}}</title>
</head>
<body>
  <h1>{{.Title}}</h1>
  <h2>Endpoints</h2>
  <ul>
  {{range .Endpoints}}<li><code>{{.}}</code></li>
  {{end}}</ul>
  <h2>Ping Runs</h2>
  <p>Total: {{.Stats.TotalRuns}}, Succeeded: {{.Stats.Successes}}, Failed: {{.Stats.Failures}}</p>
  {{if .Stats.TotalRuns}}<p>Last run: {{title .LastResult}} ({{.Stats.LastDuration}})</p>{{end}}
  {{if .Stats.LastSummary}}
  <h2>Last Play Recap</h2>
  <table>
  {{range $host, $counters := .Stats.LastSummary}}
    <tr><th>{{$host}}</th>
    {{range $name, $value := $counters}}<td>{{title $name}}: {{$value}}</td>{{end}}
    </tr>
  {{end}}
  </table>
  {{end}}
</body>
</html>`,
}

// templateFuncs returns the functions available inside page templates
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"title": cases.Title(language.English).String,
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
	}
}

// loadTemplates parses the predefined page templates into a single
// template tree suitable for gin's HTML renderer.
func loadTemplates() (*template.Template, error) {
	root := template.New("pages").Funcs(templateFuncs())

	for name, templateStr := range PredefinedTemplates {
		if _, err := root.New(name).Parse(templateStr); err != nil {
			return nil, fmt.Errorf("failed to parse template '%s': %w", name, err)
		}
	}

	return root, nil
}
