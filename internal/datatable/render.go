package datatable

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"
)

var cellTemplates = template.Must(template.New("cells").Parse(`
{{- define "badge"}}<span class="badge badge-{{.Variant}}">{{.Label}}</span>{{end -}}
{{- define "actions"}}<div class="row-actions">
{{- range .}}
{{- if eq .Method "GET"}}<a href="{{.URL}}" class="btn btn-sm btn-{{.Variant}}">{{.Label}}</a>
{{- else}}<button type="button" class="btn btn-sm btn-{{.Variant}}"
{{- if eq .Method "DELETE"}} hx-delete="{{.URL}}"{{else if eq .Method "PATCH"}} hx-patch="{{.URL}}"{{else if eq .Method "PUT"}} hx-put="{{.URL}}"{{else}} hx-post="{{.URL}}"{{end}}
{{- if .Confirm}} hx-confirm="{{.Confirm}}"{{end}} hx-target="{{.Target}}" hx-swap="outerHTML"
{{- if .Disabled}} disabled aria-disabled="true"{{end}}>{{.Label}}</button>
{{- end}}
{{- end}}</div>{{end -}}
`))

// renderCell draws one cell according to the column kind.
func renderCell[T any](c Column[T], row T) template.HTML {
	switch c.Kind {
	case KindText:
		return template.HTML(template.HTMLEscapeString(stringify(c.Value(row))))
	case KindBadge:
		if c.badge == nil {
			return template.HTML(template.HTMLEscapeString(stringify(c.Value(row))))
		}
		return execute("badge", c.badge(row))
	case KindCurrency:
		if c.amount == nil {
			return NotAvailable
		}
		return template.HTML(template.HTMLEscapeString(FormatCurrency(c.amount(row))))
	case KindActions:
		if c.actions == nil {
			return ""
		}
		return renderActions(c.actions(row))
	case KindCustom:
		if c.render == nil {
			return template.HTML(template.HTMLEscapeString(stringify(c.Value(row))))
		}
		return c.render(row)
	default:
		panic(fmt.Sprintf("datatable: unhandled column kind %d", int(c.Kind)))
	}
}

func renderActions(actions []Action) template.HTML {
	views := make([]Action, 0, len(actions))
	for _, a := range actions {
		a.Method = strings.ToUpper(a.Method)
		if a.Method == "" {
			a.Method = http.MethodGet
		}
		if a.Target == "" {
			a.Target = "closest tr"
		}
		if a.Variant == "" {
			a.Variant = "secondary"
		}
		views = append(views, a)
	}
	return execute("actions", views)
}

func execute(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := cellTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return template.HTML(template.HTMLEscapeString(err.Error()))
	}
	return template.HTML(buf.String())
}
