package cli

const taskInfoTemplate = `
=== Task Details ===

UUID:        {{.UUID}}
{{- if .Index }}
ID:          {{.Index}}
{{- end}}
{{- with index .Task "description" }}
Description: {{.}}
{{- end}}
{{- with index .Task "status" }}
Status:      {{.}}
{{- end}}

Properties:
{{- range .Properties }}
  {{.Name}} = {{.Value}}
{{- else }}
  (none)
{{- end}}
`
