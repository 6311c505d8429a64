package debian

import (
	"bytes"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// controlTemplate is the Debian control file with version and architecture
// substituted per build.
//
//go:embed control.tmpl
var controlTemplate string

// controlData carries the substitution variables for the control template.
type controlData struct {
	Package      string
	Version      string
	Architecture string
	Maintainer   string
	Description  string
}

// renderControl produces the DEBIAN/control contents for one target.
func renderControl(data controlData) ([]byte, error) {
	tmpl, err := template.New("control").Funcs(sprig.TxtFuncMap()).Parse(controlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse control template: %w", err)
	}

	var buffer bytes.Buffer
	if err = tmpl.Execute(&buffer, data); err != nil {
		return nil, fmt.Errorf("render control template: %w", err)
	}

	return buffer.Bytes(), nil
}
