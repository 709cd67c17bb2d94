// Package templates holds the HTML components served by the web package.
// The *_templ.go files are generated from the .templ sources with
// `templ generate`; edit the .templ files, not the generated code.
package templates

import "github.com/JonMunkholm/csvclean/internal/core"

// IndexParams feeds the index page.
type IndexParams struct {
	Operations []core.OperationInfo
	MaxBytes   int64
}

// OperationGroup is one <optgroup> of the operation picker.
type OperationGroup struct {
	Name       string
	Operations []core.OperationInfo
}

// Groups splits the operations into runs sharing a group, keeping order.
func (p IndexParams) Groups() []OperationGroup {
	var groups []OperationGroup
	for _, op := range p.Operations {
		if n := len(groups); n > 0 && groups[n-1].Name == op.Group {
			groups[n-1].Operations = append(groups[n-1].Operations, op)
			continue
		}
		groups = append(groups, OperationGroup{Name: op.Group, Operations: []core.OperationInfo{op}})
	}
	return groups
}

// MaxMB is the input cap in whole megabytes, at least 1.
func (p IndexParams) MaxMB() int64 {
	if mb := p.MaxBytes / (1024 * 1024); mb > 0 {
		return mb
	}
	return 1
}
