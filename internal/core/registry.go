package core

import (
	"fmt"
	"sort"
	"sync"
)

// ColumnUse says whether an operation takes a column parameter.
type ColumnUse string

const (
	ColumnNone     ColumnUse = "none"
	ColumnOptional ColumnUse = "optional"
	ColumnRequired ColumnUse = "required"
)

// Operation groups, in display order.
const (
	GroupNormalize = "normalize"
	GroupRows      = "rows"
	GroupFuzzy     = "fuzzy"
	GroupDetect    = "detect"
	GroupInspect   = "inspect"
)

var groupOrder = map[string]int{
	GroupNormalize: 0,
	GroupRows:      1,
	GroupFuzzy:     2,
	GroupDetect:    3,
	GroupInspect:   4,
}

// OperationInfo describes a registered operation.
type OperationInfo struct {
	Name        string    `json:"name"`
	Group       string    `json:"group"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Mutating    bool      `json:"mutating"`
	Column      ColumnUse `json:"column"`
}

// operation pairs an OperationInfo with its implementation.
type operation struct {
	Info OperationInfo
	Run  func(j *job) error
}

var (
	registry   = make(map[string]operation)
	registryMu sync.RWMutex
)

// register adds an operation. Panics on a duplicate name.
func register(op operation) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[op.Info.Name]; exists {
		panic(fmt.Sprintf("operation already registered: %s", op.Info.Name))
	}
	if op.Info.Column == "" {
		op.Info.Column = ColumnNone
	}
	registry[op.Info.Name] = op
}

func lookup(name string) (operation, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	op, ok := registry[name]
	return op, ok
}

// Operations returns every registered operation, sorted by group then name.
func Operations() []OperationInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]OperationInfo, 0, len(registry))
	for _, op := range registry {
		result = append(result, op.Info)
	}

	sort.Slice(result, func(i, j int) bool {
		gi, gj := groupOrder[result[i].Group], groupOrder[result[j].Group]
		if gi != gj {
			return gi < gj
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// LookupOperation returns the description of a registered operation.
func LookupOperation(name string) (OperationInfo, bool) {
	op, ok := lookup(name)
	return op.Info, ok
}
