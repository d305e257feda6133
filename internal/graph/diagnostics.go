package graph

import (
	"fmt"

	"go.uber.org/zap"
)

// Code identifies a diagnostic category.
type Code string

const (
	CodeSpaceConflict    Code = "E201"
	CodeInvalidTransform Code = "E202"
	CodeUnresolved       Code = "E203"
	CodeAxisConflict     Code = "E204"
	CodeUncoveredAxis    Code = "E205"
)

// Diagnostic records a problem found while building or synthesizing.
type Diagnostic struct {
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Transform string `json:"transform,omitempty"`
	Space     string `json:"space,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

func (g *Graph) report(d Diagnostic) {
	g.diags = append(g.diags, d)

	fields := []zap.Field{zap.String("code", string(d.Code))}
	if d.Transform != "" {
		fields = append(fields, zap.String("transform", d.Transform))
	}
	if d.Space != "" {
		fields = append(fields, zap.String("space", d.Space))
	}
	g.log.Warn(d.Message, fields...)
}
