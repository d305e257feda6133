package metadata

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/ctgraph/internal/space"
	"github.com/roach88/ctgraph/internal/transform"
)

//go:embed schema.cue
var schemaSource string

// LoadMode controls how errors are handled during conversion.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Error codes carried by LoadError.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeLoadFailed    = "E004" // File could not be read or decoded
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeBuildFailed   = "E006" // CUE schema validation failed
	ErrCodeInvalidSystem = "E101" // Coordinate system without a name or axis label
	ErrCodeUnknownType   = "E102" // Unknown transform type
	ErrCodeInvalidPart   = "E103" // byDimension part without axes
)

// LoadError represents an error that occurred while loading metadata.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Result is a converted document.
type Result struct {
	Document   *Document
	Spaces     []space.CoordinateSystem
	Transforms []transform.Transform
}

// Load reads, decodes and converts a metadata file. The format follows the
// file extension: .json, .yaml, .yml or .cue.
func Load(path string, mode LoadMode) (*Result, []error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("metadata file not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading metadata: %v", err)}}
	}

	doc, err := Parse(path, data)
	if err != nil {
		return nil, []error{err}
	}
	return doc.Convert(mode)
}

// Parse decodes data in the format named by filename's extension.
func Parse(filename string, data []byte) (*Document, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".yaml", ".yml":
		return decodeYAML(filename, data)
	case ".cue":
		return decodeCUE(filename, data)
	default:
		return nil, &LoadError{
			Code:    ErrCodeLoadFailed,
			Message: fmt.Sprintf("unsupported metadata format %q (want .json, .yaml, .yml or .cue)", filepath.Ext(filename)),
		}
	}
}

func decodeYAML(filename string, data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("%s: empty document", filename)}
		}
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("decoding %s: %v", filename, err)}
	}
	return &doc, nil
}

func decodeCUE(filename string, data []byte) (*Document, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("compiling schema: %v", err)}
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(ErrCodeLoadFailed, err)
	}

	v = schema.LookupPath(cue.ParsePath("#Document")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, err)
	}

	var doc Document
	if err := v.Decode(&doc); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, err)
	}
	return &doc, nil
}

// cueLoadError keeps the position of the first CUE error.
func cueLoadError(code string, err error) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
