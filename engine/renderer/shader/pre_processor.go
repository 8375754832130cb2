// pre_processor.go implements the WGSL pre-processor. It replaces @oxy: annotations with
// registered struct sources or generated binding declarations, and collects the binding
// declarations so callers can check them against the bind group layouts they create.
package shader

import (
	"fmt"
	"strings"
)

// Struct is a registered WGSL struct: its source and the type name used in declarations.
type Struct struct {
	Source string
	Type   string
}

type preProcessor struct {
	structRegistry map[AnnotationArg]Struct

	// declarations is reset at the start of each Process call.
	declarations []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source.
type PreProcessor interface {
	// Process replaces include annotations with the registered struct source and group
	// annotations with @group/@binding declarations. Each struct is included at most once.
	//
	// Parameters:
	//   - source: the raw WGSL shader source
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: an error if an annotation is malformed or references an unregistered struct
	Process(source string) (string, error)

	// Declarations returns the group annotations of the most recent Process call, in
	// source order.
	//
	// Returns:
	//   - []Annotation: the declarations collected during the last Process call
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor over the given struct registry.
//
// Parameters:
//   - structs: struct type keys mapped to their WGSL source and type name
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(structs map[AnnotationArg]Struct) PreProcessor {
	p := &preProcessor{structRegistry: make(map[AnnotationArg]Struct, len(structs))}
	for k, v := range structs {
		p.structRegistry[k] = v
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy include argument %q", a.Line, a.Args[0])
			}
			if !included[a.Args[0]] {
				out = append(out, strings.TrimRight(entry.Source, "\n"))
				included[a.Args[0]] = true
			}
		case AnnotationTypeBindingGroup:
			entry, ok := p.structRegistry[a.Args[2]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown struct type %q in @oxy group annotation", a.Line, a.Args[2])
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, addressSpaces[a.Args[0]], a.Args[1], entry.Type))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
