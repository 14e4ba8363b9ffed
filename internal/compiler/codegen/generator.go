// Package codegen generates client runtime artifacts from transformed
// documents. Each artifact collects its import and variable statements in a
// TopLevelStatements, which the Printer renders in a fixed order.
package codegen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conduit-lang/graphc/internal/compiler/ir"
)

// Bound symbols of the statements every artifact may define.
const (
	symbolNode         = "node"
	symbolDependencies = "dataDrivenDependencies"
)

// Artifact is the generated output for one document.
type Artifact struct {
	// Name is the document name.
	Name string
	// FileName is the artifact file name relative to the output directory.
	FileName string
	// Statements holds the import and variable statements of the artifact.
	Statements *TopLevelStatements
}

// Generator builds artifacts from transformed documents.
type Generator struct{}

// NewGenerator creates a new artifact generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the artifact of a transformed document: imports for the
// synthetic queries and client resolvers it references, the data-driven
// dependency table and the document node.
func (g *Generator) Generate(doc *ir.Document) (*Artifact, error) {
	stmts := NewTopLevelStatements()

	for _, f := range ir.Fields(doc.Selections) {
		meta := f.ClientEdge
		if meta == nil {
			continue
		}
		if meta.QueryName != "" {
			stmts.Insert(meta.QueryName, ImportStatement{
				Import: Default(meta.QueryName),
				Path:   ModulePath(meta.QueryName),
			})
		}
		if meta.Resolver != nil {
			if meta.Resolver.ImportPath == "" {
				return nil, fmt.Errorf("client edge %s: resolver has no import path", meta.EdgeID)
			}
			symbol := resolverSymbol(f)
			stmts.Insert(symbol, resolverImport(symbol, meta.Resolver))
		}
	}

	if len(doc.ModuleDependencies) > 0 {
		deps, err := dependencyTable(doc.ModuleDependencies)
		if err != nil {
			return nil, fmt.Errorf("failed to encode module dependencies of %s: %w", doc.Name, err)
		}
		stmts.Insert(symbolDependencies, VariableDefinition("const "+symbolDependencies+" = "+deps+";"))
	}

	data, err := json.MarshalIndent(buildNode(doc), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode node of %s: %w", doc.Name, err)
	}
	stmts.Insert(symbolNode, VariableDefinition("const "+symbolNode+" = "+string(data)+";"))

	return &Artifact{
		Name:       doc.Name,
		FileName:   doc.Name + ".graphql.js",
		Statements: stmts,
	}, nil
}

// ModulePath returns the module path other artifacts import a
// document's artifact by.
func ModulePath(name string) string {
	return "./" + name + ".graphql"
}

// resolverSymbol returns the local binding of a client edge's resolver.
func resolverSymbol(f *ir.Field) string {
	return f.ParentType + "_" + f.Name + "_resolver"
}

func resolverImport(symbol string, r *ir.ResolverInfo) ImportStatement {
	if r.ImportName == "" {
		return ImportStatement{Import: Default(symbol), Path: r.ImportPath}
	}
	alias := symbol
	if r.ImportName == symbol {
		alias = ""
	}
	return ImportStatement{Import: Named(r.ImportName, alias), Path: r.ImportPath}
}

type dependencies struct {
	Direct     []string `json:"direct,omitempty"`
	Transitive []string `json:"transitive,omitempty"`
}

func dependencyTable(deps []ir.ModuleDependency) (string, error) {
	var table dependencies
	for _, dep := range deps {
		if dep.Classification == ir.DependencyDirect {
			table.Direct = append(table.Direct, dep.Module)
		} else {
			table.Transitive = append(table.Transitive, dep.Module)
		}
	}
	data, err := json.Marshal(table)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
