// Package schema provides the read-only type lookup used by graphc transforms.
// A Schema is built once per compilation run from server SDL plus client schema
// extensions; every lookup table is computed up front so the value can be shared
// by concurrent workers without locking.
package schema

import (
	"fmt"
	"sort"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/conduit-lang/graphc/internal/compiler/ir"
)

// Lookup is the schema capability consumed by compiler transforms.
type Lookup interface {
	// Type returns the named type, or nil when it does not exist.
	Type(name string) *TypeInfo
	// Field returns a field of a composite or input object type, or nil.
	Field(parentType, name string) *FieldInfo
	// IsServerType reports whether the type exists on the server schema.
	IsServerType(name string) bool
	// PossibleTypes returns the concrete types of an abstract type, sorted.
	// For an object type it returns the type itself.
	PossibleTypes(name string) []string
	// ServerPossibleTypes is PossibleTypes restricted to server types.
	ServerPossibleTypes(name string) []string
}

// TypeKind is the kind of a named schema type
type TypeKind int

const (
	// KindScalar is a scalar type
	KindScalar TypeKind = iota
	// KindObject is an object type
	KindObject
	// KindInterface is an interface type
	KindInterface
	// KindUnion is a union type
	KindUnion
	// KindEnum is an enum type
	KindEnum
	// KindInputObject is an input object type
	KindInputObject
)

// TypeInfo describes a named type
type TypeInfo struct {
	Name string
	Kind TypeKind
	// ClientOnly is true for types defined only in client schema extensions.
	ClientOnly bool
}

// IsAbstract reports whether the type is an interface or union.
func (t *TypeInfo) IsAbstract() bool {
	return t.Kind == KindInterface || t.Kind == KindUnion
}

// IsComposite reports whether selections can be made on the type.
func (t *TypeInfo) IsComposite() bool {
	return t.Kind == KindObject || t.IsAbstract()
}

// FieldInfo describes a field of a composite type
type FieldInfo struct {
	Name       string
	ParentType string
	Type       *ir.TypeRef
	Arguments  map[string]*ir.TypeRef
	// Resolver is set when the field is resolved by client code.
	Resolver *ir.ResolverInfo
	// ClientExtension is true for fields added by a client schema extension.
	ClientExtension bool
}

// Schema is the default Lookup, backed by gqlparser.
type Schema struct {
	full   *ast.Schema
	server *ast.Schema

	types          map[string]*TypeInfo
	fields         map[string]map[string]*FieldInfo
	possible       map[string][]string
	serverPossible map[string][]string
}

var _ Lookup = (*Schema)(nil)

// Load builds a Schema from server SDL sources and client extension sources.
// The compiler directive prelude is added automatically.
func Load(server []*ast.Source, extensions []*ast.Source) (*Schema, error) {
	serverSources := append([]*ast.Source{Prelude}, server...)
	serverSchema, err := gqlparser.LoadSchema(serverSources...)
	if err != nil {
		return nil, fmt.Errorf("failed to load server schema: %w", err)
	}

	fullSources := append(append([]*ast.Source{Prelude}, server...), extensions...)
	fullSchema, err := gqlparser.LoadSchema(fullSources...)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema extensions: %w", err)
	}

	s := &Schema{
		full:           fullSchema,
		server:         serverSchema,
		types:          make(map[string]*TypeInfo, len(fullSchema.Types)),
		fields:         make(map[string]map[string]*FieldInfo, len(fullSchema.Types)),
		possible:       make(map[string][]string),
		serverPossible: make(map[string][]string),
	}
	s.index()
	return s, nil
}

// AST returns the merged server and client schema, used to validate documents.
func (s *Schema) AST() *ast.Schema {
	return s.full
}

func (s *Schema) index() {
	for name, def := range s.full.Types {
		serverDef := s.server.Types[name]
		s.types[name] = &TypeInfo{
			Name:       name,
			Kind:       kindOf(def.Kind),
			ClientOnly: serverDef == nil,
		}

		if len(def.Fields) > 0 && (def.Kind == ast.Object || def.Kind == ast.Interface || def.Kind == ast.InputObject) {
			fields := make(map[string]*FieldInfo, len(def.Fields))
			for _, fd := range def.Fields {
				info := &FieldInfo{
					Name:       fd.Name,
					ParentType: name,
					Type:       TypeRefFromAST(fd.Type),
					Arguments:  make(map[string]*ir.TypeRef, len(fd.Arguments)),
					Resolver:   resolverInfo(fd),
				}
				for _, arg := range fd.Arguments {
					info.Arguments[arg.Name] = TypeRefFromAST(arg.Type)
				}
				info.ClientExtension = serverDef == nil || serverDef.Fields.ForName(fd.Name) == nil
				fields[fd.Name] = info
			}
			s.fields[name] = fields
		}
	}

	for name, defs := range s.full.PossibleTypes {
		var all, onServer []string
		for _, def := range defs {
			if def == nil || def.Kind != ast.Object {
				continue
			}
			all = append(all, def.Name)
			if s.server.Types[def.Name] != nil {
				onServer = append(onServer, def.Name)
			}
		}
		sort.Strings(all)
		sort.Strings(onServer)
		s.possible[name] = all
		s.serverPossible[name] = onServer
	}
}

// Type implements Lookup.
func (s *Schema) Type(name string) *TypeInfo {
	return s.types[name]
}

// Field implements Lookup.
func (s *Schema) Field(parentType, name string) *FieldInfo {
	return s.fields[parentType][name]
}

// IsServerType implements Lookup.
func (s *Schema) IsServerType(name string) bool {
	t := s.types[name]
	return t != nil && !t.ClientOnly
}

// PossibleTypes implements Lookup.
func (s *Schema) PossibleTypes(name string) []string {
	return s.possible[name]
}

// ServerPossibleTypes implements Lookup.
func (s *Schema) ServerPossibleTypes(name string) []string {
	return s.serverPossible[name]
}

// TypeRefFromAST converts a gqlparser type reference.
func TypeRefFromAST(t *ast.Type) *ir.TypeRef {
	if t == nil {
		return nil
	}
	return &ir.TypeRef{
		Named:   t.NamedType,
		Elem:    TypeRefFromAST(t.Elem),
		NonNull: t.NonNull,
	}
}

func resolverInfo(fd *ast.FieldDefinition) *ir.ResolverInfo {
	d := fd.Directives.ForName(DirectiveResolver)
	if d == nil {
		return nil
	}
	info := &ir.ResolverInfo{}
	if arg := d.Arguments.ForName("import_path"); arg != nil && arg.Value != nil {
		info.ImportPath = arg.Value.Raw
	}
	if arg := d.Arguments.ForName("import_name"); arg != nil && arg.Value != nil {
		info.ImportName = arg.Value.Raw
	}
	return info
}

func kindOf(k ast.DefinitionKind) TypeKind {
	switch k {
	case ast.Object:
		return KindObject
	case ast.Interface:
		return KindInterface
	case ast.Union:
		return KindUnion
	case ast.Enum:
		return KindEnum
	case ast.InputObject:
		return KindInputObject
	default:
		return KindScalar
	}
}
