package errors

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/conduit-lang/graphc/internal/compiler/ir"
)

// diagnosticSource is reported as the Source of every exported diagnostic
const diagnosticSource = "graphc"

// ToProtocolDiagnostics converts compiler errors into LSP diagnostics grouped by
// document URI. Positions are converted to the zero-based form LSP expects.
func ToProtocolDiagnostics(el ErrorList) map[protocol.DocumentURI][]protocol.Diagnostic {
	out := make(map[protocol.DocumentURI][]protocol.Diagnostic)
	for _, e := range el {
		docURI := fileURI(e.Location.File)

		diag := protocol.Diagnostic{
			Range:    toRange(e.Location),
			Severity: convertSeverity(e.Severity),
			Code:     string(e.Code),
			Source:   diagnosticSource,
			Message:  e.Message,
		}
		for _, rel := range e.Related {
			file := rel.Location.File
			if file == "" {
				file = e.Location.File
			}
			diag.RelatedInformation = append(diag.RelatedInformation, protocol.DiagnosticRelatedInformation{
				Location: protocol.Location{
					URI:   fileURI(file),
					Range: toRange(rel.Location),
				},
				Message: rel.Message,
			})
		}

		out[docURI] = append(out[docURI], diag)
	}
	return out
}

func fileURI(path string) protocol.DocumentURI {
	if path == "" {
		return protocol.DocumentURI("")
	}
	return protocol.DocumentURI(uri.File(path))
}

func toRange(loc ir.SourceLocation) protocol.Range {
	pos := protocol.Position{
		Line:      zeroBased(loc.Line),
		Character: zeroBased(loc.Column),
	}
	return protocol.Range{Start: pos, End: pos}
}

func zeroBased(n int) uint32 {
	if n <= 1 {
		return 0
	}
	return uint32(n - 1)
}

func convertSeverity(s ErrorSeverity) protocol.DiagnosticSeverity {
	switch s {
	case SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}
