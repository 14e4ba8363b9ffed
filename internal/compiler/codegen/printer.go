package codegen

import (
	"fmt"
	"regexp"
	"strings"
)

var signedSource = regexp.MustCompile(`@generated SignedSource<<([0-9a-f]+)>>`)

// Printer renders artifacts as source text.
type Printer struct {
	hasher *Hasher
}

// NewPrinter creates a new artifact printer
func NewPrinter() *Printer {
	return &Printer{hasher: NewHasher()}
}

// Print renders the artifact: a signed header, the statement block and the
// default export of the node.
func (p *Printer) Print(a *Artifact) string {
	body := Body(a)
	var b strings.Builder
	b.WriteString("/**\n")
	fmt.Fprintf(&b, " * @generated SignedSource<<%s>>\n", p.hasher.HashString(body))
	b.WriteString(" */\n\n")
	b.WriteString(body)
	return b.String()
}

// Body renders the artifact without its header.
func Body(a *Artifact) string {
	return a.Statements.String() + "\nexport default node;\n"
}

// Verify reports whether printed artifact text still matches its signature.
func (p *Printer) Verify(text string) bool {
	m := signedSource.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	idx := strings.Index(text, " */\n\n")
	if idx < 0 {
		return false
	}
	return p.hasher.HashString(text[idx+len(" */\n\n"):]) == m[1]
}
