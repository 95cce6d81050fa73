// Package lammps reads and writes the LAMMPS flat files bondmap works with:
// read_data files, molecule files and bond/react map files.
package lammps

import (
	"bytes"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/turtacn/bondmap/pkg/errors"
)

var flatLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_\-./]*`},
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t\f\v\r]+`},
	{Name: "Punct", Pattern: `[^\s#]`},
})

// fileAST is the raw shape of a flat file: lines of tokens.
type fileAST struct {
	Lines []*lineAST `parser:"@@*"`
}

type lineAST struct {
	Pos lexer.Position

	Tokens  []token `parser:"@@*"`
	Comment string  `parser:"@Comment? EOL"`
}

type token struct {
	Number string `parser:"  @Number"`
	Ident  string `parser:"| @Ident"`
	Punct  string `parser:"| @Punct"`
}

func (t token) String() string {
	switch {
	case t.Number != "":
		return t.Number
	case t.Ident != "":
		return t.Ident
	default:
		return t.Punct
	}
}

var flatParser = participle.MustBuild[fileAST](
	participle.Lexer(flatLexer),
	participle.Elide("Whitespace"),
)

// line is one lexed source line.
type line struct {
	num     int
	fields  []string
	words   bool // every field is an identifier
	comment string
	raw     string
}

func (l line) blank() bool { return len(l.fields) == 0 && l.comment == "" }

// lex tokenises r into lines.
func lex(filename string, r io.Reader) ([]line, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeIO, "read "+filename)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	ast, err := flatParser.ParseBytes(filename, data)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeParse, "parse "+filename)
	}

	raw := strings.Split(string(bytes.TrimSuffix(data, []byte("\n"))), "\n")
	lines := make([]line, 0, len(ast.Lines))
	for _, l := range ast.Lines {
		out := line{num: l.Pos.Line, comment: l.Comment, words: len(l.Tokens) > 0}
		for _, t := range l.Tokens {
			out.fields = append(out.fields, t.String())
			if t.Ident == "" {
				out.words = false
			}
		}
		if i := l.Pos.Line - 1; i >= 0 && i < len(raw) {
			out.raw = strings.TrimRight(raw[i], "\r")
		}
		lines = append(lines, out)
	}
	return lines, nil
}
