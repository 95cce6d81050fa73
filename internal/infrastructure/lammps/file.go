package lammps

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/turtacn/bondmap/internal/domain/molecule"
	"github.com/turtacn/bondmap/pkg/errors"
)

// Top comment terms.
const (
	CommentBonding          = "Bonding_Atoms"
	CommentDelete           = "Delete_Atoms"
	CommentEdge             = "Edge_Atoms"
	CommentEdgeFingerprints = "Edge_Fingerprints"
)

// Section names.
const (
	SectionAtoms     = "Atoms"
	SectionBonds     = "Bonds"
	SectionAngles    = "Angles"
	SectionDihedrals = "Dihedrals"
	SectionImpropers = "Impropers"
	SectionMasses    = "Masses"
	SectionTypes     = "Types"
	SectionCharges   = "Charges"
	SectionCoords    = "Coords"
)

// Row is one data line of a header or section.
type Row struct {
	Fields  []string
	Comment string
	Line    int
}

// Section is a keyword line and the rows up to the next keyword.
type Section struct {
	Name string
	Rows []Row
}

// File is a parsed read_data or molecule file.
type File struct {
	Name string
	// Title is the first line, unless it is a comment.
	Title string
	// TopComments are the comment lines at the top of the file, split into
	// words with the leading # removed.
	TopComments [][]string
	// Header holds the lines between the title and the first section, such
	// as "10 atoms" or "0.0 10.0 xlo xhi".
	Header   []Row
	Sections []*Section
}

// Parse reads a flat file. name is used in error messages.
func Parse(name string, r io.Reader) (*File, error) {
	lines, err := lex(name, r)
	if err != nil {
		return nil, err
	}

	f := &File{Name: name}
	i := 0
	for ; i < len(lines) && len(lines[i].fields) == 0 && lines[i].comment != ""; i++ {
		f.TopComments = append(f.TopComments, strings.Fields(strings.TrimPrefix(lines[i].comment, "#")))
	}
	if i == 0 && len(lines) > 0 {
		f.Title = strings.TrimSpace(lines[0].raw)
		i = 1
	}

	var current *Section
	for ; i < len(lines); i++ {
		l := lines[i]
		if len(l.fields) == 0 {
			continue
		}
		if isKeyword(l) {
			current = &Section{Name: strings.Join(l.fields, " ")}
			f.Sections = append(f.Sections, current)
			continue
		}
		row := Row{Fields: l.fields, Comment: l.comment, Line: l.num}
		if current == nil {
			f.Header = append(f.Header, row)
		} else {
			current.Rows = append(current.Rows, row)
		}
	}
	return f, nil
}

// isKeyword reports whether l opens a section: only words, the first one
// capitalised.
func isKeyword(l line) bool {
	if !l.words {
		return false
	}
	c := l.fields[0][0]
	return c >= 'A' && c <= 'Z'
}

// Section returns the section called name.
func (f *File) Section(name string) (*Section, bool) {
	for _, s := range f.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Rows returns the rows of section name, or nil.
func (f *File) Rows(name string) []Row {
	if s, ok := f.Section(name); ok {
		return s.Rows
	}
	return nil
}

// TopComment returns the values following term in the first top comment
// that contains it.
func (f *File) TopComment(term string) ([]string, bool) {
	for _, words := range f.TopComments {
		for i, w := range words {
			if w == term {
				out := append([]string(nil), words[:i]...)
				return append(out, words[i+1:]...), true
			}
		}
	}
	return nil, false
}

// Count returns the number on the header line whose keyword is kind, e.g.
// "atoms" or "bond types".
func (f *File) Count(kind string) (int, bool) {
	for _, r := range f.Header {
		if len(r.Fields) < 2 || strings.Join(r.Fields[1:], " ") != kind {
			continue
		}
		n, err := strconv.Atoi(r.Fields[0])
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// AtomRecords returns the id and type of every atom: the Types section of a
// molecule file, else columns 1 and 3 of the Atoms section (atom_style
// full).
func (f *File) AtomRecords() ([]molecule.AtomRecord, error) {
	if s, ok := f.Section(SectionTypes); ok {
		return f.records(s, 0, 1)
	}
	if s, ok := f.Section(SectionAtoms); ok {
		return f.records(s, 0, 2)
	}
	return nil, errors.New(errors.ErrCodeMissingSection,
		fmt.Sprintf("%s has neither a %s nor an %s section", f.Name, SectionTypes, SectionAtoms))
}

func (f *File) records(s *Section, idCol, typeCol int) ([]molecule.AtomRecord, error) {
	out := make([]molecule.AtomRecord, 0, len(s.Rows))
	var errs error
	for _, r := range s.Rows {
		if len(r.Fields) <= typeCol {
			errs = multierr.Append(errs, f.shortRow(s.Name, r, typeCol+1))
			continue
		}
		out = append(out, molecule.AtomRecord{ID: r.Fields[idCol], Type: r.Fields[typeCol]})
	}
	if errs != nil {
		return nil, errors.Wrap(errs, errors.ErrCodeStructuralIntegrity, f.Name+" has malformed rows")
	}
	return out, nil
}

// Bonds returns the Bonds section. A file without one has no bonds.
func (f *File) Bonds() ([]molecule.Bond, error) {
	s, ok := f.Section(SectionBonds)
	if !ok {
		return nil, nil
	}
	out := make([]molecule.Bond, 0, len(s.Rows))
	var errs error
	for _, r := range s.Rows {
		if len(r.Fields) < 4 {
			errs = multierr.Append(errs, f.shortRow(s.Name, r, 4))
			continue
		}
		out = append(out, molecule.Bond{ID: r.Fields[0], Type: r.Fields[1], A: r.Fields[2], B: r.Fields[3]})
	}
	if errs != nil {
		return nil, errors.Wrap(errs, errors.ErrCodeStructuralIntegrity, f.Name+" has malformed rows")
	}
	return out, nil
}

func (f *File) shortRow(section string, r Row, want int) error {
	return errors.New(errors.ErrCodeStructuralIntegrity,
		fmt.Sprintf("%s:%d: %s row has %d fields, want at least %d", f.Name, r.Line, section, len(r.Fields), want))
}

// Anchors are the role annotations carried in top comments.
type Anchors struct {
	Bonding []string
	Delete  []string
	Edges   []molecule.EdgeAtom
}

// Anchors reads the Bonding_Atoms, Delete_Atoms, Edge_Atoms and
// Edge_Fingerprints top comments. Fingerprints pair with edge atoms by
// position.
func (f *File) Anchors() (Anchors, error) {
	var a Anchors
	a.Bonding, _ = f.TopComment(CommentBonding)
	a.Delete, _ = f.TopComment(CommentDelete)

	edges, _ := f.TopComment(CommentEdge)
	prints, ok := f.TopComment(CommentEdgeFingerprints)
	if !ok || len(edges) == 0 {
		return a, nil
	}
	if len(prints) != len(edges) {
		return a, errors.New(errors.ErrCodeStructuralIntegrity,
			fmt.Sprintf("%s lists %d edge atoms but %d edge fingerprints", f.Name, len(edges), len(prints)))
	}
	for i, id := range edges {
		a.Edges = append(a.Edges, molecule.EdgeAtom{ID: id, Fingerprint: prints[i]})
	}
	return a, nil
}
