package lammps

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/turtacn/bondmap/internal/domain/mapping"
	"github.com/turtacn/bondmap/internal/domain/molecule"
	"github.com/turtacn/bondmap/pkg/errors"
)

// MapHeader is the first line of every map file bondmap writes.
const MapHeader = "# This map was generated by bondmap"

// topology sections and the columns holding atom ids.
var topologySections = []struct {
	name    string
	count   string
	columns []int
}{
	{SectionBonds, "bonds", []int{2, 3}},
	{SectionAngles, "angles", []int{2, 3, 4}},
	{SectionDihedrals, "dihedrals", []int{2, 3, 4, 5}},
	{SectionImpropers, "impropers", []int{2, 3, 4, 5}},
}

// MoleculeSpec describes a molecule file cut from a read_data file.
type MoleculeSpec struct {
	Source *File
	// Renumber maps retained atom ids to output ids. A nil table keeps
	// every atom under its own id.
	Renumber map[string]string
	// Bonding and Delete are written as top comments, in output ids.
	Bonding []string
	Delete  []string
}

// WriteMolecule writes a molecule file: top comments, header counts and the
// Types, Charges, Coords, Bonds, Angles, Dihedrals and Impropers sections.
// Atom data is taken from the Atoms section, atom_style full.
func WriteMolecule(w io.Writer, spec MoleculeSpec) error {
	src := spec.Source
	atoms, ok := src.Section(SectionAtoms)
	if !ok {
		return errors.New(errors.ErrCodeMissingSection, fmt.Sprintf("%s has no %s section", src.Name, SectionAtoms))
	}
	table := spec.Renumber
	if table == nil {
		table = identityTable(atoms.Rows)
	}

	var types, charges, coords [][]string
	for _, r := range filterRows(atoms.Rows, []int{0}, table, false) {
		if len(r) < 7 {
			return errors.New(errors.ErrCodeStructuralIntegrity,
				fmt.Sprintf("%s: atom %s has %d fields, atom_style full needs 7", src.Name, r[0], len(r)))
		}
		types = append(types, []string{r[0], r[2]})
		charges = append(charges, []string{r[0], r[3]})
		coords = append(coords, []string{r[0], r[4], r[5], r[6]})
	}

	topology := make([][][]string, len(topologySections))
	for i, ts := range topologySections {
		topology[i] = filterRows(src.Rows(ts.name), ts.columns, table, true)
	}

	bw := bufio.NewWriter(w)
	writeComment(bw, CommentBonding, spec.Bonding)
	writeComment(bw, CommentDelete, spec.Delete)
	if len(spec.Bonding) == 0 && len(spec.Delete) == 0 {
		fmt.Fprintf(bw, "# %s\n", titleOr(src.Title, "molecule"))
	}
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "%d atoms\n", len(types))
	for i, ts := range topologySections {
		fmt.Fprintf(bw, "%d %s\n", len(topology[i]), ts.count)
	}

	writeSection(bw, SectionTypes, types)
	writeSection(bw, SectionCharges, charges)
	writeSection(bw, SectionCoords, coords)
	for i, ts := range topologySections {
		writeSection(bw, ts.name, topology[i])
	}
	return flush(bw)
}

// DataPartialSpec describes a read_data file cut down to a retained set.
type DataPartialSpec struct {
	Source *File
	Keep   func(id string) bool
	// Bonding and Edges are written as top comments.
	Bonding []string
	Edges   []molecule.EdgeAtom
}

// WriteDataPartial writes a read_data file holding only the retained atoms
// and the topology rows between them. Atom ids are kept; topology rows are
// renumbered from 1. Header counts are updated, the other header lines and
// the Masses section are copied.
func WriteDataPartial(w io.Writer, spec DataPartialSpec) error {
	src := spec.Source
	atoms, ok := src.Section(SectionAtoms)
	if !ok {
		return errors.New(errors.ErrCodeMissingSection, fmt.Sprintf("%s has no %s section", src.Name, SectionAtoms))
	}
	table := make(map[string]string)
	for _, r := range atoms.Rows {
		if spec.Keep(r.Fields[0]) {
			table[r.Fields[0]] = r.Fields[0]
		}
	}

	kept := filterRows(atoms.Rows, []int{0}, table, false)
	counts := map[string]int{"atoms": len(kept)}
	topology := make([][][]string, len(topologySections))
	for i, ts := range topologySections {
		topology[i] = filterRows(src.Rows(ts.name), ts.columns, table, true)
		counts[ts.count] = len(topology[i])
	}

	edgeIDs := make([]string, len(spec.Edges))
	prints := make([]string, len(spec.Edges))
	for i, e := range spec.Edges {
		edgeIDs[i], prints[i] = e.ID, e.Fingerprint
	}

	bw := bufio.NewWriter(w)
	writeComment(bw, CommentBonding, spec.Bonding)
	writeComment(bw, CommentEdge, edgeIDs)
	writeComment(bw, CommentEdgeFingerprints, prints)
	fmt.Fprintln(bw)
	for _, r := range src.Header {
		fields := r.Fields
		if n, ok := counts[strings.Join(fields[1:], " ")]; ok && len(fields) > 1 {
			fields = append([]string{strconv.Itoa(n)}, fields[1:]...)
		}
		fmt.Fprintln(bw, strings.Join(fields, " "))
	}

	if masses, ok := src.Section(SectionMasses); ok {
		fmt.Fprintf(bw, "\n%s\n\n", SectionMasses)
		for _, r := range masses.Rows {
			line := strings.Join(r.Fields, " ")
			if r.Comment != "" {
				line += " " + r.Comment
			}
			fmt.Fprintln(bw, line)
		}
	}
	writeSection(bw, SectionAtoms, kept)
	for i, ts := range topologySections {
		writeSection(bw, ts.name, topology[i])
	}
	return flush(bw)
}

// MapSpec is the content of a bond/react map file. Ids are in the numbering
// of the written molecule files.
type MapSpec struct {
	Pairs   []mapping.Pair
	Bonding []string
	Delete  []string
	Edges   []string
}

// WriteMap writes a fix bond/react map file.
func WriteMap(w io.Writer, spec MapSpec) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, MapHeader)
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "%d equivalences\n", len(spec.Pairs))
	if len(spec.Delete) > 0 {
		fmt.Fprintf(bw, "%d deleteIDs\n", len(spec.Delete))
	}
	if len(spec.Edges) > 0 {
		fmt.Fprintf(bw, "%d edgeIDs\n", len(spec.Edges))
	}

	writeIDs(bw, "BondingIDs", spec.Bonding)
	writeIDs(bw, "DeleteIDs", spec.Delete)
	writeIDs(bw, "EdgeIDs", spec.Edges)

	fmt.Fprintf(bw, "\nEquivalences\n\n")
	for _, p := range spec.Pairs {
		fmt.Fprintf(bw, "%s\t%s\n", p.Pre, p.Post)
	}
	return flush(bw)
}

func writeIDs(w io.Writer, name string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n\n", name)
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
}

func writeComment(w io.Writer, term string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(w, "# %s %s\n", term, strings.Join(values, " "))
}

func writeSection(w io.Writer, name string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n\n", name)
	for _, r := range rows {
		fmt.Fprintln(w, strings.Join(r, " "))
	}
}

func flush(bw *bufio.Writer) error {
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrCodeIO, "write failed")
	}
	return nil
}

func titleOr(title, fallback string) string {
	if title != "" {
		return title
	}
	return fallback
}

func identityTable(rows []Row) map[string]string {
	table := make(map[string]string, len(rows))
	for _, r := range rows {
		if len(r.Fields) > 0 {
			table[r.Fields[0]] = r.Fields[0]
		}
	}
	return table
}

// filterRows keeps the rows whose id columns are all in table, rewrites
// those ids through table and sorts by the first column in natural order.
// With resetIDs the first column is replaced by the row's position.
func filterRows(rows []Row, columns []int, table map[string]string, resetIDs bool) [][]string {
	var out [][]string
	for _, r := range rows {
		fields := append([]string(nil), r.Fields...)
		keep := true
		for _, c := range columns {
			if c >= len(fields) {
				keep = false
				break
			}
			n, ok := table[fields[c]]
			if !ok {
				keep = false
				break
			}
			fields[c] = n
		}
		if keep {
			out = append(out, fields)
		}
	}
	if resetIDs {
		for i := range out {
			out[i][0] = strconv.Itoa(i + 1)
		}
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return molecule.NaturalLess(out[i][0], out[j][0]) })
	return out
}
