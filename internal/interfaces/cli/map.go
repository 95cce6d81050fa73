package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	appmapping "github.com/turtacn/bondmap/internal/application/mapping"
	"github.com/turtacn/bondmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/bondmap/pkg/errors"
)

// mapOptions holds the flags of the map command.
type mapOptions struct {
	saveNames []string
	bonding   []string
	elements  []string
	deletes   []string
	creates   []string
	mapFile   string
	debug     bool
}

// NewMapCmd creates the map command.
func NewMapCmd() *cobra.Command {
	opts := &mapOptions{}
	cmd := &cobra.Command{
		Use:   "map <dir> <pre.data> <post.data>",
		Short: "Map pre-reaction atoms onto post-reaction atoms",
		Long: "Build the atom map between a pre- and a post-reaction LAMMPS data file and\n" +
			"write both molecule files and the map file into <dir>. Nothing is written\n" +
			"unless every stage succeeds.",
		Example: "  bondmap map ./rxn pre.data post.data --save-name pre_mol.data,post_mol.data \\\n" +
			"    --ba 1,6,1,2 --ebt H,C",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithMetrics(cmd, func() error { return runMap(cmd, args, opts) })
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&opts.saveNames, "save-name", nil, "names of the pre and post molecule files to write")
	f.StringSliceVar(&opts.bonding, "ba", nil, "bonding atom ids: pre ids first, then post ids (at least 4)")
	f.StringSliceVar(&opts.elements, "ebt", nil, "element symbol of each atom type, in type order")
	f.StringSliceVar(&opts.deletes, "da", nil, "delete atom ids: pre ids first, then post ids")
	f.StringSliceVar(&opts.creates, "ca", nil, "post-reaction atom ids created by the reaction")
	f.StringVar(&opts.mapFile, "map-file", "", "name of the map file (default from config)")
	f.BoolVar(&opts.debug, "debug", false, "log every mapping decision")
	_ = cmd.MarkFlagRequired("save-name")
	_ = cmd.MarkFlagRequired("ebt")
	return cmd
}

func runMap(cmd *cobra.Command, args []string, opts *mapOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if len(opts.saveNames) != 2 {
		return errors.InvalidParam(fmt.Sprintf("--save-name needs a pre and a post file name, got %d", len(opts.saveNames)))
	}
	if len(opts.bonding) < 4 {
		return errors.InvalidParam(fmt.Sprintf("--ba needs at least 4 atom ids, got %d", len(opts.bonding)))
	}
	preBonding, postBonding, err := splitHalves("--ba", opts.bonding)
	if err != nil {
		return err
	}
	preDelete, postDelete, err := splitHalves("--da", opts.deletes)
	if err != nil {
		return err
	}

	cliCtx.Logger.Debug("starting map",
		logging.String("dir", args[0]),
		logging.Strings("pre_bonding", preBonding),
		logging.Strings("post_bonding", postBonding))

	result, err := cliCtx.Service.Map(cmd.Context(), &appmapping.MapInput{
		Dir:         args[0],
		PreFile:     args[1],
		PostFile:    args[2],
		PreSave:     opts.saveNames[0],
		PostSave:    opts.saveNames[1],
		MapFile:     opts.mapFile,
		Elements:    opts.elements,
		PreBonding:  preBonding,
		PostBonding: postBonding,
		PreDelete:   preDelete,
		PostDelete:  postDelete,
		Create:      opts.creates,
	})
	if err != nil {
		return err
	}

	for _, w := range result.Report.Warnings {
		PrintWarning(cmd, w.String())
	}
	for _, w := range result.Template.Warnings {
		PrintWarning(cmd, w)
	}
	for _, a := range result.Template.Anomalies {
		PrintWarning(cmd, a)
	}
	return PrintResult(cmd, mapView{result})
}

// splitHalves splits ids into a pre half and a post half. An odd count is
// rejected.
func splitHalves(flag string, ids []string) (pre, post []string, err error) {
	if len(ids)%2 != 0 {
		return nil, nil, errors.New(errors.ErrCodeAnchorMismatch,
			fmt.Sprintf("%s needs the same number of pre and post ids, got %d in total", flag, len(ids)))
	}
	half := len(ids) / 2
	return ids[:half], ids[half:], nil
}

// mapView renders a MapResult for the terminal.
type mapView struct {
	*appmapping.MapResult
}

func (v mapView) String() string {
	t := v.Template
	var sb strings.Builder
	fmt.Fprintf(&sb, "Mapped %d atoms", len(t.Pairs))
	if v.Report.Rounds > 0 {
		fmt.Fprintf(&sb, " (%d reconciliation rounds)", v.Report.Rounds)
	}
	sb.WriteString("\n")
	if t.Partial {
		fmt.Fprintf(&sb, "Partial structure: %d pre atoms, %d post atoms\n", len(t.PreTable), len(t.PostTable))
	}
	if t.RingOpening {
		sb.WriteString("Ring opening reaction\n")
	}
	if len(t.Byproducts) > 0 {
		fmt.Fprintf(&sb, "Byproducts: %s\n", strings.Join(t.Byproducts, " "))
	}
	if n := len(v.Report.Warnings); n > 0 {
		fmt.Fprintf(&sb, "Inferences to review: %d\n", n)
	}
	for _, f := range v.Files {
		fmt.Fprintf(&sb, "Wrote %s\n", f)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func (v mapView) TableHeaders() []string {
	return []string{"Pre", "Post", "Method", "Stage"}
}

func (v mapView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Report.Decisions))
	for _, d := range v.Report.Decisions {
		rows = append(rows, []string{d.Pre, d.Post, string(d.Method), string(d.Stage)})
	}
	return rows
}
