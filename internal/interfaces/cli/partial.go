package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	appmapping "github.com/turtacn/bondmap/internal/application/mapping"
)

type partialOptions struct {
	saveName string
	bonding  []string
	elements []string
	deletes  []string
	distance int
}

// NewPartialCmd creates the partial command.
func NewPartialCmd() *cobra.Command {
	opts := &partialOptions{}
	cmd := &cobra.Command{
		Use:   "partial <dir> <data>",
		Short: "Cut a LAMMPS data file down to the atoms around the bonding atoms",
		Long: "Keep the atoms within --distance bonds of any bonding atom, plus the delete\n" +
			"atoms, and write them as a data file. Bonding atoms, edge atoms and edge\n" +
			"fingerprints are recorded as top comments for a later map run.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithMetrics(cmd, func() error { return runPartial(cmd, args, opts) })
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.saveName, "save-name", "", "name of the data file to write")
	f.StringSliceVar(&opts.bonding, "ba", nil, "bonding atom ids")
	f.StringSliceVar(&opts.elements, "ebt", nil, "element symbol of each atom type, in type order")
	f.StringSliceVar(&opts.deletes, "da", nil, "delete atom ids, always kept")
	f.IntVar(&opts.distance, "distance", 0, "bond radius to keep (default from config)")
	_ = cmd.MarkFlagRequired("save-name")
	_ = cmd.MarkFlagRequired("ba")
	_ = cmd.MarkFlagRequired("ebt")
	return cmd
}

func runPartial(cmd *cobra.Command, args []string, opts *partialOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	result, err := cliCtx.Service.Partial(cmd.Context(), &appmapping.PartialInput{
		Dir:      args[0],
		DataFile: args[1],
		SaveName: opts.saveName,
		Elements: opts.elements,
		Bonding:  opts.bonding,
		Delete:   opts.deletes,
		Distance: opts.distance,
	})
	if err != nil {
		return err
	}
	return PrintResult(cmd, partialView{result})
}

// partialView renders a PartialResult for the terminal.
type partialView struct {
	*appmapping.PartialResult
}

func (v partialView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Kept %d of %d atoms\n", len(v.Kept), v.Atoms)
	for _, e := range v.Edges {
		fmt.Fprintf(&sb, "Edge atom %s (%s)\n", e.ID, e.Fingerprint)
	}
	fmt.Fprintf(&sb, "Wrote %s", strings.Join(v.Files, ", "))
	return sb.String()
}

func (v partialView) TableHeaders() []string {
	return []string{"Edge atom", "Fingerprint"}
}

func (v partialView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Edges))
	for _, e := range v.Edges {
		rows = append(rows, []string{e.ID, e.Fingerprint})
	}
	return rows
}
