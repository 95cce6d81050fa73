package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	appmapping "github.com/turtacn/bondmap/internal/application/mapping"
)

// NewMoleculeCmd creates the molecule command.
func NewMoleculeCmd() *cobra.Command {
	var saveName string
	cmd := &cobra.Command{
		Use:   "molecule <dir> <data>",
		Short: "Convert a LAMMPS data file into a molecule file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithMetrics(cmd, func() error {
				cliCtx, err := GetCLIContext(cmd)
				if err != nil {
					return err
				}
				result, err := cliCtx.Service.Molecule(cmd.Context(), &appmapping.MoleculeInput{
					Dir:      args[0],
					DataFile: args[1],
					SaveName: saveName,
				})
				if err != nil {
					return err
				}
				return PrintResult(cmd, fileView{result})
			})
		},
	}
	cmd.Flags().StringVar(&saveName, "save-name", "", "name of the molecule file to write")
	_ = cmd.MarkFlagRequired("save-name")
	return cmd
}

// fileView renders a FileResult for the terminal.
type fileView struct {
	*appmapping.FileResult
}

func (v fileView) String() string {
	return fmt.Sprintf("Converted %d atoms\nWrote %s", v.Atoms, strings.Join(v.Files, ", "))
}
