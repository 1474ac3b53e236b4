package main

import (
	"github.com/spf13/cobra"
)

func (c *cli) regionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions FILE",
		Short: "List the regions of a document",
		Long: `List the regions of a document in offset order.

FILE "-" reads standard input. --from and --to restrict the listing to the
regions overlapping [from, to).

Examples:
  # All standard regions
  mddpart regions letter.mdd

  # Replace regions as JSON
  mddpart regions --scheme replace --json letter.mdd

  # Regions overlapping bytes 100 to 200
  mddpart regions --from 100 --to 200 letter.mdd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := c.openEditor(cmd, args[0])
			if err != nil {
				return err
			}
			defer ed.Close()
			doc := ed.Document()

			scheme, _ := cmd.Flags().GetString("scheme")
			q, err := lookupScheme(doc, scheme)
			if err != nil {
				return err
			}

			from, _ := cmd.Flags().GetInt("from")
			to, _ := cmd.Flags().GetInt("to")
			if !cmd.Flags().Changed("to") {
				to = doc.Len()
			}
			regions, err := q.in(from, to)
			if err != nil {
				return err
			}

			p := c.printer(cmd)
			if !p.json {
				return p.writeRegions(doc, regions)
			}

			js, err := header(ed.Name(), scheme, doc)
			if err != nil {
				return err
			}
			if js, err = setRegions(js, "regions", doc, regions); err != nil {
				return err
			}
			return p.writeJSON(js)
		},
	}

	addSchemeFlag(cmd)
	addJSONFlag(cmd)
	cmd.Flags().Int("from", 0, "start offset")
	cmd.Flags().Int("to", 0, "end offset (default: document length)")
	return cmd
}
