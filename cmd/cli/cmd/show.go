package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the board of a day",
	Long: `Print the board of a day as laid out by the controller: one block per
technician with its shift and cards, followed by the unassigned jobs.

Example:
  dispatchctl show --date 2025-06-09`,
	Run: func(cmd *cobra.Command, args []string) {
		date, err := dateFlag(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		board, err := client.GetBoard(cmd.Context(), date)
		if err != nil {
			printError(cmd, err)
			return
		}

		cmd.Printf("%sBoard for %s%s\n\n", colorBold, board.Date, colorReset)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "TECHNICIAN\tSHIFT\tJOB\tTIME\tLEVEL\tTITLE\tSTATUS")
		for _, row := range board.Rows {
			shift := "off"
			if row.Shift != nil {
				shift = row.Shift.StartTime + "-" + row.Shift.EndTime
			}
			if len(row.Cards) == 0 {
				fmt.Fprintf(w, "%s\t%s\t-\t-\t-\t-\t-\n", row.Technician.Name, shift)
				continue
			}
			for i, c := range row.Cards {
				name, band := row.Technician.Name, shift
				if i > 0 {
					name, band = "", ""
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s-%s\t%d\t%s\t%s\n",
					name, band, c.Number, c.StartTime, c.EndTime, c.Level, c.Title, c.Status)
			}
		}
		w.Flush()

		if len(board.Unassigned) == 0 {
			return
		}
		cmd.Printf("\n%sUnassigned%s\n", colorBold, colorReset)
		for _, j := range board.Unassigned {
			cmd.Printf("  %s  %s (%s)\n", j.Number, j.Title, j.Priority)
		}
	},
}

func init() {
	showCmd.Flags().String("date", "", "Date to show, YYYY-MM-DD (default today)")
	rootCmd.AddCommand(showCmd)
}
