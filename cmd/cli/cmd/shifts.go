package cmd

import (
	"fmt"
	"text/tabwriter"

	"dispatchboard/pkg/api"

	"github.com/spf13/cobra"
)

var shiftsCmd = &cobra.Command{
	Use:   "shifts",
	Short: "Manage technician shifts",
	Long:  `Roll out working schedules and list the shifts of a day.`,
}

var shiftsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create shifts for a date range",
	Long: `Create one shift per technician per matching day between --from and --to.
Without --weekdays every day in the range gets a shift.

Example:
  dispatchctl shifts create --staff <tech-id> --staff <tech-id> \
    --from 2025-06-09 --to 2025-06-13 --weekdays mon,tue,wed,thu,fri \
    --start 08:00 --end 17:00`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		staff, _ := flags.GetStringSlice("staff")
		from, _ := flags.GetString("from")
		to, _ := flags.GetString("to")
		weekdays, _ := flags.GetStringSlice("weekdays")
		start, _ := flags.GetString("start")
		end, _ := flags.GetString("end")
		shiftType, _ := flags.GetString("type")

		if len(staff) == 0 {
			cmd.Println("Error: --staff is required")
			return
		}
		if from == "" || start == "" || end == "" {
			cmd.Println("Error: --from, --start and --end are required")
			return
		}
		if to == "" {
			to = from
		}

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		resp, err := client.CreateShifts(cmd.Context(), api.CreateShiftsRequest{
			StaffIDs:  staff,
			StartDate: from,
			EndDate:   to,
			Weekdays:  weekdays,
			StartTime: start,
			EndTime:   end,
			Type:      shiftType,
		})
		if err != nil {
			printError(cmd, err)
			return
		}

		cmd.Printf("✓ %d shifts created\n", len(resp.Shifts))
	},
}

var shiftsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the shifts of a day",
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

		resp, err := client.ListShifts(cmd.Context(), date)
		if err != nil {
			printError(cmd, err)
			return
		}

		if len(resp.Shifts) == 0 {
			cmd.Printf("No shifts on %s.\n", date)
			return
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "STAFF\tDATE\tSTART\tEND\tTYPE")
		for _, s := range resp.Shifts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.StaffID, s.Date, s.StartTime, s.EndTime, s.Type)
		}
		w.Flush()
	},
}

func init() {
	flags := shiftsCreateCmd.Flags()
	flags.StringSlice("staff", nil, "Technician IDs (repeatable, required)")
	flags.String("from", "", "First date, YYYY-MM-DD (required)")
	flags.String("to", "", "Last date, YYYY-MM-DD (defaults to --from)")
	flags.StringSlice("weekdays", nil, "Days of the week to include, e.g. mon,tue")
	flags.String("start", "", "Shift start, HH:MM (required)")
	flags.String("end", "", "Shift end, HH:MM (required)")
	flags.String("type", "", "regular or time_off (default regular)")

	shiftsListCmd.Flags().String("date", "", "Date to list, YYYY-MM-DD (default today)")

	shiftsCmd.AddCommand(shiftsCreateCmd, shiftsListCmd)
	rootCmd.AddCommand(shiftsCmd)
}
