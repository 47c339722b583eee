package cmd

import (
	"fmt"
	"text/tabwriter"

	"dispatchboard/pkg/api"

	"github.com/spf13/cobra"
)

var techniciansCmd = &cobra.Command{
	Use:     "technicians",
	Aliases: []string{"techs"},
	Short:   "Manage technicians",
	Long:    `Register technicians and list the ones that appear as rows on the board.`,
}

var techniciansCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a technician",
	Long: `Register a technician. New technicians are active unless --status says otherwise.

Example:
  dispatchctl technicians create --name "Ada Lovelace" --color "#2a9d8f" --role plumber`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		status, _ := flags.GetString("status")
		color, _ := flags.GetString("color")
		role, _ := flags.GetString("role")
		unit, _ := flags.GetString("business-unit")

		if name == "" {
			cmd.Println("Error: --name is required")
			return
		}

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		tech, err := client.CreateTechnician(cmd.Context(), api.CreateTechnicianRequest{
			Name:         name,
			Status:       status,
			Color:        color,
			Role:         role,
			BusinessUnit: unit,
		})
		if err != nil {
			printError(cmd, err)
			return
		}

		cmd.Printf("✓ Technician created!\nID: %s\nName: %s\nStatus: %s\n", tech.ID, tech.Name, tech.Status)
	},
}

var techniciansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List technicians",
	Run: func(cmd *cobra.Command, args []string) {
		status, _ := cmd.Flags().GetString("status")

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		resp, err := client.ListTechnicians(cmd.Context(), status)
		if err != nil {
			printError(cmd, err)
			return
		}

		if len(resp.Technicians) == 0 {
			cmd.Println("No technicians found.")
			return
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tROLE\tBUSINESS UNIT")
		for _, t := range resp.Technicians {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Status, dash(t.Role), dash(t.BusinessUnit))
		}
		w.Flush()
	},
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	flags := techniciansCreateCmd.Flags()
	flags.StringP("name", "n", "", "Name of the technician (required)")
	flags.String("status", "", "active, inactive or on_leave (default active)")
	flags.String("color", "", "Card color as a hex code, e.g. #2a9d8f")
	flags.String("role", "", "Trade or role")
	flags.String("business-unit", "", "Business unit")

	techniciansListCmd.Flags().String("status", "", "Only list technicians with this status")

	techniciansCmd.AddCommand(techniciansCreateCmd, techniciansListCmd)
	rootCmd.AddCommand(techniciansCmd)
}
