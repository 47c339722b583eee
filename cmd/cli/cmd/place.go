package cmd

import (
	"errors"

	"dispatchboard/pkg/api"

	"github.com/spf13/cobra"
)

var placeCmd = &cobra.Command{
	Use:   "place [job_id]",
	Short: "Move or resize a job",
	Long: `Write a new placement for a job. The job is read first so the write carries
its current version; a concurrent change makes the write fail instead of
overwriting it.

Placing an appointment outside the technician's shift is refused unless
--assign-anyway is given.

Example:
  dispatchctl place <job-id> --tech <tech-id> --start 13:00 --end 15:00
  dispatchctl place <job-id> --tech <tech-id> --start 18:00 --end 19:00 --assign-anyway`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		status, _ := flags.GetString("status")
		anyway, _ := flags.GetBool("assign-anyway")

		appts, err := appointmentFlags(flags)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		if len(appts) == 0 {
			cmd.Println("Error: --tech or --appointment is required")
			return
		}

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		current, err := client.GetJob(cmd.Context(), args[0])
		if err != nil {
			printError(cmd, err)
			return
		}

		job, err := client.UpdatePlacement(cmd.Context(), args[0], api.PlacementRequest{
			Appointments: appts,
			Status:       status,
			Version:      current.Version,
			AssignAnyway: anyway,
		})
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Code == api.CodeConfirmationRequired {
				cmd.Printf("%s⚠ Outside shift:%s\n", colorYellow, colorReset)
				for _, a := range apiErr.OutsideShift {
					cmd.Printf("  %s  %s-%s\n", a.TechnicianID, a.StartTime, a.EndTime)
				}
				cmd.Println("Re-run with --assign-anyway to place it regardless.")
				return
			}
			printError(cmd, err)
			return
		}

		cmd.Printf("✓ %s placed (version %d)\n", job.Number, job.Version)
	},
}

func init() {
	flags := placeCmd.Flags()
	addAppointmentFlags(flags)
	flags.String("status", "", "New job status")
	flags.Bool("assign-anyway", false, "Place appointments outside the technician's shift")

	rootCmd.AddCommand(placeCmd)
}
