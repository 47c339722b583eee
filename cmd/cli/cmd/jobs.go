package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"dispatchboard/pkg/api"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage jobs",
	Long:  `Book jobs and inspect the jobs of a day.`,
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Book a job",
	Long: `Book a job. Without a technician the job lands in the unassigned tray.

A job staffed by several technicians takes one --appointment per technician,
written as TECH_ID,START,END.

Example:
  dispatchctl jobs create --title "Boiler service" --date 2025-06-09 --tech <tech-id> --start 09:00 --end 11:00
  dispatchctl jobs create --title "Roof repair" --date 2025-06-09 \
    --appointment <tech-a>,08:00,12:00 --appointment <tech-b>,10:00,12:00`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		title, _ := flags.GetString("title")
		priority, _ := flags.GetString("priority")
		status, _ := flags.GetString("status")

		if title == "" {
			cmd.Println("Error: --title is required")
			return
		}
		date, err := dateFlag(cmd)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}
		appts, err := appointmentFlags(flags)
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			return
		}

		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		job, err := client.CreateJob(cmd.Context(), api.CreateJobRequest{
			Title:        title,
			Date:         date,
			Priority:     priority,
			Status:       status,
			Appointments: appts,
		})
		if err != nil {
			printError(cmd, err)
			return
		}

		cmd.Printf("✓ Job created!\nID: %s\nNumber: %s\n", job.ID, job.Number)
	},
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the jobs of a day",
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

		resp, err := client.ListJobs(cmd.Context(), date)
		if err != nil {
			printError(cmd, err)
			return
		}

		if len(resp.Jobs) == 0 {
			cmd.Printf("No jobs on %s.\n", date)
			return
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNUMBER\tTITLE\tSTATUS\tPRIORITY\tAPPOINTMENTS\tVERSION")
		for _, j := range resp.Jobs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
				j.ID, j.Number, j.Title, j.Status, j.Priority, formatAppointments(j.Appointments), j.Version)
		}
		w.Flush()
	},
}

var jobsGetCmd = &cobra.Command{
	Use:   "get [job_id]",
	Short: "Show a job",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client, ok := clientFromConfig(cmd)
		if !ok {
			return
		}

		job, err := client.GetJob(cmd.Context(), args[0])
		if err != nil {
			printError(cmd, err)
			return
		}
		printJob(cmd, job)
	},
}

func printJob(cmd *cobra.Command, job *api.JobResponse) {
	cmd.Printf("%s%s%s %s\n", colorBold, job.Number, colorReset, job.Title)
	cmd.Println("──────────────────────────────")
	cmd.Printf("%sID:%s           %s\n", colorDim, colorReset, job.ID)
	cmd.Printf("%sDate:%s         %s\n", colorDim, colorReset, job.Date)
	cmd.Printf("%sStatus:%s       %s\n", colorDim, colorReset, job.Status)
	cmd.Printf("%sPriority:%s     %s\n", colorDim, colorReset, job.Priority)
	cmd.Printf("%sVersion:%s      %d\n", colorDim, colorReset, job.Version)
	if len(job.Appointments) == 0 {
		cmd.Printf("%sAppointments:%s %sunassigned%s\n", colorDim, colorReset, colorYellow, colorReset)
		return
	}
	cmd.Printf("%sAppointments:%s\n", colorDim, colorReset)
	for _, a := range job.Appointments {
		cmd.Printf("  %s  %s-%s\n", a.TechnicianID, a.StartTime, a.EndTime)
	}
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorYellow = "\033[33m"
)

func formatAppointments(appts []api.Appointment) string {
	if len(appts) == 0 {
		return "unassigned"
	}
	parts := make([]string, len(appts))
	for i, a := range appts {
		parts[i] = fmt.Sprintf("%s %s-%s", shortID(a.TechnicianID), a.StartTime, a.EndTime)
	}
	return strings.Join(parts, ", ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// appointmentFlags reads --appointment entries, or the --tech/--start/--end
// shorthand for a single technician.
func appointmentFlags(flags *pflag.FlagSet) ([]api.Appointment, error) {
	raw, _ := flags.GetStringArray("appointment")
	tech, _ := flags.GetString("tech")
	start, _ := flags.GetString("start")
	end, _ := flags.GetString("end")

	if len(raw) > 0 && tech != "" {
		return nil, fmt.Errorf("use either --appointment or --tech, not both")
	}

	if tech != "" {
		if start == "" || end == "" {
			return nil, fmt.Errorf("--start and --end are required with --tech")
		}
		return []api.Appointment{{TechnicianID: tech, StartTime: start, EndTime: end}}, nil
	}

	appts := make([]api.Appointment, 0, len(raw))
	for _, r := range raw {
		parts := strings.Split(r, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid --appointment %q, expected TECH_ID,START,END", r)
		}
		appts = append(appts, api.Appointment{
			TechnicianID: strings.TrimSpace(parts[0]),
			StartTime:    strings.TrimSpace(parts[1]),
			EndTime:      strings.TrimSpace(parts[2]),
		})
	}
	return appts, nil
}

func addAppointmentFlags(flags *pflag.FlagSet) {
	flags.StringArray("appointment", nil, "TECH_ID,START,END (repeatable)")
	flags.String("tech", "", "Technician ID for a single appointment")
	flags.String("start", "", "Appointment start, HH:MM")
	flags.String("end", "", "Appointment end, HH:MM")
}

func init() {
	flags := jobsCreateCmd.Flags()
	flags.String("title", "", "Job title (required)")
	flags.String("date", "", "Job date, YYYY-MM-DD (default today)")
	flags.String("priority", "", "low, normal, high or emergency (default normal)")
	flags.String("status", "", "Initial status (default scheduled)")
	addAppointmentFlags(flags)

	jobsListCmd.Flags().String("date", "", "Date to list, YYYY-MM-DD (default today)")

	jobsCmd.AddCommand(jobsCreateCmd, jobsListCmd, jobsGetCmd)
	rootCmd.AddCommand(jobsCmd)
}
