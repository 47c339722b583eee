package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"dispatchboard/internal/shift"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dispatchctl",
	Short: "dispatchctl is a command line tool for the dispatchboard API",
	Long: `dispatchctl is the command-line interface for dispatchboard, a field-service
dispatch board.

Dispatchers lay out the jobs of a day on a grid of technician rows by 24 hour
columns. Each technician row shows the technician's shift, and jobs placed
outside a shift need an explicit confirmation.

Common workflows:

  Register a technician:
    dispatchctl technicians create --name "Ada" --color "#2a9d8f"

  Roll out a weekday schedule:
    dispatchctl shifts create --staff <tech-id> --from 2025-06-09 --to 2025-06-13 \
      --weekdays mon,tue,wed,thu,fri --start 08:00 --end 17:00

  Book a job:
    dispatchctl jobs create --title "Boiler service" --date 2025-06-09 \
      --tech <tech-id> --start 09:00 --end 11:00

  Move it:
    dispatchctl place <job-id> --tech <tech-id> --start 13:00 --end 15:00

  Print or open the board:
    dispatchctl show --date 2025-06-09
    dispatchctl board --date 2025-06-09

Configuration:
  Set the API endpoint and credentials via environment variables or a config file:
    DISPATCH_URL      API endpoint (default: http://localhost:6161)
    DISPATCH_TOKEN    Tenant API token for authentication`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".dispatchctl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".dispatchctl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "DISPATCH_VARNAME"
	viper.SetEnvPrefix("DISPATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// clientFromConfig builds an API client from the url and token settings.
// It reports false, after printing why, when no token is configured.
func clientFromConfig(cmd *cobra.Command) (*DispatchClient, bool) {
	token := viper.GetString("token")
	if token == "" {
		cmd.Println("API token not found. Please set it using the --token flag or the DISPATCH_TOKEN environment variable")
		return nil, false
	}
	return NewDispatchClient(viper.GetString("url"), token), true
}

func printError(cmd *cobra.Command, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
		return
	}
	cmd.Printf("Error: %v\n", err)
}

// dateFlag reads --date, defaulting to today.
func dateFlag(cmd *cobra.Command) (string, error) {
	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		return time.Now().Format(shift.DateLayout), nil
	}
	if _, err := shift.ParseDate(date); err != nil {
		return "", fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
	}
	return date, nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dispatchctl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:6161", "dispatchboard controller URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))

	rootCmd.PersistentFlags().StringP("token", "t", "", "API Token for authentication")
	viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
}
