package cmd

import (
	"log/slog"
	"os"

	"dispatchboard/internal/logger"
	"dispatchboard/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive dispatch board",
	Long: `Open the dispatch board in the terminal. Drag a card with the mouse to move
it, or drag its first or last column to resize it. Jobs in the unassigned tray
can be dragged onto a technician row.

Example:
  dispatchctl board --date 2025-06-09 --log-file /tmp/dispatchctl.log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		logFile, _ := flags.GetString("log-file")
		cells, _ := flags.GetInt("cells-per-hour")
		refresh, _ := flags.GetDuration("refresh")

		date, err := dateFlag(cmd)
		if err != nil {
			return err
		}

		client, ok := clientFromConfig(cmd)
		if !ok {
			return nil
		}

		opts := []tui.Option{
			tui.WithContext(cmd.Context()),
			tui.WithCellsPerHour(cells),
			tui.WithRefreshInterval(refresh),
		}
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return err
			}
			defer f.Close()
			opts = append(opts, tui.WithLogger(logger.NewWithWriter(f, slog.LevelInfo)))
		}

		feed := boardFeed{client: client}
		p := tea.NewProgram(
			tui.New(feed, feed, date, opts...),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(cmd.Context()),
		)
		_, err = p.Run()
		return err
	},
}

func init() {
	flags := boardCmd.Flags()
	flags.String("date", "", "Date to open, YYYY-MM-DD (default today)")
	flags.String("log-file", "", "Append placement errors to this file")
	flags.Int("cells-per-hour", 4, "Terminal columns per hour")
	flags.Duration("refresh", 0, "Reload interval (default 15s)")

	rootCmd.AddCommand(boardCmd)
}
