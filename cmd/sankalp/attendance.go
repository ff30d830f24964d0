package main

import (
	"fmt"
	"strconv"

	"github.com/alfredjeanlab/sankalp/internal/model"
	"github.com/spf13/cobra"
)

var attendanceCmd = &cobra.Command{
	Use:     "attendance",
	Short:   "Mark and review attendance",
	GroupID: "records",
}

var attendanceRosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Show today's marking sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		class, _ := cmd.Flags().GetString("class")
		search, _ := cmd.Flags().GetString("search")
		if err := app.LoadRoster(cmd.Context()); err != nil {
			return err
		}
		rows := app.Roster(class, search)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), rows)
		}
		printRoster(cmd.OutOrStdout(), rows, app.AttendanceStats())
		return nil
	},
}

var attendanceMarkCmd = &cobra.Command{
	Use:   "mark",
	Short: "Submit a day's attendance",
	Long: `Submit a day's attendance for every active student.

Everyone starts out present. Use --absent to mark individual students absent,
or --all-absent with --present to invert the default.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		class, _ := cmd.Flags().GetString("class")
		allAbsent, _ := cmd.Flags().GetBool("all-absent")
		absent, _ := cmd.Flags().GetStringSlice("absent")
		present, _ := cmd.Flags().GetStringSlice("present")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if err := app.LoadRoster(cmd.Context()); err != nil {
			return err
		}
		if allAbsent {
			app.MarkAll(model.Absent, class, "")
		}
		if err := setMarks(absent, model.Absent); err != nil {
			return err
		}
		if err := setMarks(present, model.Present); err != nil {
			return err
		}

		if dryRun {
			printRoster(cmd.OutOrStdout(), app.Roster(class, ""), app.AttendanceStats())
			return nil
		}
		return app.SubmitAttendance(cmd.Context(), date)
	},
}

func setMarks(ids []string, status model.AttendanceStatus) error {
	for _, id := range ids {
		if !app.SetMark(id, status) {
			return fmt.Errorf("student %s is not on the roster", id)
		}
	}
	return nil
}

var attendanceLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the attendance recorded for a day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, _ := cmd.Flags().GetString("date")
		entries, sum, err := app.AttendanceLog(cmd.Context(), date)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"entries": entries,
				"present": sum.Present,
				"absent":  sum.Absent,
			})
		}
		if date == "" {
			date = "today"
		}
		printAttendanceLog(cmd.OutOrStdout(), date, entries, sum)
		return nil
	},
}

var attendanceSetCmd = &cobra.Command{
	Use:   "set <student-id> <percent>",
	Short: "Overwrite a student's overall attendance percentage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pct, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid percentage %q", args[1])
		}
		return app.UpdateAttendancePercent(cmd.Context(), args[0], model.Number(pct))
	},
}

func init() {
	attendanceRosterCmd.Flags().String("class", "", "only this class")
	attendanceRosterCmd.Flags().StringP("search", "q", "", "match name, mobile, course or ID")

	attendanceMarkCmd.Flags().String("date", "", "attendance date, YYYY-MM-DD (default today)")
	attendanceMarkCmd.Flags().String("class", "", "limit --all-absent and --dry-run output to one class")
	attendanceMarkCmd.Flags().Bool("all-absent", false, "start with everyone absent")
	attendanceMarkCmd.Flags().StringSlice("absent", nil, "student IDs to mark absent (repeatable)")
	attendanceMarkCmd.Flags().StringSlice("present", nil, "student IDs to mark present (repeatable)")
	attendanceMarkCmd.Flags().Bool("dry-run", false, "print the sheet instead of submitting it")

	attendanceLogCmd.Flags().String("date", "", "log date, YYYY-MM-DD (default today)")

	attendanceCmd.AddCommand(attendanceRosterCmd)
	attendanceCmd.AddCommand(attendanceMarkCmd)
	attendanceCmd.AddCommand(attendanceLogCmd)
	attendanceCmd.AddCommand(attendanceSetCmd)
}
