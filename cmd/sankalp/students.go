package main

import (
	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/model"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Short:   "Show student, fee and expense totals",
	GroupID: "records",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := app.LoadDashboard(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), d)
		}
		printDashboard(cmd.OutOrStdout(), d)
		return nil
	},
}

var studentsCmd = &cobra.Command{
	Use:     "students",
	Short:   "List, admit and remove students",
	GroupID: "records",
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List students",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		if err := app.LoadStudents(cmd.Context()); err != nil {
			return err
		}
		students := app.FilterStudents(search)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), students)
		}
		printStudentTable(cmd.OutOrStdout(), students)
		return nil
	},
}

var studentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Admit a student",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.NewStudent{}
		req.Name, _ = cmd.Flags().GetString("name")
		req.FatherName, _ = cmd.Flags().GetString("father")
		req.Mobile, _ = cmd.Flags().GetString("mobile")
		req.Class, _ = cmd.Flags().GetString("class")
		req.Course, _ = cmd.Flags().GetString("course")
		req.AdmissionDate, _ = cmd.Flags().GetString("admission-date")
		yearly, _ := cmd.Flags().GetFloat64("yearly-fee")
		paid, _ := cmd.Flags().GetFloat64("paid")
		req.YearlyFee = model.Number(yearly)
		req.FeesPaid = model.Number(paid)
		return app.AddStudent(cmd.Context(), req)
	},
}

var studentsDeleteCmd = &cobra.Command{
	Use:   "delete <student-id>",
	Short: "Remove a student",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.DeleteStudent(cmd.Context(), args[0])
	},
}

func init() {
	studentsListCmd.Flags().StringP("search", "q", "", "match name, mobile, class, course, ID or father's name")

	studentsAddCmd.Flags().String("name", "", "student name")
	studentsAddCmd.Flags().String("father", "", "father's name")
	studentsAddCmd.Flags().String("mobile", "", "mobile number")
	studentsAddCmd.Flags().String("class", "", "class")
	studentsAddCmd.Flags().String("course", "", "course")
	studentsAddCmd.Flags().String("admission-date", "", "admission date, YYYY-MM-DD (default today)")
	studentsAddCmd.Flags().Float64("yearly-fee", 0, "yearly fee")
	studentsAddCmd.Flags().Float64("paid", 0, "fees already paid")

	studentsCmd.AddCommand(studentsListCmd)
	studentsCmd.AddCommand(studentsAddCmd)
	studentsCmd.AddCommand(studentsDeleteCmd)
}
