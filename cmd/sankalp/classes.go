package main

import (
	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/model"
	"github.com/spf13/cobra"
)

var classesCmd = &cobra.Command{
	Use:     "classes",
	Short:   "Manage classes and batches",
	GroupID: "records",
}

var classesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List classes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		if err := app.LoadClasses(cmd.Context()); err != nil {
			return err
		}
		classes := app.FilterClasses(search)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), classes)
		}
		printClassTable(cmd.OutOrStdout(), classes, app.ClassStats())
		return nil
	},
}

var classesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a class",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.NewClass{}
		req.ClassName, _ = cmd.Flags().GetString("name")
		req.BatchName, _ = cmd.Flags().GetString("batch")
		req.Subject, _ = cmd.Flags().GetString("subject")
		req.TeacherName, _ = cmd.Flags().GetString("teacher")
		req.Schedule, _ = cmd.Flags().GetString("schedule")
		req.Room, _ = cmd.Flags().GetString("room")
		capacity, _ := cmd.Flags().GetFloat64("capacity")
		req.Capacity = model.Number(capacity)
		return app.AddClass(cmd.Context(), req)
	},
}

var classesUpdateCmd = &cobra.Command{
	Use:   "update <class-id>",
	Short: "Change a class's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.ClassUpdate{ClassID: args[0]}
		for flag, dst := range map[string]**string{
			"name":     &req.ClassName,
			"batch":    &req.BatchName,
			"subject":  &req.Subject,
			"teacher":  &req.TeacherName,
			"schedule": &req.Schedule,
			"room":     &req.Room,
			"status":   &req.Status,
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetString(flag)
				*dst = &v
			}
		}
		if cmd.Flags().Changed("capacity") {
			v, _ := cmd.Flags().GetFloat64("capacity")
			n := model.Number(v)
			req.Capacity = &n
		}
		return app.UpdateClass(cmd.Context(), req)
	},
}

var classesDeleteCmd = &cobra.Command{
	Use:   "delete <class-id>",
	Short: "Remove a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.DeleteClass(cmd.Context(), args[0])
	},
}

func classFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "class name")
	cmd.Flags().String("batch", "", "batch name")
	cmd.Flags().String("subject", "", "subject")
	cmd.Flags().String("teacher", "", "teacher name")
	cmd.Flags().String("schedule", "", "schedule, e.g. \"Mon-Fri 7-8am\"")
	cmd.Flags().String("room", "", "room")
	cmd.Flags().Float64("capacity", 0, "seats")
}

func init() {
	classesListCmd.Flags().StringP("search", "q", "", "match name, batch, subject, teacher or room")

	classFlags(classesAddCmd)
	classFlags(classesUpdateCmd)
	classesUpdateCmd.Flags().String("status", "", "status (Active, Inactive)")

	classesCmd.AddCommand(classesListCmd)
	classesCmd.AddCommand(classesAddCmd)
	classesCmd.AddCommand(classesUpdateCmd)
	classesCmd.AddCommand(classesDeleteCmd)
}
