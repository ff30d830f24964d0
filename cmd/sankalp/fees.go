package main

import (
	"fmt"

	"github.com/alfredjeanlab/sankalp/internal/console"
	"github.com/alfredjeanlab/sankalp/internal/model"
	"github.com/spf13/cobra"
)

var feesCmd = &cobra.Command{
	Use:     "fees",
	Short:   "Track fee payments",
	GroupID: "records",
}

var feesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fee records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		status, _ := cmd.Flags().GetString("status")
		fs := model.FeeStatus(status)
		if status != "" && !fs.IsValid() {
			return fmt.Errorf("invalid --status %q (must be paid, partial or unpaid)", status)
		}
		if err := app.LoadFees(cmd.Context()); err != nil {
			return err
		}
		students := app.FilterFees(search, fs)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"students": students,
				"stats":    app.FeeStats(),
			})
		}
		printFeeTable(cmd.OutOrStdout(), students, app.FeeStats())
		return nil
	},
}

var feesPayCmd = &cobra.Command{
	Use:   "pay <student-id>",
	Short: "Record a fee payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, _ := cmd.Flags().GetFloat64("amount")
		date, _ := cmd.Flags().GetString("date")
		mode, _ := cmd.Flags().GetString("mode")
		remark, _ := cmd.Flags().GetString("remark")

		if err := app.LoadFees(cmd.Context()); err != nil {
			return err
		}
		return app.RecordPayment(cmd.Context(), console.Payment{
			StudentID: args[0],
			Amount:    model.Number(amount),
			Date:      date,
			Mode:      mode,
			Remark:    remark,
		})
	},
}

var feesUpdateCmd = &cobra.Command{
	Use:   "update <student-id>",
	Short: "Correct a student's yearly fee and amount paid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.LoadFees(cmd.Context()); err != nil {
			return err
		}
		cur, ok := app.FeeStudents.Get(args[0])
		if !ok {
			return fmt.Errorf("student %s not found", args[0])
		}
		yearly, paid := cur.YearlyFee, cur.FeesPaid
		if cmd.Flags().Changed("yearly-fee") {
			v, _ := cmd.Flags().GetFloat64("yearly-fee")
			yearly = model.Number(v)
		}
		if cmd.Flags().Changed("paid") {
			v, _ := cmd.Flags().GetFloat64("paid")
			paid = model.Number(v)
		}
		return app.UpdateFees(cmd.Context(), args[0], yearly, paid)
	},
}

var feesHistoryCmd = &cobra.Command{
	Use:   "history [student-id]",
	Short: "Show recorded payments",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		if len(args) == 1 {
			id = args[0]
		}
		payments, total, err := app.PaymentHistory(cmd.Context(), id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"payments": payments,
				"total":    total,
			})
		}
		printPaymentTable(cmd.OutOrStdout(), payments, total)
		return nil
	},
}

func init() {
	feesListCmd.Flags().StringP("search", "q", "", "match name, mobile, class, course or ID")
	feesListCmd.Flags().StringP("status", "s", "", "filter by fee status (paid, partial, unpaid)")

	feesPayCmd.Flags().Float64("amount", 0, "amount paid")
	feesPayCmd.Flags().String("date", "", "payment date, YYYY-MM-DD (default today)")
	feesPayCmd.Flags().String("mode", model.ModeCash, "payment mode (Cash, UPI, Bank Transfer)")
	feesPayCmd.Flags().String("remark", "", "remark")

	feesUpdateCmd.Flags().Float64("yearly-fee", 0, "new yearly fee")
	feesUpdateCmd.Flags().Float64("paid", 0, "new total paid")

	feesCmd.AddCommand(feesListCmd)
	feesCmd.AddCommand(feesPayCmd)
	feesCmd.AddCommand(feesUpdateCmd)
	feesCmd.AddCommand(feesHistoryCmd)
}
