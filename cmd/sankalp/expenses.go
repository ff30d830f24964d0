package main

import (
	"time"

	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/model"
	"github.com/spf13/cobra"
)

var expensesCmd = &cobra.Command{
	Use:     "expenses",
	Short:   "Record and review expenses",
	GroupID: "records",
}

var expensesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expenses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		month, _ := cmd.Flags().GetString("month")
		category, _ := cmd.Flags().GetString("category")
		if err := app.LoadExpenses(cmd.Context(), month, category); err != nil {
			return err
		}
		expenses := app.Expenses.All()
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"expenses": expenses,
				"stats":    app.ExpenseStats(),
			})
		}
		printExpenseTable(cmd.OutOrStdout(), expenses, app.ExpenseStats())
		return nil
	},
}

var expensesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an expense",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.NewExpense{}
		req.Category, _ = cmd.Flags().GetString("category")
		req.Date, _ = cmd.Flags().GetString("date")
		req.Description, _ = cmd.Flags().GetString("description")
		req.PaymentMode, _ = cmd.Flags().GetString("mode")
		req.AddedBy, _ = cmd.Flags().GetString("added-by")
		amount, _ := cmd.Flags().GetFloat64("amount")
		req.Amount = model.Number(amount)
		return app.AddExpense(cmd.Context(), req)
	},
}

var expensesDeleteCmd = &cobra.Command{
	Use:   "delete <expense-id>",
	Short: "Remove an expense",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.DeleteExpense(cmd.Context(), args[0])
	},
}

var expensesSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the yearly total by category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")
		summary, err := app.ExpenseSummary(cmd.Context(), year)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), summary)
		}
		if year == 0 {
			year = time.Now().Year()
		}
		printExpenseSummary(cmd.OutOrStdout(), year, summary)
		return nil
	},
}

func init() {
	expensesListCmd.Flags().String("month", "", "only this month, YYYY-MM")
	expensesListCmd.Flags().String("category", "", "only this category")

	expensesAddCmd.Flags().String("category", "", "category (Rent, Salaries, Utilities, ...)")
	expensesAddCmd.Flags().Float64("amount", 0, "amount")
	expensesAddCmd.Flags().String("date", "", "expense date, YYYY-MM-DD (default today)")
	expensesAddCmd.Flags().String("description", "", "description")
	expensesAddCmd.Flags().String("mode", model.ModeCash, "payment mode")
	expensesAddCmd.Flags().String("added-by", "", "who recorded it (default the signed-in operator)")

	expensesSummaryCmd.Flags().Int("year", 0, "year (default this year)")

	expensesCmd.AddCommand(expensesListCmd)
	expensesCmd.AddCommand(expensesAddCmd)
	expensesCmd.AddCommand(expensesDeleteCmd)
	expensesCmd.AddCommand(expensesSummaryCmd)
}
