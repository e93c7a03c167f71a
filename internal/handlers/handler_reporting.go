package handlers

import (
	"fmt"
	"io"
	"log/slog"

	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func registerReportCommands(root *cobra.Command, reportingService portssvc.ReportingService) {
	h := &reportingHandler{reportingService: reportingService}

	trialBalance := &cobra.Command{
		Use:   "trial-balance",
		Short: "Per account debit, credit and balance of posted entries",
		Args:  cobra.NoArgs,
		RunE:  h.trialBalance,
	}
	trialBalance.Flags().String("from", "", "first day, yyyy-mm-dd")
	trialBalance.Flags().String("to", "", "last day, yyyy-mm-dd")
	_ = trialBalance.MarkFlagRequired("from")
	_ = trialBalance.MarkFlagRequired("to")

	report := &cobra.Command{Use: "report", Short: "Ledger reports"}
	report.AddCommand(trialBalance)
	root.AddCommand(report)
}

func (h *reportingHandler) trialBalance(cmd *cobra.Command, _ []string) error {
	logger := commandLogger(cmd)
	tenantID, _, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "report.trial_balance", err)
	}
	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	from, err := parseDate("from", fromStr)
	if err != nil {
		return handleError(logger, "report.trial_balance", err)
	}
	to, err := parseDate("to", toStr)
	if err != nil {
		return handleError(logger, "report.trial_balance", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	tb, err := h.reportingService.TrialBalance(cmd.Context(), tenantID, from, to)
	if err != nil {
		return handleError(logger, "report.trial_balance", err)
	}

	if !tb.IsBalanced {
		logger.Warn("Trial balance does not balance",
			slog.String("total_debit", tb.TotalDebit.String()),
			slog.String("total_credit", tb.TotalCredit.String()))
	}
	return p.print(tb, func(w io.Writer) {
		fmt.Fprintln(w, "CODE\tACCOUNT\tTYPE\tDEBIT\tCREDIT\tBALANCE")
		for _, row := range tb.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", row.AccountCode, row.AccountName, row.AccountType,
				row.TotalDebit.StringFixed(2), row.TotalCredit.StringFixed(2), row.Balance.StringFixed(2))
		}
		fmt.Fprintf(w, "TOTAL\t\t\t%s\t%s\t\n", tb.TotalDebit.StringFixed(2), tb.TotalCredit.StringFixed(2))
	})
}
