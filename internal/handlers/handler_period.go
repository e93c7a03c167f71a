package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/SscSPs/building_ledger/internal/dto"
	"github.com/spf13/cobra"
)

type periodHandler struct {
	periodService portssvc.PeriodSvcFacade
}

type periodTransition func(ctx context.Context, tenantID string, fiscalYear, periodNumber int, actorID string) (*domain.FinancialPeriod, error)

func registerPeriodCommands(root *cobra.Command, periodService portssvc.PeriodSvcFacade) {
	h := &periodHandler{periodService: periodService}

	periods := &cobra.Command{Use: "periods", Short: "Open, close and lock monthly financial periods"}
	periods.AddCommand(
		&cobra.Command{Use: "open <yyyy-mm>", Short: "Open a monthly period", Args: cobra.ExactArgs(1), RunE: h.open},
		&cobra.Command{Use: "check <yyyy-mm>", Short: "Report what blocks closing a period", Args: cobra.ExactArgs(1), RunE: h.check},
		&cobra.Command{Use: "close <yyyy-mm>", Short: "Close an open period", Args: cobra.ExactArgs(1), RunE: h.close},
		&cobra.Command{Use: "lock <yyyy-mm>", Short: "Lock a closed period for good", Args: cobra.ExactArgs(1), RunE: h.lock},
	)
	root.AddCommand(periods)
}

// parsePeriodRef accepts "2025-03" and validates it like any other request.
func parsePeriodRef(arg string) (dto.PeriodRef, error) {
	var ref dto.PeriodRef
	year, month, ok := strings.Cut(arg, "-")
	y, yErr := strconv.Atoi(year)
	m, mErr := strconv.Atoi(month)
	if !ok || yErr != nil || mErr != nil {
		return ref, fmt.Errorf("%w: period %q must look like yyyy-mm", apperrors.ErrValidation, arg)
	}
	ref.FiscalYear, ref.PeriodNumber = y, m
	return ref, dto.Validate("period", ref)
}

func (h *periodHandler) open(cmd *cobra.Command, args []string) error {
	return h.transition(cmd, args[0], "periods.open", h.periodService.OpenPeriod)
}

func (h *periodHandler) close(cmd *cobra.Command, args []string) error {
	return h.transition(cmd, args[0], "periods.close", h.periodService.ClosePeriod)
}

func (h *periodHandler) lock(cmd *cobra.Command, args []string) error {
	return h.transition(cmd, args[0], "periods.lock", h.periodService.LockPeriod)
}

func (h *periodHandler) transition(cmd *cobra.Command, arg, operation string, apply periodTransition) error {
	logger := commandLogger(cmd)
	tenantID, actorID, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, operation, err)
	}
	ref, err := parsePeriodRef(arg)
	if err != nil {
		return handleError(logger, operation, err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	period, err := apply(cmd.Context(), tenantID, ref.FiscalYear, ref.PeriodNumber, actorID)
	if err != nil {
		return handleError(logger, operation, err)
	}

	logger.Info("Period updated",
		slog.String("operation", operation),
		slog.String("period_id", period.PeriodID),
		slog.String("status", string(period.Status)))
	return p.print(period, func(w io.Writer) {
		fmt.Fprintln(w, "PERIOD\tFROM\tTO\tSTATUS")
		fmt.Fprintf(w, "%d-%02d\t%s\t%s\t%s\n", period.FiscalYear, period.PeriodNumber,
			period.StartDate.Format(dateLayout), period.EndDate.Format(dateLayout), period.Status)
	})
}

// check prints the close report. A period that cannot close is not an error for this command.
func (h *periodHandler) check(cmd *cobra.Command, args []string) error {
	logger := commandLogger(cmd)
	tenantID, _, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "periods.check", err)
	}
	ref, err := parsePeriodRef(args[0])
	if err != nil {
		return handleError(logger, "periods.check", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	report, err := h.periodService.ValidatePeriodClose(cmd.Context(), tenantID, ref.FiscalYear, ref.PeriodNumber)
	if err != nil {
		return handleError(logger, "periods.check", err)
	}

	return p.print(report, func(w io.Writer) {
		fmt.Fprintf(w, "period %d-%02d\n", report.FiscalYear, report.PeriodNumber)
		fmt.Fprintf(w, "unposted entries:\t%d\n", report.UnpostedCount)
		fmt.Fprintf(w, "posted debits:\t%s\n", report.TotalDebit.StringFixed(2))
		fmt.Fprintf(w, "posted credits:\t%s\n", report.TotalCredit.StringFixed(2))
		if report.CanClose() {
			fmt.Fprintln(w, "ready to close")
			return
		}
		for _, issue := range report.Issues {
			fmt.Fprintf(w, "- %s\n", issue)
		}
	})
}
