package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/SscSPs/building_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

type entryTransition func(ctx context.Context, tenantID, entryID, actorID string) (*domain.JournalEntry, error)

func registerJournalCommands(root *cobra.Command, journalService portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: journalService}

	list := &cobra.Command{Use: "list", Short: "List entries, newest first", Args: cobra.NoArgs, RunE: h.list}
	list.Flags().String("from", "", "first entry date, yyyy-mm-dd")
	list.Flags().String("to", "", "last entry date, yyyy-mm-dd")
	list.Flags().String("status", "", "DRAFT, PENDING, APPROVED, POSTED or REVERSED")
	list.Flags().Int("limit", 0, "page size (0 uses the default)")
	list.Flags().String("next", "", "token of the page to fetch")

	reverse := &cobra.Command{Use: "reverse <entry-id>", Short: "Post a mirror entry cancelling a posted entry", Args: cobra.ExactArgs(1), RunE: h.reverse}
	reverse.Flags().String("reason", "", "reason recorded on the reversed entry")
	_ = reverse.MarkFlagRequired("reason")

	create := &cobra.Command{Use: "create", Short: "Create a draft entry", Args: cobra.NoArgs, RunE: h.create}
	create.Flags().String("date", "", "entry date, yyyy-mm-dd")
	create.Flags().String("type", string(domain.EntryManual), "MANUAL, AUTO or ADJUSTMENT")
	create.Flags().String("description", "", "entry description")
	create.Flags().StringArray("debit", nil, "debit line as <account-id>=<amount>, repeatable")
	create.Flags().StringArray("credit", nil, "credit line as <account-id>=<amount>, repeatable")
	_ = create.MarkFlagRequired("date")
	_ = create.MarkFlagRequired("description")

	journal := &cobra.Command{Use: "journal", Short: "Journal entries"}
	journal.AddCommand(
		list,
		&cobra.Command{Use: "show <entry-id>", Short: "Show an entry with its lines", Args: cobra.ExactArgs(1), RunE: h.show},
		create,
		&cobra.Command{Use: "submit <entry-id>", Short: "Submit a draft for approval", Args: cobra.ExactArgs(1), RunE: h.submit},
		&cobra.Command{Use: "revert <entry-id>", Short: "Send a pending entry back to draft", Args: cobra.ExactArgs(1), RunE: h.revert},
		&cobra.Command{Use: "approve <entry-id>", Short: "Approve a pending entry", Args: cobra.ExactArgs(1), RunE: h.approve},
		&cobra.Command{Use: "post <entry-id>", Short: "Post an approved entry to the ledger", Args: cobra.ExactArgs(1), RunE: h.post},
		reverse,
	)
	root.AddCommand(journal)
}

func (h *journalHandler) list(cmd *cobra.Command, _ []string) error {
	logger := commandLogger(cmd)
	tenantID, _, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "journal.list", err)
	}
	params, err := listParams(cmd)
	if err != nil {
		return handleError(logger, "journal.list", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	page, err := h.journalService.ListJournalEntries(cmd.Context(), tenantID, params)
	if err != nil {
		return handleError(logger, "journal.list", err)
	}

	return p.print(page, func(w io.Writer) {
		fmt.Fprintln(w, "NUMBER\tDATE\tTYPE\tSTATUS\tAMOUNT\tDESCRIPTION\tID")
		for _, e := range page.Entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", e.EntryNumber, e.EntryDate.Format(dateLayout), e.EntryType,
				e.Status, e.TotalAmount.StringFixed(2), e.Description, e.EntryID)
		}
		if page.NextToken != nil {
			fmt.Fprintf(w, "next page: --next %s\n", *page.NextToken)
		}
	})
}

func listParams(cmd *cobra.Command) (dto.ListJournalEntriesParams, error) {
	var params dto.ListJournalEntriesParams
	flags := cmd.Flags()
	if v, _ := flags.GetString("from"); v != "" {
		from, err := parseDate("from", v)
		if err != nil {
			return params, err
		}
		params.From = &from
	}
	if v, _ := flags.GetString("to"); v != "" {
		to, err := parseDate("to", v)
		if err != nil {
			return params, err
		}
		params.To = &to
	}
	if v, _ := flags.GetString("status"); v != "" {
		status := domain.JournalStatus(strings.ToUpper(v))
		params.Status = &status
	}
	if v, _ := flags.GetString("next"); v != "" {
		params.NextToken = &v
	}
	params.Limit, _ = flags.GetInt("limit")
	return params, dto.Validate("journal entry list", params)
}

func (h *journalHandler) show(cmd *cobra.Command, args []string) error {
	logger := commandLogger(cmd)
	tenantID, _, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "journal.show", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	entry, err := h.journalService.GetJournalEntry(cmd.Context(), tenantID, args[0])
	if err != nil {
		return handleError(logger, "journal.show", err)
	}
	return p.print(entry, func(w io.Writer) { writeEntry(w, entry) })
}

func (h *journalHandler) create(cmd *cobra.Command, _ []string) error {
	logger := commandLogger(cmd)
	tenantID, actorID, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "journal.create", err)
	}
	req, err := entryRequest(cmd)
	if err != nil {
		return handleError(logger, "journal.create", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	entry, err := h.journalService.CreateJournalEntry(cmd.Context(), tenantID, req, actorID)
	if err != nil {
		return handleError(logger, "journal.create", err)
	}

	logger.Info("Journal entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_number", entry.EntryNumber))
	return p.print(entry, func(w io.Writer) { writeEntry(w, entry) })
}

// entryRequest builds the request from flags. Debit lines come first, each side in flag order.
func entryRequest(cmd *cobra.Command) (dto.CreateJournalEntryRequest, error) {
	var req dto.CreateJournalEntryRequest
	flags := cmd.Flags()
	v, _ := flags.GetString("date")
	date, err := parseDate("date", v)
	if err != nil {
		return req, err
	}
	req.EntryDate = date
	entryType, _ := flags.GetString("type")
	req.EntryType = domain.EntryType(strings.ToUpper(entryType))
	req.Description, _ = flags.GetString("description")

	debits, _ := flags.GetStringArray("debit")
	credits, _ := flags.GetStringArray("credit")
	for _, side := range []struct {
		flag  string
		lines []string
	}{{"debit", debits}, {"credit", credits}} {
		for _, raw := range side.lines {
			accountID, amount, err := parseLine(side.flag, raw)
			if err != nil {
				return req, err
			}
			line := dto.CreateJournalEntryLineRequest{AccountID: accountID, LineOrder: len(req.Lines) + 1}
			if side.flag == "debit" {
				line.DebitAmount = amount
			} else {
				line.CreditAmount = amount
			}
			req.Lines = append(req.Lines, line)
		}
	}
	return req, nil
}

func parseLine(flag, raw string) (string, decimal.Decimal, error) {
	accountID, value, ok := strings.Cut(raw, "=")
	if ok {
		amount, err := decimal.NewFromString(strings.TrimSpace(value))
		if err == nil && strings.TrimSpace(accountID) != "" {
			return strings.TrimSpace(accountID), amount, nil
		}
	}
	return "", decimal.Zero, fmt.Errorf("%w: --%s %q must look like <account-id>=<amount>", apperrors.ErrValidation, flag, raw)
}

func (h *journalHandler) submit(cmd *cobra.Command, args []string) error {
	return h.transition(cmd, args[0], "journal.submit", h.journalService.SubmitJournalEntry)
}

func (h *journalHandler) revert(cmd *cobra.Command, args []string) error {
	return h.transition(cmd, args[0], "journal.revert", h.journalService.RevertToDraft)
}

func (h *journalHandler) approve(cmd *cobra.Command, args []string) error {
	return h.transition(cmd, args[0], "journal.approve", h.journalService.ApproveJournalEntry)
}

func (h *journalHandler) post(cmd *cobra.Command, args []string) error {
	return h.transition(cmd, args[0], "journal.post", h.journalService.PostJournalEntry)
}

func (h *journalHandler) transition(cmd *cobra.Command, entryID, operation string, fn entryTransition) error {
	logger := commandLogger(cmd)
	tenantID, actorID, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, operation, err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	entry, err := fn(cmd.Context(), tenantID, entryID, actorID)
	if err != nil {
		return handleError(logger, operation, err)
	}

	logger.Info("Journal entry moved",
		slog.String("operation", operation),
		slog.String("entry_id", entry.EntryID),
		slog.String("status", string(entry.Status)))
	return p.print(entry, func(w io.Writer) { writeEntry(w, entry) })
}

func (h *journalHandler) reverse(cmd *cobra.Command, args []string) error {
	logger := commandLogger(cmd)
	tenantID, actorID, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "journal.reverse", err)
	}
	reason, _ := cmd.Flags().GetString("reason")
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	mirror, err := h.journalService.ReverseJournalEntry(cmd.Context(), tenantID, args[0], dto.ReverseJournalEntryRequest{Reason: reason}, actorID)
	if err != nil {
		return handleError(logger, "journal.reverse", err)
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", args[0]),
		slog.String("reversal_entry_id", mirror.EntryID),
		slog.String("entry_number", mirror.EntryNumber))
	return p.print(mirror, func(w io.Writer) { writeEntry(w, mirror) })
}

func writeEntry(w io.Writer, e *domain.JournalEntry) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.EntryNumber, e.EntryDate.Format(dateLayout), e.EntryType, e.Status)
	fmt.Fprintf(w, "%s\n", e.Description)
	fmt.Fprintln(w, "#\tACCOUNT\tDEBIT\tCREDIT\tDESCRIPTION")
	for _, l := range e.Lines {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", l.LineOrder, l.AccountID, l.DebitAmount.StringFixed(2), l.CreditAmount.StringFixed(2), l.Description)
	}
}
