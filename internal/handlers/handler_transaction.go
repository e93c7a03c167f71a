package handlers

import (
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

type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func registerTransactionCommands(root *cobra.Command, transactionService portssvc.TransactionSvcFacade) {
	h := &transactionHandler{transactionService: transactionService}

	create := &cobra.Command{Use: "create", Short: "Record a transaction and suggest its account", Args: cobra.NoArgs, RunE: h.create}
	create.Flags().String("date", "", "transaction date, yyyy-mm-dd")
	create.Flags().String("direction", "", "INCOME or EXPENSE")
	create.Flags().String("category", "", "transaction category, e.g. RENTAL_INCOME or CLEANING")
	create.Flags().String("amount", "", "positive amount")
	create.Flags().String("counterparty", "", "who paid or was paid")
	create.Flags().String("description", "", "free text")
	for _, name := range []string{"date", "direction", "category", "amount"} {
		_ = create.MarkFlagRequired(name)
	}

	approve := &cobra.Command{Use: "approve <transaction-id>", Short: "Approve a pending transaction against an account", Args: cobra.ExactArgs(1), RunE: h.approve}
	approve.Flags().String("account", "", "account id the transaction books to")
	approve.Flags().String("notes", "", "approval notes")
	_ = approve.MarkFlagRequired("account")

	reject := &cobra.Command{Use: "reject <transaction-id>", Short: "Reject a pending transaction", Args: cobra.ExactArgs(1), RunE: h.reject}
	reject.Flags().String("reason", "", "rejection reason")
	_ = reject.MarkFlagRequired("reason")

	list := &cobra.Command{Use: "list", Short: "List transactions, newest first", Args: cobra.NoArgs, RunE: h.list}
	list.Flags().String("status", "", "PENDING, APPROVED, REJECTED or PROCESSED")
	list.Flags().Int("limit", 0, "maximum rows (0 uses the default)")

	transactions := &cobra.Command{Use: "transactions", Short: "Income and expense transactions"}
	transactions.AddCommand(
		create,
		list,
		&cobra.Command{Use: "show <transaction-id>", Short: "Show a transaction", Args: cobra.ExactArgs(1), RunE: h.show},
		approve,
		reject,
		&cobra.Command{Use: "process <transaction-id>", Short: "Post an approved transaction as a journal entry", Args: cobra.ExactArgs(1), RunE: h.process},
	)
	root.AddCommand(transactions)
}

func (h *transactionHandler) create(cmd *cobra.Command, _ []string) error {
	logger := commandLogger(cmd)
	tenantID, actorID, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "transactions.create", err)
	}
	req, err := transactionRequest(cmd)
	if err != nil {
		return handleError(logger, "transactions.create", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	txn, err := h.transactionService.CreateTransaction(cmd.Context(), tenantID, req, actorID)
	if err != nil {
		return handleError(logger, "transactions.create", err)
	}

	logger.Info("Transaction recorded", slog.String("transaction_id", txn.TransactionID), slog.Bool("suggested", txn.SuggestedAccountID != nil))
	return p.print(txn, func(w io.Writer) { writeTransaction(w, txn) })
}

func transactionRequest(cmd *cobra.Command) (dto.CreateTransactionRequest, error) {
	var req dto.CreateTransactionRequest
	flags := cmd.Flags()
	v, _ := flags.GetString("date")
	date, err := parseDate("date", v)
	if err != nil {
		return req, err
	}
	req.TransactionDate = date
	direction, _ := flags.GetString("direction")
	req.Direction = domain.Direction(strings.ToUpper(direction))
	category, _ := flags.GetString("category")
	req.Category = domain.Category(strings.ToUpper(category))
	amount, _ := flags.GetString("amount")
	if req.Amount, err = decimal.NewFromString(amount); err != nil {
		return req, fmt.Errorf("%w: --amount %q is not a number", apperrors.ErrValidation, amount)
	}
	if counterparty, _ := flags.GetString("counterparty"); counterparty != "" {
		req.Counterparty = &counterparty
	}
	req.Description, _ = flags.GetString("description")
	return req, nil
}

func (h *transactionHandler) list(cmd *cobra.Command, _ []string) error {
	logger := commandLogger(cmd)
	tenantID, _, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "transactions.list", err)
	}
	var status *domain.TransactionStatus
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		s := domain.TransactionStatus(strings.ToUpper(v))
		status = &s
	}
	limit, _ := cmd.Flags().GetInt("limit")
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	txns, err := h.transactionService.ListTransactions(cmd.Context(), tenantID, status, limit)
	if err != nil {
		return handleError(logger, "transactions.list", err)
	}

	return p.print(txns, func(w io.Writer) {
		fmt.Fprintln(w, "DATE\tDIRECTION\tCATEGORY\tAMOUNT\tSTATUS\tCOUNTERPARTY\tID")
		for _, t := range txns {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", t.TransactionDate.Format(dateLayout), t.Direction, t.Category,
				t.Amount.StringFixed(2), t.Status, valueOr(t.Counterparty, "-"), t.TransactionID)
		}
	})
}

func (h *transactionHandler) show(cmd *cobra.Command, args []string) error {
	logger := commandLogger(cmd)
	tenantID, _, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "transactions.show", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	txn, err := h.transactionService.GetTransaction(cmd.Context(), tenantID, args[0])
	if err != nil {
		return handleError(logger, "transactions.show", err)
	}
	return p.print(txn, func(w io.Writer) { writeTransaction(w, txn) })
}

func (h *transactionHandler) approve(cmd *cobra.Command, args []string) error {
	logger := commandLogger(cmd)
	tenantID, actorID, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "transactions.approve", err)
	}
	var req dto.ApproveTransactionRequest
	req.AccountID, _ = cmd.Flags().GetString("account")
	if notes, _ := cmd.Flags().GetString("notes"); notes != "" {
		req.Notes = &notes
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	txn, err := h.transactionService.ApproveTransaction(cmd.Context(), tenantID, args[0], req, actorID)
	if err != nil {
		return handleError(logger, "transactions.approve", err)
	}

	logger.Info("Transaction approved", slog.String("transaction_id", txn.TransactionID), slog.Bool("corrected", txn.Corrected))
	return p.print(txn, func(w io.Writer) { writeTransaction(w, txn) })
}

func (h *transactionHandler) reject(cmd *cobra.Command, args []string) error {
	logger := commandLogger(cmd)
	tenantID, actorID, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "transactions.reject", err)
	}
	reason, _ := cmd.Flags().GetString("reason")
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	txn, err := h.transactionService.RejectTransaction(cmd.Context(), tenantID, args[0], dto.RejectTransactionRequest{Reason: reason}, actorID)
	if err != nil {
		return handleError(logger, "transactions.reject", err)
	}

	logger.Info("Transaction rejected", slog.String("transaction_id", txn.TransactionID))
	return p.print(txn, func(w io.Writer) { writeTransaction(w, txn) })
}

func (h *transactionHandler) process(cmd *cobra.Command, args []string) error {
	logger := commandLogger(cmd)
	tenantID, actorID, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "transactions.process", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	entry, err := h.transactionService.ProcessToJournalEntry(cmd.Context(), tenantID, args[0], actorID)
	if err != nil {
		return handleError(logger, "transactions.process", err)
	}

	logger.Info("Transaction processed",
		slog.String("transaction_id", args[0]),
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber))
	return p.print(entry, func(w io.Writer) { writeEntry(w, entry) })
}

func writeTransaction(w io.Writer, t *domain.Transaction) {
	fmt.Fprintf(w, "id:\t%s\n", t.TransactionID)
	fmt.Fprintf(w, "date:\t%s\n", t.TransactionDate.Format(dateLayout))
	fmt.Fprintf(w, "direction:\t%s %s\n", t.Direction, t.Category)
	fmt.Fprintf(w, "amount:\t%s\n", t.Amount.StringFixed(2))
	fmt.Fprintf(w, "counterparty:\t%s\n", valueOr(t.Counterparty, "-"))
	fmt.Fprintf(w, "status:\t%s\n", t.Status)
	fmt.Fprintf(w, "suggested account:\t%s\n", valueOr(t.SuggestedAccountID, "none"))
	if t.ConfidenceScore != nil {
		fmt.Fprintf(w, "confidence:\t%s\n", t.ConfidenceScore.StringFixed(2))
	}
	if t.ApprovedAccountID != nil {
		fmt.Fprintf(w, "approved account:\t%s\n", *t.ApprovedAccountID)
	}
	if t.JournalEntryID != nil {
		fmt.Fprintf(w, "journal entry:\t%s\n", *t.JournalEntryID)
	}
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
