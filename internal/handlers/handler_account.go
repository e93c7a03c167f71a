package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/SscSPs/building_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

// accountHandler serves the chart of accounts commands.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

func registerAccountCommands(root *cobra.Command, accountService portssvc.AccountSvcFacade) {
	h := &accountHandler{accountService: accountService}

	accounts := &cobra.Command{Use: "accounts", Short: "Manage the chart of accounts"}
	accounts.AddCommand(
		&cobra.Command{
			Use:   "seed",
			Short: "Create the default chart, skipping codes the tenant already has",
			Args:  cobra.NoArgs,
			RunE:  h.seed,
		},
		h.listCommand(),
		&cobra.Command{
			Use:   "archive <account-id>",
			Short: "Deactivate an account no journal line references",
			Args:  cobra.ExactArgs(1),
			RunE:  h.archive,
		},
	)
	root.AddCommand(accounts)
}

func (h *accountHandler) listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts ordered by code",
		Args:  cobra.NoArgs,
		RunE:  h.list,
	}
	cmd.Flags().String("type", "", "only active accounts of this type (ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE)")
	return cmd
}

func (h *accountHandler) seed(cmd *cobra.Command, _ []string) error {
	logger := commandLogger(cmd)
	tenantID, actorID, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "accounts.seed", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	created, err := h.accountService.SeedDefaultChart(cmd.Context(), tenantID, actorID)
	if err != nil {
		return handleError(logger, "accounts.seed", err)
	}

	logger.Info("Default chart seeded", slog.String("tenant_id", tenantID), slog.Int("created", len(created)))
	return p.print(created, func(w io.Writer) {
		fmt.Fprintf(w, "created %d accounts\n", len(created))
		writeAccounts(w, created)
	})
}

func (h *accountHandler) list(cmd *cobra.Command, _ []string) error {
	logger := commandLogger(cmd)
	tenantID, _, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "accounts.list", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}
	accountType, _ := cmd.Flags().GetString("type")

	var accounts []domain.Account
	if accountType != "" {
		accounts, err = h.accountService.ListActiveAccountsByType(cmd.Context(), tenantID, domain.AccountType(strings.ToUpper(accountType)))
	} else {
		accounts, err = h.accountService.ListAccounts(cmd.Context(), tenantID)
	}
	if err != nil {
		return handleError(logger, "accounts.list", err)
	}

	return p.print(accounts, func(w io.Writer) { writeAccounts(w, accounts) })
}

func (h *accountHandler) archive(cmd *cobra.Command, args []string) error {
	logger := commandLogger(cmd)
	tenantID, actorID, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "accounts.archive", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	account, err := h.accountService.ArchiveAccount(cmd.Context(), tenantID, args[0], actorID)
	if err != nil {
		return handleError(logger, "accounts.archive", err)
	}

	logger.Info("Account archived", slog.String("account_id", account.AccountID))
	return p.print(account, func(w io.Writer) { writeAccounts(w, []domain.Account{*account}) })
}

func writeAccounts(w io.Writer, accounts []domain.Account) {
	fmt.Fprintln(w, "CODE\tNAME\tTYPE\tLEVEL\tACTIVE\tID")
	for _, a := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%t\t%s\n", a.Code, a.Name, a.AccountType, a.Level, a.IsActive, a.AccountID)
	}
}
