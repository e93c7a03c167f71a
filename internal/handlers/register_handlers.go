package handlers

import (
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

// RegisterCommands attaches every ledger command group to root, injecting the services they use.
func RegisterCommands(root *cobra.Command, services *portssvc.ServiceContainer) {
	root.PersistentFlags().String("tenant", "", "tenant (building) the command acts on")
	root.PersistentFlags().String("actor", "cli", "actor id recorded in audit fields")
	root.PersistentFlags().StringP("output", "o", outputTable, "output format: table or json")

	registerAccountCommands(root, services.Account)
	registerPeriodCommands(root, services.Period)
	registerReportCommands(root, services.Reporting)
	registerRuleCommands(root, services.Classification)
	registerTransactionCommands(root, services.Transaction)
	registerJournalCommands(root, services.Journal)
}
