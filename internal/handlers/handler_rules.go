package handlers

import (
	"fmt"
	"io"
	"log/slog"

	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/spf13/cobra"
)

type ruleHandler struct {
	ruleService portssvc.RuleManagerSvc
}

func registerRuleCommands(root *cobra.Command, ruleService portssvc.RuleManagerSvc) {
	h := &ruleHandler{ruleService: ruleService}

	rules := &cobra.Command{Use: "rules", Short: "Inspect classification rules"}
	rules.AddCommand(
		&cobra.Command{Use: "list", Short: "List rules in evaluation order", Args: cobra.NoArgs, RunE: h.list},
		&cobra.Command{Use: "analyze", Short: "Usage and success statistics of the rule set", Args: cobra.NoArgs, RunE: h.analyze},
		&cobra.Command{Use: "deactivate <rule-id>", Short: "Stop a rule from matching", Args: cobra.ExactArgs(1), RunE: h.deactivate},
	)
	root.AddCommand(rules)
}

func (h *ruleHandler) list(cmd *cobra.Command, _ []string) error {
	logger := commandLogger(cmd)
	tenantID, _, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "rules.list", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	rules, err := h.ruleService.ListRules(cmd.Context(), tenantID)
	if err != nil {
		return handleError(logger, "rules.list", err)
	}

	return p.print(rules, func(w io.Writer) {
		fmt.Fprintln(w, "PRIORITY\tNAME\tDIRECTION\tCONFIDENCE\tUSED\tSUCCEEDED\tACTIVE\tAUTO\tID")
		for _, r := range rules {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%t\t%t\t%s\n", r.Priority, r.Name, r.Direction,
				r.Confidence.StringFixed(2), r.UsageCount, r.SuccessCount, r.IsActive, r.IsAutoGenerated, r.RuleID)
		}
	})
}

func (h *ruleHandler) analyze(cmd *cobra.Command, _ []string) error {
	logger := commandLogger(cmd)
	tenantID, _, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "rules.analyze", err)
	}
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	analysis, err := h.ruleService.AnalyzePatterns(cmd.Context(), tenantID)
	if err != nil {
		return handleError(logger, "rules.analyze", err)
	}

	return p.print(analysis, func(w io.Writer) {
		fmt.Fprintf(w, "rules:\t%d (%d active, %d learned)\n", analysis.TotalRules, analysis.ActiveRules, analysis.AutoGeneratedRules)
		fmt.Fprintf(w, "usage:\t%d\n", analysis.TotalUsage)
		fmt.Fprintf(w, "successes:\t%d\n", analysis.TotalSuccess)
		fmt.Fprintf(w, "average success rate:\t%s\n", analysis.AverageSuccessRate.StringFixed(2))
		if len(analysis.TopPerforming) > 0 {
			fmt.Fprintln(w, "top performing:")
			for _, s := range analysis.TopPerforming {
				fmt.Fprintf(w, "  %s\t%s\t%d/%d\n", s.Name, s.SuccessRate.StringFixed(2), s.SuccessCount, s.UsageCount)
			}
		}
		if len(analysis.MostUsed) > 0 {
			fmt.Fprintln(w, "most used:")
			for _, s := range analysis.MostUsed {
				fmt.Fprintf(w, "  %s\t%d\n", s.Name, s.UsageCount)
			}
		}
	})
}

func (h *ruleHandler) deactivate(cmd *cobra.Command, args []string) error {
	logger := commandLogger(cmd)
	tenantID, actorID, err := tenantAndActor(cmd)
	if err != nil {
		return handleError(logger, "rules.deactivate", err)
	}

	rule, err := h.ruleService.DeactivateRule(cmd.Context(), tenantID, args[0], actorID)
	if err != nil {
		return handleError(logger, "rules.deactivate", err)
	}

	logger.Info("Rule deactivated", slog.String("rule_id", rule.RuleID), slog.String("name", rule.Name))
	fmt.Fprintf(cmd.OutOrStdout(), "rule %q deactivated\n", rule.Name)
	return nil
}
