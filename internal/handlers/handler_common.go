package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/middleware"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

const (
	outputTable = "table"
	outputJSON  = "json"
)

// commandLogger returns the run-scoped logger, falling back to the default one.
func commandLogger(cmd *cobra.Command) *slog.Logger {
	if logger := middleware.GetLoggerFromCtx(cmd.Context()); logger != nil {
		return logger
	}
	return slog.Default()
}

// tenantAndActor reads the persistent --tenant and --actor flags.
func tenantAndActor(cmd *cobra.Command) (string, string, error) {
	tenantID, err := cmd.Flags().GetString("tenant")
	if err != nil {
		return "", "", err
	}
	if tenantID == "" {
		return "", "", fmt.Errorf("%w: --tenant is required", apperrors.ErrValidation)
	}
	actorID, err := cmd.Flags().GetString("actor")
	if err != nil {
		return "", "", err
	}
	return tenantID, actorID, nil
}

// handleError logs err at a level matching its kind and returns it for cobra to report.
func handleError(logger *slog.Logger, operation string, err error) error {
	attrs := []any{slog.String("operation", operation), slog.String("error", err.Error())}
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrAccessDenied),
		errors.Is(err, apperrors.ErrInvalidState),
		errors.Is(err, apperrors.ErrPeriodLocked),
		errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Command rejected", attrs...)
	default:
		logger.Error("Command failed", attrs...)
	}
	return err
}

func parseDate(name, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: --%s must look like %s", apperrors.ErrValidation, name, dateLayout)
	}
	return t, nil
}

// printer writes either aligned tables or indented JSON.
type printer struct {
	out    io.Writer
	format string
}

func newPrinter(cmd *cobra.Command) (*printer, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}
	if format != outputTable && format != outputJSON {
		return nil, fmt.Errorf("%w: --output must be %s or %s", apperrors.ErrValidation, outputTable, outputJSON)
	}
	return &printer{out: cmd.OutOrStdout(), format: format}, nil
}

// print renders v as JSON, or calls table with a tabwriter that is flushed afterwards.
func (p *printer) print(v any, table func(w io.Writer)) error {
	if p.format == outputJSON {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}
