package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/building_ledger/internal/apperrors"
	"github.com/SscSPs/building_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/building_ledger/internal/core/ports/services"
	"github.com/SscSPs/building_ledger/internal/handlers"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CommandTestSuite struct {
	suite.Suite
	mockPeriodService    *MockPeriodService
	mockReportingService *MockReportingService
}

func (suite *CommandTestSuite) SetupTest() {
	suite.mockPeriodService = new(MockPeriodService)
	suite.mockReportingService = new(MockReportingService)
}

// run executes args against a fresh command tree and returns what was printed.
func (suite *CommandTestSuite) run(args ...string) (string, error) {
	root := &cobra.Command{Use: "ledger", SilenceUsage: true, SilenceErrors: true}
	handlers.RegisterCommands(root, &portssvc.ServiceContainer{
		Period:    suite.mockPeriodService,
		Reporting: suite.mockReportingService,
	})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func march(day int) time.Time {
	return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
}

func (suite *CommandTestSuite) TestTrialBalance_Table() {
	tb := &domain.TrialBalance{
		TenantID: "t1",
		From:     march(1),
		To:       march(31),
		Rows: []domain.TrialBalanceRow{
			{AccountCode: "1100", AccountName: "Cash", AccountType: domain.Asset,
				TotalDebit: decimal.NewFromInt(150000), TotalCredit: decimal.Zero, Balance: decimal.NewFromInt(150000)},
			{AccountCode: "4100", AccountName: "Rental income", AccountType: domain.Revenue,
				TotalDebit: decimal.Zero, TotalCredit: decimal.NewFromInt(150000), Balance: decimal.NewFromInt(150000)},
		},
		TotalDebit:  decimal.NewFromInt(150000),
		TotalCredit: decimal.NewFromInt(150000),
		IsBalanced:  true,
	}
	suite.mockReportingService.On("TrialBalance", mock.Anything, "t1", march(1), march(31)).Return(tb, nil).Once()

	out, err := suite.run("report", "trial-balance", "--tenant", "t1", "--from", "2025-03-01", "--to", "2025-03-31")

	suite.Require().NoError(err)
	suite.Contains(out, "Rental income")
	suite.Contains(out, "150000.00")
	suite.Contains(out, "TOTAL")
	suite.mockReportingService.AssertExpectations(suite.T())
}

func (suite *CommandTestSuite) TestTrialBalance_RejectsBadInput() {
	_, err := suite.run("report", "trial-balance", "--tenant", "t1", "--from", "03/01/2025", "--to", "2025-03-31")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.run("report", "trial-balance", "--from", "2025-03-01", "--to", "2025-03-31")
	suite.ErrorIs(err, apperrors.ErrValidation, "tenant is required")

	_, err = suite.run("report", "trial-balance", "--tenant", "t1", "--from", "2025-03-01", "--to", "2025-03-31", "-o", "xml")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockReportingService.AssertNotCalled(suite.T(), "TrialBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CommandTestSuite) TestPeriods_Close() {
	closed := &domain.FinancialPeriod{PeriodID: "p1", TenantID: "t1", FiscalYear: 2025, PeriodNumber: 3,
		StartDate: march(1), EndDate: march(31), Status: domain.PeriodClosed}
	suite.mockPeriodService.On("ClosePeriod", mock.Anything, "t1", 2025, 3, "controller").Return(closed, nil).Once()

	out, err := suite.run("periods", "close", "2025-03", "--tenant", "t1", "--actor", "controller")

	suite.Require().NoError(err)
	suite.Contains(out, "2025-03")
	suite.Contains(out, "CLOSED")
	suite.mockPeriodService.AssertExpectations(suite.T())
}

func (suite *CommandTestSuite) TestPeriods_RejectsMalformedPeriod() {
	for _, arg := range []string{"2025-13", "march", "2025"} {
		_, err := suite.run("periods", "open", arg, "--tenant", "t1")
		suite.ErrorIs(err, apperrors.ErrValidation, arg)
	}
	suite.mockPeriodService.AssertNotCalled(suite.T(), "OpenPeriod", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CommandTestSuite) TestPeriods_LockPassesServiceErrorsThrough() {
	stateErr := fmt.Errorf("%w: period 2025-03 is OPEN, cannot lock", apperrors.ErrInvalidState)
	suite.mockPeriodService.On("LockPeriod", mock.Anything, "t1", 2025, 3, "cli").Return(nil, stateErr).Once()

	_, err := suite.run("periods", "lock", "2025-03", "--tenant", "t1")

	suite.ErrorIs(err, apperrors.ErrInvalidState)
}

func (suite *CommandTestSuite) TestPeriods_CheckAsJSON() {
	report := &domain.PeriodCloseReport{
		TenantID: "t1", FiscalYear: 2025, PeriodNumber: 3, UnpostedCount: 2,
		TotalDebit: decimal.NewFromInt(10), TotalCredit: decimal.NewFromInt(10),
		Issues: []string{"2 journal entries are not posted"},
	}
	suite.mockPeriodService.On("ValidatePeriodClose", mock.Anything, "t1", 2025, 3).Return(report, nil).Once()

	out, err := suite.run("periods", "check", "2025-03", "--tenant", "t1", "-o", "json")

	suite.Require().NoError(err, "a blocked close is reported, not failed")
	var decoded domain.PeriodCloseReport
	suite.Require().NoError(json.Unmarshal([]byte(out), &decoded))
	suite.Equal(2, decoded.UnpostedCount)
	suite.Equal(report.Issues, decoded.Issues)
}

func (suite *CommandTestSuite) TestMigrate() {
	calls := 0
	cmd := handlers.NewMigrateCommand(func(context.Context) error {
		calls++
		return nil
	})
	cmd.SetArgs([]string{})
	suite.Require().NoError(cmd.ExecuteContext(context.Background()))
	suite.Equal(1, calls)

	failing := handlers.NewMigrateCommand(func(context.Context) error { return errors.New("dirty database version 3") })
	failing.SilenceUsage, failing.SilenceErrors = true, true
	failing.SetArgs([]string{})
	suite.ErrorContains(failing.ExecuteContext(context.Background()), "dirty database")
}

func TestCommandHandlers(t *testing.T) {
	suite.Run(t, new(CommandTestSuite))
}
