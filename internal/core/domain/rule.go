package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Rule defaults.
var (
	DefaultRuleConfidence = decimal.RequireFromString("0.80")
	DefaultRulePriority   = 100
	LearnedRuleConfidence = decimal.RequireFromString("0.75")
	LearnedRulePriority   = 200
	FallbackConfidence    = decimal.RequireFromString("0.60")
	learnedRuleNamePrefix = "auto: "
)

// TransactionRule maps a transaction pattern to a target account.
type TransactionRule struct {
	RuleID              string           `json:"ruleID"`
	TenantID            string           `json:"tenantID"`
	Name                string           `json:"name"`
	Direction           Direction        `json:"direction"`
	Category            *Category        `json:"category,omitempty"`
	CounterpartyPattern *string          `json:"counterpartyPattern,omitempty"`
	DescriptionPattern  *string          `json:"descriptionPattern,omitempty"`
	AmountMin           *decimal.Decimal `json:"amountMin,omitempty"`
	AmountMax           *decimal.Decimal `json:"amountMax,omitempty"`
	TargetAccountID     string           `json:"targetAccountID"`
	Confidence          decimal.Decimal  `json:"confidence"`
	Priority            int              `json:"priority"`
	UsageCount          int              `json:"usageCount"`
	SuccessCount        int              `json:"successCount"`
	IsActive            bool             `json:"isActive"`
	IsAutoGenerated     bool             `json:"isAutoGenerated"`
	AuditFields
}

// SuccessRate is success/usage, zero for a rule that never fired.
func (r TransactionRule) SuccessRate() decimal.Decimal {
	if r.UsageCount == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(r.SuccessCount)).Div(decimal.NewFromInt(int64(r.UsageCount)))
}

// Less orders rules by priority, then creation time.
func (r TransactionRule) Less(other TransactionRule) bool {
	if r.Priority != other.Priority {
		return r.Priority < other.Priority
	}
	return r.CreatedAt.Before(other.CreatedAt)
}

// LearnedRuleName names a rule synthesized from repeated corrections.
func LearnedRuleName(t Transaction) string {
	if t.Counterparty != nil && strings.TrimSpace(*t.Counterparty) != "" {
		return learnedRuleNamePrefix + strings.TrimSpace(*t.Counterparty)
	}
	return learnedRuleNamePrefix + string(t.Category)
}

// Predicate is one condition a transaction must satisfy.
type Predicate func(t Transaction) bool

// CompiledRule is a rule flattened into its ordered predicate list.
type CompiledRule struct {
	Rule       TransactionRule
	predicates []Predicate
}

// Matches is true when every predicate holds. Inactive rules never match.
func (c CompiledRule) Matches(t Transaction) bool {
	if !c.Rule.IsActive {
		return false
	}
	for _, p := range c.predicates {
		if !p(t) {
			return false
		}
	}
	return true
}

// CompileRule turns the optional pattern fields into predicates.
// An invalid regular expression degrades to a case-insensitive substring test.
func CompileRule(r TransactionRule) CompiledRule {
	preds := []Predicate{directionIs(r.Direction)}
	if r.Category != nil {
		preds = append(preds, categoryIs(*r.Category))
	}
	if r.CounterpartyPattern != nil && *r.CounterpartyPattern != "" {
		match := textMatcher(*r.CounterpartyPattern)
		preds = append(preds, func(t Transaction) bool {
			if t.Counterparty == nil {
				return true
			}
			return match(*t.Counterparty)
		})
	}
	if r.DescriptionPattern != nil && *r.DescriptionPattern != "" {
		match := textMatcher(*r.DescriptionPattern)
		preds = append(preds, func(t Transaction) bool {
			if t.Description == "" {
				return true
			}
			return match(t.Description)
		})
	}
	if r.AmountMin != nil {
		minAmount := *r.AmountMin
		preds = append(preds, func(t Transaction) bool { return t.Amount.GreaterThanOrEqual(minAmount) })
	}
	if r.AmountMax != nil {
		maxAmount := *r.AmountMax
		preds = append(preds, func(t Transaction) bool { return t.Amount.LessThanOrEqual(maxAmount) })
	}
	return CompiledRule{Rule: r, predicates: preds}
}

// ValidPattern reports whether pattern compiles as a regular expression.
func ValidPattern(pattern string) bool {
	_, err := regexp.Compile("(?i)" + pattern)
	return err == nil
}

func directionIs(d Direction) Predicate {
	return func(t Transaction) bool { return t.Direction == d }
}

func categoryIs(c Category) Predicate {
	return func(t Transaction) bool { return t.Category == c }
}

func textMatcher(pattern string) func(string) bool {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		needle := strings.ToLower(pattern)
		return func(s string) bool { return strings.Contains(strings.ToLower(s), needle) }
	}
	return re.MatchString
}

// FallbackRule is one row of the static (direction, category) -> account code table.
type FallbackRule struct {
	Direction   Direction  `yaml:"direction"`
	Categories  []Category `yaml:"categories"`
	AccountCode string     `yaml:"account_code"`
}

// Matches is true for the rule's direction and any listed category.
func (f FallbackRule) Matches(t Transaction) bool {
	if f.Direction != t.Direction {
		return false
	}
	for _, c := range f.Categories {
		if c == t.Category {
			return true
		}
	}
	return false
}

// ClassificationSuggestion is the engine's proposal for a transaction.
// RuleID is nil when the suggestion came from the fallback table.
type ClassificationSuggestion struct {
	AccountID  string
	Confidence decimal.Decimal
	RuleID     *string
}

// SimilarTransactionQuery selects past approvals used for rule learning.
type SimilarTransactionQuery struct {
	TenantID          string
	Direction         Direction
	Counterparty      *string
	Category          Category
	ApprovedAccountID string
	Since             time.Time
}
