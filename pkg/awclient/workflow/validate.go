package workflow

import (
	"fmt"
	"strings"
)

// Validation rules checked before any network call is issued.
const (
	RuleRemarkRequired     = "remark-required"
	RuleAttachmentRequired = "attachment-required"
	RuleEmptySelection     = "empty-selection"
)

// ValidationError identifies the rule that failed and, for bulk scope, how
// many items are non-compliant.
type ValidationError struct {
	Rule          string
	FailedCount   int
	ValidationMsg string
}

func (e *ValidationError) Error() string {
	return e.ValidationMsg
}

// validateForDisposition runs the mode-specific precondition rules across
// every targeted item. If any one item fails, the whole action is refused
// before a single request goes out.
func (c *Coordinator) validateForDisposition(keys []string, kind Kind) *ValidationError {
	if len(keys) == 0 {
		return &ValidationError{
			Rule:          RuleEmptySelection,
			ValidationMsg: "No items selected",
		}
	}

	if kind == KindReject {
		failed := 0
		for _, key := range keys {
			item, ok := c.items[key]
			if !ok || strings.TrimSpace(item.Remark) == "" {
				failed++
			}
		}

		if failed != 0 {
			return &ValidationError{
				Rule:          RuleRemarkRequired,
				FailedCount:   failed,
				ValidationMsg: fmt.Sprintf("A remark is required to reject (%d item(s) missing one)", failed),
			}
		}
	}

	if kind == KindApprove && c.mode == ModeAcceptance {
		failed := 0
		for _, key := range keys {
			item, ok := c.items[key]
			if !ok || len(item.Attachments) == 0 {
				failed++
			}
		}

		if failed != 0 {
			return &ValidationError{
				Rule:          RuleAttachmentRequired,
				FailedCount:   failed,
				ValidationMsg: fmt.Sprintf("An attachment is required to accept (%d item(s) missing one)", failed),
			}
		}
	}

	return nil
}
