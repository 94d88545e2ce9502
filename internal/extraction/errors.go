package extraction

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/payplan/internal/dates"
)

var (
	// ErrInputTooLarge is returned when the input exceeds Config.MaxInputChars.
	ErrInputTooLarge = errors.New("input exceeds maximum size")

	// ErrUnprocessable marks input with no letters or digits.
	ErrUnprocessable = errors.New("input is not recognizable text")

	ErrProviderNotFound    = errors.New("provider not recognized")
	ErrAmountNotFound      = errors.New("amount not found")
	ErrDueDateNotFound     = errors.New("due date not found")
	ErrInstallmentNotFound = errors.New("installment number not found")

	// ErrInvalidItem withholds an Item that breaks the Item invariants.
	ErrInvalidItem = errors.New("extracted item failed validation")

	// ErrUntrustedSender withholds an Item whose sender failed validation.
	ErrUntrustedSender = errors.New("sender domain not trusted for provider")
)

// Kind groups block failures.
type Kind string

const (
	KindInput            Kind = "input"
	KindFieldNotFound    Kind = "field_not_found"
	KindDateValidation   Kind = "date_validation"
	KindDomainValidation Kind = "domain_validation"
)

// BlockError is a failure of one block. It becomes an Issue.
type BlockError struct {
	Block int
	Kind  Kind
	Err   error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %d: %s: %v", e.Block, e.Kind, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}

func blockError(block int, err error) *BlockError {
	return &BlockError{Block: block, Kind: kindOf(err), Err: err}
}

func kindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrProviderNotFound),
		errors.Is(err, ErrAmountNotFound),
		errors.Is(err, ErrDueDateNotFound),
		errors.Is(err, ErrInstallmentNotFound):
		return KindFieldNotFound
	case errors.Is(err, dates.ErrMalformed),
		errors.Is(err, dates.ErrImpossibleDate),
		errors.Is(err, dates.ErrSuspiciousDate):
		return KindDateValidation
	case errors.Is(err, ErrUntrustedSender):
		return KindDomainValidation
	default:
		return KindInput
	}
}

// User-facing issue reasons.
const (
	ReasonProviderNotFound    = "Provider not recognized."
	ReasonAmountNotFound      = "Payment amount not found."
	ReasonDueDateNotFound     = "Due date not found."
	ReasonInstallmentNotFound = "Installment number not found."
	ReasonInvalidDate         = "Due date is invalid or outside the expected range."
	ReasonUntrustedSender     = "Sender domain could not be verified for this provider."
	ReasonUnprocessable       = "Unable to process the pasted text."
	ReasonDefault             = "Extraction failed."
)

// ReasonFor maps an error to its fixed user-facing reason. Error text never
// reaches an Issue.
func ReasonFor(err error) string {
	switch {
	case errors.Is(err, ErrProviderNotFound):
		return ReasonProviderNotFound
	case errors.Is(err, ErrAmountNotFound):
		return ReasonAmountNotFound
	case errors.Is(err, ErrDueDateNotFound):
		return ReasonDueDateNotFound
	case errors.Is(err, ErrInstallmentNotFound):
		return ReasonInstallmentNotFound
	case errors.Is(err, dates.ErrMalformed),
		errors.Is(err, dates.ErrImpossibleDate),
		errors.Is(err, dates.ErrSuspiciousDate):
		return ReasonInvalidDate
	case errors.Is(err, ErrUntrustedSender):
		return ReasonUntrustedSender
	case errors.Is(err, ErrUnprocessable):
		return ReasonUnprocessable
	default:
		return ReasonDefault
	}
}

// lowConfidenceReason names the signals an Item is missing.
func lowConfidenceReason(score float64, missing []string) string {
	return fmt.Sprintf("Low confidence (%.2f). Missing: %s.", score, joinFields(missing))
}
