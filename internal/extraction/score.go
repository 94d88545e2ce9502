package extraction

// Signal weights. They sum to 1.
const (
	WeightProvider    = 0.35
	WeightDate        = 0.25
	WeightAmount      = 0.20
	WeightInstallment = 0.15
	WeightAutopay     = 0.05
)

// Signals records which fields a block confirmed.
type Signals struct {
	Provider    bool
	Date        bool
	Amount      bool
	Installment bool
	Autopay     bool
}

// Score returns the weighted sum of present signals.
func Score(s Signals) float64 {
	return WeightProvider*b2f(s.Provider) +
		WeightDate*b2f(s.Date) +
		WeightAmount*b2f(s.Amount) +
		WeightInstallment*b2f(s.Installment) +
		WeightAutopay*b2f(s.Autopay)
}

// Missing lists absent signals in weight order.
func (s Signals) Missing() []string {
	var out []string
	if !s.Provider {
		out = append(out, "provider")
	}
	if !s.Date {
		out = append(out, "due date")
	}
	if !s.Amount {
		out = append(out, "amount")
	}
	if !s.Installment {
		out = append(out, "installment number")
	}
	if !s.Autopay {
		out = append(out, "autopay")
	}
	return out
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
