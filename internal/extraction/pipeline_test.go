package extraction

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/payplan/internal/dates"
	"github.com/fyrsmithlabs/payplan/internal/provider"
)

func TestPipeline_Empty(t *testing.T) {
	p := testPipeline()

	res, err := p.Extract("", "America/New_York", Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Empty(t, res.Issues)
	assert.Zero(t, res.DuplicatesRemoved)
	assert.Equal(t, dates.LocaleUS, res.DateLocale)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"issues":[],"duplicatesRemoved":0,"dateLocale":"US"}`, string(b))
}

func TestPipeline_InputCeiling(t *testing.T) {
	p := testPipeline()

	_, err := p.Extract(strings.Repeat("a", DefaultMaxInputChars+1), "UTC", Options{})
	assert.ErrorIs(t, err, ErrInputTooLarge)

	// The ceiling counts characters, not bytes.
	res, err := p.Extract(strings.Repeat("é", DefaultMaxInputChars), "UTC", Options{})
	require.NoError(t, err)
	assert.Len(t, res.Issues, 1)
}

func TestPipeline_InvalidTimezone(t *testing.T) {
	_, err := testPipeline().Extract(klarnaEmail, "Mars/Olympus", Options{})
	assert.ErrorIs(t, err, dates.ErrInvalidTimezone)
}

func TestPipeline_WhitespaceOnly(t *testing.T) {
	res, failures, err := testPipeline().ExtractReport("   \n\t ", "UTC", Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, ReasonUnprocessable, res.Issues[0].Reason)
	require.Len(t, failures, 1)
	assert.Equal(t, KindInput, failures[0].Kind)
	assert.NoError(t, res.Validate())
}

func TestPipeline_Garbage(t *testing.T) {
	res, err := testPipeline().Extract("!!! ??? *** ---", "UTC", Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, ReasonUnprocessable, res.Issues[0].Reason)
}

func TestPipeline_Klarna(t *testing.T) {
	res, err := testPipeline().Extract(klarnaEmail, "America/New_York", Options{DateLocale: dates.LocaleUS})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Empty(t, res.Issues)

	it := res.Items[0]
	assert.Equal(t, provider.Klarna, it.Provider)
	assert.Equal(t, 2, it.InstallmentNo)
	assert.Equal(t, "2026-03-15", it.DueDate)
	assert.Equal(t, "03/15/2026", it.RawDueDate)
	assert.Equal(t, int64(2500), it.Amount)
	assert.Equal(t, "USD", it.Currency)
	assert.True(t, it.Autopay)
	assert.Equal(t, int64(700), it.LateFee)
	assert.InDelta(t, 1.0, it.Confidence, 1e-9)
	assert.NotEmpty(t, it.ID)
}

func TestPipeline_Providers(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		provider provider.ID
		n        int
		due      string
		cents    int64
		autopay  bool
	}{
		{"affirm", affirmEmail, provider.Affirm, 3, "2026-03-15", 4550, false},
		{"afterpay", afterpayEmail, provider.Afterpay, 2, "2026-03-15", 3000, false},
		{"paypal", paypalEmail, provider.PayPal, 1, "2026-03-15", 2000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := testPipeline().Extract(tt.text, "UTC", Options{})
			require.NoError(t, err)
			require.Len(t, res.Items, 1, "%+v", res.Issues)

			it := res.Items[0]
			assert.Equal(t, tt.provider, it.Provider)
			assert.Equal(t, tt.n, it.InstallmentNo)
			assert.Equal(t, tt.due, it.DueDate)
			assert.Equal(t, tt.cents, it.Amount)
			assert.Equal(t, tt.autopay, it.Autopay)
			assert.GreaterOrEqual(t, it.Confidence, DefaultLowConfidenceThreshold)
		})
	}
}

func TestPipeline_LowConfidenceCompanionIssue(t *testing.T) {
	res, err := testPipeline().Extract(sezzleWeakEmail, "UTC", Options{})
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, provider.Sezzle, res.Items[0].Provider)
	assert.InDelta(t, 0.5, res.Items[0].Confidence, 1e-9)

	require.Len(t, res.Issues, 1)
	assert.Equal(t, "Low confidence (0.50). Missing: due date, amount, autopay.", res.Issues[0].Reason)
}

func TestPipeline_UntrustedSenderWithholdsItem(t *testing.T) {
	res, fails, err := testPipeline().ExtractReport(spoofedEmail, "UTC", Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, ReasonUntrustedSender, res.Issues[0].Reason)

	require.Len(t, fails, 1)
	assert.Equal(t, KindDomainValidation, fails[0].Kind)
	assert.ErrorIs(t, fails[0], ErrUntrustedSender)
}

func TestPipeline_BlockIssues(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		reason string
		kind   Kind
	}{
		{"no provider", "Your payment 2 of 4 of $10.00 is due 03/15/2026", ReasonProviderNotFound, KindFieldNotFound},
		{"no amount", "Klarna payment 2 of 4 due 03/15/2026", ReasonAmountNotFound, KindFieldNotFound},
		{"no date", "Klarna payment 2 of 4. Amount: $10.00", ReasonDueDateNotFound, KindFieldNotFound},
		{"no installment", "Klarna\nAmount: $10.00\nDue date: 03/15/2026", ReasonInstallmentNotFound, KindFieldNotFound},
		{"impossible date", "Klarna payment 2 of 4\nAmount: $10.00\nDue date: 02/30/2026", ReasonInvalidDate, KindDateValidation},
		{"far future date", "Klarna payment 2 of 4\nAmount: $10.00\nDue date: 2031-01-01", ReasonInvalidDate, KindDateValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, fails, err := testPipeline().ExtractReport(tt.text, "UTC", Options{})
			require.NoError(t, err)
			assert.Empty(t, res.Items)
			require.Len(t, res.Issues, 1)
			assert.Equal(t, tt.reason, res.Issues[0].Reason)
			require.Len(t, fails, 1)
			assert.Equal(t, tt.kind, fails[0].Kind)
		})
	}
}

func TestPipeline_DedupAcrossBlocks(t *testing.T) {
	text := klarnaEmail + "\n\n" + klarnaEmail

	res, err := testPipeline().Extract(text, "UTC", Options{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.DuplicatesRemoved)
}

func TestPipeline_MixedBlocksContinue(t *testing.T) {
	text := klarnaEmail + "\n" + spoofedEmail + "\n" + affirmEmail

	res, err := testPipeline().Extract(text, "UTC", Options{})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, provider.Klarna, res.Items[0].Provider)
	assert.Equal(t, provider.Affirm, res.Items[1].Provider)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, ReasonUntrustedSender, res.Issues[0].Reason)
}

func TestPipeline_OversizedAmountBecomesIssue(t *testing.T) {
	p := testPipeline()

	for _, amount := range []string{"$92233720368547758.08", "$99999999999999999999.00", "$25.005"} {
		t.Run(amount, func(t *testing.T) {
			text := "From: Klarna <no-reply@klarna.com>\n" +
				"Your payment 2 of 4 is due soon.\n" +
				"Amount: " + amount + "\n" +
				"Due date: 03/15/2026"

			res, err := p.Extract(text, "UTC", Options{})
			require.NoError(t, err)
			assert.Empty(t, res.Items)
			require.Len(t, res.Issues, 1)
			assert.Equal(t, ReasonAmountNotFound, res.Issues[0].Reason)
			assert.NoError(t, res.Validate())
		})
	}
}

func TestPipeline_Locale(t *testing.T) {
	text := "Klarna payment 2 of 4\nAmount: $10.00\nDue date: 03/04/2026"

	us, err := testPipeline().Extract(text, "UTC", Options{DateLocale: dates.LocaleUS})
	require.NoError(t, err)
	eu, err := testPipeline().Extract(text, "UTC", Options{DateLocale: dates.LocaleEU})
	require.NoError(t, err)

	require.Len(t, us.Items, 1)
	require.Len(t, eu.Items, 1)
	assert.Equal(t, "2026-03-04", us.Items[0].DueDate)
	assert.Equal(t, "2026-04-03", eu.Items[0].DueDate)
	assert.Equal(t, dates.LocaleEU, eu.DateLocale)
	assert.NotEqual(t, us.Items[0].ID, eu.Items[0].ID)
}

func TestPipeline_Deterministic(t *testing.T) {
	p := testPipeline()

	a, err := p.Extract(klarnaEmail, "UTC", Options{})
	require.NoError(t, err)
	b, err := p.Extract(klarnaEmail, "UTC", Options{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPipeline_HTML(t *testing.T) {
	html := `<html><body><p>Klarna</p><p>Your payment 2 of 4</p>` +
		`<p>Amount: &#36;25.00</p><p>Due date: 03/15/2026</p></body></html>`

	res, err := testPipeline().Extract(html, "UTC", Options{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(2500), res.Items[0].Amount)
}

func TestPipeline_SnippetsAreRedacted(t *testing.T) {
	text := "Hello, reach me at jane.doe@example.com or 555-123-4567. Card 4111 1111 1111 1111.\n" +
		strings.Repeat("filler text ", 20)

	res, err := testPipeline().Extract(text, "UTC", Options{})
	require.NoError(t, err)
	require.Len(t, res.Issues, 1)

	snippet := res.Issues[0].Snippet
	assert.NotContains(t, snippet, "jane.doe@example.com")
	assert.NotContains(t, snippet, "4111 1111 1111 1111")
	assert.Contains(t, snippet, "[REDACTED]")
	assert.True(t, strings.HasSuffix(snippet, "... [redacted]"))
}

func TestDedupe_KeepsHighestConfidence(t *testing.T) {
	low := Item{Provider: provider.Klarna, InstallmentNo: 2, DueDate: "2026-03-15", Confidence: 0.5, Amount: 1}
	high := low
	high.Confidence = 0.9
	high.Amount = 2
	other := Item{Provider: provider.Affirm, InstallmentNo: 1, DueDate: "2026-03-15", Confidence: 0.7}

	out, removed := Dedupe([]Item{low, other, high})
	assert.Equal(t, 1, removed)
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].Amount)
	assert.Equal(t, provider.Affirm, out[1].Provider)
}

func TestItem_WithDueDate(t *testing.T) {
	res, err := testPipeline().Extract("Klarna payment 2 of 4\nAmount: $10.00\nDue date: 03/04/2026", "UTC", Options{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	orig := res.Items[0]

	fixed, err := dates.Parse(orig.RawDueDate, "UTC", dates.Options{Locale: dates.LocaleEU, Now: fixedClock})
	require.NoError(t, err)
	updated := orig.WithDueDate(fixed)

	assert.Equal(t, "2026-03-04", orig.DueDate)
	assert.Equal(t, "2026-04-03", updated.DueDate)
	assert.NotEqual(t, orig.ID, updated.ID)
	assert.Equal(t, orig.Amount, updated.Amount)
}
