package extraction

import (
	"time"

	"github.com/fyrsmithlabs/payplan/internal/provider"
)

const (
	klarnaEmail = `From: Klarna <no-reply@klarna.com>
Subject: Your payment is coming up

Hi Alex, your payment 2 of 4 for Target is due soon.
Amount: $25.00
Due date: 03/15/2026
AutoPay is on. We'll charge your card automatically.
Late fee: $7.00`

	affirmEmail = `From: Affirm <notifications@affirm.com>

Your Affirm payment of $45.50 is due on March 15, 2026.
This is payment 3 of 6 for your Nike purchase.`

	afterpayEmail = `Afterpay reminder
Installment 2 of 4: $30.00 due 15 March 2026
Autopay is off. You need to pay manually.`

	paypalEmail = `PayPal Pay in 4
Payment 1 of 4 of $20.00 is scheduled for 2026-03-15.`

	sezzleWeakEmail = `Sezzle
Installment 2 of 4
Total: $12.50
Charge date 2026-03-20`

	spoofedEmail = `From: Klarna <alerts@klarna.com.evil.com>
Your payment 2 of 4 is due soon.
Amount: $25.00
Due date: 03/15/2026`
)

func fixedClock() time.Time {
	return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Now = fixedClock
	return cfg
}

func testPipeline(opts ...PipelineOption) *Pipeline {
	return NewPipeline(testConfig(), provider.NewDetector(), opts...)
}

func mustProfile(id provider.ID) *provider.Profile {
	p, ok := provider.ProfileFor(id)
	if !ok {
		panic("no profile for " + id.String())
	}
	return p
}
