// Package extraction turns pasted BNPL provider email text into installment
// Items.
//
// A Pipeline splits the paste into per-email blocks and runs each block
// through provider detection, field extraction, sender validation and
// confidence scoring. Blocks that fail become Issues carrying a redacted
// snippet and a fixed user-facing reason; other blocks are unaffected.
//
//	p := extraction.NewPipeline(extraction.DefaultConfig(), provider.NewDetector())
//	res, err := p.Extract(text, "America/New_York", extraction.Options{DateLocale: dates.LocaleUS})
//
// Amounts are integer cents. Extraction is synchronous and keeps no state
// between calls; memoization lives in package cache.
package extraction
