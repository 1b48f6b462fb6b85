package domain

// PollState is the monitor's memory between polling cycles: the last
// quote table that was displayed and its content fingerprint. It is
// replaced wholesale whenever a change is detected, never merged.
type PollState struct {
	Fingerprint string
	Quotes      QuoteTable
}
