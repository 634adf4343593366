// Package timeouts defines shared timing constants used across the storefront.
// Centralizing these values keeps the client's pacing rules discoverable.
package timeouts

import "time"

// RemoteRequest caps the time allowed for a single backend request.
const RemoteRequest = 10 * time.Second

// SearchDebounce is the quiet period before typed search text is applied.
const SearchDebounce = 300 * time.Millisecond

// OTPResendCooldown is the minimum gap between one-time passcode re-issues.
const OTPResendCooldown = 30 * time.Second

// Shutdown limits how long telemetry and storage get to flush on exit.
const Shutdown = 5 * time.Second
