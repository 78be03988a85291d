package sdk

// Version is the published SDK version.
// 0.3.0: Breaking - GroupStream flushes incomplete groups in insertion order on
// stream end instead of dropping them. Add Complete flag to EventGroup.
// 0.2.0: Add binary event encoding behind content negotiation and
// DecodeBinaryFrame. Add ActivitySnapshot/ActivityDelta handling to Runner.
// 0.1.0: Initial release: SSE framing, event decoding, backoff policy, and
// stream reconstruction.
const Version = "0.3.0"
