package at

const (
	// Terminal Control
	CRLF = "\r\n"

	// Response Codes
	OK    = "OK"
	ERROR = "ERROR"
)

// Wrap frames a response body for the wire. Every reply the device emits,
// the OK/ERROR sentinels included, uses the same convention: the
// two-character terminator on both sides of the body.
func Wrap(body string) string {
	return CRLF + body + CRLF
}
