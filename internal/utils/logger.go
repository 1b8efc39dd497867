package utils

import (
	"log"
	"strings"
)

// LogEvent prints one standardized line per business event, tagged with the
// emitting module (intake, staging, pagos, ...) and the request id so a whole
// submission can be traced. Never log comprobante payloads or file contents;
// summarize in message.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}
