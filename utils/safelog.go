// utils/safelog.go
// ============================================================================
// SAFE LOGGING - masks borrower data in production
// ============================================================================
// Logging helpers that automatically mask personal and financial information
// (borrower documents, credit numbers, amounts) when running in production.
// ============================================================================

package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

var (
	// IsProduction switches masking on. In production, sensitive data is
	// never written to the log stream.
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"

	// LogLevel filters log output (DEBUG, INFO, WARN, ERROR)
	LogLevel = getLogLevel()
)

const (
	LogLevelDebug = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func getLogLevel() int {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// ============================================================================
// MASKING PATTERNS
// ============================================================================

var (
	// Borrower/employer documents (CPF 11 digits, CNPJ 14 digits, with or
	// without punctuation)
	documentRegex = regexp.MustCompile(`\b\d{2,3}\.?\d{3}\.?\d{3}[\/.-]?\d{0,4}-?\d{2}\b`)

	// Email addresses
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Amounts with an explicit currency marker
	amountWithCurrencyRegex = regexp.MustCompile(`(R\$|BRL|\$)\s*\d+([.,]\d{1,3})*([.,]\d{1,2})?`)

	// Full UUIDs (session and loan IDs)
	uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// ============================================================================
// MASKING HELPERS
// ============================================================================

// MaskString masks sensitive data inside an arbitrary message.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := input
	result = emailRegex.ReplaceAllString(result, "***@***.***")
	result = documentRegex.ReplaceAllString(result, "***.***.***-**")
	result = amountWithCurrencyRegex.ReplaceAllString(result, "R$ ***")

	// Shorten UUIDs instead of hiding them entirely, they are still needed
	// to correlate log lines
	result = uuidRegex.ReplaceAllStringFunc(result, func(id string) string {
		return id[:8] + "..."
	})

	return result
}

// MaskDocument masks a borrower or employer document number.
func MaskDocument(document string) string {
	if !IsProduction {
		return document
	}
	return "***.***.***-**"
}

// MaskCreditNumber keeps the last 4 characters of a credit number.
func MaskCreditNumber(creditNumber string) string {
	if !IsProduction {
		return creditNumber
	}
	if len(creditNumber) <= 4 {
		return "****"
	}
	return "****" + creditNumber[len(creditNumber)-4:]
}

// MaskID partially masks an ID (keeps the first 8 characters).
func MaskID(id string) string {
	if !IsProduction {
		return id
	}
	if len(id) <= 8 {
		return "***"
	}
	return id[:8] + "..."
}

// ============================================================================
// LEVEL-GATED LOGGING
// ============================================================================

// Debugf logs a debug message (only when LOG_LEVEL=DEBUG).
func Debugf(format string, args ...interface{}) {
	if LogLevel > LogLevelDebug {
		return
	}
	log.Printf("[DEBUG] %s", MaskString(fmt.Sprintf(format, args...)))
}

// Infof logs an informational message.
func Infof(format string, args ...interface{}) {
	if LogLevel > LogLevelInfo {
		return
	}
	log.Print(MaskString(fmt.Sprintf(format, args...)))
}

// Warnf logs a warning.
func Warnf(format string, args ...interface{}) {
	if LogLevel > LogLevelWarn {
		return
	}
	log.Printf("[WARN] %s", MaskString(fmt.Sprintf(format, args...)))
}

// Errorf logs an error message. Errors are never filtered out.
func Errorf(format string, args ...interface{}) {
	log.Printf("[ERROR] %s", MaskString(fmt.Sprintf(format, args...)))
}

// LogBatchAction logs a batch-session action without exposing borrower data.
func LogBatchAction(action, sessionID string, rowCount int) {
	log.Printf("[Batch] %s - Session: %s Rows: %d", action, MaskID(sessionID), rowCount)
}
