package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// sensitiveHeaderPatterns contains regex patterns for headers that must be redacted
var sensitiveHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)authorization`),
	regexp.MustCompile(`(?i)api[-_]?key`),
	regexp.MustCompile(`(?i)token`),
	regexp.MustCompile(`(?i)secret`),
	regexp.MustCompile(`(?i)cookie`),
	regexp.MustCompile(`(?i)session`),
}

// maxLoggedBody caps how much of a request/response body ends up in the log
const maxLoggedBody = 4096

// responseWriter is a custom response writer to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// LoggerConfig holds configuration for the logger middleware
type LoggerConfig struct {
	Format string // "json" or "pretty"
	Level  string // "debug", "info", "warn", "error"
}

// LogEntry represents a structured request log entry
type LogEntry struct {
	Timestamp    string            `json:"timestamp"`
	Method       string            `json:"method"`
	Path         string            `json:"path"`
	StatusCode   int               `json:"status_code"`
	Latency      string            `json:"latency"`
	ClientIP     string            `json:"client_ip"`
	Headers      map[string]string `json:"headers,omitempty"`
	RequestBody  interface{}       `json:"request_body,omitempty"`
	ResponseBody interface{}       `json:"response_body,omitempty"`
}

// RequestResponseLogger creates a middleware that logs all API requests and responses
func RequestResponseLogger(config LoggerConfig) gin.HandlerFunc {
	logBodies := config.Level == "debug"

	return func(c *gin.Context) {
		startTime := time.Now()

		// Read and restore the request body so downstream handlers still see it
		var requestBody []byte
		if logBodies && c.Request.Body != nil && !isMultipart(c) {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		responseBodyWriter := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBufferString(""),
		}
		if logBodies {
			c.Writer = responseBodyWriter
		}

		c.Next()

		latency := time.Since(startTime)
		entry := LogEntry{
			Timestamp:  startTime.UTC().Format(time.RFC3339),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: c.Writer.Status(),
			Latency:    latency.String(),
			ClientIP:   c.ClientIP(),
			Headers:    redactHeaders(c),
		}
		if logBodies {
			entry.RequestBody = truncateBody(requestBody)
			entry.ResponseBody = truncateBody(responseBodyWriter.body.Bytes())
		}

		if config.Format == "pretty" {
			printPrettyLog(entry)
		} else {
			printJSONLog(entry)
		}
	}
}

// isMultipart reports whether the request carries a multipart body (file
// uploads are never buffered into the log)
func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// redactHeaders collects request headers with sensitive values masked
func redactHeaders(c *gin.Context) map[string]string {
	headers := make(map[string]string, len(c.Request.Header))
	for name, values := range c.Request.Header {
		value := strings.Join(values, ", ")
		for _, pattern := range sensitiveHeaderPatterns {
			if pattern.MatchString(name) {
				value = "[REDACTED]"
				break
			}
		}
		headers[name] = value
	}
	return headers
}

// truncateBody prepares a body for logging, parsing JSON where possible
func truncateBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	if len(body) > maxLoggedBody {
		return fmt.Sprintf("[truncated %d bytes]", len(body))
	}

	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		return parsed
	}
	return string(body)
}

// printJSONLog outputs the entry as a single JSON line
func printJSONLog(entry LogEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("%s %s %d %s", entry.Method, entry.Path, entry.StatusCode, entry.Latency)
		return
	}
	log.Println(string(data))
}

// printPrettyLog outputs the entry in a human-readable single line
func printPrettyLog(entry LogEntry) {
	log.Printf("%s %s -> %d (%s) from %s",
		entry.Method, entry.Path, entry.StatusCode, entry.Latency, entry.ClientIP)
}
