// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap/zapcore"
)

const redacted = "[REDACTED]"

var sensitiveHeaders = map[string]bool{
	"Authorization":       true,
	"Proxy-Authorization": true,
	"Cookie":              true,
	"Set-Cookie":          true,
}

// RedactHeader copies h with every credential bearing value replaced.
func RedactHeader(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		if sensitiveHeaders[http.CanonicalHeaderKey(k)] {
			out[k] = []string{redacted}
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	return out
}

// redactedHeader logs a header as an object, already redacted.
type redactedHeader http.Header

func (h redactedHeader) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	safe := RedactHeader(http.Header(h))
	keys := make([]string, 0, len(safe))
	for k := range safe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		enc.AddString(k, strings.Join(safe[k], ","))
	}
	return nil
}
