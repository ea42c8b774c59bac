// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package testutils

import (
	"bufio"
	"bytes"
	"encoding/json"
	"sync"

	luxlog "github.com/luxfi/log"
)

// LogBuffer captures JSON log lines written by a logger from NewLogBuffer.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// NewLogBuffer returns a logger recording every entry at [level] or above.
func NewLogBuffer(level luxlog.Level) (luxlog.Logger, *LogBuffer) {
	b := &LogBuffer{}
	return luxlog.NewWriter(b).Level(level), b
}

// Entries decodes the captured lines. Lines that are not JSON are skipped.
func (b *LogBuffer) Entries() []map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	var entries []map[string]interface{}
	scanner := bufio.NewScanner(bytes.NewReader(b.buf.Bytes()))
	for scanner.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	return entries
}
