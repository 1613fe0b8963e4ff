package eventlog

import (
	"fmt"
	"os"
	"sync"
)

// FileSink appends entries to a plain text file in the legacy format:
//
//	[2006-01-02 15:04:05] message | Contexto Extra: context
type FileSink struct {
	mu sync.Mutex
}

func Format(e Entry) string {
	line := fmt.Sprintf("[%s] %s", e.Time.Format("2006-01-02 15:04:05"), e.Message)
	if e.Context != "" {
		line += " | Contexto Extra: " + e.Context
	}
	return line + "\n"
}

func (s *FileSink) Append(path string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(Format(e))
	return err
}
