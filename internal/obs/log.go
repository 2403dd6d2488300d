package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the process-wide JSON-line logger. Output goes to stdout
// with no prefix or flags; each call site emits one complete JSON object.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// LogRequest writes one access-log line for a handled HTTP request. The
// entry map carries method/path/status/duration and the request id; the
// service tag is added here so every line is attributable.
func LogRequest(entry map[string]any) {
	if entry == nil {
		entry = make(map[string]any, 1)
	}
	entry["service"] = "hrsys-api"
	emit(entry)
}

// LogError writes a structured error line outside the request path (startup,
// shutdown, background work).
func LogError(msg string, err error) {
	entry := map[string]any{
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"level":   "error",
		"service": "hrsys-api",
		"msg":     msg,
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	emit(entry)
}

func emit(entry map[string]any) {
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"level":"error","msg":"log marshal failed"}`)
		return
	}
	Logger().Println(string(data))
}
