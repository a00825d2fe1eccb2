package logging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"
)

// LibraryLogFunc adapts a printf-style library logger, such as discordgo's
// package-level Logger, to logger. level maps the library's numeric levels.
// caller is the library's stack depth of the logging call site; records are
// attributed to that frame. Multi-line messages are flattened to one line.
func LibraryLogFunc(logger *slog.Logger, level func(int) slog.Level) func(msgL, caller int, format string, a ...any) {
	return func(msgL, caller int, format string, a ...any) {
		ctx := context.Background()
		lvl := level(msgL)

		if !logger.Enabled(ctx, lvl) {
			return
		}

		var pcs [1]uintptr
		runtime.Callers(caller+2, pcs[:])

		msg := strings.ReplaceAll(fmt.Sprintf(format, a...), "\n", " ")

		_ = logger.Handler().Handle(ctx, slog.NewRecord(time.Now(), lvl, msg, pcs[0]))
	}
}
