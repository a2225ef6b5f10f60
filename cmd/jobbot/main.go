package main

import (
	"log/slog"
	"os"

	"jobbot/internal/jobbot"
)

func main() {
	if err := jobbot.Run(); err != nil {
		slog.Error("job bot stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
