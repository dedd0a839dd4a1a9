package mysql

import (
	"log/slog"

	"github.com/leapstack-labs/leapcheck/pkg/adapter"
)

func init() {
	f := func(logger *slog.Logger) adapter.Adapter { return New(logger) }
	adapter.Register("mysql", f)
	adapter.Register("mariadb", f)
}
