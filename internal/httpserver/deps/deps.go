package deps

import (
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/dispatch"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/platforms"
	redisstore "github.com/MrSnakeDoc/linkbot/internal/store/redis"
)

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	AllowedCIDRS []string               // IPs allowed to reach the event and status endpoints
	TrustProxy   bool                   // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Dispatcher   *dispatch.Dispatcher   // link preview dispatcher shared by webhook and websocket
	ReplyCache   *redisstore.ReplyCache // nil when the reply cache is disabled
	YouTubeKey   platforms.KeySource    // reported by /infra, never exposed
	MaxEventSize int64                  // max bytes of one inbound event (0 = 1 MiB)
}

// EventLimit returns the inbound event size limit.
func (d Deps) EventLimit() int64 {
	if d.MaxEventSize <= 0 {
		return 1 << 20
	}
	return d.MaxEventSize
}
