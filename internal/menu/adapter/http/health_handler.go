package http

import (
	"strings"
	"time"

	"menu-portal/internal/menu/domain/model"

	"github.com/gofiber/fiber/v2"
)

const urlPrefixLength = 20

type healthResponse struct {
	Status      string            `json:"status"`
	Timestamp   string            `json:"timestamp"`
	Environment healthEnvironment `json:"environment"`
}

type healthEnvironment struct {
	Environment     string  `json:"environment"`
	URLConfigured   bool    `json:"urlConfigured"`
	URLPrefix       *string `json:"urlPrefix"`
	TokenConfigured bool    `json:"tokenConfigured"`
	TokenLength     int     `json:"tokenLength"`
	IsConfigured    bool    `json:"isConfigured"`
}

// Health reports whether the store credentials are visible to the process.
// Only a prefix of the URL, with any userinfo removed, and the token length are exposed.
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	creds := h.Diagnostics.Credentials()

	env := healthEnvironment{
		Environment:     h.Environment,
		URLConfigured:   creds.URL != "",
		TokenConfigured: creds.Token != "",
		TokenLength:     len(creds.Token),
		IsConfigured:    h.Diagnostics.IsConfigured(),
	}
	if creds.URL != "" {
		prefix := truncate(stripUserinfo(creds.URL), urlPrefixLength) + "..."
		env.URLPrefix = &prefix
	}

	return c.JSON(healthResponse{
		Status:      "ok",
		Timestamp:   model.FormatCreatedAt(time.Now()),
		Environment: env,
	})
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// stripUserinfo drops everything between the scheme and the last '@' so a password
// embedded in the URL never reaches the prefix
func stripUserinfo(raw string) string {
	start := 0
	if i := strings.Index(raw, "://"); i != -1 {
		start = i + len("://")
	}
	if at := strings.LastIndex(raw, "@"); at >= start {
		return raw[:start] + raw[at+1:]
	}
	return raw
}
