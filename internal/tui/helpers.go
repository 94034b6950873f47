package tui

import (
	"context"
	"strings"

	"github.com/claude/liftlog/internal/models"
)

type profileGetter interface {
	GetProfile(ctx context.Context) (*models.Profile, error)
}

// helpLine renders key/description pairs for the bottom help row.
func helpLine(s *Styles, pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKey.Render(pairs[i])+" "+s.HelpDesc.Render(pairs[i+1]))
	}
	return strings.Join(parts, s.HelpDesc.Render("  ·  "))
}
