package busy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Miiduoa/tired-sub002/adapter/cli"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/application/queries"
	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Cmd is the busy command group
var Cmd = &cobra.Command{
	Use:   "busy",
	Short: "Manage busy time",
	Long: `Add, list and remove busy time such as classes or meetings.
Auto-planning subtracts busy time from each day's capacity.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(removeCmd)
}

// lookupRange bounds the search for a block by id prefix.
const lookupRange = 365 * 24 * time.Hour

func resolveBlockID(ctx context.Context, app *cli.App, ref string) (uuid.UUID, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}

	now := time.Now()
	blocks, err := app.ListBusyBlocksHandler.Handle(ctx, queries.ListBusyBlocksQuery{
		UserID: app.CurrentUserID,
		From:   now.Add(-lookupRange),
		To:     now.Add(lookupRange),
	})
	if err != nil {
		return uuid.Nil, err
	}

	var matches []uuid.UUID
	for _, b := range blocks {
		if ref != "" && strings.HasPrefix(b.ID.String(), ref) {
			matches = append(matches, b.ID)
		}
	}
	switch len(matches) {
	case 0:
		return uuid.Nil, fmt.Errorf("%w: %q", domain.ErrBusyBlockNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return uuid.Nil, fmt.Errorf("busy block id %q is ambiguous", ref)
	}
}
