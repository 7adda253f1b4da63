package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces line ids for cart items. Injected so tests can use
// deterministic ids and so the generation scheme can change without touching
// call sites.
type IDGenerator interface {
	NewID(menuItemID int) string
}

// TimestampIDGenerator is the legacy scheme: "<menuItemID>-<unix millis>".
// Two adds of the same menu item within one millisecond collide; prefer
// UUIDGenerator where that matters.
type TimestampIDGenerator struct {
	Now func() time.Time
}

func (g TimestampIDGenerator) NewID(menuItemID int) string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return fmt.Sprintf("%d-%d", menuItemID, now().UnixMilli())
}

// UUIDGenerator produces collision-safe ids: "<menuItemID>-<uuid>".
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(menuItemID int) string {
	return fmt.Sprintf("%d-%s", menuItemID, uuid.NewString())
}
