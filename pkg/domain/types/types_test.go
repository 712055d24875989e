package types_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/bizmate-ai/bizmate/pkg/domain/types"
)

func TestUserID_Validate(t *testing.T) {
	gt.NoError(t, types.UserID("user-001").Validate())
	gt.Error(t, types.UserID("").Validate())
}

func TestMonthOf(t *testing.T) {
	at := time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC)
	gt.Value(t, types.MonthOf(at)).Equal(types.MonthKey("2026-08"))

	// Month boundaries are decided in UTC
	tokyo := time.FixedZone("JST", 9*3600)
	late := time.Date(2026, 9, 1, 3, 0, 0, 0, tokyo)
	gt.Value(t, types.MonthOf(late)).Equal(types.MonthKey("2026-08"))
}

func TestIntent(t *testing.T) {
	gt.Bool(t, types.IntentAffordability.IsKnown()).True()
	gt.Bool(t, types.Intent("bogus").IsKnown()).False()
	gt.Bool(t, types.Intent("").IsKnown()).False()
}

func TestRole_Sanitize(t *testing.T) {
	gt.Value(t, types.RoleAssistant.Sanitize()).Equal(types.RoleAssistant)
	gt.Value(t, types.Role("system").Sanitize()).Equal(types.RoleSystem)
	gt.Value(t, types.Role("gremlin").Sanitize()).Equal(types.RoleUser)
}
