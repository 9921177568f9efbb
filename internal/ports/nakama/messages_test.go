package nakama

import (
	"errors"
	"fmt"
	"testing"

	"goatan/internal/app"
	"goatan/internal/domain"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "InvalidAction", err: fmt.Errorf("%w: nope", domain.ErrInvalidAction), want: errCodeBadRequest},
		{name: "InvalidState", err: fmt.Errorf("%w: over", domain.ErrInvalidState), want: errCodeInvalidState},
		{name: "Invariant", err: fmt.Errorf("%w: broken", app.ErrInvariant), want: errCodeInternal},
		{name: "Other", err: errors.New("other"), want: errCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorCode(tt.err); got != tt.want {
				t.Fatalf("errorCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestEveryEventHasOpCode(t *testing.T) {
	kinds := []app.EventKind{
		app.EventGameState, app.EventPlayerInfo, app.EventPlayerUpdate, app.EventGameStarted,
		app.EventNewTurn, app.EventDiceRolled, app.EventGameEnded,
	}
	seen := make(map[int64]app.EventKind)
	for _, kind := range kinds {
		op, ok := eventOpCodes[kind]
		if !ok {
			t.Fatalf("event %s has no op code", kind)
		}
		if prev, dup := seen[op]; dup {
			t.Fatalf("events %s and %s share op code %d", prev, kind, op)
		}
		seen[op] = kind
	}
}
