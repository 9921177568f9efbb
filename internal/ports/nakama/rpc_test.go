package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"goatan/internal/app"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// fakeNakama overrides the match listing calls the quick match RPC uses.
type fakeNakama struct {
	runtime.NakamaModule
	matches   []*api.Match
	listErr   error
	created   []string
	lastQuery string
}

func (f *fakeNakama) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	f.lastQuery = query
	return f.matches, f.listErr
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.created = append(f.created, module)
	return "new-match", nil
}

func userCtx(userID string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
}

func TestRpcQuickMatch(t *testing.T) {
	t.Run("JoinsExistingLobby", func(t *testing.T) {
		nk := &fakeNakama{matches: []*api.Match{{MatchId: "lobby-1"}}}
		raw, err := rpcQuickMatch(userCtx("user-1"), noopLogger{}, nil, nk, "")
		if err != nil {
			t.Fatalf("rpcQuickMatch error: %v", err)
		}
		var resp QuickMatchResponse
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.MatchID != "lobby-1" || resp.IsNew {
			t.Fatalf("unexpected response %+v", resp)
		}
		if nk.lastQuery != quickMatchQuery {
			t.Fatalf("expected query %q, got %q", quickMatchQuery, nk.lastQuery)
		}
		if len(nk.created) != 0 {
			t.Fatal("expected no match to be created")
		}
	})

	t.Run("CreatesMatchWhenNoneOpen", func(t *testing.T) {
		nk := &fakeNakama{}
		raw, err := rpcQuickMatch(userCtx("user-1"), noopLogger{}, nil, nk, "")
		if err != nil {
			t.Fatalf("rpcQuickMatch error: %v", err)
		}
		var resp QuickMatchResponse
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if resp.MatchID != "new-match" || !resp.IsNew {
			t.Fatalf("unexpected response %+v", resp)
		}
		if len(nk.created) != 1 || nk.created[0] != MatchNameGoatan {
			t.Fatalf("expected %s to be created, got %v", MatchNameGoatan, nk.created)
		}
	})

	t.Run("ListError", func(t *testing.T) {
		nk := &fakeNakama{listErr: errors.New("boom")}
		if _, err := rpcQuickMatch(userCtx("user-1"), noopLogger{}, nil, nk, ""); err == nil {
			t.Fatal("expected list error to propagate")
		}
	})
}

func TestRpcInviteRoundTrip(t *testing.T) {
	t.Cleanup(func() { inviteService = nil })
	inviteService = app.NewInviteService("test-secret", "goatan", time.Hour)

	raw, err := rpcCreateInvite(userCtx("user-1"), noopLogger{}, nil, nil, `{"match_id":"match-7"}`)
	if err != nil {
		t.Fatalf("rpcCreateInvite error: %v", err)
	}
	var created CreateInviteResponse
	if err := json.Unmarshal([]byte(raw), &created); err != nil {
		t.Fatalf("failed to unmarshal create response: %v", err)
	}

	payload, _ := json.Marshal(RedeemInviteRequest{Token: created.Token})
	raw, err = rpcRedeemInvite(userCtx("user-2"), noopLogger{}, nil, nil, string(payload))
	if err != nil {
		t.Fatalf("rpcRedeemInvite error: %v", err)
	}
	var redeemed RedeemInviteResponse
	if err := json.Unmarshal([]byte(raw), &redeemed); err != nil {
		t.Fatalf("failed to unmarshal redeem response: %v", err)
	}
	if redeemed.MatchID != "match-7" || redeemed.InviterID != "user-1" {
		t.Fatalf("unexpected redeem response %+v", redeemed)
	}
}

func TestRpcInviteErrors(t *testing.T) {
	t.Cleanup(func() { inviteService = nil })

	tests := []struct {
		name    string
		service *app.InviteService
		call    func() (string, error)
	}{
		{
			name:    "CreateDisabled",
			service: nil,
			call: func() (string, error) {
				return rpcCreateInvite(userCtx("user-1"), noopLogger{}, nil, nil, `{"match_id":"m"}`)
			},
		},
		{
			name:    "CreateUnauthenticated",
			service: app.NewInviteService("s", "goatan", time.Hour),
			call: func() (string, error) {
				return rpcCreateInvite(context.Background(), noopLogger{}, nil, nil, `{"match_id":"m"}`)
			},
		},
		{
			name:    "CreateMissingMatch",
			service: app.NewInviteService("s", "goatan", time.Hour),
			call: func() (string, error) {
				return rpcCreateInvite(userCtx("user-1"), noopLogger{}, nil, nil, `{}`)
			},
		},
		{
			name:    "RedeemGarbage",
			service: app.NewInviteService("s", "goatan", time.Hour),
			call: func() (string, error) {
				return rpcRedeemInvite(userCtx("user-1"), noopLogger{}, nil, nil, `{"token":"not-a-jwt"}`)
			},
		},
		{
			name:    "RedeemBadPayload",
			service: app.NewInviteService("s", "goatan", time.Hour),
			call: func() (string, error) {
				return rpcRedeemInvite(userCtx("user-1"), noopLogger{}, nil, nil, `nope`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inviteService = tt.service
			if _, err := tt.call(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
