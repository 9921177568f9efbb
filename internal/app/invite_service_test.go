package app

import (
	"errors"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestInviteRoundTrip(t *testing.T) {
	svc := NewInviteService("test-secret", "goatan", time.Hour)
	ticket, err := svc.CreateInvite("user-1", "match-1")
	if err != nil {
		t.Fatalf("create invite: %v", err)
	}

	invite, err := svc.RedeemInvite(ticket)
	if err != nil {
		t.Fatalf("redeem invite: %v", err)
	}
	if invite.MatchID != "match-1" || invite.InviterID != "user-1" {
		t.Fatalf("invite = %+v", invite)
	}
	if !invite.ExpiresAt.After(time.Now()) {
		t.Fatalf("invite already expired at %v", invite.ExpiresAt)
	}
}

func TestInviteRejected(t *testing.T) {
	svc := NewInviteService("test-secret", "goatan", time.Hour)

	expired := NewInviteService("test-secret", "goatan", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredTicket, err := expired.CreateInvite("user-1", "match-1")
	if err != nil {
		t.Fatalf("create expired invite: %v", err)
	}

	forged, err := NewInviteService("other-secret", "goatan", time.Hour).CreateInvite("user-1", "match-1")
	if err != nil {
		t.Fatalf("create forged invite: %v", err)
	}

	foreign, err := NewInviteService("test-secret", "someone-else", time.Hour).CreateInvite("user-1", "match-1")
	if err != nil {
		t.Fatalf("create foreign invite: %v", err)
	}

	noMatch, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "goatan",
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	tests := []struct {
		name   string
		ticket string
		want   error
	}{
		{name: "expired", ticket: expiredTicket, want: ErrInviteExpired},
		{name: "wrong secret", ticket: forged, want: ErrInviteInvalid},
		{name: "wrong issuer", ticket: foreign, want: ErrInviteInvalid},
		{name: "missing match", ticket: noMatch, want: ErrInviteInvalid},
		{name: "garbage", ticket: "not-a-token", want: ErrInviteInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.RedeemInvite(tt.ticket); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateInviteRequiresConfig(t *testing.T) {
	tests := []struct {
		name    string
		svc     *InviteService
		inviter string
		match   string
	}{
		{name: "nil service", svc: nil, inviter: "u", match: "m"},
		{name: "no secret", svc: NewInviteService("", "goatan", time.Hour), inviter: "u", match: "m"},
		{name: "no inviter", svc: NewInviteService("s", "goatan", time.Hour), inviter: "", match: "m"},
		{name: "no match", svc: NewInviteService("s", "goatan", time.Hour), inviter: "u", match: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.CreateInvite(tt.inviter, tt.match); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
