package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

var (
	ErrInviteInvalid = errors.New("invite is invalid")
	ErrInviteExpired = errors.New("invite has expired")
)

// Invite is a redeemed lobby invitation.
type Invite struct {
	MatchID   string
	InviterID string
	ExpiresAt time.Time
}

// InviteService signs and verifies lobby invite tickets (HS256).
type InviteService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewInviteService(secret, issuer string, ttl time.Duration) *InviteService {
	return &InviteService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// CreateInvite returns a ticket that lets its holder join matchID.
func (s *InviteService) CreateInvite(inviterID, matchID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("invite service is nil")
	}
	if inviterID == "" {
		return "", fmt.Errorf("inviter is required")
	}
	if matchID == "" {
		return "", fmt.Errorf("match id is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("invite config is incomplete")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": inviterID,
		"mid": matchID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"jti": uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// RedeemInvite verifies a ticket and returns the match it points to.
func (s *InviteService) RedeemInvite(ticket string) (Invite, error) {
	if s == nil || s.secret == "" {
		return Invite{}, fmt.Errorf("invite config is incomplete")
	}
	token, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return Invite{}, ErrInviteExpired
		}
		return Invite{}, fmt.Errorf("%w: %v", ErrInviteInvalid, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Invite{}, ErrInviteInvalid
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return Invite{}, fmt.Errorf("%w: wrong issuer", ErrInviteInvalid)
	}
	matchID, _ := claims["mid"].(string)
	inviter, _ := claims["sub"].(string)
	exp, _ := claims["exp"].(float64)
	if matchID == "" {
		return Invite{}, fmt.Errorf("%w: missing match id", ErrInviteInvalid)
	}
	return Invite{MatchID: matchID, InviterID: inviter, ExpiresAt: time.Unix(int64(exp), 0)}, nil
}
