package nakama

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// MatchLabel is what match listings filter on.
type MatchLabel struct {
	Open    int
	State   string
	Players int
}

func (l MatchLabel) Marshal() (string, error) {
	s, err := structpb.NewStruct(map[string]interface{}{
		"game":    matchLabelGame,
		"open":    l.Open,
		"state":   l.State,
		"players": l.Players,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build label: %w", err)
	}
	b, err := (&protojson.MarshalOptions{EmitUnpopulated: true}).Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal label: %w", err)
	}
	return string(b), nil
}
