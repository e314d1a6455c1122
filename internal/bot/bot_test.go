package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func reactionFrom(userID string, member *discordgo.Member) *discordgo.MessageReactionAdd {
	return &discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{
			UserID:  userID,
			GuildID: "g1",
		},
		Member: member,
	}
}

func TestReactorIsBot(t *testing.T) {
	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.User = &discordgo.User{ID: "self", Bot: true}

	if err := s.State.GuildAdd(&discordgo.Guild{ID: "g1"}); err != nil {
		t.Fatalf("GuildAdd: %v", err)
	}
	if err := s.State.MemberAdd(&discordgo.Member{
		GuildID: "g1",
		User:    &discordgo.User{ID: "cached-bot", Bot: true},
	}); err != nil {
		t.Fatalf("MemberAdd: %v", err)
	}
	if err := s.State.MemberAdd(&discordgo.Member{
		GuildID: "g1",
		User:    &discordgo.User{ID: "cached-human"},
	}); err != nil {
		t.Fatalf("MemberAdd: %v", err)
	}

	cases := []struct {
		name string
		r    *discordgo.MessageReactionAdd
		want bool
	}{
		{
			"member payload, bot",
			reactionFrom("x", &discordgo.Member{User: &discordgo.User{ID: "x", Bot: true}}),
			true,
		},
		{
			"member payload, human",
			reactionFrom("x", &discordgo.Member{User: &discordgo.User{ID: "x"}}),
			false,
		},
		// Событие без Member: свой ID узнаётся без запросов
		{"no member, self", reactionFrom("self", nil), true},
		// Событие без Member: автор берётся из кеша discordgo
		{"no member, cached bot", reactionFrom("cached-bot", nil), true},
		{"no member, cached human", reactionFrom("cached-human", nil), false},
	}
	for _, c := range cases {
		if got := reactorIsBot(s, c.r); got != c.want {
			t.Errorf("%s: reactorIsBot = %v, want %v", c.name, got, c.want)
		}
	}
}
