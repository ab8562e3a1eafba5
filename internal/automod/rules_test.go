package automod

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enabledConfig() *GuildConfig {
	cfg := DefaultGuildConfig()
	cfg.Enabled = true
	return cfg
}

func msg(content string) Message {
	return Message{
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		MessageID: "msg-1",
		AuthorID:  "user-1",
		AuthorTag: "user#1",
		Content:   content,
	}
}

func TestEvaluateDisabledConfigNoOps(t *testing.T) {
	cfg := DefaultGuildConfig()
	cfg.ProfanityFilter.Enabled = true
	cfg.ProfanityFilter.Blacklist = []string{"badword"}

	v := Evaluate(cfg, msg("badword"), time.Now())
	assert.Nil(t, v)
}

func TestEvaluateAdminExempt(t *testing.T) {
	cfg := enabledConfig()
	cfg.ProfanityFilter.Enabled = true
	cfg.ProfanityFilter.Blacklist = []string{"badword"}

	m := msg("badword")
	m.AuthorIsAdmin = true
	assert.Nil(t, Evaluate(cfg, m, time.Now()))
}

func TestEvaluateAntiCapsScenario(t *testing.T) {
	cfg := enabledConfig()
	cfg.AntiCaps.Enabled = true
	cfg.AntiCaps.MaxPercentage = 70
	cfg.AntiCaps.MinLength = 10

	v := Evaluate(cfg, msg("THIS IS ALL CAPS TEXT"), time.Now())
	require.NotNil(t, v)
	assert.Equal(t, ViolationCaps, v.Kind)
	assert.Equal(t, ActionWarn, v.Action)
	assert.True(t, v.ShouldDelete)
}

func TestEvaluateCapsBelowMinLengthIgnored(t *testing.T) {
	cfg := enabledConfig()
	cfg.AntiCaps.Enabled = true

	assert.Nil(t, Evaluate(cfg, msg("HI THERE"), time.Now()))
}

func TestEvaluateShortCircuitOrder(t *testing.T) {
	// A message that is all caps and contains a blacklisted word reports
	// only the caps violation; caps is evaluated first.
	cfg := enabledConfig()
	cfg.AntiCaps.Enabled = true
	cfg.ProfanityFilter.Enabled = true
	cfg.ProfanityFilter.Blacklist = []string{"badword"}

	v := Evaluate(cfg, msg("BADWORD EVERYWHERE IN CAPS"), time.Now())
	require.NotNil(t, v)
	assert.Equal(t, ViolationCaps, v.Kind)
}

func TestEvaluateSpamBeforeEverything(t *testing.T) {
	cfg := enabledConfig()
	cfg.AntiSpam.Enabled = true
	cfg.AntiSpam.MaxMessages = 1
	cfg.ProfanityFilter.Enabled = true
	cfg.ProfanityFilter.Blacklist = []string{"badword"}

	now := time.Now()
	assert.Nil(t, Evaluate(cfg, msg("hello"), now))

	v := Evaluate(cfg, msg("badword"), now)
	require.NotNil(t, v)
	assert.Equal(t, ViolationSpam, v.Kind)
	assert.Equal(t, ActionTimeout, v.Action)
}

func TestEvaluateAntiLink(t *testing.T) {
	cfg := enabledConfig()
	cfg.AntiLink.Enabled = true

	tests := []struct {
		name    string
		content string
		match   bool
	}{
		{"allowed domain", "join https://discord.gg/abc", false},
		{"disallowed domain", "visit https://example.com/page", true},
		{"mixed links", "https://discord.gg/a and http://evil.example", true},
		{"no link", "just some text", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(cfg, msg(tt.content), time.Now())
			if tt.match {
				require.NotNil(t, v)
				assert.Equal(t, ViolationLink, v.Kind)
				assert.Equal(t, ActionDelete, v.Action)
			} else {
				assert.Nil(t, v)
			}
		})
	}
}

func TestEvaluateAntiEmoji(t *testing.T) {
	cfg := enabledConfig()
	cfg.AntiEmoji.Enabled = true
	cfg.AntiEmoji.MaxEmojis = 3

	within := msg("nice 😀😀😀")
	assert.Nil(t, Evaluate(cfg, within, time.Now()))

	over := msg("😀😀😀 <:custom:123456> <a:anim:7890>")
	v := Evaluate(cfg, over, time.Now())
	require.NotNil(t, v)
	assert.Equal(t, ViolationEmoji, v.Kind)
}

func TestEvaluateProfanitySubstring(t *testing.T) {
	cfg := enabledConfig()
	cfg.ProfanityFilter.Enabled = true
	cfg.ProfanityFilter.Blacklist = []string{"badword"}

	v := Evaluate(cfg, msg("you are a BaDwOrD here"), time.Now())
	require.NotNil(t, v)
	assert.Equal(t, ViolationProfanity, v.Kind)
	assert.Equal(t, ActionDelete, v.Action)

	// Substring containment, deliberately: embedded matches flag too.
	v = Evaluate(cfg, msg("superbadwordish"), time.Now())
	require.NotNil(t, v)
}

func TestCountEmojis(t *testing.T) {
	assert.Equal(t, 0, countEmojis("plain text"))
	assert.Equal(t, 2, countEmojis("hi 😀 and 🎮"))
	assert.Equal(t, 2, countEmojis("<:pepe:1234567890> <a:dance:987654>"))
	assert.Equal(t, 4, countEmojis("😀😀 <:a:1> <a:b:2>"))
}

func TestExceedsCapsLimitBoundary(t *testing.T) {
	// Exactly at the threshold does not flag; only strictly above does.
	content := strings.Repeat("A", 7) + strings.Repeat("a", 3)
	assert.False(t, exceedsCapsLimit(content, 10, 70))
	assert.True(t, exceedsCapsLimit(strings.Repeat("A", 8)+"aa", 10, 70))
}
