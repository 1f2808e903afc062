package discord

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripEloTag(t *testing.T) {
	assert.Equal(t, "wasabi", stripEloTag("wasabi [1520]"))
	assert.Equal(t, "wasabi", stripEloTag("wasabi"))
	assert.Equal(t, "wasabi", stripEloTag("wasabi [viejo tag]"))
}

func TestWithEloTag(t *testing.T) {
	// nickname nuevo sobre nick existente: reemplaza el tag viejo
	assert.Equal(t, "wasabi [1540]", withEloTag("wasabi [1520]", "wasabi#d", 1540))

	// sin nick previo usa el que está, y sin nada cae al username
	assert.Equal(t, "apodo [1520]", withEloTag("apodo", "user", 1520))
	assert.Equal(t, "user [1520]", withEloTag("", "user", 1520))
}

func TestWithEloTagRespetaLimite(t *testing.T) {
	longNick := strings.Repeat("x", 30)
	got := withEloTag(longNick, "corto", 1520)
	assert.LessOrEqual(t, len(got), 32)
	assert.Equal(t, "corto [1520]", got)

	longUser := strings.Repeat("y", 30)
	got = withEloTag(longNick, longUser, 1520)
	assert.LessOrEqual(t, len(got), 32)
	assert.Equal(t, "[1520]", got)
}

func TestFormattedMapName(t *testing.T) {
	assert.Equal(t, "Dust2", formattedMapName("de_dust2"))
	assert.Equal(t, "Mirage", formattedMapName("DE_MIRAGE"))
	assert.Equal(t, "?", formattedMapName(""))
}

func TestLevelBadgeFallback(t *testing.T) {
	assert.Equal(t, "[Lv 99]", levelBadge(99))
	assert.Contains(t, levelBadge(10), "faceitlvl10")
}
