package discord

import (
	"fmt"
	"regexp"
	"strings"
)

// El tag de elo vive entre corchetes al final del nickname: "fulano [1520]".
var eloTagRe = regexp.MustCompile(`\s?\[.*?\]`)

func stripEloTag(nickname string) string {
	return strings.TrimSpace(eloTagRe.ReplaceAllString(nickname, ""))
}

// withEloTag arma el nickname con el tag nuevo respetando el límite de 32
// chars de Discord; si no entra, cae al username pelado.
func withEloTag(currentNick, username string, elo int) string {
	tag := fmt.Sprintf("[%d]", elo)
	base := stripEloTag(currentNick)
	if base == "" {
		base = username
	}
	nick := base + " " + tag
	if len(nick) > 32 {
		nick = username + " " + tag
	}
	if len(nick) > 32 {
		nick = tag
	}
	return nick
}
