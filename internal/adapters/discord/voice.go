package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
)

// FindVoiceChannel busca el canal de voz donde están los jugadores trackeados
// (match por username de Discord). Si hay categoría configurada, sólo mira
// canales de esa categoría.
func (p *Presenter) FindVoiceChannel(discordUsernames []string) (string, bool) {
	g, err := p.s.State.Guild(p.guildID)
	if err != nil || g == nil {
		g, err = p.s.Guild(p.guildID)
		if err != nil || g == nil {
			log.Printf("[discord] guild %s: %v", p.guildID, err)
			return "", false
		}
	}

	want := make(map[string]bool, len(discordUsernames))
	for _, u := range discordUsernames {
		want[u] = true
	}

	// canal → cantidad de trackeados adentro; nos quedamos con el que más tiene
	counts := map[string]int{}
	for _, vs := range g.VoiceStates {
		if vs.ChannelID == "" {
			continue
		}
		member, err := p.s.State.Member(p.guildID, vs.UserID)
		if err != nil || member == nil {
			member, err = p.s.GuildMember(p.guildID, vs.UserID)
			if err != nil || member == nil {
				continue
			}
		}
		if !want[member.User.Username] {
			continue
		}
		counts[vs.ChannelID]++
	}

	best, bestN := "", 0
	for chID, n := range counts {
		if p.voiceCategoryID != "" {
			ch, err := p.safeGetChannel(chID)
			if err != nil || ch.ParentID != p.voiceCategoryID {
				continue
			}
		}
		if n > bestN {
			best, bestN = chID, n
		}
	}
	return best, best != ""
}

// SetVoiceStatus setea el "voice channel status" vía REST crudo: discordgo
// todavía no expone este endpoint. Un solo retry ante 429.
func (p *Presenter) SetVoiceStatus(ctx context.Context, channelID, status string) error {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return err
	}
	url := fmt.Sprintf("https://discord.com/api/v10/channels/%s/voice-status", channelID)

	do := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", p.token)
		req.Header.Set("Content-Type", "application/json")
		return p.http.Do(req)
	}

	resp, err := do()
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		wait := time.Second
		if ra := resp.Header.Get("Retry-After"); ra != "" {
			if secs, err := strconv.ParseFloat(ra, 64); err == nil {
				wait = time.Duration(secs * float64(time.Second))
			}
		}
		resp.Body.Close()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		resp, err = do()
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("voice-status %s: HTTP %d", channelID, resp.StatusCode)
	}
	return nil
}
