package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func (p *Presenter) findMember(ctx context.Context, discordUsername string) (*discordgo.Member, error) {
	members, err := p.s.GuildMembersSearch(p.guildID, discordUsername, 5, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("buscar miembro %q: %w", discordUsername, err)
	}
	for _, m := range members {
		if m.User != nil && m.User.Username == discordUsername {
			return m, nil
		}
	}
	return nil, fmt.Errorf("miembro %q no encontrado en el guild", discordUsername)
}

// SetMemberEloTag pone/actualiza el tag "[1520]" en el nickname del miembro.
func (p *Presenter) SetMemberEloTag(ctx context.Context, discordUsername string, elo int) error {
	m, err := p.findMember(ctx, discordUsername)
	if err != nil {
		return err
	}
	nick := withEloTag(m.Nick, m.User.Username, elo)
	if nick == m.Nick {
		return nil
	}
	if err := p.s.GuildMemberNickname(p.guildID, m.User.ID, nick, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("nickname de %s: %w", discordUsername, err)
	}
	return nil
}

// SetMemberLevelRole deja al miembro con exactamente un rol "Level N",
// el del nivel actual. Los roles tienen que existir en el guild.
func (p *Presenter) SetMemberLevelRole(ctx context.Context, discordUsername string, level int) error {
	m, err := p.findMember(ctx, discordUsername)
	if err != nil {
		return err
	}

	roles, err := p.s.GuildRoles(p.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("roles del guild: %w", err)
	}

	target := fmt.Sprintf("Level %d", level)
	var targetID string
	levelRoles := map[string]bool{} // role_id → es un rol "Level N"
	for _, r := range roles {
		if !strings.HasPrefix(r.Name, "Level ") {
			continue
		}
		levelRoles[r.ID] = true
		if r.Name == target {
			targetID = r.ID
		}
	}
	if targetID == "" {
		return fmt.Errorf("rol %q no existe en el guild", target)
	}

	hasTarget := false
	for _, rid := range m.Roles {
		if rid == targetID {
			hasTarget = true
			continue
		}
		if levelRoles[rid] {
			if err := p.s.GuildMemberRoleRemove(p.guildID, m.User.ID, rid, discordgo.WithContext(ctx)); err != nil {
				return fmt.Errorf("sacar rol de nivel: %w", err)
			}
		}
	}
	if !hasTarget {
		if err := p.s.GuildMemberRoleAdd(p.guildID, m.User.ID, targetID, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("asignar rol %q: %w", target, err)
		}
	}
	return nil
}
