package discord

import "github.com/bwmarrin/discordgo"

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "track",
		Description: "Trackea tu cuenta de FACEIT (elo automático después de cada partida)",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "nick",
			Description: "Tu nickname en FACEIT (case sensitive)",
			Required:    true,
		}},
	},
	{
		Name:        "untrack",
		Description: "Salir del tracker de elo",
	},
	{
		Name:        "elo",
		Description: "FACEIT: nivel y elo de cualquier jugador",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "nick",
			Description: "Nickname en FACEIT",
			Required:    true,
		}},
	},
	{
		Name:        "leaderboard",
		Description: "Leaderboard de elo del clan",
	},
	{
		Name:        "resync",
		Description: "Fuerza un resync de elo de todos los trackeados (admins)",
	},
}
