package discord

import (
	"fmt"
	"strings"
)

var faceitLevelEmoji = map[int]string{
	1:  "<:faceitlvl1:1414748660872384633>",
	2:  "<:faceitlvl2:1414748674361262171>",
	3:  "<:faceitlvl3:1414748685463457812>",
	4:  "<:faceitlvl4:1414748695898886175>",
	5:  "<:faceitlvl5:1414748709303877632>",
	6:  "<:faceitlvl6:1414748729545723986>",
	7:  "<:faceitlvl7:1414748743764414525>",
	8:  "<:faceitlvl8:1414748755261132960>",
	9:  "<:faceitlvl9:1414749476941336666>",
	10: "<:faceitlvl10:1414748834889859113>",
}

func levelBadge(lvl int) string {
	if e, ok := faceitLevelEmoji[lvl]; ok {
		return e
	}
	return fmt.Sprintf("[Lv %d]", lvl)
}

var mapEmoji = map[string]string{
	"de_ancient":  "🏛️",
	"de_anubis":   "🐫",
	"de_dust2":    "🏜️",
	"de_inferno":  "🔥",
	"de_mirage":   "🌴",
	"de_nuke":     "☢️",
	"de_overpass": "🌉",
	"de_train":    "🚂",
	"de_vertigo":  "🏗️",
}

func mapBadge(mapName string) string {
	if e, ok := mapEmoji[strings.ToLower(mapName)]; ok {
		return e
	}
	return "🗺️"
}

// formattedMapName: "de_dust2" → "Dust2".
func formattedMapName(mapName string) string {
	name := strings.TrimPrefix(strings.ToLower(mapName), "de_")
	if name == "" {
		return "?"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
