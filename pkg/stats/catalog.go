package stats

// Shown when no emoji appears in any friendly name.
const emojiPlaceholder = "🤷"

// Marker used for most_redundant_name when every cleaned name is unique.
const noRedundantName = "N/A"

// emojiRanges covers the common emoji blocks (BMP symbols plus the
// supplementary-plane emoji blocks).
var emojiRanges = [][2]rune{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // misc symbols and pictographs
	{0x1F680, 0x1F6FF}, // transport and map
	{0x1F700, 0x1F77F}, // alchemical
	{0x1F780, 0x1F7FF}, // geometric shapes extended
	{0x1F800, 0x1F8FF}, // supplemental arrows-C
	{0x1F900, 0x1F9FF}, // supplemental symbols and pictographs
	{0x1FA00, 0x1FA6F}, // chess symbols
	{0x1FA70, 0x1FAFF}, // symbols and pictographs extended-A
	{0x2600, 0x26FF},   // misc symbols
	{0x2700, 0x27BF},   // dingbats
}

func isEmoji(r rune) bool {
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

// pokemonNames is the reference word list for the "named after Pokémon"
// detection (lower-case, original 151).
var pokemonNames = []string{
	"bulbasaur", "ivysaur", "venusaur", "charmander", "charmeleon", "charizard",
	"squirtle", "wartortle", "blastoise", "caterpie", "metapod", "butterfree",
	"weedle", "kakuna", "beedrill", "pidgey", "pidgeotto", "pidgeot", "rattata",
	"raticate", "spearow", "fearow", "ekans", "arbok", "pikachu", "raichu",
	"sandshrew", "sandslash", "nidoran", "nidorina", "nidoqueen", "nidorino",
	"nidoking", "clefairy", "clefable", "vulpix", "ninetales", "jigglypuff",
	"wigglytuff", "zubat", "golbat", "oddish", "gloom", "vileplume", "paras",
	"parasect", "venonat", "venomoth", "diglett", "dugtrio", "meowth", "persian",
	"psyduck", "golduck", "mankey", "primeape", "growlithe", "arcanine",
	"poliwag", "poliwhirl", "poliwrath", "abra", "kadabra", "alakazam", "machop",
	"machoke", "machamp", "bellsprout", "weepinbell", "victreebel", "tentacool",
	"tentacruel", "geodude", "graveler", "golem", "ponyta", "rapidash",
	"slowpoke", "slowbro", "magnemite", "magneton", "farfetchd", "doduo",
	"dodrio", "seel", "dewgong", "grimer", "muk", "shellder", "cloyster",
	"gastly", "haunter", "gengar", "onix", "drowzee", "hypno", "krabby",
	"kingler", "voltorb", "electrode", "exeggcute", "exeggutor", "cubone",
	"marowak", "hitmonlee", "hitmonchan", "lickitung", "koffing", "weezing",
	"rhyhorn", "rhydon", "chansey", "tangela", "kangaskhan", "horsea", "seadra",
	"goldeen", "seaking", "staryu", "starmie", "mrmime", "scyther", "jynx",
	"electabuzz", "magmar", "pinsir", "tauros", "magikarp", "gyarados",
	"lapras", "ditto", "eevee", "vaporeon", "jolteon", "flareon", "porygon",
	"omanyte", "omastar", "kabuto", "kabutops", "aerodactyl", "snorlax",
	"articuno", "zapdos", "moltres", "dratini", "dragonair", "dragonite",
	"mewtwo", "mew",
}

// deviceQuotes rotates once per calendar day (day-of-year mod length).
var deviceQuotes = []string{
	"I'm not lazy, I'm in power-saving mode. 🔋",
	"404: Motivation not found. 🤖",
	"I've seen things you people wouldn't believe. Lights turned on at 3am. 💡",
	"My only job is to exist and consume electricity. ⚡",
	"Have you tried turning me off and on again? 🔄",
	"I am inevitable. — Some smart plug, probably. 🔌",
	"Life is short. Buy more smart devices. 🛒",
	"Currently pretending to be useful. Please wait... ⏳",
	"I'm a sensor. My feelings are valid. 🌡️",
	"Work smarter, not harder. That's why I'm automated. 🤖",
	"I am the night. (Between 22:00 and 06:00.) 🌙",
	"Every day I'm shuffling data. 📊",
	"Stay connected. Stay powered. Stay weird. 🏠",
	"Home is where the Wi-Fi connects automatically. 📶",
	"I beep, therefore I am. 📡",
}

// houseMascots rotates on the same day-of-year schedule, independently
// of the quote list.
var houseMascots = []string{
	"🦙 Lenny the Llama",
	"🐉 Ziggy the Dragon",
	"🦊 Finn the Fox",
	"🐙 Otto the Octopus",
	"🦉 Ollie the Owl",
	"🐸 Freddie the Frog",
	"🦄 Uma the Unicorn",
	"🐻 Bruno the Bear",
	"🦝 Rocky the Raccoon",
	"🐧 Pete the Penguin",
	"🦩 Rosie the Flamingo",
	"🐊 Chester the Crocodile",
	"🦋 Benny the Butterfly",
	"🐺 Wally the Wolf",
	"🦘 Kenny the Kangaroo",
}
