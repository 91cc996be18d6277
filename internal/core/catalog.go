package core

const (
	// RecentlyAddedID and RecentlyPlayedID are virtual playlists backed by
	// the history tracker, not the library store.
	RecentlyAddedID  = "recently-added"
	RecentlyPlayedID = "recently-played"

	// AllSongsID is the distinguished remote playlist whose contents also
	// seed favorites on fetch.
	AllSongsID = "x4kba2"

	// FavoritesSourceID identifies the favorites collection as a playback
	// source.
	FavoritesSourceID = "favorites"
)

// CatalogEntry describes one entry of the fixed playlist catalog.
type CatalogEntry struct {
	ID   string
	Name string
	Icon string
}

// Catalog is the static, process-wide playlist catalog. It is configuration,
// not derived data; the two reserved history ids are included so the view
// layer can list them alongside regular playlists.
var Catalog = []CatalogEntry{
	{ID: "vabbcz", Name: "80s-00s", Icon: "📻"},
	{ID: AllSongsID, Name: "All Songs", Icon: "🎵"},
	{ID: "kc0h8x", Name: "Arab Music", Icon: "🎼"},
	{ID: "vnp2x1", Name: "Bachata", Icon: "💃"},
	{ID: "guo8k4", Name: "Billboard Hot 100 2014", Icon: "🔥"},
	{ID: "p0ecak", Name: "Brazilian Funk", Icon: "🇧🇷"},
	{ID: "067mny", Name: "Chill", Icon: "😌"},
	{ID: "xuz8k9", Name: "Christian Songs", Icon: "🙏"},
	{ID: "4v7mxe", Name: "Country", Icon: "🤠"},
	{ID: "fme1nd", Name: "Cuban", Icon: "🇨🇺"},
	{ID: "4ag1m7", Name: "Indian", Icon: "🇮🇳"},
	{ID: "5szswp", Name: "Kompa Gouyad", Icon: "🎺"},
	{ID: "po2r7q", Name: "Kpop", Icon: "🇰🇷"},
	{ID: "38webr", Name: "Rauw", Icon: "⭐"},
	{ID: "q5owec", Name: "Records for Record Player", Icon: "💿"},
	{ID: RecentlyAddedID, Name: "Recently Added", Icon: "🆕"},
	{ID: RecentlyPlayedID, Name: "Recently Played", Icon: "🕒"},
	{ID: "reh6j6", Name: "Reggae", Icon: "🌴"},
	{ID: "wk2jm9", Name: "Reggaeton", Icon: "🔊"},
	{ID: "9nwhdp", Name: "Rock", Icon: "🎸"},
	{ID: "nfec1o", Name: "Russian", Icon: "🇷🇺"},
	{ID: "4m9ney", Name: "Top 100 of 2012 & 2013", Icon: "📊"},
	{ID: "xro7mp", Name: "Top 100 of 2015 & 2016", Icon: "📈"},
	{ID: "kwxd0x", Name: "Top 100 of 2017 & 2018", Icon: "📉"},
	{ID: "6cg39n", Name: "Top 100 of 2019 & 2020", Icon: "📋"},
	{ID: "5rqvbp", Name: "Top 100 of 2021 & 2022", Icon: "🎤"},
	{ID: "3dajkr", Name: "UK Drill", Icon: "🇬🇧"},
}

// IsHistoryID reports whether id names one of the reserved virtual playlists.
func IsHistoryID(id string) bool {
	return id == RecentlyAddedID || id == RecentlyPlayedID
}

// CatalogEntryByID looks up a catalog entry. The second return value is false
// when the id is not part of the catalog.
func CatalogEntryByID(id string) (CatalogEntry, bool) {
	for _, e := range Catalog {
		if e.ID == id {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// RegularPlaylists returns the catalog without the reserved history entries.
func RegularPlaylists() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(Catalog))
	for _, e := range Catalog {
		if IsHistoryID(e.ID) {
			continue
		}
		out = append(out, e)
	}
	return out
}
