package youtube

import "strings"

const (
	SiteBase     = "https://www.youtube.com/"
	VideoBase    = SiteBase + "watch?v="
	ChannelBase  = SiteBase + "channel/"
	PlaylistBase = SiteBase + "playlist?list="
)

// Kind is a searchable resource type.
type Kind int

const (
	KindVideo Kind = iota
	KindChannel
	KindPlaylist
)

var kindNames = map[Kind]string{
	KindVideo:    "video",
	KindChannel:  "channel",
	KindPlaylist: "playlist",
}

var kindBases = map[Kind]string{
	KindVideo:    VideoBase,
	KindChannel:  ChannelBase,
	KindPlaylist: PlaylistBase,
}

// String is the value the search endpoint expects in its type parameter.
func (k Kind) String() string {
	return kindNames[k]
}

// Link builds the public URL of the resource with the given id.
func (k Kind) Link(id string) string {
	return kindBases[k] + id
}

func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Endpoint is a list route of the Data API, relative to the base URL.
type Endpoint string

const (
	EndpointSearch        Endpoint = "search"
	EndpointChannels      Endpoint = "channels"
	EndpointPlaylists     Endpoint = "playlists"
	EndpointPlaylistItems Endpoint = "playlistItems"
)

// ResourceID is the id object of a search result.
type ResourceID struct {
	Kind       string `json:"kind"`
	VideoID    string `json:"videoId,omitempty"`
	ChannelID  string `json:"channelId,omitempty"`
	PlaylistID string `json:"playlistId,omitempty"`
}

// For returns the id matching k, empty when the result is of another kind.
func (r ResourceID) For(k Kind) string {
	switch k {
	case KindVideo:
		return r.VideoID
	case KindChannel:
		return r.ChannelID
	case KindPlaylist:
		return r.PlaylistID
	}
	return ""
}

type SearchResult struct {
	ID ResourceID `json:"id"`
}

type PlaylistItem struct {
	ID             string `json:"id"`
	ContentDetails struct {
		VideoID string `json:"videoId"`
	} `json:"contentDetails"`
}
